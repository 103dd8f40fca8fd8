package tree

// AncestorIDs walks the parent chain of id, nearest ancestor first. Unknown
// ids have no ancestors.
func AncestorIDs(id string, idx *Index) []string {
	if idx == nil {
		return nil
	}
	node, ok := idx.NodeMap[id]
	if !ok {
		return nil
	}
	var ancestors []string
	for parentID := node.ParentID; parentID != ""; {
		ancestors = append(ancestors, parentID)
		parent, ok := idx.NodeMap[parentID]
		if !ok {
			break
		}
		parentID = parent.ParentID
	}
	return ancestors
}

// AncestorSet is AncestorIDs as a set.
func AncestorSet(id string, idx *Index) Set {
	return NewSet(AncestorIDs(id, idx)...)
}

// SubtreeIDs returns id and all its descendants in pre-order, read straight
// off the [Index, SubtreeEnd] range. Unknown ids yield nil.
func SubtreeIDs(id string, nodes []FlatNode, idx *Index) []string {
	if idx == nil {
		return nil
	}
	node, ok := idx.NodeMap[id]
	if !ok {
		return nil
	}
	ids := make([]string, 0, node.Size())
	for i := node.Index; i <= node.SubtreeEnd && i < len(nodes); i++ {
		ids = append(ids, nodes[i].ID)
	}
	return ids
}

// IsAncestor reports whether ancestorID is a strict ancestor of id, in O(1).
func IsAncestor(ancestorID, id string, idx *Index) bool {
	if idx == nil || ancestorID == id {
		return false
	}
	a, ok := idx.NodeMap[ancestorID]
	if !ok {
		return false
	}
	n, ok := idx.NodeMap[id]
	if !ok {
		return false
	}
	return a.Contains(n)
}
