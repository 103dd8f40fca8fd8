package view

import "treekit/internal/tree"

// Every function here returns a new set and leaves its inputs untouched.

// ToggleExpand adds id if absent and removes it if present.
func ToggleExpand(id string, expanded tree.Set) tree.Set {
	out := expanded.Clone()
	if out.Has(id) {
		out.Remove(id)
	} else {
		out.Add(id)
	}
	return out
}

// ExpandToNode adds every ancestor of id. id itself is not added.
func ExpandToNode(id string, expanded tree.Set, idx *tree.Index) tree.Set {
	out := expanded.Clone()
	for _, a := range tree.AncestorIDs(id, idx) {
		out.Add(a)
	}
	return out
}

// ExpandToDepth returns the branches above depth: ExpandToDepth(nodes, 1)
// expands only roots.
func ExpandToDepth(nodes []tree.FlatNode, depth int) tree.Set {
	out := tree.NewSet()
	for i := range nodes {
		if nodes[i].HasChildren && nodes[i].Depth < depth {
			out.Add(nodes[i].ID)
		}
	}
	return out
}

// ExpandAll returns every branch id.
func ExpandAll(nodes []tree.FlatNode) tree.Set {
	out := tree.NewSet()
	for i := range nodes {
		if nodes[i].HasChildren {
			out.Add(nodes[i].ID)
		}
	}
	return out
}

// CollapseAll returns the empty set.
func CollapseAll() tree.Set {
	return tree.NewSet()
}

// ExpandMultiple returns expanded ∪ ids.
func ExpandMultiple(ids []string, expanded tree.Set) tree.Set {
	out := expanded.Clone()
	for _, id := range ids {
		out.Add(id)
	}
	return out
}

// ToggleSubtree expands or collapses every branch in id's subtree, id
// included.
func ToggleSubtree(id string, expand bool, nodes []tree.FlatNode, expanded tree.Set, idx *tree.Index) tree.Set {
	out := expanded.Clone()
	node, ok := idx.NodeMap[id]
	if !ok {
		return out
	}
	for i := node.Index; i <= node.SubtreeEnd; i++ {
		if !nodes[i].HasChildren {
			continue
		}
		if expand {
			out.Add(nodes[i].ID)
		} else {
			out.Remove(nodes[i].ID)
		}
	}
	return out
}

// CollapseSiblings removes id's direct siblings from the set. id's own state
// and the flags inside the siblings' subtrees are left alone. Root nodes treat
// the other roots as siblings.
func CollapseSiblings(id string, nodes []tree.FlatNode, expanded tree.Set, idx *tree.Index) tree.Set {
	out := expanded.Clone()
	node, ok := idx.NodeMap[id]
	if !ok {
		return out
	}
	if node.IsRoot() {
		for _, rootID := range idx.RootIDs {
			if rootID != id {
				out.Remove(rootID)
			}
		}
		return out
	}
	parent, ok := idx.NodeMap[node.ParentID]
	if !ok {
		return out
	}
	// Direct children of parent are found by hopping subtree to subtree.
	for i := parent.Index + 1; i <= parent.SubtreeEnd; i = nodes[i].SubtreeEnd + 1 {
		if nodes[i].ID != id {
			out.Remove(nodes[i].ID)
		}
	}
	return out
}

// ExpandForAccordion collapses id's siblings and then expands id.
func ExpandForAccordion(id string, nodes []tree.FlatNode, expanded tree.Set, idx *tree.Index) tree.Set {
	if _, ok := idx.NodeMap[id]; !ok {
		return expanded.Clone()
	}
	out := CollapseSiblings(id, nodes, expanded, idx)
	out.Add(id)
	return out
}
