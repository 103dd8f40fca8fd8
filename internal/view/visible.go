// Package view computes the visible rows of a flattened tree and the pure
// set transforms that drive expand/collapse.
package view

import "treekit/internal/tree"

// ComputeVisible walks nodes in order and jumps over the subtree of every
// collapsed branch, so the cost tracks the number of rows shown.
func ComputeVisible(nodes []tree.FlatNode, expanded tree.Set) []*tree.FlatNode {
	visible := make([]*tree.FlatNode, 0, min(len(nodes), 64))
	for i := 0; i < len(nodes); {
		node := &nodes[i]
		visible = append(visible, node)
		if node.HasChildren && !expanded.Has(node.ID) {
			i = node.SubtreeEnd + 1
			continue
		}
		i++
	}
	return visible
}

// ComputeFilteredVisible is ComputeVisible restricted to filter. A node
// outside filter hides its whole subtree, so filter must already hold the
// ancestors of every match. An empty filter means no filtering.
func ComputeFilteredVisible(nodes []tree.FlatNode, expanded, filter tree.Set) []*tree.FlatNode {
	if len(filter) == 0 {
		return ComputeVisible(nodes, expanded)
	}
	visible := make([]*tree.FlatNode, 0, min(len(filter), len(nodes)))
	for i := 0; i < len(nodes); {
		node := &nodes[i]
		if !filter.Has(node.ID) {
			i = node.SubtreeEnd + 1
			continue
		}
		visible = append(visible, node)
		if node.HasChildren && !expanded.Has(node.ID) {
			i = node.SubtreeEnd + 1
			continue
		}
		i++
	}
	return visible
}

// IDs returns the ids of rows, in order.
func IDs(rows []*tree.FlatNode) []string {
	out := make([]string, len(rows))
	for i, n := range rows {
		out[i] = n.ID
	}
	return out
}

// PositionMap maps each row id to its position in rows.
func PositionMap(rows []*tree.FlatNode) map[string]int {
	out := make(map[string]int, len(rows))
	for i, n := range rows {
		out[n.ID] = i
	}
	return out
}
