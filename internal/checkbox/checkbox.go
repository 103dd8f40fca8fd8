// Package checkbox implements tri-state checkboxes over a flattened tree.
//
// Only fully checked ids are stored. Indeterminate is derived when a node is
// rendered: an unchecked branch with some checked descendant.
package checkbox

import (
	"fmt"
	"strings"

	"treekit/internal/tree"
)

// State is the displayed checkbox value of a node.
type State int

const (
	Unchecked State = iota
	Checked
	Indeterminate
)

func (s State) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// Mode selects how a change to one node affects its relatives.
type Mode int

const (
	// Cascading propagates to the subtree and recomputes ancestors.
	Cascading Mode = iota
	// Strict treats every node independently.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "cascading"
}

// ParseMode accepts "cascading" or "strict" (case-insensitive). Empty input
// is Cascading.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cascading", "cascade":
		return Cascading, nil
	case "strict":
		return Strict, nil
	default:
		return Cascading, fmt.Errorf("unknown checkbox mode %q", s)
	}
}

// Toggle flips id and its whole subtree to the opposite of id's current
// state, then recomputes id's ancestors.
func Toggle(id string, nodes []tree.FlatNode, checked tree.Set, idx *tree.Index) tree.Set {
	return SetChecked(id, !checked.Has(id), nodes, checked, idx)
}

// SetChecked forces id's subtree to value and recomputes id's ancestors.
func SetChecked(id string, value bool, nodes []tree.FlatNode, checked tree.Set, idx *tree.Index) tree.Set {
	out := checked.Clone()
	node, ok := lookup(id, idx)
	if !ok {
		return out
	}
	fillRange(node, nodes, out, value)
	recomputeAncestors(node.ParentID, nodes, out, idx)
	return out
}

// CheckNodes checks the subtree of every id, then recomputes each distinct
// ancestor chain once.
func CheckNodes(ids []string, nodes []tree.FlatNode, checked tree.Set, idx *tree.Index) tree.Set {
	return setMany(ids, true, nodes, checked, idx)
}

// UncheckNodes is CheckNodes in reverse.
func UncheckNodes(ids []string, nodes []tree.FlatNode, checked tree.Set, idx *tree.Index) tree.Set {
	return setMany(ids, false, nodes, checked, idx)
}

func setMany(ids []string, value bool, nodes []tree.FlatNode, checked tree.Set, idx *tree.Index) tree.Set {
	out := checked.Clone()
	touched := make([]*tree.FlatNode, 0, len(ids))
	for _, id := range ids {
		node, ok := lookup(id, idx)
		if !ok {
			continue
		}
		fillRange(node, nodes, out, value)
		touched = append(touched, node)
	}

	// Reverse flat order visits descendants before their ancestors.
	done := tree.NewSet()
	for _, node := range touched {
		for _, parentID := range tree.AncestorIDs(node.ID, idx) {
			if done.Has(parentID) {
				break
			}
			done.Add(parentID)
		}
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		if done.Has(nodes[i].ID) {
			updateOne(&nodes[i], nodes, out)
		}
	}
	return out
}

// Normalize recomputes every branch of checked from its children, leaving
// leaves as they are. Use it after the tree under a checked set changed.
func Normalize(nodes []tree.FlatNode, checked tree.Set, idx *tree.Index) tree.Set {
	out := checked.Clone()
	for i := len(nodes) - 1; i >= 0; i-- {
		node := &nodes[i]
		if !node.HasChildren {
			continue
		}
		all := true
		for _, child := range idx.ChildrenMap[node.ID] {
			if !out.Has(child) {
				all = false
				break
			}
		}
		if all {
			out.Add(node.ID)
		} else {
			out.Remove(node.ID)
		}
	}
	return out
}

// CheckAll returns every id.
func CheckAll(nodes []tree.FlatNode) tree.Set {
	out := make(tree.Set, len(nodes))
	for i := range nodes {
		out.Add(nodes[i].ID)
	}
	return out
}

// UncheckAll returns the empty set.
func UncheckAll() tree.Set {
	return tree.NewSet()
}

// StateOf reports node's displayed state in cascading mode.
func StateOf(node *tree.FlatNode, nodes []tree.FlatNode, checked tree.Set) State {
	if node == nil {
		return Unchecked
	}
	if checked.Has(node.ID) {
		return Checked
	}
	if !node.HasChildren {
		return Unchecked
	}
	for i := node.Index + 1; i <= node.SubtreeEnd && i < len(nodes); i++ {
		if checked.Has(nodes[i].ID) {
			return Indeterminate
		}
	}
	return Unchecked
}

// CheckedLeafIDs returns the checked leaves in flat order.
func CheckedLeafIDs(nodes []tree.FlatNode, checked tree.Set) []string {
	var out []string
	for i := range nodes {
		if !nodes[i].HasChildren && checked.Has(nodes[i].ID) {
			out = append(out, nodes[i].ID)
		}
	}
	return out
}

func lookup(id string, idx *tree.Index) (*tree.FlatNode, bool) {
	if idx == nil {
		return nil, false
	}
	n, ok := idx.NodeMap[id]
	return n, ok
}

func fillRange(node *tree.FlatNode, nodes []tree.FlatNode, set tree.Set, value bool) {
	for i := node.Index; i <= node.SubtreeEnd; i++ {
		if value {
			set.Add(nodes[i].ID)
		} else {
			set.Remove(nodes[i].ID)
		}
	}
}

// recomputeAncestors walks up from parentID and marks each ancestor checked
// exactly when all of its descendants are checked.
func recomputeAncestors(parentID string, nodes []tree.FlatNode, set tree.Set, idx *tree.Index) {
	for parentID != "" {
		parent, ok := idx.NodeMap[parentID]
		if !ok {
			return
		}
		updateOne(parent, nodes, set)
		parentID = parent.ParentID
	}
}

func updateOne(node *tree.FlatNode, nodes []tree.FlatNode, set tree.Set) {
	if descendantsChecked(node, nodes, set) {
		set.Add(node.ID)
	} else {
		set.Remove(node.ID)
	}
}

func descendantsChecked(node *tree.FlatNode, nodes []tree.FlatNode, set tree.Set) bool {
	for i := node.Index + 1; i <= node.SubtreeEnd; i++ {
		if !set.Has(nodes[i].ID) {
			return false
		}
	}
	return true
}
