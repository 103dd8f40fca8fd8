package checkbox

import "treekit/internal/tree"

// Engine dispatches checkbox operations on Mode. The zero value cascades.
type Engine struct {
	Mode Mode
}

// Toggle flips id.
func (e Engine) Toggle(id string, nodes []tree.FlatNode, checked tree.Set, idx *tree.Index) tree.Set {
	if e.Mode == Strict {
		return e.Set(id, !checked.Has(id), nodes, checked, idx)
	}
	return Toggle(id, nodes, checked, idx)
}

// Set forces id to value. In strict mode only id itself changes.
func (e Engine) Set(id string, value bool, nodes []tree.FlatNode, checked tree.Set, idx *tree.Index) tree.Set {
	if e.Mode != Strict {
		return SetChecked(id, value, nodes, checked, idx)
	}
	out := checked.Clone()
	if _, ok := lookup(id, idx); !ok {
		return out
	}
	if value {
		out.Add(id)
	} else {
		out.Remove(id)
	}
	return out
}

// State reports node's displayed state. Strict mode never reports
// Indeterminate.
func (e Engine) State(node *tree.FlatNode, nodes []tree.FlatNode, checked tree.Set) State {
	if e.Mode == Strict {
		if node != nil && checked.Has(node.ID) {
			return Checked
		}
		return Unchecked
	}
	return StateOf(node, nodes, checked)
}
