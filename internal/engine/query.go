package engine

import (
	"strings"

	"treekit/internal/checkbox"
	"treekit/internal/tree"
)

// Tree returns the current tree. Callers must not modify it.
func (e *Engine) Tree() *tree.Tree {
	return e.tree
}

// Visible returns the rows to display, in order. The slice is shared; it is
// replaced, not modified, on the next change.
func (e *Engine) Visible() []*tree.FlatNode {
	return e.visible
}

func (e *Engine) VisibleCount() int { return len(e.visible) }
func (e *Engine) TotalCount() int   { return e.tree.Len() }
func (e *Engine) CheckedCount() int { return e.checked.Len() }
func (e *Engine) MatchCount() int   { return e.matches.Len() }

// Expanded returns a copy of the expanded set.
func (e *Engine) Expanded() tree.Set { return e.expanded.Clone() }

// Checked returns a copy of the checked set.
func (e *Engine) Checked() tree.Set { return e.checked.Clone() }

// Matches returns a copy of the ids matched by the active filter.
func (e *Engine) Matches() tree.Set { return e.matches.Clone() }

// Filter returns a copy of the matches plus their ancestors.
func (e *Engine) Filter() tree.Set { return e.filter.Clone() }

// Node looks up id.
func (e *Engine) Node(id string) (*tree.FlatNode, bool) {
	return e.tree.Node(id)
}

// Row describes how one visible row is drawn.
type Row struct {
	// Label is the node name, or the names of a folded chain joined by "/".
	Label string
	// Depth is the indent level. Folded branches do not count.
	Depth int
	// Match is set when any node of the row matched the active filter.
	Match bool
	// Chain lists the folded ids, outermost first. It is nil for plain rows.
	Chain []string
}

// Row returns the drawing data for the visible row n.
func (e *Engine) Row(n *tree.FlatNode) Row {
	depth := n.Depth
	if i, ok := e.visiblePos[n.ID]; ok && i < len(e.depths) && e.visible[i] == n {
		depth = e.depths[i]
	}
	chain, ok := e.chains[n.ID]
	if !ok {
		return Row{Label: label(n), Depth: depth, Match: e.matches.Has(n.ID)}
	}
	r := Row{Depth: depth, Chain: append([]string(nil), chain...)}
	names := make([]string, 0, len(chain))
	for _, id := range chain {
		m, ok := e.tree.Node(id)
		if !ok {
			continue
		}
		names = append(names, label(m))
		r.Match = r.Match || e.matches.Has(id)
	}
	r.Label = strings.Join(names, "/")
	return r
}

func label(n *tree.FlatNode) string {
	if n.Name == "" {
		return n.ID
	}
	return n.Name
}

// NodeAtVisible returns the row at visible position i.
func (e *Engine) NodeAtVisible(i int) (*tree.FlatNode, bool) {
	if i < 0 || i >= len(e.visible) {
		return nil, false
	}
	return e.visible[i], true
}

// VisibleIndex returns the row position of id, or -1.
func (e *Engine) VisibleIndex(id string) int {
	if i, ok := e.visiblePos[id]; ok {
		return i
	}
	return -1
}

// IsExpanded reports whether id is in the expanded set.
func (e *Engine) IsExpanded(id string) bool {
	return e.expanded.Has(id)
}

// IsMatch reports whether id matched the active filter.
func (e *Engine) IsMatch(id string) bool {
	return e.matches.Has(id)
}

// Selected returns the selected id.
func (e *Engine) Selected() (string, bool) {
	return e.selected, e.selected != ""
}

func (e *Engine) checker() checkbox.Engine {
	if e.opts.CheckStrictly {
		return checkbox.Engine{Mode: checkbox.Strict}
	}
	return checkbox.Engine{Mode: checkbox.Cascading}
}

// CheckState returns id's checkbox value under the current mode. Unknown ids
// are Unchecked.
func (e *Engine) CheckState(id string) checkbox.State {
	node, ok := e.tree.Node(id)
	if !ok {
		return checkbox.Unchecked
	}
	return e.checker().State(node, e.tree.Nodes, e.checked)
}

// Status reports how id should be drawn. ok is false for unknown ids.
// Indeterminate is only reported for checkable trees.
func (e *Engine) Status(id string) (Status, bool) {
	if _, ok := e.tree.Node(id); !ok {
		return Status{VisibleIndex: -1}, false
	}
	state := e.CheckState(id)
	pos := e.VisibleIndex(id)
	return Status{
		Expanded:      e.expanded.Has(id),
		Checked:       e.checked.Has(id),
		Indeterminate: e.opts.Checkable && state == checkbox.Indeterminate,
		Visible:       pos >= 0,
		VisibleIndex:  pos,
		CheckState:    state,
		Match:         e.matches.Has(id),
	}, true
}

// CheckedLeafIDs returns the checked leaves in tree order.
func (e *Engine) CheckedLeafIDs() []string {
	return checkbox.CheckedLeafIDs(e.tree.Nodes, e.checked)
}
