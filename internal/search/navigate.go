package search

import "treekit/internal/tree"

// NotFound is returned when no further match exists.
const NotFound = -1

// NavigateNext returns the position in visible of the first match after
// from, or NotFound. A negative from starts at the top.
func NavigateNext(visible []*tree.FlatNode, matches tree.Set, from int) int {
	start := from + 1
	if from < 0 {
		start = 0
	}
	for i := start; i < len(visible); i++ {
		if matches.Has(visible[i].ID) {
			return i
		}
	}
	return NotFound
}

// NavigatePrev returns the position in visible of the last match before
// from, or NotFound. A from past the end starts at the bottom.
func NavigatePrev(visible []*tree.FlatNode, matches tree.Set, from int) int {
	start := from - 1
	if from >= len(visible) {
		start = len(visible) - 1
	}
	for i := start; i >= 0; i-- {
		if matches.Has(visible[i].ID) {
			return i
		}
	}
	return NotFound
}

// Step is the outcome of a Navigator move. ExpandIDs holds the ancestors of
// ID that must be expanded to show it. OK is false when the move could not
// be made, such as stepping past the last match without Loop; ID then still
// names the current match.
type Step struct {
	ID        string
	ExpandIDs tree.Set
	OK        bool
}

// NavigatorOptions configures a Navigator.
type NavigatorOptions struct {
	Enabled bool
	Loop    bool
}

// Navigator walks every match of a result in flat order, including matches
// hidden under collapsed branches.
type Navigator struct {
	opts    NavigatorOptions
	tree    *tree.Tree
	matches []string
	current int
}

// NewNavigator returns a Navigator over t.
func NewNavigator(t *tree.Tree, opts NavigatorOptions) *Navigator {
	return &Navigator{opts: opts, tree: t, current: NotFound}
}

// SetTree swaps the tree and drops the match list.
func (n *Navigator) SetTree(t *tree.Tree) {
	n.tree = t
	n.Reset()
}

// SetLoop toggles wrap-around at either end.
func (n *Navigator) SetLoop(loop bool) {
	n.opts.Loop = loop
}

// Update replaces the match list and moves to the first match.
func (n *Navigator) Update(matches tree.Set) Step {
	if !n.opts.Enabled {
		return Step{}
	}
	n.matches = n.matches[:0]
	if n.tree != nil {
		for i := range n.tree.Nodes {
			if matches.Has(n.tree.Nodes[i].ID) {
				n.matches = append(n.matches, n.tree.Nodes[i].ID)
			}
		}
	}
	n.current = NotFound
	if len(n.matches) > 0 {
		n.current = 0
	}
	return n.step(true)
}

// Next moves to the following match.
func (n *Navigator) Next() Step {
	if !n.opts.Enabled || len(n.matches) == 0 {
		return Step{}
	}
	switch {
	case n.current < len(n.matches)-1:
		n.current++
	case n.opts.Loop:
		n.current = 0
	default:
		return n.step(false)
	}
	return n.step(true)
}

// Prev moves to the preceding match.
func (n *Navigator) Prev() Step {
	if !n.opts.Enabled || len(n.matches) == 0 {
		return Step{}
	}
	switch {
	case n.current > 0:
		n.current--
	case n.opts.Loop:
		n.current = len(n.matches) - 1
	default:
		return n.step(false)
	}
	return n.step(true)
}

// Jump moves to match i (0-based).
func (n *Navigator) Jump(i int) Step {
	if !n.opts.Enabled || i < 0 || i >= len(n.matches) {
		return Step{}
	}
	n.current = i
	return n.step(true)
}

// Reset forgets the match list.
func (n *Navigator) Reset() {
	n.matches = nil
	n.current = NotFound
}

// Current returns the focused match id, or "".
func (n *Navigator) Current() string {
	if n.current < 0 || n.current >= len(n.matches) {
		return ""
	}
	return n.matches[n.current]
}

// Position returns the 1-based position of the focused match and the match
// count. current is 0 when nothing is focused.
func (n *Navigator) Position() (current, total int) {
	return n.current + 1, len(n.matches)
}

// Matches returns the match ids in flat order.
func (n *Navigator) Matches() []string {
	return append([]string(nil), n.matches...)
}

func (n *Navigator) step(ok bool) Step {
	id := n.Current()
	if id == "" {
		return Step{}
	}
	var expand tree.Set
	if n.tree != nil {
		expand = tree.AncestorSet(id, &n.tree.Index)
	}
	return Step{ID: id, ExpandIDs: expand, OK: ok}
}
