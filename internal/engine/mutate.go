package engine

import (
	"strings"

	"treekit/internal/checkbox"
	"treekit/internal/search"
	"treekit/internal/tree"
	"treekit/internal/view"
)

// Toggle expands or collapses the branch id. Leaves and unknown ids are
// ignored.
func (e *Engine) Toggle(id string) {
	node, ok := e.tree.Node(id)
	if !ok || !node.HasChildren {
		return
	}
	e.SetExpanded(id, !e.expanded.Has(id))
}

// SetExpanded opens or closes the branch id. In accordion mode opening it
// closes its siblings. With CompactFolders on, opening a branch also opens
// the single-branch run below it so the run shows as one open row.
func (e *Engine) SetExpanded(id string, open bool) {
	node, ok := e.tree.Node(id)
	if !ok || !node.HasChildren {
		return
	}
	switch {
	case !open:
		next := e.expanded.Clone()
		next.Remove(id)
		e.expanded = next
	case e.opts.Accordion:
		e.expanded = view.ExpandForAccordion(id, e.tree.Nodes, e.expanded, &e.tree.Index)
		for _, c := range e.foldedBelow(id) {
			e.expanded.Add(c)
		}
	default:
		e.expanded = view.ExpandMultiple(append([]string{id}, e.foldedBelow(id)...), e.expanded)
	}
	e.changed()
}

func (e *Engine) foldedBelow(id string) []string {
	if !e.opts.CompactFolders {
		return nil
	}
	return view.SingleBranchRun(id, &e.tree.Index)
}

// ExpandToNode expands every ancestor of id so that it becomes visible. In
// accordion mode each ancestor's siblings are closed along the way.
func (e *Engine) ExpandToNode(id string) {
	if _, ok := e.tree.Node(id); !ok {
		return
	}
	e.expanded = e.expandPath(id)
	e.changed()
}

func (e *Engine) expandPath(id string) tree.Set {
	if !e.opts.Accordion {
		return view.ExpandToNode(id, e.expanded, &e.tree.Index)
	}
	out := e.expanded
	ancestors := tree.AncestorIDs(id, &e.tree.Index)
	for i := len(ancestors) - 1; i >= 0; i-- {
		out = view.ExpandForAccordion(ancestors[i], e.tree.Nodes, out, &e.tree.Index)
	}
	return out
}

// Reveal expands the ancestors of id and selects it.
func (e *Engine) Reveal(id string) {
	if _, ok := e.tree.Node(id); !ok {
		return
	}
	e.expanded = e.expandPath(id)
	e.selected = id
	e.changed()
}

// ExpandAll opens every branch.
func (e *Engine) ExpandAll() {
	e.expanded = view.ExpandAll(e.tree.Nodes)
	e.changed()
}

// CollapseAll closes every branch.
func (e *Engine) CollapseAll() {
	e.expanded = view.CollapseAll()
	e.changed()
}

// ExpandToDepth opens exactly the branches above depth; 1 shows the roots'
// children.
func (e *Engine) ExpandToDepth(depth int) {
	e.expanded = view.ExpandToDepth(e.tree.Nodes, depth)
	e.changed()
}

// ToggleSubtree opens or closes every branch under and including id.
func (e *Engine) ToggleSubtree(id string, open bool) {
	if _, ok := e.tree.Node(id); !ok {
		return
	}
	e.expanded = view.ToggleSubtree(id, open, e.tree.Nodes, e.expanded, &e.tree.Index)
	e.changed()
}

// SetExpandedSet replaces the expanded set with a copy of set.
func (e *Engine) SetExpandedSet(set tree.Set) {
	e.expanded = set.Clone()
	e.changed()
}

// ToggleCheck flips id's checkbox under the current mode.
func (e *Engine) ToggleCheck(id string) {
	if _, ok := e.tree.Node(id); !ok {
		return
	}
	e.checked = e.checker().Toggle(id, e.tree.Nodes, e.checked, &e.tree.Index)
	e.changed()
}

// SetChecked forces id's checkbox under the current mode.
func (e *Engine) SetChecked(id string, value bool) {
	if _, ok := e.tree.Node(id); !ok {
		return
	}
	e.checked = e.checker().Set(id, value, e.tree.Nodes, e.checked, &e.tree.Index)
	e.changed()
}

// CheckAll checks every node.
func (e *Engine) CheckAll() {
	e.checked = checkbox.CheckAll(e.tree.Nodes)
	e.changed()
}

// UncheckAll clears every checkbox.
func (e *Engine) UncheckAll() {
	e.checked = checkbox.UncheckAll()
	e.changed()
}

// SetFilter keeps the nodes accepted by pred together with their ancestors,
// and expands those ancestors. A nil pred, or a tree that is not Filterable,
// clears the filter.
func (e *Engine) SetFilter(pred func(*tree.FlatNode) bool) {
	if pred == nil || !e.opts.Filterable {
		e.ClearFilter()
		return
	}
	matches := tree.NewSet()
	ancestors := tree.NewSet()
	for i := range e.tree.Nodes {
		n := &e.tree.Nodes[i]
		if !pred(n) {
			continue
		}
		matches.Add(n.ID)
		for _, a := range tree.AncestorIDs(n.ID, &e.tree.Index) {
			ancestors.Add(a)
		}
	}
	e.apply(matches, ancestors)
}

// SetSearch filters by query using the configured search mode. A blank query
// clears the filter.
func (e *Engine) SetSearch(query string) {
	if strings.TrimSpace(query) == "" || !e.opts.Filterable {
		e.ClearFilter()
		return
	}
	var r search.Result
	if e.opts.SearchMode == search.ModeIndex {
		if e.index == nil {
			e.index = search.NewInvertedIndex(e.items)
		}
		r = e.index.Lookup(query)
	} else {
		r = search.Run(e.opts.SearchMode, query, e.items)
	}
	e.ApplyResult(r)
}

// ApplyResult installs a search result computed elsewhere. Ids missing from
// the current tree are dropped, so a result computed against an older tree
// is safe to apply. Applying the same result twice changes nothing.
func (e *Engine) ApplyResult(r search.Result) {
	matches := e.known(r.MatchIDs)
	if matches.Len() == 0 {
		e.ClearFilter()
		return
	}
	ancestors := tree.NewSet()
	for id := range matches {
		for _, a := range tree.AncestorIDs(id, &e.tree.Index) {
			ancestors.Add(a)
		}
	}
	for id := range e.known(r.ExpandIDs) {
		ancestors.Add(id)
	}
	e.apply(matches, ancestors)
}

func (e *Engine) apply(matches, ancestors tree.Set) {
	if matches.Len() == 0 {
		e.ClearFilter()
		return
	}
	e.matches = matches
	e.filter = tree.Union(matches, ancestors)
	e.expanded = view.ExpandMultiple(ancestors.Slice(), e.expanded)
	e.logger.Printf("filter: %d matches, %d rows kept", matches.Len(), e.filter.Len())
	e.changed()
}

// ClearFilter shows the whole tree again. The expanded set is kept.
func (e *Engine) ClearFilter() {
	e.matches = tree.NewSet()
	e.filter = tree.NewSet()
	e.changed()
}

// NavigateNext returns the visible position of the first match after from,
// or -1.
func (e *Engine) NavigateNext(from int) int {
	return search.NavigateNext(e.visible, e.matches, from)
}

// NavigatePrev returns the visible position of the last match before from,
// or -1.
func (e *Engine) NavigatePrev(from int) int {
	return search.NavigatePrev(e.visible, e.matches, from)
}

// Select marks id as the single selected node. Unknown ids are ignored.
func (e *Engine) Select(id string) {
	if _, ok := e.tree.Node(id); !ok || e.selected == id {
		return
	}
	e.selected = id
	e.changed()
}

// ClearSelection drops the selection.
func (e *Engine) ClearSelection() {
	if e.selected == "" {
		return
	}
	e.selected = ""
	e.changed()
}
