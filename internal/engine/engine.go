// Package engine holds the state of one interactive tree and keeps its
// visible rows in step with expansion, checkbox and filter changes.
//
// An Engine is not safe for concurrent use. Asynchronous search results are
// handed over with ApplyResult from the goroutine that owns the Engine.
package engine

import (
	"io"
	"log"
	"time"

	"treekit/internal/checkbox"
	"treekit/internal/search"
	"treekit/internal/tree"
	"treekit/internal/view"
)

// Status is everything a renderer needs to draw one node.
type Status struct {
	Expanded      bool
	Checked       bool
	Indeterminate bool
	Visible       bool
	VisibleIndex  int
	CheckState    checkbox.State
	Match         bool
}

type subscriber struct {
	id int
	fn func()
}

// Engine owns a flattened tree and the expanded, checked, match and filter
// sets layered on top of it.
type Engine struct {
	opts   Options
	logger *log.Logger

	tree  *tree.Tree
	items []search.Item
	index *search.InvertedIndex

	expanded tree.Set
	checked  tree.Set
	matches  tree.Set
	filter   tree.Set
	selected string

	visible    []*tree.FlatNode
	visiblePos map[string]int
	chains     map[string][]string
	depths     []int

	subs    []subscriber
	nextSub int
	batch   int
	pending bool
}

// New returns an empty Engine. A nil logger discards output.
func New(opts Options, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	opts.Fields = opts.Fields.WithDefaults()
	e := &Engine{
		opts:   opts,
		logger: logger,
		tree:   &tree.Tree{},
	}
	e.resetState()
	e.recompute()
	return e
}

// Init rebuilds the tree from raw and resets every state set to the
// configured defaults.
func (e *Engine) Init(raw []tree.RawNode) {
	e.build(raw)
	e.resetState()
	e.changed()
}

// Reload rebuilds the tree from raw and keeps the expanded, checked and
// selected state of ids that still exist. In cascading mode branch states are
// recomputed against the new children. An active filter is cleared.
func (e *Engine) Reload(raw []tree.RawNode) {
	expanded, checked, selected := e.expanded, e.checked, e.selected
	e.build(raw)

	e.expanded = e.known(expanded)
	e.checked = e.known(checked)
	if !e.opts.CheckStrictly {
		e.checked = checkbox.Normalize(e.tree.Nodes, e.checked, &e.tree.Index)
	}
	e.selected = ""
	if _, ok := e.tree.Node(selected); ok {
		e.selected = selected
	}
	e.matches, e.filter = tree.NewSet(), tree.NewSet()
	e.changed()
}

func (e *Engine) build(raw []tree.RawNode) {
	start := time.Now()
	e.tree = tree.Build(raw, tree.WithFieldMapper(e.opts.Fields), tree.WithLogger(e.logger))
	e.items = search.ItemsFromTree(e.tree)
	e.index = nil
	e.logger.Printf("built %d nodes (%d orphans, %d skipped) in %s",
		e.tree.Len(), len(e.tree.Index.Orphans), e.tree.Index.Skipped, time.Since(start))
}

func (e *Engine) resetState() {
	e.expanded = tree.NewSet(e.opts.DefaultExpanded...)
	e.checked = tree.NewSet(e.opts.DefaultChecked...)
	e.matches = tree.NewSet()
	e.filter = tree.NewSet()
	e.selected = ""
	for _, id := range e.opts.DefaultSelected {
		if _, ok := e.tree.Node(id); ok {
			e.selected = id
			break
		}
	}
}

func (e *Engine) known(ids tree.Set) tree.Set {
	out := tree.NewSet()
	for id := range ids {
		if _, ok := e.tree.Node(id); ok {
			out.Add(id)
		}
	}
	return out
}

// Options returns the current options.
func (e *Engine) Options() Options {
	return e.opts
}

// SetCheckStrictly switches the checkbox mode. The checked set is kept as is.
func (e *Engine) SetCheckStrictly(strict bool) {
	if e.opts.CheckStrictly == strict {
		return
	}
	e.opts.CheckStrictly = strict
	if !strict {
		e.checked = checkbox.Normalize(e.tree.Nodes, e.checked, &e.tree.Index)
	}
	e.changed()
}

// SetCompactFolders switches folding of single-child branch runs.
func (e *Engine) SetCompactFolders(on bool) {
	if e.opts.CompactFolders == on {
		return
	}
	e.opts.CompactFolders = on
	e.changed()
}

// SetAccordion switches accordion expansion.
func (e *Engine) SetAccordion(on bool) {
	if e.opts.Accordion == on {
		return
	}
	e.opts.Accordion = on
	e.changed()
}

// Subscribe registers fn to run after every change. The returned function
// removes it.
func (e *Engine) Subscribe(fn func()) (unsubscribe func()) {
	id := e.nextSub
	e.nextSub++
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// StartBatch defers recomputation and notification until the matching
// Commit. Batches nest.
func (e *Engine) StartBatch() {
	e.batch++
}

// Commit ends a batch. The outermost Commit recomputes the visible rows and
// notifies once if anything changed.
func (e *Engine) Commit() {
	if e.batch == 0 {
		return
	}
	e.batch--
	if e.batch == 0 && e.pending {
		e.pending = false
		e.recompute()
		e.notify()
	}
}

// Batch runs fn inside StartBatch/Commit.
func (e *Engine) Batch(fn func()) {
	e.StartBatch()
	defer e.Commit()
	fn()
}

func (e *Engine) changed() {
	if e.batch > 0 {
		e.pending = true
		return
	}
	e.recompute()
	e.notify()
}

func (e *Engine) recompute() {
	e.visible = view.ComputeFilteredVisible(e.tree.Nodes, e.expanded, e.filter)
	e.chains, e.depths = nil, nil
	if e.opts.CompactFolders {
		f := view.Compact(e.visible, &e.tree.Index)
		e.visible, e.chains, e.depths = f.Rows, f.Chains, f.Depths
	}
	e.visiblePos = view.PositionMap(e.visible)
	// Folded branches resolve to the row that shows them.
	for last, chain := range e.chains {
		for _, id := range chain {
			e.visiblePos[id] = e.visiblePos[last]
		}
	}
}

func (e *Engine) notify() {
	for _, s := range append([]subscriber(nil), e.subs...) {
		s.fn()
	}
}
