package engine

import (
	"reflect"
	"testing"

	"treekit/internal/checkbox"
	"treekit/internal/search"
	"treekit/internal/tree"
	"treekit/internal/view"
)

// sample:
//
//	docs
//	├── guide
//	│   ├── install.md
//	│   └── usage.md
//	└── api
//	    └── reference.md
//	src
//	└── main.go
func sample() []tree.RawNode {
	return []tree.RawNode{
		tree.NewRawNode("docs", "", "docs"),
		tree.NewRawNode("guide", "docs", "guide"),
		tree.NewRawNode("install", "guide", "install.md"),
		tree.NewRawNode("usage", "guide", "usage.md"),
		tree.NewRawNode("api", "docs", "api"),
		tree.NewRawNode("ref", "api", "reference.md"),
		tree.NewRawNode("src", "", "src"),
		tree.NewRawNode("main", "src", "main.go"),
	}
}

func newEngine(t *testing.T, mutate func(*Options)) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.Checkable = true
	opts.Filterable = true
	if mutate != nil {
		mutate(&opts)
	}
	e := New(opts, nil)
	e.Init(sample())
	return e
}

func visibleIDs(e *Engine) []string {
	return view.IDs(e.Visible())
}

func TestEngine_InitDefaults(t *testing.T) {
	e := newEngine(t, func(o *Options) {
		o.DefaultExpanded = []string{"docs"}
		o.DefaultChecked = []string{"main"}
		o.DefaultSelected = []string{"ghost", "api"}
	})

	if got := visibleIDs(e); !reflect.DeepEqual(got, []string{"docs", "guide", "api", "src"}) {
		t.Fatalf("visible = %v", got)
	}
	if e.TotalCount() != 8 || e.VisibleCount() != 4 || e.CheckedCount() != 1 {
		t.Fatalf("counts: total=%d visible=%d checked=%d", e.TotalCount(), e.VisibleCount(), e.CheckedCount())
	}
	if id, ok := e.Selected(); !ok || id != "api" {
		t.Fatalf("selected = %q", id)
	}
}

func TestEngine_EmptyEngine(t *testing.T) {
	e := New(DefaultOptions(), nil)
	if e.VisibleCount() != 0 || e.TotalCount() != 0 {
		t.Fatalf("new engine should be empty")
	}
	e.Toggle("x")
	e.ToggleCheck("x")
	if _, ok := e.Status("x"); ok {
		t.Fatalf("status of unknown id")
	}
	if e.VisibleIndex("x") != -1 {
		t.Fatalf("VisibleIndex of unknown id")
	}
}

func TestEngine_ToggleAndStatus(t *testing.T) {
	e := newEngine(t, nil)

	e.Toggle("docs")
	if got := e.VisibleIndex("src"); got != 3 {
		t.Fatalf("VisibleIndex(src) = %d", got)
	}
	e.Toggle("install") // leaf
	if e.IsExpanded("install") {
		t.Fatalf("leaves never expand")
	}

	st, ok := e.Status("guide")
	if !ok || !st.Visible || st.VisibleIndex != 1 || st.Expanded {
		t.Fatalf("status(guide) = %+v", st)
	}
	if n, ok := e.NodeAtVisible(1); !ok || n.ID != "guide" {
		t.Fatalf("NodeAtVisible(1) = %v", n)
	}

	e.Toggle("docs")
	if got := visibleIDs(e); !reflect.DeepEqual(got, []string{"docs", "src"}) {
		t.Fatalf("collapsed visible = %v", got)
	}
}

func TestEngine_Accordion(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.Accordion = true })

	e.SetExpanded("docs", true)
	e.SetExpanded("guide", true)
	e.SetExpanded("api", true)
	if e.IsExpanded("guide") {
		t.Fatalf("opening api should close guide")
	}
	e.SetExpanded("src", true)
	if e.IsExpanded("docs") {
		t.Fatalf("roots are siblings in accordion mode")
	}

	e.ExpandToNode("install")
	if !e.IsExpanded("guide") || e.IsExpanded("api") || e.IsExpanded("src") {
		t.Fatalf("accordion ExpandToNode = %v", e.Expanded().Slice())
	}
}

func TestEngine_ExpandHelpers(t *testing.T) {
	e := newEngine(t, nil)

	e.ExpandAll()
	if e.VisibleCount() != e.TotalCount() {
		t.Fatalf("ExpandAll shows %d of %d", e.VisibleCount(), e.TotalCount())
	}
	e.CollapseAll()
	if e.VisibleCount() != 2 {
		t.Fatalf("CollapseAll shows %d", e.VisibleCount())
	}
	e.ExpandToDepth(1)
	if got := visibleIDs(e); !reflect.DeepEqual(got, []string{"docs", "guide", "api", "src", "main"}) {
		t.Fatalf("depth 1 = %v", got)
	}
	e.ToggleSubtree("docs", true)
	if !e.IsExpanded("guide") || !e.IsExpanded("api") {
		t.Fatalf("ToggleSubtree did not open descendants")
	}
	e.ExpandToNode("ref")
	e.SetExpandedSet(tree.NewSet("src"))
	if got := visibleIDs(e); !reflect.DeepEqual(got, []string{"docs", "src", "main"}) {
		t.Fatalf("SetExpandedSet = %v", got)
	}
}

func TestEngine_Checkbox(t *testing.T) {
	e := newEngine(t, nil)

	e.ToggleCheck("guide")
	if got := e.CheckedLeafIDs(); !reflect.DeepEqual(got, []string{"install", "usage"}) {
		t.Fatalf("leaves = %v", got)
	}
	st, _ := e.Status("docs")
	if !st.Indeterminate || st.CheckState != checkbox.Indeterminate || st.Checked {
		t.Fatalf("status(docs) = %+v", st)
	}

	e.SetChecked("api", true)
	if e.CheckState("docs") != checkbox.Checked {
		t.Fatalf("docs should be checked once all children are")
	}
	e.UncheckAll()
	e.CheckAll()
	if e.CheckedCount() != e.TotalCount() {
		t.Fatalf("CheckAll = %d", e.CheckedCount())
	}
	e.ToggleCheck("ghost")
	if e.CheckedCount() != e.TotalCount() {
		t.Fatalf("unknown id changed state")
	}
}

func TestEngine_CheckableGatesIndeterminateOnly(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.Checkable = false })
	e.ToggleCheck("install")

	st, _ := e.Status("guide")
	if st.Indeterminate {
		t.Fatalf("indeterminate reported on a non-checkable tree")
	}
	if st.CheckState != checkbox.Indeterminate {
		t.Fatalf("CheckState should still be derived, got %s", st.CheckState)
	}
}

func TestEngine_StrictMode(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.CheckStrictly = true })
	e.ToggleCheck("guide")
	if !e.Checked().Equal(tree.NewSet("guide")) {
		t.Fatalf("strict toggle = %v", e.Checked().Slice())
	}
	if st, _ := e.Status("docs"); st.Indeterminate || st.CheckState != checkbox.Unchecked {
		t.Fatalf("strict status(docs) = %+v", st)
	}

	e.SetCheckStrictly(false)
	if e.CheckState("docs") != checkbox.Indeterminate {
		t.Fatalf("cascading view of the same set should be indeterminate")
	}
}

func TestEngine_SearchFiltersAndExpands(t *testing.T) {
	for _, mode := range []search.Mode{search.ModeIndex, search.ModeSubstring} {
		e := newEngine(t, func(o *Options) { o.SearchMode = mode })

		e.SetSearch("MD")
		if !e.Matches().Equal(tree.NewSet("install", "usage", "ref")) {
			t.Fatalf("%s: matches = %v", mode, e.Matches().Slice())
		}
		want := []string{"docs", "guide", "install", "usage", "api", "ref"}
		if got := visibleIDs(e); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: visible = %v", mode, got)
		}
		if !e.IsMatch("ref") || e.IsMatch("docs") || e.MatchCount() != 3 {
			t.Fatalf("%s: match flags wrong", mode)
		}

		e.SetSearch("  ")
		if e.MatchCount() != 0 || !e.IsExpanded("guide") || e.VisibleIndex("src") < 0 {
			t.Fatalf("%s: blank search should clear the filter but keep expansion", mode)
		}
	}
}

func TestEngine_SearchRequiresFilterable(t *testing.T) {
	e := newEngine(t, func(o *Options) { o.Filterable = false })
	e.SetSearch("md")
	if e.MatchCount() != 0 {
		t.Fatalf("non-filterable tree applied a search")
	}
}

func TestEngine_SetFilter(t *testing.T) {
	e := newEngine(t, nil)
	e.SetFilter(func(n *tree.FlatNode) bool { return n.Depth == 2 })
	if !e.Filter().Equal(tree.NewSet("install", "usage", "ref", "guide", "api", "docs")) {
		t.Fatalf("filter = %v", e.Filter().Slice())
	}
	e.SetFilter(nil)
	if e.Filter().Len() != 0 {
		t.Fatalf("nil predicate should clear")
	}
}

func TestEngine_ApplyResultIsIdempotent(t *testing.T) {
	e := newEngine(t, nil)
	r := search.Result{
		MatchIDs:  tree.NewSet("main", "stale-id"),
		ExpandIDs: tree.NewSet("src", "gone"),
	}
	e.ApplyResult(r)
	first := visibleIDs(e)
	expanded := e.Expanded()
	e.ApplyResult(r)

	if !reflect.DeepEqual(first, visibleIDs(e)) || !expanded.Equal(e.Expanded()) {
		t.Fatalf("second apply changed state")
	}
	if !e.Matches().Equal(tree.NewSet("main")) {
		t.Fatalf("unknown ids should be dropped, got %v", e.Matches().Slice())
	}
	if got := first; !reflect.DeepEqual(got, []string{"src", "main"}) {
		t.Fatalf("visible = %v", got)
	}

	e.ApplyResult(search.EmptyResult())
	if e.MatchCount() != 0 {
		t.Fatalf("empty result should clear")
	}
}

func TestEngine_Navigate(t *testing.T) {
	e := newEngine(t, nil)
	e.SetSearch(".md")
	// docs guide install usage api ref
	if got := e.NavigateNext(-1); got != 2 {
		t.Fatalf("first match at %d", got)
	}
	if got := e.NavigateNext(3); got != 5 {
		t.Fatalf("next after usage at %d", got)
	}
	if got := e.NavigateNext(5); got != -1 {
		t.Fatalf("past last = %d", got)
	}
	if got := e.NavigatePrev(e.VisibleCount()); got != 5 {
		t.Fatalf("prev from bottom = %d", got)
	}
}

func TestEngine_SelectAndReveal(t *testing.T) {
	e := newEngine(t, nil)
	e.Select("ghost")
	if _, ok := e.Selected(); ok {
		t.Fatalf("unknown id selected")
	}
	e.Reveal("ref")
	if id, _ := e.Selected(); id != "ref" || e.VisibleIndex("ref") < 0 {
		t.Fatalf("Reveal did not show and select ref")
	}
	e.ClearSelection()
	if _, ok := e.Selected(); ok {
		t.Fatalf("selection not cleared")
	}
}

func TestEngine_SubscribeAndBatch(t *testing.T) {
	e := newEngine(t, nil)
	calls := 0
	unsubscribe := e.Subscribe(func() { calls++ })

	e.Toggle("docs")
	if calls != 1 {
		t.Fatalf("calls = %d after one change", calls)
	}

	e.Batch(func() {
		e.ExpandAll()
		e.CheckAll()
		e.Toggle("docs")
		if calls != 1 {
			t.Fatalf("notified inside a batch")
		}
	})
	if calls != 2 {
		t.Fatalf("batch should notify once, calls = %d", calls)
	}
	if e.VisibleIndex("ref") != -1 {
		t.Fatalf("visible rows not recomputed at commit")
	}

	e.StartBatch()
	e.StartBatch()
	e.CollapseAll()
	e.Commit()
	if calls != 2 {
		t.Fatalf("inner commit notified")
	}
	e.Commit()
	if calls != 3 {
		t.Fatalf("outer commit did not notify, calls = %d", calls)
	}

	e.Batch(func() {})
	if calls != 3 {
		t.Fatalf("empty batch notified")
	}

	unsubscribe()
	e.ExpandAll()
	if calls != 3 {
		t.Fatalf("notified after unsubscribe")
	}
}

func TestEngine_ReloadKeepsKnownState(t *testing.T) {
	e := newEngine(t, nil)
	e.SetExpanded("docs", true)
	e.SetExpanded("src", true)
	e.ToggleCheck("main")
	e.Select("main")
	e.SetSearch("md")

	raw := sample()[:6] // src and main removed
	raw = append(raw, tree.NewRawNode("new", "docs", "new.md"))
	e.Reload(raw)

	if !e.Expanded().Equal(tree.NewSet("docs", "guide", "api")) {
		t.Fatalf("expanded after reload = %v", e.Expanded().Slice())
	}
	if e.CheckedCount() != 0 {
		t.Fatalf("checked ids of removed nodes should be dropped")
	}
	if _, ok := e.Selected(); ok {
		t.Fatalf("selection of removed node kept")
	}
	if e.MatchCount() != 0 || e.VisibleIndex("new") < 0 {
		t.Fatalf("reload should clear the filter and show new nodes")
	}
}

func TestEngine_ReloadRecomputesCheckedBranches(t *testing.T) {
	e := New(DefaultOptions(), nil)
	e.Init([]tree.RawNode{
		tree.NewRawNode("1", "", "root"),
		tree.NewRawNode("2", "1", "child"),
	})
	e.ToggleCheck("1")
	if e.CheckState("1") != checkbox.Checked {
		t.Fatalf("toggle should check the root")
	}

	e.Reload([]tree.RawNode{
		tree.NewRawNode("1", "", "root"),
		tree.NewRawNode("2", "1", "child"),
		tree.NewRawNode("3", "1", "new child"),
	})
	if got := e.CheckState("3"); got != checkbox.Unchecked {
		t.Fatalf("new child state = %s, want unchecked", got)
	}
	if got := e.CheckState("1"); got != checkbox.Indeterminate {
		t.Fatalf("root state = %s, want indeterminate", got)
	}
	if !e.Checked().Equal(tree.NewSet("2")) {
		t.Fatalf("checked after reload = %v, want [2]", e.Checked().Slice())
	}
}

func TestEngine_ReloadKeepsStrictChecks(t *testing.T) {
	opts := DefaultOptions()
	opts.CheckStrictly = true
	e := New(opts, nil)
	e.Init([]tree.RawNode{
		tree.NewRawNode("1", "", "root"),
		tree.NewRawNode("2", "1", "child"),
	})
	e.ToggleCheck("1")

	e.Reload([]tree.RawNode{
		tree.NewRawNode("1", "", "root"),
		tree.NewRawNode("2", "1", "child"),
		tree.NewRawNode("3", "1", "new child"),
	})
	if !e.Checked().Equal(tree.NewSet("1")) {
		t.Fatalf("strict checks are independent, got %v", e.Checked().Slice())
	}

	e.SetCheckStrictly(false)
	if e.Checked().Len() != 0 || e.CheckState("1") != checkbox.Unchecked {
		t.Fatalf("switching to cascading should recompute branches, got %v", e.Checked().Slice())
	}
}

func chainSample() []tree.RawNode {
	return []tree.RawNode{
		tree.NewRawNode("src", "", "src"),
		tree.NewRawNode("pkg", "src", "pkg"),
		tree.NewRawNode("util", "pkg", "util"),
		tree.NewRawNode("a", "util", "a.go"),
		tree.NewRawNode("b", "util", "b.go"),
		tree.NewRawNode("readme", "", "README.md"),
	}
}

func TestEngine_CompactFoldersRows(t *testing.T) {
	e := New(DefaultOptions(), nil)
	e.Init(chainSample())
	e.ExpandAll()
	e.SetCompactFolders(true)

	if got := visibleIDs(e); !reflect.DeepEqual(got, []string{"util", "a", "b", "readme"}) {
		t.Fatalf("visible = %v", got)
	}
	n, _ := e.NodeAtVisible(0)
	row := e.Row(n)
	if row.Label != "src/pkg/util" || row.Depth != 0 || !reflect.DeepEqual(row.Chain, []string{"src", "pkg", "util"}) {
		t.Fatalf("folded row = %+v", row)
	}
	for _, id := range []string{"src", "pkg", "util"} {
		if i := e.VisibleIndex(id); i != 0 {
			t.Fatalf("VisibleIndex(%s) = %d, want 0", id, i)
		}
	}
	if leaf, _ := e.NodeAtVisible(1); e.Row(leaf).Label != "a.go" || e.Row(leaf).Chain != nil || e.Row(leaf).Depth != 1 {
		t.Fatalf("plain row = %+v", e.Row(leaf))
	}

	e.SetCompactFolders(false)
	if e.VisibleCount() != 6 {
		t.Fatalf("turning folding off should show every row, got %v", visibleIDs(e))
	}
}

func TestEngine_CompactFoldersExpandOpensRun(t *testing.T) {
	opts := DefaultOptions()
	opts.CompactFolders = true
	e := New(opts, nil)
	e.Init(chainSample())

	if got := visibleIDs(e); !reflect.DeepEqual(got, []string{"src", "readme"}) {
		t.Fatalf("collapsed rows = %v", got)
	}
	e.Toggle("src")
	if got := visibleIDs(e); !reflect.DeepEqual(got, []string{"util", "a", "b", "readme"}) {
		t.Fatalf("opening src should open the run, got %v", got)
	}

	e.Toggle("util")
	if got := visibleIDs(e); !reflect.DeepEqual(got, []string{"util", "readme"}) {
		t.Fatalf("closing the folded row = %v", got)
	}
	n, _ := e.NodeAtVisible(0)
	if e.Row(n).Label != "src/pkg/util" {
		t.Fatalf("closed run should stay folded, got %q", e.Row(n).Label)
	}
}

func TestEngine_CompactFoldersMatchOnChain(t *testing.T) {
	opts := DefaultOptions()
	opts.Filterable = true
	opts.CompactFolders = true
	e := New(opts, nil)
	e.Init(chainSample())
	e.ExpandAll()

	e.SetFilter(func(n *tree.FlatNode) bool { return n.ID == "pkg" })
	n, ok := e.NodeAtVisible(0)
	if !ok {
		t.Fatalf("expected a row")
	}
	if row := e.Row(n); !row.Match {
		t.Fatalf("a match inside the chain should mark the row, got %+v", row)
	}
}
