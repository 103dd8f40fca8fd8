package view

import (
	"reflect"
	"testing"

	"treekit/internal/tree"
)

func TestToggleExpandIsPure(t *testing.T) {
	in := tree.NewSet("a")
	out := ToggleExpand("b", in)

	if in.Has("b") {
		t.Fatalf("input set mutated")
	}
	if !out.Equal(tree.NewSet("a", "b")) {
		t.Fatalf("toggle in = %v", out.Slice())
	}
	if back := ToggleExpand("b", out); !back.Equal(in) {
		t.Fatalf("toggle out = %v", back.Slice())
	}
}

func TestExpandToNode_AddsAncestorsOnly(t *testing.T) {
	tr := fixture()

	got := ExpandToNode("a1x", tree.NewSet("other"), &tr.Index)
	if !got.Equal(tree.NewSet("other", "a1", "a", "root")) {
		t.Fatalf("ExpandToNode = %v", got.Slice())
	}
	if got.Has("a1x") {
		t.Fatalf("target itself must not be added")
	}
	if same := ExpandToNode("ghost", tree.NewSet("x"), &tr.Index); !same.Equal(tree.NewSet("x")) {
		t.Fatalf("unknown id should leave the set unchanged, got %v", same.Slice())
	}
}

func TestExpandToDepth(t *testing.T) {
	tr := fixture()

	if got := ExpandToDepth(tr.Nodes, 1).Slice(); !reflect.DeepEqual(got, []string{"root"}) {
		t.Fatalf("depth 1 = %v", got)
	}
	if got := ExpandToDepth(tr.Nodes, 2).Slice(); !reflect.DeepEqual(got, []string{"a", "b", "root"}) {
		t.Fatalf("depth 2 = %v", got)
	}
	if got := ExpandToDepth(tr.Nodes, 0); got.Len() != 0 {
		t.Fatalf("depth 0 = %v", got.Slice())
	}
}

func TestExpandAllCollapseAll(t *testing.T) {
	tr := fixture()
	if got := ExpandAll(tr.Nodes).Slice(); !reflect.DeepEqual(got, []string{"a", "a1", "b", "root"}) {
		t.Fatalf("ExpandAll = %v", got)
	}
	if CollapseAll().Len() != 0 {
		t.Fatalf("CollapseAll should be empty")
	}
	if got := ExpandMultiple([]string{"x", "y"}, tree.NewSet("x")); !got.Equal(tree.NewSet("x", "y")) {
		t.Fatalf("ExpandMultiple = %v", got.Slice())
	}
}

func TestToggleSubtree(t *testing.T) {
	tr := fixture()

	opened := ToggleSubtree("a", true, tr.Nodes, tree.NewSet("b"), &tr.Index)
	if !opened.Equal(tree.NewSet("a", "a1", "b")) {
		t.Fatalf("expand subtree = %v", opened.Slice())
	}
	closed := ToggleSubtree("root", false, tr.Nodes, ExpandAll(tr.Nodes), &tr.Index)
	if closed.Len() != 0 {
		t.Fatalf("collapse subtree = %v", closed.Slice())
	}
}

func TestCollapseSiblings(t *testing.T) {
	tr := fixture()
	all := ExpandAll(tr.Nodes)

	got := CollapseSiblings("a", tr.Nodes, all, &tr.Index)
	if got.Has("b") {
		t.Fatalf("sibling b should be collapsed")
	}
	if !got.Has("a") || !got.Has("a1") || !got.Has("root") {
		t.Fatalf("node, descendants and parent must be untouched, got %v", got.Slice())
	}
	if !all.Has("b") {
		t.Fatalf("input mutated")
	}

	// a1's only sibling is the leaf a2; a1x inside a1 is not a sibling
	got = CollapseSiblings("a1", tr.Nodes, all, &tr.Index)
	if !got.Equal(all) {
		t.Fatalf("collapsing leaf siblings should not change branch flags, got %v", got.Slice())
	}

	// roots collapse other roots
	roots := CollapseSiblings("other", tr.Nodes, tree.NewSet("root", "a"), &tr.Index)
	if !roots.Equal(tree.NewSet("a")) {
		t.Fatalf("root siblings = %v", roots.Slice())
	}
}

func TestExpandForAccordion(t *testing.T) {
	tr := fixture()

	got := ExpandForAccordion("b", tr.Nodes, tree.NewSet("root", "a", "a1"), &tr.Index)
	if !got.Equal(tree.NewSet("root", "b", "a1")) {
		t.Fatalf("accordion = %v", got.Slice())
	}
	rows := IDs(ComputeVisible(tr.Nodes, got))
	if !reflect.DeepEqual(rows, []string{"root", "a", "b", "b1", "other"}) {
		t.Fatalf("accordion rows = %v", rows)
	}
	if same := ExpandForAccordion("ghost", tr.Nodes, tree.NewSet("a"), &tr.Index); !same.Equal(tree.NewSet("a")) {
		t.Fatalf("unknown id should be a no-op")
	}
}
