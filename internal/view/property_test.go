package view_test

import (
	"testing"

	"pgregory.net/rapid"

	"treekit/internal/tree"
	"treekit/internal/tree/treetest"
	"treekit/internal/view"
)

func drawSubset(t *rapid.T, tr *tree.Tree, label string) tree.Set {
	out := tree.NewSet()
	for i := range tr.Nodes {
		if rapid.Bool().Draw(t, label+tr.Nodes[i].ID) {
			out.Add(tr.Nodes[i].ID)
		}
	}
	return out
}

func TestProperty_VisibleIffAllAncestorsExpanded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := tree.Build(treetest.Records(50).Draw(t, "records"))
		expanded := drawSubset(t, tr, "exp:")

		visible := tree.NewSet(view.IDs(view.ComputeVisible(tr.Nodes, expanded))...)
		for i := range tr.Nodes {
			n := &tr.Nodes[i]
			want := true
			for _, a := range tree.AncestorIDs(n.ID, &tr.Index) {
				if !expanded.Has(a) {
					want = false
					break
				}
			}
			if visible.Has(n.ID) != want {
				t.Fatalf("node %s visible=%v, want %v", n.ID, visible.Has(n.ID), want)
			}
		}
	})
}

func TestProperty_VisibleIsOrderedSubsequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := tree.Build(treetest.Records(50).Draw(t, "records"))
		expanded := drawSubset(t, tr, "exp:")
		filter := drawSubset(t, tr, "flt:")

		rows := view.ComputeFilteredVisible(tr.Nodes, expanded, filter)
		last := -1
		for _, r := range rows {
			if r.Index <= last {
				t.Fatalf("rows out of flat order at %s", r.ID)
			}
			last = r.Index
			if filter.Len() > 0 && !filter.Has(r.ID) {
				t.Fatalf("row %s outside non-empty filter", r.ID)
			}
			for _, a := range tree.AncestorIDs(r.ID, &tr.Index) {
				if !expanded.Has(a) || (filter.Len() > 0 && !filter.Has(a)) {
					t.Fatalf("row %s shown under hidden ancestor %s", r.ID, a)
				}
			}
		}
	})
}
