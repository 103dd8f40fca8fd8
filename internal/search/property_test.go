package search_test

import (
	"testing"

	"pgregory.net/rapid"

	"treekit/internal/search"
	"treekit/internal/tree"
	"treekit/internal/tree/treetest"
	"treekit/internal/view"
)

func TestProperty_SearchExpandRevealsEveryMatch(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := tree.Build(treetest.Records(60).Draw(t, "records"))
		items := search.ItemsFromTree(tr)
		keyword := rapid.SampledFrom([]string{"a", "al", "ET", "src", "lib", "工", "配置", "zz", " "}).Draw(t, "keyword")
		mode := rapid.SampledFrom([]search.Mode{search.ModeSubstring, search.ModeIndex}).Draw(t, "mode")

		r := search.Run(mode, keyword, items)
		for id := range r.MatchIDs {
			for _, a := range tree.AncestorIDs(id, &tr.Index) {
				if !r.ExpandIDs.Has(a) {
					t.Fatalf("ancestor %s of match %s missing from expand set", a, id)
				}
			}
		}

		// Expanding the ancestors shows every match under the filter.
		expanded := view.ExpandMultiple(r.ExpandIDs.Slice(), tree.NewSet())
		rows := tree.NewSet(view.IDs(view.ComputeFilteredVisible(tr.Nodes, expanded, r.FilterSet()))...)
		for id := range r.MatchIDs {
			if !rows.Has(id) {
				t.Fatalf("match %s not visible after expansion", id)
			}
		}
	})
}

func TestProperty_IndexAgreesWithSubstring(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		items := search.ItemsFromTree(tree.Build(treetest.Records(60).Draw(t, "records")))
		keyword := rapid.SampledFrom([]string{"a", "alp", "ta", "lib", "工", "配"}).Draw(t, "keyword")

		got := search.NewInvertedIndex(items).Lookup(keyword)
		want := search.Sync(keyword, items)
		// single-token keywords over single-token names find the same nodes
		if !got.MatchIDs.Equal(want.MatchIDs) {
			t.Fatalf("%q: index %v, substring %v", keyword, got.MatchIDs.Slice(), want.MatchIDs.Slice())
		}
	})
}
