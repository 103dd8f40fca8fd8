package view

import (
	"reflect"
	"testing"

	"treekit/internal/tree"
)

// chainFixture:
//
//	src
//	└── pkg
//	    └── util
//	        ├── a.go
//	        └── b.go
//	docs
//	└── readme.md
//	mixed
//	├── one
//	│   └── deep
//	│       └── leaf
//	└── two
func chainFixture() *tree.Tree {
	return tree.Build([]tree.RawNode{
		tree.NewRawNode("src", "", "src"),
		tree.NewRawNode("pkg", "src", "pkg"),
		tree.NewRawNode("util", "pkg", "util"),
		tree.NewRawNode("a.go", "util", "a.go"),
		tree.NewRawNode("b.go", "util", "b.go"),
		tree.NewRawNode("docs", "", "docs"),
		tree.NewRawNode("readme.md", "docs", "readme.md"),
		tree.NewRawNode("mixed", "", "mixed"),
		tree.NewRawNode("one", "mixed", "one"),
		tree.NewRawNode("deep", "one", "deep"),
		tree.NewRawNode("leaf", "deep", "leaf"),
		tree.NewRawNode("two", "mixed", "two"),
	})
}

func TestCompact_FoldsSingleBranchChains(t *testing.T) {
	tr := chainFixture()
	rows := ComputeVisible(tr.Nodes, ExpandAll(tr.Nodes))

	f := Compact(rows, &tr.Index)
	chains := f.Chains

	want := []string{"util", "a.go", "b.go", "docs", "readme.md", "mixed", "deep", "leaf", "two"}
	if ids := IDs(f.Rows); !reflect.DeepEqual(ids, want) {
		t.Fatalf("rows = %v, want %v", ids, want)
	}
	if !reflect.DeepEqual(f.Depths, []int{0, 1, 1, 0, 1, 0, 1, 2, 1}) {
		t.Fatalf("depths = %v", f.Depths)
	}
	if c := chains["util"]; !reflect.DeepEqual(c, []string{"src", "pkg", "util"}) {
		t.Fatalf("util chain = %v", c)
	}
	if c := chains["deep"]; !reflect.DeepEqual(c, []string{"one", "deep"}) {
		t.Fatalf("deep chain = %v", c)
	}
	// docs holds a single leaf and mixed holds two children.
	for _, id := range []string{"docs", "mixed", "a.go"} {
		if _, ok := chains[id]; ok {
			t.Fatalf("%s should not be a chain", id)
		}
	}
}

func TestCompact_StopsAtCollapsedBranch(t *testing.T) {
	tr := chainFixture()
	rows := ComputeVisible(tr.Nodes, tree.NewSet("src"))

	f := Compact(rows, &tr.Index)

	if ids := IDs(f.Rows); !reflect.DeepEqual(ids, []string{"pkg", "docs", "mixed"}) {
		t.Fatalf("rows = %v", ids)
	}
	if c := f.Chains["pkg"]; !reflect.DeepEqual(c, []string{"src", "pkg"}) {
		t.Fatalf("pkg chain = %v", c)
	}
}

func TestCompact_UsesFullChildCountUnderFilter(t *testing.T) {
	tr := chainFixture()
	filter := tree.NewSet("mixed", "one", "deep", "leaf")
	rows := ComputeFilteredVisible(tr.Nodes, ExpandAll(tr.Nodes), filter)

	f := Compact(rows, &tr.Index)

	// mixed keeps its own row because "two" exists, even though it is hidden.
	if ids := IDs(f.Rows); !reflect.DeepEqual(ids, []string{"mixed", "deep", "leaf"}) {
		t.Fatalf("rows = %v", ids)
	}
	if _, ok := f.Chains["mixed"]; ok {
		t.Fatalf("mixed should not fold")
	}
}

func TestCompact_InputUntouched(t *testing.T) {
	tr := chainFixture()
	rows := ComputeVisible(tr.Nodes, ExpandAll(tr.Nodes))
	before := IDs(rows)

	_ = Compact(rows, &tr.Index)

	if !reflect.DeepEqual(IDs(rows), before) {
		t.Fatalf("Compact modified its input")
	}
	if f := Compact(nil, &tr.Index); len(f.Rows) != 0 || len(f.Chains) != 0 {
		t.Fatalf("empty input = %+v", f)
	}
}

func TestSingleBranchRun(t *testing.T) {
	tr := chainFixture()
	cases := map[string][]string{
		"src":  {"pkg", "util"},
		"pkg":  {"util"},
		"util": nil,
		"docs": nil,
		"one":  {"deep"},
		"leaf": nil,
		"nope": nil,
	}
	for id, want := range cases {
		if got := SingleBranchRun(id, &tr.Index); !reflect.DeepEqual(got, want) {
			t.Fatalf("SingleBranchRun(%q) = %v, want %v", id, got, want)
		}
	}
}
