package main

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"treekit/internal/source"
	"treekit/internal/tree"
)

func TestGenerateRespectsLimits(t *testing.T) {
	opts := genOptions{nodes: 500, depth: 4, children: 5, seed: 7, shape: "tree", format: "json"}
	records := generate(opts)
	if len(records) != 500 {
		t.Fatalf("expected 500 records, got %d", len(records))
	}

	raw := make([]tree.RawNode, 0, len(records))
	for _, r := range records {
		raw = append(raw, tree.NewRawNode(r.ID, r.ParentID, r.Name))
	}
	tr := tree.Build(raw)
	if tr.Len() != 500 || len(tr.Index.Orphans) != 0 {
		t.Fatalf("every record should be reachable, len=%d orphans=%d", tr.Len(), len(tr.Index.Orphans))
	}
	for _, n := range tr.Nodes {
		if n.Depth >= opts.depth {
			t.Fatalf("node %s at depth %d exceeds limit %d", n.ID, n.Depth, opts.depth)
		}
		if c := len(tr.Children(n.ID)); c > opts.children {
			t.Fatalf("node %s has %d children, limit %d", n.ID, c, opts.children)
		}
	}
}

func TestGenerateAddsRootsWhenBranchesAreFull(t *testing.T) {
	// Depth 2 with 3 children per root holds 12 nodes under the first
	// 3 roots; the rest need extra roots.
	opts := genOptions{nodes: 40, depth: 2, children: 3, seed: 9, shape: "tree", format: "json"}
	records := generate(opts)
	if len(records) != 40 {
		t.Fatalf("expected 40 records, got %d", len(records))
	}
	roots := 0
	for _, r := range records {
		if r.ParentID == "" {
			roots++
		}
	}
	if roots <= opts.children {
		t.Fatalf("expected extra roots once branches filled, got %d roots", roots)
	}

	flat := generate(genOptions{nodes: 7, depth: 1, children: 2, seed: 1, shape: "tree", format: "json"})
	if len(flat) != 7 {
		t.Fatalf("depth 1 should still reach the node count, got %d", len(flat))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	opts := genOptions{nodes: 200, depth: 5, children: 4, seed: 42, shape: "fs", format: "json"}
	a, b := generate(opts), generate(opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed should give the same records")
	}
	opts.seed = 43
	if reflect.DeepEqual(a, generate(opts)) {
		t.Fatalf("different seeds should differ")
	}
}

func TestGenerateFSShapeNames(t *testing.T) {
	records := generate(genOptions{nodes: 50, depth: 3, children: 3, seed: 1, shape: "fs", format: "json"})
	branches := map[string]bool{}
	for _, r := range records {
		branches[r.ParentID] = true
	}
	for _, r := range records {
		if branches[r.ID] && r.Icon != "📁" {
			t.Fatalf("branch %s should use the folder icon, got %q", r.ID, r.Icon)
		}
		if !branches[r.ID] && r.Icon != "📄" {
			t.Fatalf("leaf %s should use the file icon, got %q", r.ID, r.Icon)
		}
	}
}

func TestRunWritesLoadableFiles(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tree."+format)
			opts := genOptions{nodes: 120, depth: 4, children: 6, seed: 3, shape: "fs", format: format}
			if err := run(opts, path); err != nil {
				t.Fatalf("run returned error: %v", err)
			}
			records, err := source.Load(context.Background(), source.Spec{Path: path})
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if tr := tree.Build(records); tr.Len() != 120 {
				t.Fatalf("expected 120 nodes, got %d", tr.Len())
			}
		})
	}
}

func TestValidate(t *testing.T) {
	bad := []genOptions{
		{nodes: -1, depth: 1, children: 1, shape: "tree", format: "json"},
		{nodes: 1, depth: 0, children: 1, shape: "tree", format: "json"},
		{nodes: 1, depth: 1, children: 0, shape: "tree", format: "json"},
		{nodes: 1, depth: 1, children: 1, shape: "graph", format: "json"},
		{nodes: 1, depth: 1, children: 1, shape: "tree", format: "xml"},
	}
	for i, o := range bad {
		if err := o.validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
