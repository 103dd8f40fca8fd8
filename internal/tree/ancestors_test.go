package tree

import (
	"reflect"
	"testing"
)

func sampleTree() *Tree {
	return Build([]RawNode{
		NewRawNode("root", "", "Root"),
		NewRawNode("a", "root", "A"),
		NewRawNode("a1", "a", "A1"),
		NewRawNode("a1x", "a1", "A1x"),
		NewRawNode("a2", "a", "A2"),
		NewRawNode("b", "root", "B"),
		NewRawNode("other", "", "Other"),
	})
}

func TestAncestorIDs_NearestFirst(t *testing.T) {
	tr := sampleTree()

	tests := []struct {
		id   string
		want []string
	}{
		{"a1x", []string{"a1", "a", "root"}},
		{"b", []string{"root"}},
		{"root", nil},
		{"unknown", nil},
	}
	for _, tt := range tests {
		if got := AncestorIDs(tt.id, &tr.Index); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AncestorIDs(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
	if !AncestorSet("a2", &tr.Index).Equal(NewSet("a", "root")) {
		t.Errorf("AncestorSet(a2) mismatch")
	}
}

func TestSubtreeIDs(t *testing.T) {
	tr := sampleTree()

	if got := SubtreeIDs("a", tr.Nodes, &tr.Index); !reflect.DeepEqual(got, []string{"a", "a1", "a1x", "a2"}) {
		t.Errorf("SubtreeIDs(a) = %v", got)
	}
	if got := SubtreeIDs("b", tr.Nodes, &tr.Index); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("SubtreeIDs(b) = %v", got)
	}
	if got := SubtreeIDs("nope", tr.Nodes, &tr.Index); got != nil {
		t.Errorf("SubtreeIDs(unknown) = %v, want nil", got)
	}
}

func TestIsAncestor(t *testing.T) {
	tr := sampleTree()

	if !IsAncestor("root", "a1x", &tr.Index) {
		t.Errorf("root should be an ancestor of a1x")
	}
	if IsAncestor("a1x", "a1x", &tr.Index) {
		t.Errorf("a node is not its own strict ancestor")
	}
	if IsAncestor("b", "a1", &tr.Index) || IsAncestor("other", "a", &tr.Index) {
		t.Errorf("unrelated nodes reported as ancestors")
	}
	if IsAncestor("ghost", "a", &tr.Index) {
		t.Errorf("unknown id reported as ancestor")
	}
}

func TestParentLookup(t *testing.T) {
	tr := sampleTree()
	p, ok := tr.Parent("a1")
	if !ok || p.ID != "a" {
		t.Fatalf("Parent(a1) = %v, %v", p, ok)
	}
	if _, ok := tr.Parent("root"); ok {
		t.Fatalf("root has no parent")
	}
}

func TestSetOperations(t *testing.T) {
	s := NewSet("b", "a")
	c := s.Clone()
	c.Add("z")
	c.Remove("a")

	if s.Has("z") || !s.Has("a") {
		t.Fatalf("Clone must not alias the original")
	}
	if got := Union(s, c).Slice(); !reflect.DeepEqual(got, []string{"a", "b", "z"}) {
		t.Fatalf("Union = %v", got)
	}
	var empty Set
	if empty.Has("a") || empty.Len() != 0 || empty.Clone() == nil {
		t.Fatalf("nil set should behave as empty")
	}
	if !NewSet().Equal(empty) {
		t.Fatalf("empty sets should be equal")
	}
}
