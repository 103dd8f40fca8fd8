package search

import (
	"reflect"
	"testing"

	"treekit/internal/tree"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"string_utils.go", []string{"string", "utils", "go"}},
		{"README Main", []string{"readme", "main"}},
		{"配置文件", []string{"配", "置", "文", "件"}},
		{"v2配置-file", []string{"v2", "配", "置", "file"}},
		{"--__--", nil},
		{"", nil},
		{"Ünïcode", []string{"n", "code"}},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInvertedIndex_Lookup(t *testing.T) {
	idx := NewInvertedIndex(fixtureItems())

	r := idx.Lookup("util")
	if !r.MatchIDs.Equal(tree.NewSet("util")) {
		t.Fatalf("util = %v", r.MatchIDs.Slice())
	}
	if !r.ExpandIDs.Equal(tree.NewSet("src", "root")) {
		t.Fatalf("expand = %v", r.ExpandIDs.Slice())
	}

	// infix of a token
	if r := idx.Lookup("ADM"); !r.MatchIDs.Equal(tree.NewSet("readme")) {
		t.Fatalf("ADM = %v", r.MatchIDs.Slice())
	}

	// single CJK character
	if r := idx.Lookup("置"); !r.MatchIDs.Equal(tree.NewSet("cfg")) {
		t.Fatalf("置 = %v", r.MatchIDs.Slice())
	}
}

func TestInvertedIndex_FallsBackToScan(t *testing.T) {
	idx := NewInvertedIndex(fixtureItems())

	// spans a separator, so no single token holds it
	r := idx.Lookup("me ma")
	if !r.MatchIDs.Equal(tree.NewSet("readme")) {
		t.Fatalf("fallback = %v", r.MatchIDs.Slice())
	}
	if r := idx.Lookup("配置"); !r.MatchIDs.Equal(tree.NewSet("cfg")) {
		t.Fatalf("multi-char CJK fallback = %v", r.MatchIDs.Slice())
	}
	if r := idx.Lookup("zzz"); !r.Empty() {
		t.Fatalf("zzz = %v", r.MatchIDs.Slice())
	}
	if r := idx.Lookup("  "); !r.Empty() {
		t.Fatalf("blank keyword should clear")
	}
}

func TestInvertedIndex_AgreesWithSyncOnSingleTokens(t *testing.T) {
	items := fixtureItems()
	idx := NewInvertedIndex(items)
	for _, kw := range []string{"src", "go", "main", "doc", "project"} {
		want := Sync(kw, items)
		got := idx.Lookup(kw)
		if !got.MatchIDs.Equal(want.MatchIDs) || !got.ExpandIDs.Equal(want.ExpandIDs) {
			t.Fatalf("%q: index %v, sync %v", kw, got.MatchIDs.Slice(), want.MatchIDs.Slice())
		}
	}
	if idx.Len() != len(items) || idx.Tokens() == 0 {
		t.Fatalf("Len=%d Tokens=%d", idx.Len(), idx.Tokens())
	}
}
