// Package search finds nodes by name and reports which ancestors must be
// expanded to reveal them.
package search

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"treekit/internal/tree"
)

// Item is the searchable projection of a node.
type Item struct {
	ID       string
	Name     string
	ParentID string
}

// ItemsFromTree projects every reachable node of t in flat order.
func ItemsFromTree(t *tree.Tree) []Item {
	if t == nil {
		return nil
	}
	items := make([]Item, len(t.Nodes))
	for i := range t.Nodes {
		n := &t.Nodes[i]
		items[i] = Item{ID: n.ID, Name: n.Name, ParentID: n.ParentID}
	}
	return items
}

// Result is the outcome of one query. Both sets are empty for a blank
// keyword, which callers treat as "clear".
type Result struct {
	MatchIDs  tree.Set
	ExpandIDs tree.Set
}

// EmptyResult returns a result with two empty, non-nil sets.
func EmptyResult() Result {
	return Result{MatchIDs: tree.NewSet(), ExpandIDs: tree.NewSet()}
}

// Empty reports whether nothing matched.
func (r Result) Empty() bool {
	return r.MatchIDs.Len() == 0
}

// FilterSet is the matches plus every ancestor of a match.
func (r Result) FilterSet() tree.Set {
	return tree.Union(r.MatchIDs, r.ExpandIDs)
}

// Mode selects the matcher behind a query.
type Mode int

const (
	// ModeIndex looks tokens up in an InvertedIndex and falls back to a scan.
	ModeIndex Mode = iota
	// ModeSubstring is a case-insensitive substring scan.
	ModeSubstring
	// ModeFuzzy matches the keyword as a subsequence of the name.
	ModeFuzzy
)

func (m Mode) String() string {
	switch m {
	case ModeSubstring:
		return "substring"
	case ModeFuzzy:
		return "fuzzy"
	default:
		return "index"
	}
}

// ParseMode maps a config value to a Mode. Empty input is ModeIndex.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "index":
		return ModeIndex, nil
	case "substring":
		return ModeSubstring, nil
	case "fuzzy":
		return ModeFuzzy, nil
	default:
		return ModeIndex, fmt.Errorf("unknown search mode %q", s)
	}
}

// normalize lower-cases and trims a keyword. ok is false for blank input.
func normalize(keyword string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(keyword))
	return k, k != ""
}

// Sync matches keyword as a case-insensitive substring of each item's name.
func Sync(keyword string, items []Item) Result {
	k, ok := normalize(keyword)
	if !ok {
		return EmptyResult()
	}
	matches := tree.NewSet()
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), k) {
			matches.Add(it.ID)
		}
	}
	return withAncestors(matches, parentsOf(items))
}

// Fuzzy matches keyword as a subsequence of each item's name.
func Fuzzy(keyword string, items []Item) Result {
	k, ok := normalize(keyword)
	if !ok {
		return EmptyResult()
	}
	targets := make([]string, len(items))
	for i, it := range items {
		targets[i] = strings.ToLower(it.Name)
	}
	matches := tree.NewSet()
	for _, m := range fuzzy.Find(k, targets) {
		if m.Index >= 0 && m.Index < len(items) {
			matches.Add(items[m.Index].ID)
		}
	}
	return withAncestors(matches, parentsOf(items))
}

// Run dispatches to the matcher for mode. ModeIndex builds a throwaway
// index; callers issuing repeated queries should keep an InvertedIndex.
func Run(mode Mode, keyword string, items []Item) Result {
	switch mode {
	case ModeSubstring:
		return Sync(keyword, items)
	case ModeFuzzy:
		return Fuzzy(keyword, items)
	default:
		return NewInvertedIndex(items).Lookup(keyword)
	}
}

func parentsOf(items []Item) map[string]string {
	parents := make(map[string]string, len(items))
	for _, it := range items {
		parents[it.ID] = it.ParentID
	}
	return parents
}

// withAncestors collects the parent chain of every match. A chain that loops
// stops at the first repeated id.
func withAncestors(matches tree.Set, parents map[string]string) Result {
	expand := tree.NewSet()
	for id := range matches {
		for p := parents[id]; p != "" && !expand.Has(p); p = parents[p] {
			expand.Add(p)
		}
	}
	return Result{MatchIDs: matches, ExpandIDs: expand}
}
