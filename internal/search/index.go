package search

import (
	"sort"
	"strings"

	"treekit/internal/tree"
)

// Tokenize splits a name for indexing. Runs of ASCII letters and digits form
// one token, every CJK unified ideograph is a token of its own, and anything
// else separates tokens. Output is lower-case.
func Tokenize(name string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			cur.WriteRune(r)
		case r >= 0x4E00 && r <= 0x9FFF:
			flush()
			tokens = append(tokens, string(r))
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// InvertedIndex maps tokens to the ids whose names contain them. It is
// immutable once built and safe for concurrent lookups.
type InvertedIndex struct {
	items    []Item
	parents  map[string]string
	tokens   []string // sorted
	postings map[string][]string
}

// NewInvertedIndex tokenizes every item name.
func NewInvertedIndex(items []Item) *InvertedIndex {
	idx := &InvertedIndex{
		items:    items,
		parents:  parentsOf(items),
		postings: make(map[string][]string),
	}
	for _, it := range items {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(it.Name) {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			idx.postings[tok] = append(idx.postings[tok], it.ID)
		}
	}
	idx.tokens = make([]string, 0, len(idx.postings))
	for tok := range idx.postings {
		idx.tokens = append(idx.tokens, tok)
	}
	sort.Strings(idx.tokens)
	return idx
}

// Len returns the number of indexed items.
func (x *InvertedIndex) Len() int {
	return len(x.items)
}

// Tokens returns the number of distinct tokens.
func (x *InvertedIndex) Tokens() int {
	return len(x.tokens)
}

// Lookup returns the ids owning a token that contains keyword. When no token
// does, every name is scanned for keyword as a substring instead, which
// catches keywords spanning separators such as "foo bar".
func (x *InvertedIndex) Lookup(keyword string) Result {
	k, ok := normalize(keyword)
	if !ok {
		return EmptyResult()
	}
	matches := tree.NewSet()
	for _, tok := range x.tokens {
		if strings.Contains(tok, k) {
			for _, id := range x.postings[tok] {
				matches.Add(id)
			}
		}
	}
	if matches.Len() == 0 {
		for _, it := range x.items {
			if strings.Contains(strings.ToLower(it.Name), k) {
				matches.Add(it.ID)
			}
		}
	}
	return withAncestors(matches, x.parents)
}
