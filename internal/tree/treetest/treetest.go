// Package treetest provides random adjacency-list generators for property
// tests of packages built on tree.
package treetest

import (
	"fmt"

	"pgregory.net/rapid"

	"treekit/internal/tree"
)

// Records draws an acyclic adjacency list of up to maxNodes records, in a
// random input order. Each record's parent is either nil or an earlier record,
// biased by a drawn branching width so shapes range from chains to stars.
func Records(maxNodes int) *rapid.Generator[[]tree.RawNode] {
	return rapid.Custom(func(t *rapid.T) []tree.RawNode {
		n := rapid.IntRange(0, maxNodes).Draw(t, "n")
		window := rapid.IntRange(1, 8).Draw(t, "window")
		rootChance := rapid.IntRange(0, 30).Draw(t, "rootChance")

		raw := make([]tree.RawNode, 0, n)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("n%d", i)
			parent := ""
			if i > 0 && rapid.IntRange(0, 99).Draw(t, fmt.Sprintf("root%d", i)) >= rootChance {
				lo := i - window
				if lo < 0 {
					lo = 0
				}
				parent = fmt.Sprintf("n%d", rapid.IntRange(lo, i-1).Draw(t, fmt.Sprintf("parent%d", i)))
			}
			raw = append(raw, tree.NewRawNode(id, parent, rapid.SampledFrom(names).Draw(t, fmt.Sprintf("name%d", i))))
		}
		if n < 2 {
			return raw
		}
		return rapid.Permutation(raw).Draw(t, "order")
	})
}

var names = []string{"alpha", "beta", "gamma", "delta", "Alpine", "betamax", "src", "lib", "工具", "配置"}

// Descendants computes the descendant ids of every node by walking the
// parent chain, independently of the flat ranges under test.
func Descendants(t *tree.Tree) map[string]tree.Set {
	out := make(map[string]tree.Set, t.Len())
	for i := range t.Nodes {
		out[t.Nodes[i].ID] = tree.NewSet()
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		for p := n.ParentID; p != ""; {
			out[p].Add(n.ID)
			parent, ok := t.Node(p)
			if !ok {
				break
			}
			p = parent.ParentID
		}
	}
	return out
}
