package view

import "treekit/internal/tree"

// Folded is the result of Compact.
type Folded struct {
	Rows []*tree.FlatNode
	// Depths holds the indent of each row once folded ancestors are
	// removed, aligned with Rows.
	Depths []int
	// Chains maps each row that absorbed ancestors to the run's ids,
	// outermost first.
	Chains map[string][]string
}

// Compact folds runs of visible branches that hold exactly one child, itself
// a branch shown on the next row, into a single row. The kept row is the
// deepest branch of the run.
//
// Child counts come from idx, so a branch with several children stays on
// its own row even when a filter hides all but one of them.
func Compact(rows []*tree.FlatNode, idx *tree.Index) Folded {
	f := Folded{
		Rows:   make([]*tree.FlatNode, 0, len(rows)),
		Depths: make([]int, 0, len(rows)),
		Chains: make(map[string][]string),
	}
	var run []string
	// open holds the SubtreeEnd of every folded ancestor of the current row.
	var open []int
	for i, n := range rows {
		for len(open) > 0 && open[len(open)-1] < n.Index {
			open = open[:len(open)-1]
		}
		if i+1 < len(rows) && foldsInto(n, rows[i+1], idx) {
			run = append(run, n.ID)
			open = append(open, n.SubtreeEnd)
			continue
		}
		if len(run) > 0 {
			f.Chains[n.ID] = append(run, n.ID)
			run = nil
		}
		f.Rows = append(f.Rows, n)
		f.Depths = append(f.Depths, n.Depth-len(open))
	}
	return f
}

func foldsInto(n, next *tree.FlatNode, idx *tree.Index) bool {
	if !n.HasChildren || !next.HasChildren {
		return false
	}
	kids := idx.ChildrenMap[n.ID]
	return len(kids) == 1 && kids[0] == next.ID
}

// SingleBranchRun follows id's lone child downwards while that child is a
// branch and returns the branches passed, nearest first.
func SingleBranchRun(id string, idx *tree.Index) []string {
	var out []string
	for {
		kids := idx.ChildrenMap[id]
		if len(kids) != 1 {
			return out
		}
		child, ok := idx.NodeMap[kids[0]]
		if !ok || !child.HasChildren {
			return out
		}
		out = append(out, child.ID)
		id = child.ID
	}
}
