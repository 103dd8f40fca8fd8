package engine

import (
	"treekit/internal/search"
	"treekit/internal/tree"
)

// Options configures an Engine.
type Options struct {
	// Checkable enables the indeterminate flag in Status.
	Checkable bool
	// Accordion keeps at most one sibling expanded when a single node is
	// opened.
	Accordion bool
	// Filterable allows SetFilter and SetSearch to narrow the visible rows.
	Filterable bool
	// Searchable marks the tree as searchable by an interactive front end.
	Searchable bool
	// CheckStrictly makes every checkbox independent.
	CheckStrictly bool
	// CompactFolders shows a run of single-child branches as one row.
	CompactFolders bool

	DefaultExpanded []string
	DefaultChecked  []string
	DefaultSelected []string

	Fields     tree.FieldMapper
	SearchMode search.Mode
}

// DefaultOptions returns a plain tree: no checkboxes, no filtering, default
// field names and indexed search.
func DefaultOptions() Options {
	return Options{
		Fields:     tree.DefaultFieldMapper(),
		SearchMode: search.ModeIndex,
	}
}
