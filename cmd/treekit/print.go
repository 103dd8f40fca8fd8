package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"treekit/internal/checkbox"
	"treekit/internal/engine"
	"treekit/internal/ui/theme"
)

// runSummary is printed after the tree in --print mode.
type runSummary struct {
	Version string
	Source  string
	Query   string

	Total   int
	Visible int
	Checked int
	Matches int
	Orphans int
	Skipped int
}

func summaryFor(eng *engine.Engine, version, label, query string) runSummary {
	t := eng.Tree()
	return runSummary{
		Version: version,
		Source:  label,
		Query:   query,
		Total:   eng.TotalCount(),
		Visible: eng.VisibleCount(),
		Checked: eng.CheckedCount(),
		Matches: eng.MatchCount(),
		Orphans: len(t.Index.Orphans),
		Skipped: t.Index.Skipped,
	}
}

// printTree writes the visible rows, indented by depth. Folded runs print
// as one "a/b/c" row.
func printTree(w io.Writer, eng *engine.Engine) {
	checkable := eng.Options().Checkable
	for _, n := range eng.Visible() {
		row := eng.Row(n)
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", row.Depth))
		switch {
		case !n.HasChildren:
			b.WriteString("  ")
		case eng.IsExpanded(n.ID):
			b.WriteString("▾ ")
		default:
			b.WriteString("▸ ")
		}
		if checkable {
			switch eng.CheckState(n.ID) {
			case checkbox.Checked:
				b.WriteString("[x] ")
			case checkbox.Indeterminate:
				b.WriteString("[-] ")
			default:
				b.WriteString("[ ] ")
			}
		}
		if n.Icon != "" {
			b.WriteString(n.Icon + " ")
		}
		b.WriteString(row.Label)
		if row.Match {
			b.WriteString(" *")
		}
		_, _ = fmt.Fprintln(w, b.String())
	}
}

func printSummary(w io.Writer, s runSummary) {
	p := theme.Current()
	appStyle := lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	mutedStyle := lipgloss.NewStyle().Foreground(p.TextMuted)
	warnStyle := lipgloss.NewStyle().Foreground(p.Warning)

	header := appStyle.Render("Treekit")
	if s.Version != "" {
		header += mutedStyle.Render(fmt.Sprintf(" v%s", s.Version))
	}
	if s.Source != "" {
		header += mutedStyle.Render(" • " + s.Source)
	}

	stats := fmt.Sprintf("%d nodes", s.Total)
	var parts []string
	if s.Visible != s.Total {
		parts = append(parts, fmt.Sprintf("%d shown", s.Visible))
	}
	if s.Checked > 0 {
		parts = append(parts, fmt.Sprintf("%d checked", s.Checked))
	}
	if s.Query != "" {
		parts = append(parts, fmt.Sprintf("%d %s for %q", s.Matches, plural(s.Matches, "match", "matches"), s.Query))
	}
	if len(parts) > 0 {
		stats += ": " + strings.Join(parts, ", ")
	}

	_, _ = fmt.Fprintln(w, header)
	_, _ = fmt.Fprintln(w, stats)
	if s.Orphans > 0 || s.Skipped > 0 {
		_, _ = fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d unreachable, %d skipped", s.Orphans, s.Skipped)))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
