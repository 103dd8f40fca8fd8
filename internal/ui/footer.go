package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// footerHint is a short key hint; these are terser than the KeyMap help.
type footerHint struct {
	key  string
	desc string
}

var globalFooterHints = []footerHint{
	{"/", "Search"},
	{"d", "Detail"},
	{"q", "Quit"},
	{"?", "Help"},
}

var treeFooterHints = []footerHint{
	{"↑↓", "Navigate"},
	{"←→", "Expand"},
}

var checkFooterHints = []footerHint{
	{"␣", "Check"},
}

var matchFooterHints = []footerHint{
	{"n/N", "Matches"},
}

// renderFooter renders pill-style key hints with the source on the right.
func (m *App) renderFooter() string {
	var hints []footerHint
	if m.query != "" && m.nav != nil {
		hints = append(hints, matchFooterHints...)
	}
	hints = append(hints, treeFooterHints...)
	if m.eng.Options().Checkable {
		hints = append(hints, checkFooterHints...)
	}
	hints = append(hints, globalFooterHints...)

	right := ""
	if m.cfg.Source != "" {
		right = m.styles.muted.Render("Source: " + filepath.Base(m.cfg.Source))
	}
	rightWidth := lipgloss.Width(right)

	hints = m.trimHintsToFit(hints, m.width-rightWidth-4)
	left := m.renderHints(hints)

	spacing := m.width - lipgloss.Width(left) - rightWidth
	if spacing < 2 {
		spacing = 2
	}
	return left + strings.Repeat(" ", spacing) + right
}

func (m *App) keyPill(key, desc string) string {
	return m.styles.keyPill.Render(" "+key+" ") + " " + m.styles.keyDesc.Render(desc)
}

func (m *App) renderHints(hints []footerHint) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, m.keyPill(h.key, h.desc))
	}
	return strings.Join(parts, "  ")
}

// trimHintsToFit drops context hints first, then globals from the end.
func (m *App) trimHintsToFit(hints []footerHint, available int) []footerHint {
	globalCount := len(globalFooterHints)
	for len(hints) > 0 && lipgloss.Width(m.renderHints(hints)) > available {
		if len(hints) > globalCount {
			hints = hints[1:]
		} else {
			hints = hints[:len(hints)-1]
		}
	}
	return hints
}
