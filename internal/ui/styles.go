package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"treekit/internal/ui/theme"
)

// styles is rebuilt from the active palette whenever the theme changes.
type styles struct {
	header      lipgloss.Style
	filterInfo  lipgloss.Style
	statsDim    lipgloss.Style
	row         lipgloss.Style
	rowSelected lipgloss.Style
	match       lipgloss.Style
	branch      lipgloss.Style
	checked     lipgloss.Style
	partial     lipgloss.Style
	unchecked   lipgloss.Style
	pane        lipgloss.Style
	paneFocused lipgloss.Style
	keyPill     lipgloss.Style
	keyDesc     lipgloss.Style
	muted       lipgloss.Style

	helpOverlay       lipgloss.Style
	helpTitle         lipgloss.Style
	helpDivider       lipgloss.Style
	helpSectionHeader lipgloss.Style
	helpKey           lipgloss.Style
	helpDesc          lipgloss.Style
	helpFooter        lipgloss.Style

	toast      lipgloss.Style
	errorToast lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		header: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Primary).
			Bold(true).
			Padding(0, 1),
		filterInfo: lipgloss.NewStyle().Foreground(p.Text).Background(p.Primary),
		statsDim:   lipgloss.NewStyle().Foreground(p.TextMuted),
		row:        lipgloss.NewStyle().Foreground(p.Text),
		rowSelected: lipgloss.NewStyle().
			Background(p.Selection).
			Foreground(p.Text).
			Bold(true),
		match:     lipgloss.NewStyle().Foreground(p.Match).Bold(true),
		branch:    lipgloss.NewStyle().Foreground(p.TextMuted),
		checked:   lipgloss.NewStyle().Foreground(p.Success).Bold(true),
		partial:   lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		unchecked: lipgloss.NewStyle().Foreground(p.TextMuted),
		pane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Border),
		paneFocused: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.BorderFocused),
		keyPill: lipgloss.NewStyle().
			Background(p.Primary).
			Foreground(p.Text).
			Bold(true),
		keyDesc: lipgloss.NewStyle().Foreground(p.TextMuted),
		muted:   lipgloss.NewStyle().Foreground(p.TextMuted),

		helpOverlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
		helpTitle:         lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		helpDivider:       lipgloss.NewStyle().Foreground(p.Primary),
		helpSectionHeader: lipgloss.NewStyle().Foreground(p.Match).Bold(true),
		helpKey:           lipgloss.NewStyle().Foreground(p.Match).Bold(true),
		helpDesc:          lipgloss.NewStyle().Foreground(p.Text),
		helpFooter:        lipgloss.NewStyle().Foreground(p.TextMuted).Italic(true),

		toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Success).
			Foreground(p.Text).
			Padding(0, 1),
		errorToast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Error).
			Foreground(p.Text).
			Padding(0, 1),
	}
}

// buildMarkdownRenderer returns a glamour renderer for the detail pane.
// "plain" or a renderer error falls back to word wrapping.
func buildMarkdownRenderer(format string, width int) func(string) string {
	fallback := func(input string) string {
		return wordwrap.String(input, width)
	}

	style := strings.ToLower(strings.TrimSpace(format))
	if style == "" || style == "rich" {
		style = "dark"
	}
	if style == "plain" {
		return fallback
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fallback
	}
	return func(input string) string {
		out, err := renderer.Render(input)
		if err != nil {
			return fallback(input)
		}
		return strings.TrimSpace(out)
	}
}
