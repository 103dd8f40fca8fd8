package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type helpSection struct {
	title string
	rows  [][]string
}

func helpRow(b key.Binding) []string {
	return []string{b.Help().Key, b.Help().Desc}
}

// getHelpSections lays out the help overlay. Text comes from the bindings.
func getHelpSections(keys KeyMap) []helpSection {
	return []helpSection{
		{
			title: "NAVIGATION",
			rows: [][]string{
				helpRow(keys.Up),
				helpRow(keys.Left),
				helpRow(keys.Home),
				helpRow(keys.End),
				helpRow(keys.PageUp),
				helpRow(keys.PageDown),
			},
		},
		{
			title: "TREE",
			rows: [][]string{
				helpRow(keys.Toggle),
				helpRow(keys.Check),
				helpRow(keys.ExpandAll),
				helpRow(keys.CollapseAll),
				helpRow(keys.Depth),
				helpRow(keys.CheckAll),
				helpRow(keys.UncheckAll),
				helpRow(keys.Accordion),
				helpRow(keys.CheckMode),
				helpRow(keys.Compact),
			},
		},
		{
			title: "SEARCH",
			rows: [][]string{
				helpRow(keys.Search),
				helpRow(keys.NextMatch),
				helpRow(keys.PrevMatch),
				helpRow(keys.Escape),
			},
		},
		{
			title: "ACTIONS",
			rows: [][]string{
				helpRow(keys.Detail),
				helpRow(keys.Copy),
				helpRow(keys.CopyChecked),
				helpRow(keys.Theme),
				helpRow(keys.Quit),
			},
		},
	}
}

// renderHelpOverlay creates the centered help modal.
func renderHelpOverlay(st styles, keys KeyMap, width, height int) string {
	sections := getHelpSections(keys)

	leftCol := lipgloss.JoinVertical(lipgloss.Left,
		renderHelpSectionTable(st, sections[0]),
		"",
		renderHelpSectionTable(st, sections[2]),
	)
	rightCol := lipgloss.JoinVertical(lipgloss.Left,
		renderHelpSectionTable(st, sections[1]),
		"",
		renderHelpSectionTable(st, sections[3]),
	)
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "    ", rightCol)

	dividerWidth := lipgloss.Width(columns)
	if dividerWidth < 40 {
		dividerWidth = 40
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		st.helpTitle.Render("✦ TREEKIT HELP ✦"),
		st.helpDivider.Render(strings.Repeat("─", dividerWidth)),
		"",
		columns,
		"",
		st.helpFooter.Render("Press ? or Esc to close"),
	)

	return lipgloss.Place(width, height,
		lipgloss.Center, lipgloss.Center,
		st.helpOverlay.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func renderHelpSectionTable(st styles, section helpSection) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return st.helpKey.Width(14)
			}
			return st.helpDesc
		}).
		Rows(section.rows...)

	header := st.helpSectionHeader.Render(section.title)
	underline := st.helpDivider.Render(strings.Repeat("─", len(section.title)))

	// The hidden border adds an empty top row.
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		underline,
		strings.TrimPrefix(t.String(), "\n"),
	)
}
