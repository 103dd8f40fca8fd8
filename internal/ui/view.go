package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"treekit/internal/checkbox"
	"treekit/internal/tree"
)

func (m *App) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	listHeight := m.listHeight()

	var mainBody string
	if m.showDetail && m.width >= minTreeWidth+minDetailWidth+4 {
		detailWidth := clampDimension(int(float64(m.width)*0.45)-2, minDetailWidth, m.width-minTreeWidth-4)
		treeWidth := m.width - detailWidth - 4
		left := m.styles.paneFocused.Width(treeWidth).Height(listHeight).Render(m.renderRows(treeWidth, listHeight))
		right := m.styles.pane.Width(detailWidth).Height(listHeight).Render(m.renderDetail(detailWidth, listHeight))
		mainBody = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	} else {
		width := m.width - 2
		if width < 1 {
			width = 1
		}
		mainBody = m.styles.pane.Width(width).Height(listHeight).Render(m.renderRows(width, listHeight))
	}

	var bottomBar string
	if m.searching {
		bottomBar = m.textInput.View()
	} else {
		bottomBar = m.renderFooter()
	}

	if m.showHelp {
		return fmt.Sprintf("%s\n%s\n%s", header, renderHelpOverlay(m.styles, m.keys, m.width, listHeight+2), bottomBar)
	}

	if toast := m.renderToast(); toast != "" {
		mainBody = overlayBottomRight(mainBody, toast, 1)
	}
	return fmt.Sprintf("%s\n%s\n%s", header, mainBody, bottomBar)
}

func (m *App) renderHeader() string {
	title := "TREEKIT"
	if m.cfg.Version != "" {
		title = fmt.Sprintf("TREEKIT v%s", m.cfg.Version)
	}

	parts := []string{fmt.Sprintf("Nodes: %d", m.eng.TotalCount())}
	if m.eng.VisibleCount() != m.eng.TotalCount() {
		parts = append(parts, fmt.Sprintf("%d shown", m.eng.VisibleCount()))
	}
	if m.eng.Options().Checkable && m.eng.CheckedCount() > 0 {
		parts = append(parts, fmt.Sprintf("%d checked", m.eng.CheckedCount()))
	}
	status := strings.Join(parts, " • ")

	if m.query != "" {
		label := fmt.Sprintf("Filter: %s", m.query)
		if m.cfg.ShowCount && m.nav != nil {
			cur, total := m.nav.Position()
			label += fmt.Sprintf(" (%d/%d)", cur, total)
		} else if m.cfg.ShowCount {
			label += fmt.Sprintf(" (%d)", m.eng.MatchCount())
		}
		status += " " + m.styles.filterInfo.Render(label)
	}
	return m.styles.header.Render(title) + " " + status
}

// renderRows draws the rows of the visible window. Only rows inside the
// viewport are printed; the buffer rows of the window are skipped.
func (m *App) renderRows(width, height int) string {
	count := m.eng.VisibleCount()
	if count == 0 {
		if m.query != "" {
			return m.styles.muted.Render("No matches.")
		}
		return m.styles.muted.Render("Empty tree.")
	}

	r, _ := m.window.Update(m.scroll, height, count)
	lines := make([]string, 0, height)
	for i := r.Start; i < r.End; i++ {
		if i < m.scroll || i >= m.scroll+height {
			continue
		}
		n, ok := m.eng.NodeAtVisible(i)
		if !ok {
			break
		}
		lines = append(lines, m.renderRow(n, i == m.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (m *App) renderRow(n *tree.FlatNode, selected bool, width int) string {
	row := m.eng.Row(n)
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", row.Depth))

	switch {
	case !n.HasChildren:
		b.WriteString("  ")
	case m.eng.IsExpanded(n.ID):
		b.WriteString(m.styles.branch.Render("▾ "))
	default:
		b.WriteString(m.styles.branch.Render("▸ "))
	}

	if m.eng.Options().Checkable {
		switch m.eng.CheckState(n.ID) {
		case checkbox.Checked:
			b.WriteString(m.styles.checked.Render("[x]"))
		case checkbox.Indeterminate:
			b.WriteString(m.styles.partial.Render("[-]"))
		default:
			b.WriteString(m.styles.unchecked.Render("[ ]"))
		}
		b.WriteString(" ")
	}

	if n.Icon != "" {
		b.WriteString(n.Icon + " ")
	}

	if row.Match {
		b.WriteString(m.styles.match.Render(row.Label))
	} else {
		b.WriteString(row.Label)
	}

	line := ansi.Truncate(b.String(), width, "…")
	if selected {
		pad := width - lipgloss.Width(line)
		if pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return m.styles.rowSelected.Render(ansi.Strip(line))
	}
	return m.styles.row.Render(line)
}

func (m *App) renderToast() string {
	if m.toast == "" {
		return ""
	}
	if m.toastIsErr {
		return m.styles.errorToast.Render("⚠ " + m.toast)
	}
	return m.styles.toast.Render(m.toast)
}

func clampDimension(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
