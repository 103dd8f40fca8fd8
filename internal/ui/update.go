package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"treekit/internal/checkbox"
	"treekit/internal/search"
	"treekit/internal/source"
	"treekit/internal/ui/theme"
)

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ensureCursorVisible()
		return m, nil

	case searchResultMsg:
		return m, m.handleSearchResult(msg.resp)

	case sourceUpdateMsg:
		return m, m.handleSourceUpdate(msg.update)

	case toastExpiredMsg:
		if !time.Now().Before(m.toastUntil) {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.searching {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.clearSearch()
			return m, nil
		case msg.Type == tea.KeyEnter:
			m.searching = false
			m.textInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		if v := m.textInput.Value(); v != m.query {
			m.query = v
			m.searcher.Search(v)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Search):
		if m.searcher != nil {
			m.searching = true
			m.textInput.SetValue(m.query)
			m.textInput.CursorEnd()
			return m, m.textInput.Focus()
		}
	case key.Matches(msg, m.keys.Escape):
		if m.query != "" {
			m.clearSearch()
		}

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-m.cursor)
	case key.Matches(msg, m.keys.End):
		m.moveCursor(m.eng.VisibleCount())
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keys.Left):
		m.collapseOrParent()
	case key.Matches(msg, m.keys.Right):
		m.expandOrChild()

	case key.Matches(msg, m.keys.Toggle):
		if id, ok := m.currentID(); ok {
			m.eng.Toggle(id)
			m.syncCursor()
		}
	case key.Matches(msg, m.keys.Check):
		if id, ok := m.currentID(); ok && m.eng.Options().Checkable {
			m.eng.ToggleCheck(id)
		}
	case key.Matches(msg, m.keys.ExpandAll):
		m.eng.ExpandAll()
		m.syncCursor()
	case key.Matches(msg, m.keys.CollapseAll):
		m.eng.CollapseAll()
		m.syncCursor()
	case key.Matches(msg, m.keys.Depth):
		depth, _ := strconv.Atoi(msg.String())
		m.eng.ExpandToDepth(depth)
		m.syncCursor()
	case key.Matches(msg, m.keys.CheckAll):
		if m.eng.Options().Checkable {
			m.eng.CheckAll()
		}
	case key.Matches(msg, m.keys.UncheckAll):
		if m.eng.Options().Checkable {
			m.eng.UncheckAll()
		}
	case key.Matches(msg, m.keys.Accordion):
		on := !m.eng.Options().Accordion
		m.eng.SetAccordion(on)
		return m, m.showToast(fmt.Sprintf("Accordion %s", onOff(on)), false)
	case key.Matches(msg, m.keys.CheckMode):
		return m, m.switchCheckMode()
	case key.Matches(msg, m.keys.Compact):
		on := !m.eng.Options().CompactFolders
		m.eng.SetCompactFolders(on)
		m.syncCursor()
		return m, m.showToast(fmt.Sprintf("Compact folders %s", onOff(on)), false)

	case key.Matches(msg, m.keys.NextMatch):
		if m.nav != nil {
			m.focusMatch(m.nav.Next())
		}
	case key.Matches(msg, m.keys.PrevMatch):
		if m.nav != nil {
			m.focusMatch(m.nav.Prev())
		}

	case key.Matches(msg, m.keys.Detail):
		m.showDetail = !m.showDetail
	case key.Matches(msg, m.keys.Copy):
		if id, ok := m.currentID(); ok {
			return m, m.copy(id, fmt.Sprintf("Copied '%s' to clipboard.", id))
		}
	case key.Matches(msg, m.keys.CopyChecked):
		ids := m.eng.CheckedLeafIDs()
		if len(ids) == 0 {
			return m, m.showToast("Nothing checked.", false)
		}
		return m, m.copy(strings.Join(ids, "\n"), fmt.Sprintf("Copied %d checked IDs.", len(ids)))
	case key.Matches(msg, m.keys.Theme):
		name := theme.Cycle()
		m.styles = newStyles(theme.Current())
		m.detailCache = make(map[string]string)
		return m, m.showToast("Theme: "+name, false)
	}
	return m, nil
}

func (m *App) collapseOrParent() {
	id, ok := m.currentID()
	if !ok {
		return
	}
	if m.eng.IsExpanded(id) {
		m.eng.SetExpanded(id, false)
		m.syncCursor()
		return
	}
	// A folded row steps out to the parent of its outermost branch.
	if n, ok := m.eng.Node(id); ok {
		if chain := m.eng.Row(n).Chain; len(chain) > 0 {
			id = chain[0]
		}
	}
	if n, ok := m.eng.Tree().Parent(id); ok {
		m.eng.Select(n.ID)
		m.syncCursor()
	}
}

func (m *App) expandOrChild() {
	n, ok := m.eng.NodeAtVisible(m.cursor)
	if !ok || !n.HasChildren {
		return
	}
	if !m.eng.IsExpanded(n.ID) {
		m.eng.SetExpanded(n.ID, true)
		m.syncCursor()
		return
	}
	m.moveCursor(1)
}

func (m *App) switchCheckMode() tea.Cmd {
	strict := !m.eng.Options().CheckStrictly
	m.eng.SetCheckStrictly(strict)
	mode := checkbox.Cascading
	if strict {
		mode = checkbox.Strict
	}
	if m.cfg.PersistCheckMode != nil {
		if err := m.cfg.PersistCheckMode(mode); err != nil {
			m.logger.Printf("persist check mode: %v", err)
			return m.showToast(fmt.Sprintf("Check mode %s (not saved: %v)", mode, err), true)
		}
	}
	return m.showToast(fmt.Sprintf("Check mode: %s", mode), false)
}

func (m *App) clearSearch() {
	m.searching = false
	m.textInput.Blur()
	m.textInput.SetValue("")
	m.query = ""
	if m.searcher != nil {
		m.searcher.Clear()
	}
	if m.nav != nil {
		m.nav.Reset()
	}
	m.eng.ClearFilter()
	m.syncCursor()
}

// focusMatch reveals the match a navigator step landed on.
func (m *App) focusMatch(step search.Step) {
	if step.ID == "" {
		return
	}
	m.eng.Reveal(step.ID)
	m.syncCursor()
	m.centerOn(step.ID)
}

func (m *App) handleSearchResult(resp search.Response) tea.Cmd {
	next := waitForSearch(m.searcher)
	if !m.searcher.IsCurrent(resp) {
		m.logger.Printf("drop stale search result %d", resp.Seq)
		return next
	}

	if resp.Result.Empty() {
		m.eng.ClearFilter()
		if m.nav != nil {
			m.nav.Reset()
		}
		m.syncCursor()
		return next
	}

	if m.eng.Options().Filterable {
		m.eng.ApplyResult(resp.Result)
	}
	if m.nav != nil {
		m.focusMatch(m.nav.Update(resp.Result.MatchIDs))
	}
	m.syncCursor()
	return next
}

func (m *App) handleSourceUpdate(u source.Update) tea.Cmd {
	next := waitForSource(m.cfg.Updates)
	if u.Err != nil {
		return tea.Batch(next, m.showToast("Reload failed: "+u.Err.Error(), true))
	}

	m.eng.Reload(u.Records)
	m.detailCache = make(map[string]string)
	if m.searcher != nil {
		m.searcher.Reindex(search.ItemsFromTree(m.eng.Tree()))
		m.nav.SetTree(m.eng.Tree())
		if m.query != "" {
			m.searcher.SearchNow(m.query)
		}
	}
	m.syncCursor()
	return tea.Batch(next, m.showToast(fmt.Sprintf("Reloaded %d nodes.", m.eng.TotalCount()), false))
}

func (m *App) copy(text, success string) tea.Cmd {
	if err := writeClipboard(text); err != nil {
		return m.showToast("Copy failed: "+err.Error(), true)
	}
	return m.showToast(success, false)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
