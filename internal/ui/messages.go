package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"treekit/internal/search"
	"treekit/internal/source"
)

type searchResultMsg struct {
	resp search.Response
}

type sourceUpdateMsg struct {
	update source.Update
}

type toastExpiredMsg struct{}

// waitForSearch blocks on the next searcher response. A closed channel ends
// the loop.
func waitForSearch(s *search.Searcher) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-s.Results()
		if !ok {
			return nil
		}
		return searchResultMsg{resp: resp}
	}
}

func waitForSource(ch <-chan source.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return sourceUpdateMsg{update: u}
	}
}
