package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts for the browser.
// Related bindings (Up/Down, Left/Right) share help text since they appear
// as a single row in the help overlay.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Tree
	Toggle      key.Binding
	Check       key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Depth       key.Binding
	CheckAll    key.Binding
	UncheckAll  key.Binding
	Accordion   key.Binding
	CheckMode   key.Binding
	Compact     key.Binding

	// Search
	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
	Escape    key.Binding

	// Actions
	Detail      key.Binding
	Copy        key.Binding
	CopyChecked key.Binding
	Theme       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓  j/k", "Move up/down"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↑/↓  j/k", "Move up/down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/→  h/l", "Collapse/Expand"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("←/→  h/l", "Collapse/Expand"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home  g", "Jump to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End   G", "Jump to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp  Ctrl+B", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn  Ctrl+F", "Page down"),
		),

		Toggle: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("⏎ (Enter)", "Toggle expand"),
		),
		Check: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("Space", "Toggle checkbox"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Collapse all"),
		),
		Depth: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "Expand to depth"),
		),
		CheckAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Check all"),
		),
		UncheckAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Uncheck all"),
		),
		Accordion: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Toggle accordion"),
		),
		CheckMode: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Strict/cascading checks"),
		),
		Compact: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Fold single-child folders"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Start search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Clear/cancel"),
		),

		Detail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Toggle detail"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy ID"),
		),
		CopyChecked: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "Copy checked IDs"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Next theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
	}
}
