// Package ui is the Bubble Tea front end that browses an engine.Engine.
package ui

import (
	"io"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"treekit/internal/checkbox"
	"treekit/internal/engine"
	"treekit/internal/search"
	"treekit/internal/source"
	"treekit/internal/ui/theme"
	"treekit/internal/vlist"
)

const (
	minDetailWidth = 24
	minTreeWidth   = 18
	minListHeight  = 3
	toastDuration  = 3 * time.Second
	defaultBuffer  = 4
)

// writeClipboard is swapped out by tests.
var writeClipboard = clipboard.WriteAll

// Config configures the browser.
type Config struct {
	Engine  *engine.Engine
	Version string
	// Source labels the footer, usually the input path.
	Source string

	Debounce   time.Duration
	Navigation bool
	Loop       bool
	ShowCount  bool
	Buffer     int
	// DetailFormat is a glamour style name, or "plain".
	DetailFormat string
	// InitialQuery starts the browser with a search applied.
	InitialQuery string

	// Updates delivers reloads from a source watcher.
	Updates <-chan source.Update
	// PersistCheckMode stores a check mode chosen at runtime.
	PersistCheckMode func(checkbox.Mode) error
	Logger           *log.Logger
}

// App implements the Bubble Tea model for the tree browser.
type App struct {
	eng      *engine.Engine
	keys     KeyMap
	styles   styles
	logger   *log.Logger
	searcher *search.Searcher
	nav      *search.Navigator
	window   *vlist.Window

	cursor int
	scroll int

	textInput textinput.Model
	searching bool
	query     string

	width, height int
	ready         bool
	showHelp      bool
	showDetail    bool
	detailCache   map[string]string

	toast      string
	toastIsErr bool
	toastUntil time.Time

	cfg Config
}

// NewApp builds the model. The engine must already be initialized.
func NewApp(cfg Config) *App {
	if cfg.Engine == nil {
		cfg.Engine = engine.New(engine.DefaultOptions(), nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}

	opts := cfg.Engine.Options()
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "/"

	m := &App{
		eng:         cfg.Engine,
		keys:        DefaultKeyMap(),
		styles:      newStyles(theme.Current()),
		logger:      cfg.Logger,
		window:      vlist.NewWindow(1, cfg.Buffer),
		textInput:   ti,
		detailCache: make(map[string]string),
		cfg:         cfg,
	}
	if opts.Searchable {
		m.searcher = search.NewSearcher(search.ItemsFromTree(m.eng.Tree()),
			search.WithDebounce(cfg.Debounce),
			search.WithMode(opts.SearchMode),
			search.WithSearchLogger(cfg.Logger),
		)
		m.nav = search.NewNavigator(m.eng.Tree(), search.NavigatorOptions{
			Enabled: cfg.Navigation,
			Loop:    cfg.Loop,
		})
	}
	m.syncCursor()
	if q := cfg.InitialQuery; q != "" && m.searcher != nil {
		m.query = q
		m.textInput.SetValue(q)
		m.searcher.SearchNow(q)
	}
	return m
}

// Init starts listening for search results and source reloads.
func (m *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.searcher != nil {
		cmds = append(cmds, waitForSearch(m.searcher))
	}
	if m.cfg.Updates != nil {
		cmds = append(cmds, waitForSource(m.cfg.Updates))
	}
	return tea.Batch(cmds...)
}

// Close stops the background searcher.
func (m *App) Close() {
	if m.searcher != nil {
		m.searcher.Close()
	}
}

// Engine exposes the model's engine, mainly for the --print path and tests.
func (m *App) Engine() *engine.Engine {
	return m.eng
}

// currentID returns the id under the cursor.
func (m *App) currentID() (string, bool) {
	n, ok := m.eng.NodeAtVisible(m.cursor)
	if !ok {
		return "", false
	}
	return n.ID, true
}

// syncCursor keeps the cursor on the selected node when it is still visible,
// otherwise clamps it and selects whatever is under it.
func (m *App) syncCursor() {
	if id, ok := m.eng.Selected(); ok {
		if i := m.eng.VisibleIndex(id); i >= 0 {
			m.cursor = i
			m.ensureCursorVisible()
			return
		}
	}
	m.clampCursor()
	if id, ok := m.currentID(); ok {
		m.eng.Select(id)
	} else {
		m.eng.ClearSelection()
	}
	m.ensureCursorVisible()
}

func (m *App) clampCursor() {
	count := m.eng.VisibleCount()
	if m.cursor >= count {
		m.cursor = count - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// moveCursor moves by delta rows and selects the landing row.
func (m *App) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	if id, ok := m.currentID(); ok {
		m.eng.Select(id)
	}
	m.ensureCursorVisible()
}

func (m *App) listHeight() int {
	h := m.height - 4
	if h < minListHeight {
		h = minListHeight
	}
	return h
}

// ensureCursorVisible scrolls just enough to keep the cursor row on screen.
func (m *App) ensureCursorVisible() {
	height := m.listHeight()
	count := m.eng.VisibleCount()
	switch {
	case m.cursor < m.scroll:
		m.scroll = m.cursor
	case m.cursor >= m.scroll+height:
		m.scroll = m.cursor - height + 1
	}
	maxScroll := vlist.TotalSize(count, 1) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// centerOn scrolls so id sits mid-screen, used when jumping between matches.
func (m *App) centerOn(id string) {
	i := m.eng.VisibleIndex(id)
	if i < 0 {
		return
	}
	m.cursor = i
	if off, ok := vlist.ScrollToIndex(i, m.scroll, m.listHeight(), 1, m.eng.VisibleCount()); ok {
		m.scroll = off
	}
}

func (m *App) showToast(msg string, isErr bool) tea.Cmd {
	m.toast = msg
	m.toastIsErr = isErr
	m.toastUntil = time.Now().Add(toastDuration)
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{} })
}
