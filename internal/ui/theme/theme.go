// Package theme holds the color palettes the tree browser can render with.
package theme

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DefaultName is the palette active until SetTheme picks another.
const DefaultName = "default"

// Palette is the set of semantic colors a view draws with.
type Palette struct {
	Primary       lipgloss.AdaptiveColor // header and focused borders
	Accent        lipgloss.AdaptiveColor // ids and titles
	Success       lipgloss.AdaptiveColor // checked boxes
	Warning       lipgloss.AdaptiveColor // partially checked boxes
	Error         lipgloss.AdaptiveColor
	Match         lipgloss.AdaptiveColor // search hits
	Text          lipgloss.AdaptiveColor
	TextMuted     lipgloss.AdaptiveColor
	Selection     lipgloss.AdaptiveColor // cursor row background
	Border        lipgloss.AdaptiveColor
	BorderFocused lipgloss.AdaptiveColor
}

func c(dark, light string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: dark, Light: light}
}

var (
	mu       sync.RWMutex
	palettes = map[string]Palette{
		DefaultName: {
			Primary:       c("99", "57"),
			Accent:        c("220", "130"),
			Success:       c("118", "28"),
			Warning:       c("208", "166"),
			Error:         c("203", "160"),
			Match:         c("39", "27"),
			Text:          c("255", "235"),
			TextMuted:     c("246", "242"),
			Selection:     c("57", "189"),
			Border:        c("240", "250"),
			BorderFocused: c("99", "57"),
		},
		"catppuccin": {
			Primary:       c("#89b4fa", "#1e66f5"),
			Accent:        c("#fab387", "#fe640b"),
			Success:       c("#a6e3a1", "#40a02b"),
			Warning:       c("#f9e2af", "#df8e1d"),
			Error:         c("#f38ba8", "#d20f39"),
			Match:         c("#89dceb", "#04a5e5"),
			Text:          c("#cdd6f4", "#4c4f69"),
			TextMuted:     c("#6c7086", "#9ca0b0"),
			Selection:     c("#313244", "#e6e9ef"),
			Border:        c("#45475a", "#ccd0da"),
			BorderFocused: c("#89b4fa", "#1e66f5"),
		},
		"dracula": {
			Primary:       c("#bd93f9", "#7e57c2"),
			Accent:        c("#f1fa8c", "#f9a825"),
			Success:       c("#50fa7b", "#388e3c"),
			Warning:       c("#ffb86c", "#ef6c00"),
			Error:         c("#ff5555", "#d32f2f"),
			Match:         c("#8be9fd", "#0097a7"),
			Text:          c("#f8f8f2", "#212121"),
			TextMuted:     c("#6272a4", "#757575"),
			Selection:     c("#44475a", "#e0e0e0"),
			Border:        c("#6272a4", "#bdbdbd"),
			BorderFocused: c("#bd93f9", "#7e57c2"),
		},
		"gruvbox": {
			Primary:       c("#83a598", "#076678"),
			Accent:        c("#fabd2f", "#b57614"),
			Success:       c("#b8bb26", "#79740e"),
			Warning:       c("#fe8019", "#af3a03"),
			Error:         c("#fb4934", "#9d0006"),
			Match:         c("#d3869b", "#8f3f71"),
			Text:          c("#ebdbb2", "#3c3836"),
			TextMuted:     c("#a89984", "#7c6f64"),
			Selection:     c("#504945", "#ebdbb2"),
			Border:        c("#504945", "#bdae93"),
			BorderFocused: c("#83a598", "#076678"),
		},
		"nord": {
			Primary:       c("#88C0D0", "#5E81AC"),
			Accent:        c("#EBCB8B", "#D08770"),
			Success:       c("#A3BE8C", "#A3BE8C"),
			Warning:       c("#D08770", "#D08770"),
			Error:         c("#BF616A", "#BF616A"),
			Match:         c("#8FBCBB", "#5E81AC"),
			Text:          c("#ECEFF4", "#2E3440"),
			TextMuted:     c("#8B95A7", "#4C566A"),
			Selection:     c("#434C5E", "#D8DEE9"),
			Border:        c("#4C566A", "#D8DEE9"),
			BorderFocused: c("#88C0D0", "#5E81AC"),
		},
		"tokyonight": {
			Primary:       c("#82aaff", "#2e7de9"),
			Accent:        c("#ffc777", "#8c6c3e"),
			Success:       c("#c3e88d", "#587539"),
			Warning:       c("#ff966c", "#b15c00"),
			Error:         c("#ff757f", "#f52a65"),
			Match:         c("#7dcfff", "#0db9d7"),
			Text:          c("#c8d3f5", "#3760bf"),
			TextMuted:     c("#636da6", "#848cb5"),
			Selection:     c("#2f334d", "#c8c9ce"),
			Border:        c("#3b4261", "#a8aecb"),
			BorderFocused: c("#82aaff", "#2e7de9"),
		},
	}
	currentName = DefaultName
)

// Register adds or replaces a palette.
func Register(name string, p Palette) {
	mu.Lock()
	defer mu.Unlock()
	palettes[name] = p
}

// SetTheme switches to a registered palette and reports whether it exists.
func SetTheme(name string) bool {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := palettes[name]; !ok {
		return false
	}
	currentName = name
	return true
}

// Current returns the active palette.
func Current() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return palettes[currentName]
}

// CurrentName returns the name of the active palette.
func CurrentName() string {
	mu.RLock()
	defer mu.RUnlock()
	return currentName
}

// Available lists registered palette names in sorted order.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()
	return sortedNames()
}

// Cycle switches to the next palette in sorted order and returns its name.
func Cycle() string {
	mu.Lock()
	defer mu.Unlock()
	names := sortedNames()
	for i, name := range names {
		if name == currentName {
			currentName = names[(i+1)%len(names)]
			return currentName
		}
	}
	currentName = names[0]
	return currentName
}

func sortedNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
