package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/cellbuf"
)

// canvas composes a rendered base frame with floating blocks such as toasts.
type canvas struct {
	screen *cellbuf.Screen
	writer *cellbuf.ScreenWriter
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	screen := cellbuf.NewScreen(io.Discard, width, height, &cellbuf.ScreenOptions{})
	return &canvas{
		screen: screen,
		writer: cellbuf.NewScreenWriter(screen),
		width:  width,
		height: height,
	}
}

// drawAt writes a multi-line block with its top-left corner at x,y.
func (c *canvas) drawAt(x, y int, block string) {
	for i, line := range splitLines(block) {
		row := y + i
		if row >= c.height {
			break
		}
		if line == "" {
			continue
		}
		c.writer.PrintCropAt(x, row, line, "")
	}
}

// bottomRight anchors block to the bottom-right corner with padding cells
// of margin.
func (c *canvas) bottomRight(block string, padding int) {
	lines := splitLines(block)
	if len(lines) == 0 {
		return
	}
	x := c.width - maxLineWidth(lines) - padding
	y := c.height - len(lines) - padding
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	c.drawAt(x, y, block)
}

func (c *canvas) render() string {
	raw := cellbuf.Render(c.screen)
	_ = c.screen.Close()
	return strings.ReplaceAll(raw, "\r\n", "\n")
}

// overlayBottomRight draws overlay over the bottom-right of base.
func overlayBottomRight(base, overlay string, padding int) string {
	if overlay == "" {
		return base
	}
	lines := splitLines(base)
	c := newCanvas(maxLineWidth(lines), len(lines))
	c.drawAt(0, 0, base)
	c.bottomRight(overlay, padding)
	return c.render()
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

func maxLineWidth(lines []string) int {
	widest := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > widest {
			widest = w
		}
	}
	return widest
}
