// Package vlist computes which slice of a long list needs rendering for a
// given scroll position.
package vlist

// Range is the half-open [Start, End) slice of rows to render. OffsetStart is
// the scroll offset at which row Start begins.
type Range struct {
	Start       int
	End         int
	OffsetStart int
}

// Len returns the number of rows in r.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether row i is in r.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// RangeFor returns the rows covering the viewport plus buffer rows on each
// side. A non-positive itemSize yields the empty range. Scrolling past the end
// yields an empty range at the end.
func RangeFor(scrollOffset, viewportSize, itemSize, totalCount, buffer int) Range {
	if itemSize <= 0 || totalCount <= 0 {
		return Range{}
	}
	scrollOffset = max(scrollOffset, 0)
	viewportSize = max(viewportSize, 0)
	buffer = max(buffer, 0)

	first := scrollOffset / itemSize
	visible := (viewportSize + itemSize - 1) / itemSize

	start := max(0, first-buffer)
	end := min(totalCount, first+visible+buffer)
	start = min(start, end)
	return Range{Start: start, End: end, OffsetStart: start * itemSize}
}

// TotalSize returns the scrollable extent of count rows.
func TotalSize(count, itemSize int) int {
	if count <= 0 || itemSize <= 0 {
		return 0
	}
	return count * itemSize
}

// ScrollToIndex returns the scroll offset that shows row index. An offset
// that already shows the whole row is returned unchanged; otherwise the row
// is centred, clamped to the scrollable extent. ok is false for an index
// outside [0, count).
func ScrollToIndex(index, scrollOffset, viewportSize, itemSize, count int) (offset int, ok bool) {
	if index < 0 || index >= count || itemSize <= 0 {
		return scrollOffset, false
	}
	top := index * itemSize
	if top >= scrollOffset && top+itemSize <= scrollOffset+viewportSize {
		return scrollOffset, true
	}
	offset = top - viewportSize/2 + itemSize/2
	maxOffset := max(0, TotalSize(count, itemSize)-viewportSize)
	return min(max(offset, 0), maxOffset), true
}

// Window remembers the last range so callers re-render only on change.
type Window struct {
	ItemSize int
	Buffer   int

	last  Range
	valid bool
}

// NewWindow returns a Window for rows of itemSize with buffer rows of slack.
func NewWindow(itemSize, buffer int) *Window {
	return &Window{ItemSize: itemSize, Buffer: buffer}
}

// Update recomputes the range and reports whether Start or End moved since
// the previous call. The first call always reports a change.
func (w *Window) Update(scrollOffset, viewportSize, totalCount int) (Range, bool) {
	r := RangeFor(scrollOffset, viewportSize, w.ItemSize, totalCount, w.Buffer)
	changed := !w.valid || r.Start != w.last.Start || r.End != w.last.End
	w.last, w.valid = r, true
	return r, changed
}

// Current returns the most recent range.
func (w *Window) Current() Range {
	return w.last
}
