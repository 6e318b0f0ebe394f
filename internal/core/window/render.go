package window

import "strings"

// RenderFunc renders one row. isScrolling lets callers draw a cheaper row
// while the list is moving.
type RenderFunc[T any] func(item T, index int, isScrolling bool) string

// Frame is the output of one render pass.
type Frame struct {
	Range        Range
	TopSpacer    int
	BottomSpacer int
	ItemHeight   int
	Rows         []string // one entry per index in Range
}

// Render renders only the rows in the viewport's render range. The
// viewport's item count is taken from items.
func Render[T any](vp Viewport, items []T, isScrolling bool, render RenderFunc[T]) Frame {
	vp.ItemCount = len(items)
	r := vp.RenderRange()
	before, after := vp.Spacers()

	f := Frame{
		Range:        r,
		TopSpacer:    before,
		BottomSpacer: after,
		ItemHeight:   vp.ItemHeight,
		Rows:         make([]string, 0, r.Len()),
	}
	for i := r.Start; i <= r.End; i++ {
		f.Rows = append(f.Rows, render(items[i], i, isScrolling))
	}
	return f
}

// RenderedHeight is the height occupied by the rendered rows.
func (f Frame) RenderedHeight() int {
	return len(f.Rows) * f.ItemHeight
}

// TotalHeight is spacers plus rendered rows.
func (f Frame) TotalHeight() int {
	return f.TopSpacer + f.RenderedHeight() + f.BottomSpacer
}

// Window lays the rendered rows into fixed-height slots and returns
// exactly height lines starting at scrollTop. Rows with more lines than
// ItemHeight are cut; shorter rows are padded. Lines outside the rendered
// slice come back blank.
func (f Frame) Window(scrollTop, height int) []string {
	out := make([]string, height)
	if f.ItemHeight <= 0 {
		return out
	}

	slots := make([]string, 0, f.RenderedHeight())
	for _, row := range f.Rows {
		lines := strings.Split(row, "\n")
		for j := 0; j < f.ItemHeight; j++ {
			if j < len(lines) {
				slots = append(slots, lines[j])
			} else {
				slots = append(slots, "")
			}
		}
	}

	for i := 0; i < height; i++ {
		idx := scrollTop + i - f.TopSpacer
		if idx >= 0 && idx < len(slots) {
			out[i] = slots[idx]
		}
	}
	return out
}

// Text joins Window's lines with newlines.
func (f Frame) Text(scrollTop, height int) string {
	return strings.Join(f.Window(scrollTop, height), "\n")
}
