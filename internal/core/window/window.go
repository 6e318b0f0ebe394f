// Package window computes which rows of a long, uniform-height list are
// near the visible viewport so only those rows are rendered. Spacer
// heights above and below the rendered slice keep the total scroll height
// equal to the full list.
package window

// DefaultOverscan is the number of extra rows rendered on each side.
const DefaultOverscan = 3

// Align selects where ScrollToItem places the target row.
type Align int

const (
	AlignAuto Align = iota
	AlignStart
	AlignEnd
	AlignCenter
)

// ParseAlign maps a name to an Align, defaulting to AlignAuto.
func ParseAlign(s string) Align {
	switch s {
	case "start":
		return AlignStart
	case "end":
		return AlignEnd
	case "center":
		return AlignCenter
	}
	return AlignAuto
}

// Range is an inclusive index range. An empty range has End < Start.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indexes in r.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether i is in r.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

var emptyRange = Range{Start: 0, End: -1}

// Viewport describes a fixed-height scroll window over ItemCount rows of
// ItemHeight each. All geometry is in the same unit (pixels, terminal lines).
type Viewport struct {
	ItemCount       int
	ItemHeight      int
	ContainerHeight int
	ScrollTop       int
	Overscan        int
}

// TotalHeight is the scroll height of the full list.
func (v Viewport) TotalHeight() int {
	if v.ItemCount <= 0 || v.ItemHeight <= 0 {
		return 0
	}
	return v.ItemCount * v.ItemHeight
}

// MaxScroll is the largest meaningful ScrollTop.
func (v Viewport) MaxScroll() int {
	if m := v.TotalHeight() - v.ContainerHeight; m > 0 {
		return m
	}
	return 0
}

// VisibleRange returns the rows whose extent intersects the window, without overscan.
func (v Viewport) VisibleRange() Range {
	return v.rangeWithOverscan(0)
}

// RenderRange returns the rows to render: the visible rows widened by
// Overscan on each side and clamped to the list.
func (v Viewport) RenderRange() Range {
	overscan := v.Overscan
	if overscan < 0 {
		overscan = 0
	}
	return v.rangeWithOverscan(overscan)
}

func (v Viewport) rangeWithOverscan(overscan int) Range {
	if v.ItemCount <= 0 || v.ItemHeight <= 0 {
		return emptyRange
	}
	top := v.ScrollTop
	if top < 0 {
		top = 0
	}
	last := v.ItemCount - 1

	start := top/v.ItemHeight - overscan
	if start < 0 {
		start = 0
	}
	end := (top+v.ContainerHeight)/v.ItemHeight + overscan
	if end > last {
		end = last
	}
	if start > last {
		// Scrolled past the end after the list shrank. Show the tail.
		start = last
	}
	return Range{Start: start, End: end}
}

// Spacers returns the heights reserved above and below RenderRange.
// before + RenderRange().Len()*ItemHeight + after == TotalHeight().
func (v Viewport) Spacers() (before, after int) {
	r := v.RenderRange()
	if r.Len() == 0 {
		return 0, 0
	}
	return r.Start * v.ItemHeight, (v.ItemCount - r.End - 1) * v.ItemHeight
}

// ScrollToItem returns the ScrollTop that brings index into view with the
// given alignment. index is clamped to the list and the result to
// [0, MaxScroll]. AlignAuto keeps the current offset when the row is
// already fully visible, otherwise it moves the nearest edge.
func (v Viewport) ScrollToItem(index int, align Align) int {
	if v.ItemCount <= 0 || v.ItemHeight <= 0 {
		return 0
	}
	if index < 0 {
		index = 0
	}
	if index > v.ItemCount-1 {
		index = v.ItemCount - 1
	}

	itemTop := index * v.ItemHeight
	itemBottom := itemTop + v.ItemHeight

	var top int
	switch align {
	case AlignStart:
		top = itemTop
	case AlignEnd:
		top = itemBottom - v.ContainerHeight
	case AlignCenter:
		top = itemTop - (v.ContainerHeight-v.ItemHeight)/2
	default:
		switch {
		case itemTop < v.ScrollTop:
			top = itemTop
		case itemBottom > v.ScrollTop+v.ContainerHeight:
			top = itemBottom - v.ContainerHeight
		default:
			top = v.ScrollTop
		}
	}
	return v.clamp(top)
}

// ClampScroll returns v with ScrollTop clamped to [0, MaxScroll]. Hosts
// call it after the item count shrinks; the viewport never does it itself.
func (v Viewport) ClampScroll() Viewport {
	v.ScrollTop = v.clamp(v.ScrollTop)
	return v
}

// SetItemCount returns v with a new item count. ScrollTop is left alone.
func (v Viewport) SetItemCount(n int) Viewport {
	if n < 0 {
		n = 0
	}
	v.ItemCount = n
	return v
}

// ScrollBy returns v scrolled by delta, clamped.
func (v Viewport) ScrollBy(delta int) Viewport {
	v.ScrollTop = v.clamp(v.ScrollTop + delta)
	return v
}

func (v Viewport) clamp(top int) int {
	if top > v.MaxScroll() {
		top = v.MaxScroll()
	}
	if top < 0 {
		top = 0
	}
	return top
}
