package window

import "time"

// DefaultQuietPeriod is how long after the last scroll event the list is
// considered idle again.
const DefaultQuietPeriod = 150 * time.Millisecond

// Scroller tracks a viewport's scroll offset and whether it is mid-scroll.
//
// OnScroll returns a token; the host schedules Settle(token) after
// QuietPeriod. Only the token of the latest scroll clears the flag, so a
// burst of scroll events keeps the list in the scrolling state until it
// has been quiet for a full period.
type Scroller struct {
	Viewport    Viewport
	QuietPeriod time.Duration

	scrolling bool
	seq       uint64
}

// NewScroller returns a Scroller over vp with the default quiet period.
func NewScroller(vp Viewport) *Scroller {
	return &Scroller{Viewport: vp, QuietPeriod: DefaultQuietPeriod}
}

// OnScroll records a new scroll offset from the host. The offset is
// clamped to the scrollable range.
func (s *Scroller) OnScroll(scrollTop int) uint64 {
	s.Viewport.ScrollTop = s.Viewport.clamp(scrollTop)
	s.scrolling = true
	s.seq++
	return s.seq
}

// ScrollBy is OnScroll relative to the current offset.
func (s *Scroller) ScrollBy(delta int) uint64 {
	return s.OnScroll(s.Viewport.ScrollTop + delta)
}

// ScrollToItem moves the viewport so index is visible. It does not mark
// the list as scrolling.
func (s *Scroller) ScrollToItem(index int, align Align) {
	s.Viewport.ScrollTop = s.Viewport.ScrollToItem(index, align)
}

// Settle clears the scrolling flag if token belongs to the latest scroll.
// It reports whether the flag was cleared.
func (s *Scroller) Settle(token uint64) bool {
	if token != s.seq || !s.scrolling {
		return false
	}
	s.scrolling = false
	return true
}

// IsScrolling reports whether a scroll happened within the quiet period.
func (s *Scroller) IsScrolling() bool {
	return s.scrolling
}

// SetItemCount updates the item count. When the list shrinks the offset
// is clamped so the viewport does not point past the new end.
func (s *Scroller) SetItemCount(n int) {
	shrank := n < s.Viewport.ItemCount
	s.Viewport = s.Viewport.SetItemCount(n)
	if shrank {
		s.Viewport = s.Viewport.ClampScroll()
	}
}

// Resize changes the container height and re-clamps the offset.
func (s *Scroller) Resize(containerHeight int) {
	if containerHeight < 0 {
		containerHeight = 0
	}
	s.Viewport.ContainerHeight = containerHeight
	s.Viewport = s.Viewport.ClampScroll()
}
