package window

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRange_ThousandRows(t *testing.T) {
	tests := []struct {
		name        string
		scrollTop   int
		wantVisible Range
		wantRender  Range
	}{
		{"rows 96-103", 4608, Range{96, 103}, Range{93, 106}},
		{"offset 4800", 4800, Range{100, 107}, Range{97, 110}},
		{"top", 0, Range{0, 7}, Range{0, 10}},
		{"bottom", 1000*48 - 336, Range{993, 999}, Range{990, 999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := Viewport{ItemCount: 1000, ItemHeight: 48, ContainerHeight: 336, Overscan: 3, ScrollTop: tt.scrollTop}
			assert.Equal(t, tt.wantVisible, vp.VisibleRange())
			assert.Equal(t, tt.wantRender, vp.RenderRange())
		})
	}
}

func TestRenderRange_Empty(t *testing.T) {
	vp := Viewport{ItemCount: 0, ItemHeight: 48, ContainerHeight: 336, Overscan: 3}
	assert.Equal(t, 0, vp.RenderRange().Len())
	before, after := vp.Spacers()
	assert.Zero(t, before)
	assert.Zero(t, after)
	assert.Zero(t, vp.TotalHeight())
}

func TestRenderRange_ContainerLargerThanList(t *testing.T) {
	vp := Viewport{ItemCount: 5, ItemHeight: 10, ContainerHeight: 500}
	assert.Equal(t, Range{0, 4}, vp.RenderRange())
	assert.Equal(t, 0, vp.MaxScroll())
}

func TestRenderRange_ScrolledPastShrunkList(t *testing.T) {
	vp := Viewport{ItemCount: 10, ItemHeight: 1, ContainerHeight: 5, Overscan: 3, ScrollTop: 50}
	r := vp.RenderRange()
	assert.Equal(t, Range{9, 9}, r)

	before, after := vp.Spacers()
	assert.Equal(t, vp.TotalHeight(), before+r.Len()+after)

	clamped := vp.ClampScroll()
	assert.Equal(t, 5, clamped.ScrollTop)
	assert.Equal(t, 50, vp.ScrollTop, "ClampScroll returns a copy")
}

// Every row whose extent intersects the window must be rendered, and the
// spacers plus rendered rows must add up to the full height.
func TestViewportProperties(t *testing.T) {
	for _, n := range []int{1, 2, 7, 50, 333} {
		for _, h := range []int{1, 3, 48} {
			for _, container := range []int{1, 10, 100, 336} {
				for _, overscan := range []int{0, 1, 3} {
					vp := Viewport{ItemCount: n, ItemHeight: h, ContainerHeight: container, Overscan: overscan}
					for top := 0; top <= vp.MaxScroll(); top += 1 + vp.MaxScroll()/37 {
						vp.ScrollTop = top
						r := vp.RenderRange()
						name := fmt.Sprintf("n=%d h=%d c=%d o=%d top=%d", n, h, container, overscan, top)

						require.True(t, r.Start >= 0 && r.Start <= r.End && r.End < n, name)
						for i := 0; i < n; i++ {
							rowTop, rowBottom := i*h, (i+1)*h
							if rowBottom > top && rowTop < top+container {
								require.True(t, r.Contains(i), "%s: row %d not rendered in %v", name, i, r)
							}
						}

						before, after := vp.Spacers()
						require.Equal(t, vp.TotalHeight(), before+r.Len()*h+after, name)
					}
				}
			}
		}
	}
}

func TestScrollToItem(t *testing.T) {
	vp := Viewport{ItemCount: 100, ItemHeight: 10, ContainerHeight: 50, ScrollTop: 200}

	tests := []struct {
		name  string
		index int
		align Align
		want  int
	}{
		{"start", 30, AlignStart, 300},
		{"end", 30, AlignEnd, 260},
		{"center", 30, AlignCenter, 280},
		{"auto already visible", 22, AlignAuto, 200},
		{"auto above", 5, AlignAuto, 50},
		{"auto below", 40, AlignAuto, 360},
		{"negative index clamps", -4, AlignStart, 0},
		{"index past end clamps", 500, AlignStart, 950},
		{"center near top clamps", 1, AlignCenter, 0},
		{"start near bottom clamps", 99, AlignStart, 950},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vp.ScrollToItem(tt.index, tt.align))
		})
	}
}

func TestScrollToItem_EmptyList(t *testing.T) {
	vp := Viewport{ItemHeight: 10, ContainerHeight: 50, ScrollTop: 30}
	assert.Equal(t, 0, vp.ScrollToItem(3, AlignCenter))
}

func TestParseAlign(t *testing.T) {
	assert.Equal(t, AlignStart, ParseAlign("start"))
	assert.Equal(t, AlignEnd, ParseAlign("end"))
	assert.Equal(t, AlignCenter, ParseAlign("center"))
	assert.Equal(t, AlignAuto, ParseAlign("auto"))
	assert.Equal(t, AlignAuto, ParseAlign("bogus"))
}

func TestSetItemCount_DoesNotClamp(t *testing.T) {
	vp := Viewport{ItemCount: 100, ItemHeight: 1, ContainerHeight: 10, ScrollTop: 90}
	vp = vp.SetItemCount(20)
	assert.Equal(t, 90, vp.ScrollTop)
}

func TestScroller_Debounce(t *testing.T) {
	s := NewScroller(Viewport{ItemCount: 100, ItemHeight: 2, ContainerHeight: 10})
	assert.False(t, s.IsScrolling())

	first := s.OnScroll(10)
	second := s.ScrollBy(4)
	assert.True(t, s.IsScrolling())
	assert.Equal(t, 14, s.Viewport.ScrollTop)

	assert.False(t, s.Settle(first), "stale token must not clear")
	assert.True(t, s.IsScrolling())

	assert.True(t, s.Settle(second))
	assert.False(t, s.IsScrolling())
	assert.False(t, s.Settle(second))
}

func TestScroller_ClampsAndShrinks(t *testing.T) {
	s := NewScroller(Viewport{ItemCount: 100, ItemHeight: 1, ContainerHeight: 10})

	s.OnScroll(1000)
	assert.Equal(t, 90, s.Viewport.ScrollTop)

	s.SetItemCount(30)
	assert.Equal(t, 20, s.Viewport.ScrollTop)

	s.SetItemCount(200)
	assert.Equal(t, 20, s.Viewport.ScrollTop)

	s.Resize(50)
	assert.Equal(t, 20, s.Viewport.ScrollTop)

	s.ScrollToItem(199, AlignEnd)
	assert.Equal(t, 150, s.Viewport.ScrollTop)
	assert.False(t, s.IsScrolling())
}

func TestRender_OnlyRendersRange(t *testing.T) {
	items := make([]string, 1000)
	for i := range items {
		items[i] = fmt.Sprintf("item-%d", i)
	}
	vp := Viewport{ItemHeight: 48, ContainerHeight: 336, Overscan: 3, ScrollTop: 4608}

	var calls []int
	var sawScrolling bool
	frame := Render(vp, items, true, func(item string, i int, scrolling bool) string {
		calls = append(calls, i)
		sawScrolling = scrolling
		return item
	})

	assert.Len(t, calls, 14)
	assert.Equal(t, 93, calls[0])
	assert.Equal(t, 106, calls[len(calls)-1])
	assert.True(t, sawScrolling)
	assert.Equal(t, 93*48, frame.TopSpacer)
	assert.Equal(t, (1000-106-1)*48, frame.BottomSpacer)
	assert.Equal(t, 1000*48, frame.TotalHeight())
}

func TestFrame_Window(t *testing.T) {
	items := []string{"a1\na2", "b1", "c1\nc2\nc3", "d1\nd2", "e1\ne2", "f1\nf2"}
	vp := Viewport{ItemHeight: 2, ContainerHeight: 4, Overscan: 0, ScrollTop: 3}

	frame := Render(vp, items, false, func(item string, _ int, _ bool) string { return item })
	require.Equal(t, Range{1, 3}, frame.Range)

	lines := frame.Window(3, 4)
	assert.Equal(t, []string{"", "c1", "c2", "d1"}, lines)
	assert.Equal(t, "\nc1\nc2\nd1", frame.Text(3, 4))
}

func TestFrame_WindowEmpty(t *testing.T) {
	frame := Render(Viewport{ItemHeight: 2, ContainerHeight: 3}, []string{}, false,
		func(item string, _ int, _ bool) string { return item })
	lines := frame.Window(0, 3)
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "", strings.Join(lines, ""))
}
