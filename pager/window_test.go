package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestCalculateWindow(t *testing.T) {
	tests := []struct {
		name                                  string
		total, height, scrollTop, row, buffer int
		wantStart, wantEnd, wantOffset        int
		wantBottom                            int
	}{
		{name: "top of list", total: 100, height: 300, scrollTop: 0, row: 30, buffer: 2, wantStart: 0, wantEnd: 14, wantOffset: 0, wantBottom: 86 * 30},
		{name: "scrolled", total: 100, height: 300, scrollTop: 600, row: 30, buffer: 2, wantStart: 18, wantEnd: 32, wantOffset: 540, wantBottom: 68 * 30},
		{name: "partial row rounds up", total: 100, height: 301, scrollTop: 0, row: 30, buffer: 0, wantStart: 0, wantEnd: 11, wantOffset: 0, wantBottom: 89 * 30},
		{name: "near end", total: 20, height: 90, scrollTop: 540, row: 30, buffer: 1, wantStart: 17, wantEnd: 20, wantOffset: 510, wantBottom: 0},
		{name: "short list", total: 3, height: 300, scrollTop: 0, row: 30, buffer: 2, wantStart: 0, wantEnd: 3, wantOffset: 0, wantBottom: 0},
		{name: "scrolled past end", total: 5, height: 90, scrollTop: 9000, row: 30, buffer: 1, wantStart: 5, wantEnd: 5, wantOffset: 150, wantBottom: 0},
		{name: "empty", total: 0, height: 90, scrollTop: 0, row: 30, buffer: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := CalculateWindow(seq(tc.total), tc.height, tc.scrollTop, tc.row, tc.buffer)
			assert.Equal(t, tc.wantStart, w.StartIndex)
			assert.Equal(t, tc.wantEnd, w.EndIndex)
			assert.Equal(t, tc.wantOffset, w.OffsetY)
			assert.Equal(t, tc.wantBottom, w.BottomSpacerHeight)
			assert.Len(t, w.Visible, tc.wantEnd-tc.wantStart)
		})
	}
}

func TestCalculateWindow_Bounds(t *testing.T) {
	items := seq(57)
	for height := 0; height <= 200; height += 13 {
		for scroll := -10; scroll <= 2000; scroll += 37 {
			for _, buffer := range []int{0, 1, 3} {
				w := CalculateWindow(items, height, scroll, 7, buffer)
				maxRows := (height+6)/7 + 2*buffer
				if w.BottomSpacerHeight < 0 {
					t.Fatalf("negative spacer for h=%d s=%d b=%d", height, scroll, buffer)
				}
				if len(w.Visible) > maxRows || len(w.Visible) > len(items) {
					t.Fatalf("too many rows (%d) for h=%d s=%d b=%d", len(w.Visible), height, scroll, buffer)
				}
				again := CalculateWindow(items, height, scroll, 7, buffer)
				assert.Equal(t, w, again)
			}
		}
	}
}

func TestCalculateWindow_NonPositiveRowHeight(t *testing.T) {
	w := CalculateWindow(seq(10), 100, 0, 0, 2)
	assert.Empty(t, w.Visible)
	assert.Zero(t, w.EndIndex)
	assert.Zero(t, w.BottomSpacerHeight)
}
