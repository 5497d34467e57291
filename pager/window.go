package pager

// Window is the slice of a list that needs rendering, plus the space to
// reserve above and below it.
type Window[T any] struct {
	OffsetY            int
	BottomSpacerHeight int
	Visible            []T
	StartIndex         int
	EndIndex           int
}

// CalculateWindow returns the rows of items visible in a container of
// containerHeight scrolled to scrollTop, widened by bufferRows on each side.
// Heights share one unit (pixels, terminal lines). It is deterministic and
// does not copy items.
func CalculateWindow[T any](items []T, containerHeight, scrollTop, rowHeight, bufferRows int) Window[T] {
	if rowHeight <= 0 {
		return Window[T]{Visible: items[:0:0]}
	}
	containerHeight = max(containerHeight, 0)
	bufferRows = max(bufferRows, 0)
	scrollTop = max(scrollTop, 0)

	start := max(0, scrollTop/rowHeight-bufferRows)
	start = min(start, len(items))
	rowCount := (containerHeight+rowHeight-1)/rowHeight + 2*bufferRows
	end := min(len(items), start+rowCount)

	return Window[T]{
		OffsetY:            start * rowHeight,
		BottomSpacerHeight: max((len(items)-end)*rowHeight, 0),
		Visible:            items[start:end],
		StartIndex:         start,
		EndIndex:           end,
	}
}
