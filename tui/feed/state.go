package feed

import (
	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/pager"
)

const (
	// rowHeight is the number of lines a story occupies: title, meta, gap.
	rowHeight = 3
	// bufferRows is zero: rows outside the list area are never drawn.
	bufferRows = 0
	// prefetchTrigger loads the next page when the cursor is this close to the end.
	prefetchTrigger = 3

	headerLines = 3
	footerLines = 3
)

// --- Messages ---

// PageLoadedMsg carries a finished page fetch back into the feed.
type PageLoadedMsg struct {
	Result pager.PageResult
}

// OpenStoryMsg asks the root model to open the comment panel for Story.
type OpenStoryMsg struct {
	Story domain.Story
}

// FeedChangedMsg reports a feed switch so the root can remember it.
type FeedChangedMsg struct {
	Feed domain.FeedType
}
