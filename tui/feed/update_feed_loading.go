package feed

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/pager"
)

func (m Model) handlePageLoaded(msg PageLoadedMsg) (Model, tea.Cmd) {
	res := msg.Result
	before := m.feed.View()
	m.feed = m.feed.Apply(res)

	if res.SessionID != before.SessionID || res.FeedType != before.FeedType {
		return m, nil
	}
	if res.Err != nil {
		if !domain.IsAborted(res.Err) {
			m.logger.Warn("failed to load stories",
				slog.String("feed", string(res.FeedType)),
				slog.Int("session", res.SessionID),
				slog.Int("start", res.Start),
				slog.String("error", res.Err.Error()))
		}
		return m, nil
	}

	m.logger.Debug("stories page loaded",
		slog.String("feed", string(res.FeedType)),
		slog.Int("session", res.SessionID),
		slog.Int("start", res.Start),
		slog.Int("stories", len(res.Batch.Stories)),
		slog.Bool("has_more", res.Batch.HasMore))

	m.clampCursor()
	return m, m.maybeLoadMore()
}

// maybeLoadMore requests the next page when the cursor nears the end of the
// list or the list does not fill the screen yet. It never retries a failure
// on its own; the next cursor move does.
func (m *Model) maybeLoadMore() tea.Cmd {
	v := m.feed.View()
	if !v.HasMore || v.Err != nil {
		return nil
	}
	return m.loadMore()
}

func (m *Model) loadMore() tea.Cmd {
	v := m.feed.View()
	nearEnd := len(v.Stories)-1-m.cursor < prefetchTrigger
	underfilled := len(v.Stories) < m.visibleRows()
	if !nearEnd && !underfilled {
		return nil
	}
	next, req := m.feed.LoadMore()
	if req == nil {
		return nil
	}
	m.feed = next
	return m.fetchPage(*req)
}

func (m *Model) refresh() tea.Cmd {
	m.startSession()
	var req pager.PageRequest
	m.feed, req = m.feed.Refresh()
	m.cursor = 0
	m.scrollTop = 0
	m.status = ""
	return m.fetchPage(req)
}

func (m *Model) switchFeed(next domain.FeedType) tea.Cmd {
	f, req := m.feed.SetFeedType(next)
	if req == nil {
		return nil
	}
	m.startSession()
	m.feed = f
	m.cursor = 0
	m.scrollTop = 0
	m.status = ""
	return tea.Batch(m.fetchPage(*req), feedChanged(next))
}
