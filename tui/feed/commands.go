package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/pager"
)

// startSession replaces the item session and context. Anything still in
// flight for the old session is cancelled and comes back aborted.
func (m *Model) startSession() {
	m.endSession()
	m.session = m.items.OpenSession()
	m.ctx, m.cancel = context.WithCancel(context.Background())
}

func (m *Model) endSession() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.session != nil {
		m.session.Close()
	}
}

func (m Model) fetchPage(req pager.PageRequest) tea.Cmd {
	ctx, src := m.ctx, m.session
	return func() tea.Msg {
		return PageLoadedMsg{Result: pager.FetchPage(ctx, src, req)}
	}
}

func feedChanged(feed domain.FeedType) tea.Cmd {
	return func() tea.Msg {
		return FeedChangedMsg{Feed: feed}
	}
}

func openStory(story domain.Story) tea.Cmd {
	return func() tea.Msg {
		return OpenStoryMsg{Story: story}
	}
}
