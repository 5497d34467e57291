package feed

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/tui/common"
)

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	count := len(m.feed.View().Stories)

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveCursor(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		return m.moveCursor(m.visibleRows())
	case key.Matches(msg, m.keys.Top):
		return m.moveCursor(-count)
	case key.Matches(msg, m.keys.Bottom):
		return m.moveCursor(count)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.ToggleFeed):
		return m, m.switchFeed(m.FeedType().Toggle())
	case key.Matches(msg, m.keys.FeedTop):
		return m, m.switchFeed(domain.FeedTop)
	case key.Matches(msg, m.keys.FeedNew):
		return m, m.switchFeed(domain.FeedNew)

	case key.Matches(msg, m.keys.Enter):
		if story, ok := m.SelectedStory(); ok {
			return m, openStory(story)
		}
	case key.Matches(msg, m.keys.Open):
		if story, ok := m.SelectedStory(); ok {
			target := story.URL
			if target == "" {
				target = story.DiscussionURL()
			}
			return m, common.OpenURL(target)
		}
	case key.Matches(msg, m.keys.OpenHN):
		if story, ok := m.SelectedStory(); ok {
			return m, common.OpenURL(story.DiscussionURL())
		}
	case key.Matches(msg, m.keys.ToggleHints):
		m.showHints = !m.showHints
	}
	return m, nil
}

func (m Model) moveCursor(delta int) (Model, tea.Cmd) {
	count := len(m.feed.View().Stories)
	if count == 0 {
		return m, nil
	}
	m.cursor = max(0, min(m.cursor+delta, count-1))
	m.ensureCursorVisible()
	return m, m.loadMore()
}

func (m *Model) clampCursor() {
	count := len(m.feed.View().Stories)
	m.cursor = max(0, min(m.cursor, count-1))
	m.ensureCursorVisible()
}

// visibleRows is how many stories fit in the list area.
func (m Model) visibleRows() int {
	return max(1, m.listHeight()/rowHeight)
}

func (m Model) listHeight() int {
	return max(rowHeight, m.height-headerLines-footerLines)
}

func (m *Model) ensureCursorVisible() {
	rows := m.visibleRows()
	top := m.scrollTop / rowHeight
	switch {
	case m.cursor < top:
		top = m.cursor
	case m.cursor >= top+rows:
		top = m.cursor - rows + 1
	}
	m.scrollTop = max(0, top) * rowHeight
}
