package comments

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/pager"
	"github.com/CrestNiraj12/hnterm/tui/common"
)

func (m Model) handleThreadLoaded(msg ThreadLoadedMsg) (Model, tea.Cmd) {
	res := msg.Result
	if res.Generation != m.threads.Generation() || res.StoryID != m.story.ID {
		return m, nil
	}
	if res.Err != nil && !domain.IsAborted(res.Err) {
		m.logger.Error(fmt.Sprintf("failed to load comments for story %d", res.StoryID),
			slog.Int("comment", res.CommentID),
			slog.Int("index", res.Index),
			slog.String("error", res.Err.Error()))
	}

	var reqs []pager.ThreadRequest
	m.threads, reqs = m.threads.Apply(res)
	m.refreshContent()
	if len(reqs) > 0 {
		return m, m.fetchThreads(reqs)
	}
	return m, m.maybeLoadMore()
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }
	case key.Matches(msg, m.keys.MoreThreads):
		return m, m.loadMore()
	case key.Matches(msg, m.keys.Open):
		target := m.story.URL
		if target == "" {
			target = m.story.DiscussionURL()
		}
		return m, common.OpenURL(target)
	case key.Matches(msg, m.keys.OpenHN):
		return m, common.OpenURL(m.story.DiscussionURL())
	case key.Matches(msg, m.keys.ToggleHints):
		m.showHints = !m.showHints
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, m.maybeLoadMore()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, m.maybeLoadMore())
}

// maybeLoadMore pulls in the next batch once the reader is near the end of
// the content. Nothing is requested while threads are loading or after a
// failure; m retries explicitly.
func (m *Model) maybeLoadMore() tea.Cmd {
	v := m.threads.View()
	if !v.HasMore || v.IsLoading || v.Err != nil {
		return nil
	}
	if m.viewport.ScrollPercent() < autoLoadThreshold {
		return nil
	}
	return m.loadMore()
}

func (m *Model) loadMore() tea.Cmd {
	var reqs []pager.ThreadRequest
	m.threads, reqs = m.threads.LoadMore()
	if len(reqs) == 0 {
		return nil
	}
	m.refreshContent()
	return m.fetchThreads(reqs)
}

func (m Model) fetchThreads(reqs []pager.ThreadRequest) tea.Cmd {
	if len(reqs) == 0 {
		return nil
	}
	ctx, src := m.ctx, m.session
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		cmds = append(cmds, func() tea.Msg {
			return ThreadLoadedMsg{Result: pager.FetchThread(ctx, src, req)}
		})
	}
	return tea.Batch(cmds...)
}
