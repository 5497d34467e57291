package feed

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/htmltext"
	"github.com/CrestNiraj12/hnterm/pager"
	"github.com/CrestNiraj12/hnterm/tui/common"
)

func (m Model) headerView(v pager.FeedView) string {
	title := common.AppTitleStyle.Render("hnterm")

	tabs := make([]string, 0, 2)
	for _, f := range []domain.FeedType{domain.FeedTop, domain.FeedNew} {
		style := common.FeedTabInactiveStyle
		if f == v.FeedType {
			style = common.FeedTabActiveStyle
		}
		tabs = append(tabs, style.Render(f.Label()))
	}
	tabRow := lipgloss.NewStyle().PaddingTop(1).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, tabRow)
}

func (m Model) footerView(v pager.FeedView) string {
	var status string
	switch {
	case v.IsFetchingMore:
		status = fmt.Sprintf("  %s Loading additional stories…", m.spinner.View())
	case v.Err != nil && len(v.Stories) > 0:
		status = common.ErrorStyle.Render("  Couldn't load more: " + htmltext.TerminalSafe(v.Err.Error()))
	case m.status != "":
		status = "  " + m.status
	case !v.IsInitializing && !v.HasMore && len(v.Stories) > 0:
		status = common.SuccessStyle.Render("  You are all caught up.")
	}
	return status + "\n" + m.helpView()
}

func (m Model) helpView() string {
	k := m.keys
	if m.showHints {
		return common.StatusBarStyle.Render(common.HelpLine(
			k.Up, k.Down, k.PageDown, k.Top, k.Bottom, k.Enter, k.Open, k.OpenHN,
			k.ToggleFeed, k.Refresh, k.ToggleHints, k.Quit,
		))
	}
	return common.StatusBarStyle.Render(common.HelpLine(k.Enter, k.ToggleFeed, k.Refresh, k.ToggleHints, k.Quit))
}
