package comments

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/htmltext"
	"github.com/CrestNiraj12/hnterm/pager"
	"github.com/CrestNiraj12/hnterm/tui/common"
)

// maxIndent caps how far nested replies shift right.
const maxIndent = 8

// View renders the comment panel.
func (m Model) View() string {
	v := m.threads.View()

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine(v))
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) headerView() string {
	title := common.AppTitleStyle.Render("hnterm")
	crumb := common.MetaStyle.PaddingTop(1).Render(fmt.Sprintf("› story %d", m.story.ID))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, crumb)
}

func (m Model) statusLine(v pager.ThreadsView) string {
	switch {
	case v.IsLoadingInitial:
		return fmt.Sprintf("  %s Loading comments…", m.spinner.View())
	case v.Err != nil:
		hint := "  (m to retry)"
		if v.Hidden > 0 {
			hint = fmt.Sprintf("  (m to retry, %s hidden behind it)", common.CountLabel(v.Hidden, "thread", "threads"))
		}
		return common.ErrorStyle.Render("  Couldn't load comments: "+htmltext.TerminalSafe(v.Err.Error())) +
			common.HintStyle.Render(hint)
	case m.status != "":
		return "  " + m.status
	case v.IsLoading:
		return fmt.Sprintf("  %s Loading more threads…", m.spinner.View())
	case len(v.Comments) == 0 && !v.HasMore:
		return common.HintStyle.Render("  No comments yet")
	case v.HasMore:
		return common.HintStyle.Render(fmt.Sprintf("  m for more threads (%d of %d)", v.ResolvedCount, v.Total))
	}
	return common.SuccessStyle.Render("  End of discussion.")
}

func (m Model) helpView() string {
	k := m.keys
	if m.showHints {
		return common.StatusBarStyle.Render(common.HelpLine(
			k.Up, k.Down, k.PageDown, k.Top, k.Bottom, k.MoreThreads, k.Open, k.OpenHN, k.Back, k.ToggleHints, k.Quit,
		))
	}
	return common.StatusBarStyle.Render(common.HelpLine(k.MoreThreads, k.Back, k.ToggleHints, k.Quit))
}

// refreshContent re-renders the story and its resolved threads into the
// viewport, keeping the scroll offset.
func (m *Model) refreshContent() {
	offset := m.viewport.YOffset
	m.viewport.SetContent(m.renderContent(m.threads.View()))
	m.viewport.SetYOffset(offset)
}

func (m Model) renderContent(v pager.ThreadsView) string {
	width := max(20, m.viewport.Width-2)

	var b strings.Builder
	b.WriteString(m.storyHeader(width))
	for _, node := range v.Comments {
		b.WriteString("\n")
		m.writeNode(&b, node, 0, width)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) storyHeader(width int) string {
	s := m.story
	var b strings.Builder

	title := common.SelectedTitleStyle.Render(htmltext.TerminalSafe(s.Title))
	if s.Domain != "" {
		title += " " + common.DomainStyle.Render("("+s.Domain+")")
	}
	b.WriteString(wrap(title, width) + "\n")

	meta := common.JoinMeta(
		common.CountLabel(s.Score, "point", "points"),
		"by "+common.AuthorStyle.Render(htmltext.TerminalSafe(s.By)),
		common.TimestampStyle.Render(common.FormatRelativeTime(s.Time, m.now())),
		common.CountLabel(s.Descendants, "comment", "comments"),
	)
	b.WriteString(common.MetaStyle.Render(meta) + "\n")
	if s.URL != "" {
		b.WriteString(common.DomainStyle.Render(ansi.Truncate(htmltext.TerminalSafe(s.URL), width, "…")) + "\n")
	}
	if text := htmltext.ToText(s.Text); text != "" {
		b.WriteString("\n" + common.ContentStyle.Render(wrap(text, width)) + "\n")
	}
	b.WriteString(common.ThreadGuideStyle.Render(strings.Repeat("─", width)) + "\n")
	return b.String()
}

func (m Model) writeNode(b *strings.Builder, node domain.CommentNode, depth, width int) {
	guide := common.ThreadGuideStyle.Render(strings.Repeat("│ ", min(depth, maxIndent)))
	bodyWidth := max(10, width-2*min(depth, maxIndent))

	head := common.JoinMeta(
		common.AuthorStyle.Render(htmltext.TerminalSafe(node.By)),
		common.TimestampStyle.Render(common.FormatRelativeTime(node.Time, m.now())),
	)
	if n := len(node.Children); n > 0 {
		head = common.JoinMeta(head, common.MetaStyle.Render(common.CountLabel(n, "reply", "replies")))
	}
	b.WriteString(guide + head + "\n")

	body := wrap(htmltext.ToText(node.Text), bodyWidth)
	for _, line := range strings.Split(body, "\n") {
		b.WriteString(guide + common.ContentStyle.Render(line) + "\n")
	}
	b.WriteString("\n")

	for _, child := range node.Children {
		m.writeNode(b, child, depth+1, width)
	}
}

// wrap word-wraps s to width without padding lines out.
func wrap(s string, width int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(lipgloss.NewStyle().Width(width).Render(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
