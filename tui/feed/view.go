package feed

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

// View renders the feed view.
func (m Model) View() string {
	v := m.feed.View()

	var b strings.Builder
	b.WriteString(m.headerView(v))
	b.WriteString("\n\n")

	switch {
	case v.IsInitializing:
		b.WriteString(fmt.Sprintf("  %s Loading the latest stories…", m.spinner.View()))
	case v.Err != nil && len(v.Stories) == 0:
		b.WriteString(common.ErrorStyle.Render("  Error: " + htmltext.TerminalSafe(v.Err.Error())))
		b.WriteString("\n")
		b.WriteString(common.HintStyle.Render("  press r to retry"))
	case len(v.Stories) == 0:
		b.WriteString(common.HintStyle.Render("  No stories right now."))
	default:
		b.WriteString(m.listView(v.Stories))
	}

	b.WriteString("\n")
	b.WriteString(m.footerView(v))
	return b.String()
}

func (m Model) listView(stories []domain.Story) string {
	// Only whole rows are drawn; a partial row would overflow the screen.
	height := m.visibleRows() * rowHeight
	win := pager.CalculateWindow(stories, height, m.scrollTop, rowHeight, bufferRows)

	listWidth := max(20, m.width-2)
	lines := make([]string, 0, len(win.Visible)*rowHeight)
	for i, story := range win.Visible {
		idx := win.StartIndex + i
		lines = append(lines, m.storyLines(idx, story, listWidth)...)
	}
	// The gap after the last visible row is not needed.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	list := strings.Join(lines, "\n")

	if len(stories) <= m.visibleRows() {
		return list
	}
	bar := renderScrollbar(lipgloss.Height(list), len(stories), len(win.Visible), win.StartIndex)
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(listWidth).Render(list), " ", bar)
}

func (m Model) storyLines(idx int, story domain.Story, width int) []string {
	selected := idx == m.cursor

	gutter := "  "
	titleStyle := common.TitleStyle
	if selected {
		gutter = common.CursorStyle.Render("▌ ")
		titleStyle = common.SelectedTitleStyle
	}

	title := fmt.Sprintf("%d. %s", idx+1, htmltext.TerminalSafe(story.Title))
	line1 := gutter + titleStyle.Render(title)
	if story.Domain != "" {
		line1 += " " + common.DomainStyle.Render("("+story.Domain+")")
	}

	meta := common.JoinMeta(
		common.CountLabel(story.Score, "point", "points"),
		"by "+common.AuthorStyle.Render(htmltext.TerminalSafe(story.By)),
		common.TimestampStyle.Render(common.FormatRelativeTime(story.Time, m.now())),
		common.CountLabel(story.Descendants, "comment", "comments"),
	)
	line2 := "  " + common.MetaStyle.Render(meta)

	return []string{
		ansi.Truncate(line1, width, "…"),
		ansi.Truncate(line2, width, "…"),
		"",
	}
}

// renderScrollbar draws a one-column track of height lines with a thumb
// sized to visible/total.
func renderScrollbar(height, total, visible, start int) string {
	if height <= 0 || total <= 0 {
		return ""
	}
	thumbHeight := max(1, int(float64(visible)/float64(total)*float64(height)))
	thumbStart := int(float64(start) / float64(total) * float64(height))
	if thumbStart+thumbHeight > height {
		thumbStart = height - thumbHeight
	}

	thumb := lipgloss.NewStyle().Foreground(common.Accent).Render("┃")
	track := lipgloss.NewStyle().Foreground(lipgloss.Color("#333333")).Render("┃")

	var sb strings.Builder
	for j := 0; j < height; j++ {
		if j >= thumbStart && j < thumbStart+thumbHeight {
			sb.WriteString(thumb)
		} else {
			sb.WriteString(track)
		}
		if j < height-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
