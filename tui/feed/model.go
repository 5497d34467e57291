package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/hnterm/app"
	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/htmltext"
	"github.com/CrestNiraj12/hnterm/pager"
	"github.com/CrestNiraj12/hnterm/tui/common"
)

// Deps holds what the feed view needs.
type Deps struct {
	Items    app.ItemService
	Logger   *slog.Logger
	PageSize int
	Now      func() time.Time
}

// Model holds the state for the story feed view.
type Model struct {
	items  app.ItemService
	logger *slog.Logger
	now    func() time.Time

	// One item session and context per feed session; both end on
	// refresh, feed switch and Close.
	session app.ItemSession
	ctx     context.Context
	cancel  context.CancelFunc

	feed    pager.Feed
	initReq pager.PageRequest

	cursor    int
	scrollTop int // in lines, always a multiple of rowHeight
	width     int
	height    int
	showHints bool
	status    string

	keys    common.KeyMap
	spinner spinner.Model
}

// New creates a feed model for feedType. The first page is requested by Init.
func New(deps Deps, feedType domain.FeedType) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(common.Accent)

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	m := Model{
		items:   deps.Items,
		logger:  logger,
		now:     now,
		keys:    common.DefaultKeyMap(),
		spinner: s,
		width:   80,
		height:  24,
	}
	m.startSession()
	m.feed, m.initReq = pager.InitializeFeed(feedType, deps.PageSize)
	return m
}

// Init starts the first page fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPage(m.initReq), m.spinner.Tick)
}

// Close ends the current session, cancelling requests in flight.
func (m Model) Close() {
	m.endSession()
}

// FeedType returns the feed being shown.
func (m Model) FeedType() domain.FeedType {
	return m.feed.View().FeedType
}

// Loading reports whether a page fetch is outstanding.
func (m Model) Loading() bool {
	v := m.feed.View()
	return v.IsInitializing || v.IsFetchingMore
}

// SelectedStory returns the story under the cursor.
func (m Model) SelectedStory() (domain.Story, bool) {
	stories := m.feed.View().Stories
	if m.cursor < 0 || m.cursor >= len(stories) {
		return domain.Story{}, false
	}
	return stories[m.cursor], true
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, m.maybeLoadMore()

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case common.OpenFailedMsg:
		m.status = "Could not open browser: " + htmltext.TerminalSafe(msg.Err.Error())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}
