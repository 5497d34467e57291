// Package comments is the comment panel: one story and its paginated
// discussion, rendered into a scrollable viewport.
package comments

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/hnterm/app"
	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/htmltext"
	"github.com/CrestNiraj12/hnterm/pager"
	"github.com/CrestNiraj12/hnterm/tui/common"
)

const (
	// autoLoadThreshold is the scroll position that pulls in the next batch.
	autoLoadThreshold = 0.8

	headerLines = 2
	footerLines = 3
)

// ThreadLoadedMsg carries a finished thread fetch back into the panel.
type ThreadLoadedMsg struct {
	Result pager.ThreadResult
}

// BackMsg asks the root model to close the panel.
type BackMsg struct{}

// panelSeq numbers opened panels so results of a closed panel are told
// apart from those of a newer panel on the same story.
var panelSeq atomic.Uint64

// Deps holds what the comment panel needs.
type Deps struct {
	Items   app.ItemService
	Logger  *slog.Logger
	Threads pager.ThreadOptions
	Now     func() time.Time
}

// Model is the comment panel for a single story.
type Model struct {
	logger *slog.Logger
	now    func() time.Time

	session app.ItemSession
	ctx     context.Context
	cancel  context.CancelFunc

	story   domain.Story
	threads pager.Threads

	viewport  viewport.Model
	spinner   spinner.Model
	keys      common.KeyMap
	width     int
	height    int
	status    string
	showHints bool
}

// New opens a panel for story and returns the commands fetching its first
// batch of threads.
func New(deps Deps, story domain.Story, width, height int) (Model, tea.Cmd) {
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

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		logger:   logger,
		now:      now,
		session:  deps.Items.OpenSession(),
		ctx:      ctx,
		cancel:   cancel,
		story:    story,
		viewport: viewport.New(width, 1),
		spinner:  s,
		keys:     common.DefaultKeyMap(),
	}

	opts := deps.Threads
	opts.Generation = panelSeq.Add(1)
	var reqs []pager.ThreadRequest
	m.threads, reqs = pager.NewThreads(&story, opts)
	m.resize(width, height)

	logger.Debug("comment panel opened",
		slog.Int("story", story.ID),
		slog.Int("threads", len(story.Kids)))
	return m, tea.Batch(m.fetchThreads(reqs), m.spinner.Tick)
}

// Close cancels outstanding thread requests and drops the item session.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.session != nil {
		m.session.Close()
	}
}

// Story returns the story shown by the panel.
func (m Model) Story() domain.Story {
	return m.story
}

// Update handles messages for the comment panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case ThreadLoadedMsg:
		return m.handleThreadLoaded(msg)

	case common.OpenFailedMsg:
		m.status = "Could not open browser: " + htmltext.TerminalSafe(msg.Err.Error())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, tea.Batch(cmd, m.maybeLoadMore())
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(20, width)
	m.viewport.Height = max(1, height-headerLines-footerLines)
	m.refreshContent()
}
