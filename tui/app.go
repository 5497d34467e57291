package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/hnterm/app"
	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/config"
	"github.com/CrestNiraj12/hnterm/pager"
	"github.com/CrestNiraj12/hnterm/tui/comments"
	"github.com/CrestNiraj12/hnterm/tui/common"
	"github.com/CrestNiraj12/hnterm/tui/feed"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Items     app.ItemService
	Logger    *slog.Logger
	Feed      domain.FeedType
	PageSize  int
	Threads   pager.ThreadOptions
	StatePath string // empty disables UI state persistence
	Now       func() time.Time
}

type activeView int

const (
	feedView activeView = iota
	commentsView
)

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps     Deps
	logger   *slog.Logger
	active   activeView
	feed     feed.Model
	comments comments.Model
	keys     common.KeyMap
	width    int
	height   int
}

type stateSavedMsg struct {
	Err error
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	feedType := deps.Feed
	if feedType == "" {
		feedType = domain.FeedTop
	}
	return App{
		deps:   deps,
		logger: logger,
		active: feedView,
		feed: feed.New(feed.Deps{
			Items:    deps.Items,
			Logger:   logger,
			PageSize: deps.PageSize,
			Now:      deps.Now,
		}, feedType),
		keys:   common.DefaultKeyMap(),
		width:  80,
		height: 24,
	}
}

// Init delegates to the feed.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

// Close ends every open session.
func (a App) Close() {
	a.feed.Close()
	if a.active == commentsView {
		a.comments.Close()
	}
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global key bindings, handled regardless of active view.
		if key.Matches(msg, a.keys.ForceQuit) || key.Matches(msg, a.keys.Quit) {
			a.Close()
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		cmds = append(cmds, cmd)
		if a.active == commentsView {
			a.comments, cmd = a.comments.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case feed.OpenStoryMsg:
		if a.active == commentsView {
			a.comments.Close()
		}
		var cmd tea.Cmd
		a.comments, cmd = comments.New(comments.Deps{
			Items:   a.deps.Items,
			Logger:  a.logger,
			Threads: a.deps.Threads,
			Now:     a.deps.Now,
		}, msg.Story, a.width, a.height)
		a.active = commentsView
		return a, cmd

	case comments.BackMsg:
		if a.active == commentsView {
			a.comments.Close()
			a.active = feedView
		}
		return a, nil

	case feed.FeedChangedMsg:
		return a, a.saveState(msg.Feed)

	case stateSavedMsg:
		if msg.Err != nil {
			a.logger.Warn("failed to save ui state", slog.String("error", msg.Err.Error()))
		}
		return a, nil

	// Results are routed by type, not by the active view: a page can land
	// while the comment panel is open.
	case feed.PageLoadedMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd

	case comments.ThreadLoadedMsg:
		if a.active != commentsView {
			return a, nil
		}
		var cmd tea.Cmd
		a.comments, cmd = a.comments.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		cmds = append(cmds, cmd)
		if a.active == commentsView {
			a.comments, cmd = a.comments.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	// Delegate to the active sub-model.
	switch a.active {
	case commentsView:
		updated, cmd := a.comments.Update(msg)
		a.comments = updated
		return a, cmd
	default:
		updated, cmd := a.feed.Update(msg)
		a.feed = updated
		return a, cmd
	}
}

func (a App) saveState(feedType domain.FeedType) tea.Cmd {
	path := a.deps.StatePath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		return stateSavedMsg{Err: config.SaveUIState(path, config.UIState{Feed: string(feedType)})}
	}
}

// View renders the active sub-model.
func (a App) View() string {
	if a.active == commentsView {
		return a.comments.View()
	}
	return a.feed.View()
}
