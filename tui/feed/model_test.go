package feed

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/pager"
)

var fixedNow = func() time.Time { return time.Unix(1_700_000_600, 0) }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runPage executes a command expected to fetch a page and feeds the
// result back into the model.
func runPage(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a page fetch command")
	}
	msg, ok := cmd().(PageLoadedMsg)
	if !ok {
		t.Fatalf("expected PageLoadedMsg")
	}
	m, _ = m.Update(msg)
	return m
}

func newLoadedModel(t *testing.T, items *stubItems, pageSize int) Model {
	t.Helper()
	m := New(Deps{Items: items, PageSize: pageSize, Now: fixedNow}, domain.FeedTop)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return runPage(t, m, m.fetchPage(m.initReq))
}

func TestNew_InitializingView(t *testing.T) {
	items := newStubItems(seqIDs(1, 3), nil)
	m := New(Deps{Items: items, Now: fixedNow}, domain.FeedTop)

	if items.opened != 1 {
		t.Fatalf("expected one session, got %d", items.opened)
	}
	if !m.Loading() {
		t.Fatalf("expected loading before the first page")
	}
	if !strings.Contains(m.View(), "Loading the latest stories") {
		t.Fatalf("expected initial loading message")
	}
}

func TestPageLoaded_RendersStories(t *testing.T) {
	items := newStubItems(seqIDs(1, 3), nil)
	m := newLoadedModel(t, items, 20)

	out := m.View()
	for _, want := range []string{"1. Story 1", "(example.com)", "10 points", "by pg", "10m ago", "You are all caught up."} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestMovingNearEndLoadsNextPage(t *testing.T) {
	items := newStubItems(seqIDs(1, 40), nil)
	m := newLoadedModel(t, items, 10)
	// The first page fills the screen, so nothing else was requested.
	if m.Loading() {
		t.Fatalf("no follow-up page expected yet")
	}

	var cmd tea.Cmd
	for range 6 {
		m, cmd = m.Update(keyRunes("j"))
		if cmd != nil {
			t.Fatalf("cursor %d should not trigger loading", m.cursor)
		}
	}
	m, cmd = m.Update(keyRunes("j"))
	if m.cursor != 7 || cmd == nil {
		t.Fatalf("expected load-more at cursor 7, got cursor=%d cmd=%v", m.cursor, cmd != nil)
	}
	if !strings.Contains(m.View(), "Loading additional stories") {
		t.Fatalf("expected fetching-more message")
	}

	m = runPage(t, m, cmd)
	if got := len(m.feed.View().Stories); got != 20 {
		t.Fatalf("expected 20 stories after second page, got %d", got)
	}
}

func TestLoadMoreFailureKeepsStories(t *testing.T) {
	items := newStubItems(seqIDs(1, 40), nil)
	m := newLoadedModel(t, items, 10)

	items.batchErr = errors.New("upstream down")
	m.cursor = 8
	m, cmd := m.Update(keyRunes("j"))
	m = runPage(t, m, cmd)

	out := m.View()
	if !strings.Contains(out, "Couldn't load more: upstream down") {
		t.Fatalf("expected inline error:\n%s", out)
	}
	if len(m.feed.View().Stories) != 10 {
		t.Fatalf("stories must survive a failed page")
	}

	items.batchErr = nil
	m, cmd = m.Update(keyRunes("k"))
	m = runPage(t, m, cmd)
	if len(m.feed.View().Stories) != 20 {
		t.Fatalf("moving again should retry the page")
	}
}

func TestToggleFeedStartsNewSession(t *testing.T) {
	items := newStubItems(seqIDs(1, 3), seqIDs(100, 102))
	m := newLoadedModel(t, items, 20)
	m.cursor = 2

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if cmd == nil {
		t.Fatalf("expected fetch and feed-changed commands")
	}
	if m.FeedType() != domain.FeedNew || m.cursor != 0 {
		t.Fatalf("expected new feed with reset cursor, got %s cursor=%d", m.FeedType(), m.cursor)
	}
	if items.opened != 2 || items.closedCount() != 1 {
		t.Fatalf("expected old session closed and a new one opened: opened=%d closed=%d", items.opened, items.closedCount())
	}
	if !m.feed.View().IsInitializing {
		t.Fatalf("switching feeds must start from page one")
	}

	_, none := m.Update(keyRunes("n"))
	if none != nil {
		t.Fatalf("selecting the current feed is a no-op")
	}
}

func TestStaleSessionResultIsIgnored(t *testing.T) {
	items := newStubItems(seqIDs(1, 3), seqIDs(100, 102))
	m := New(Deps{Items: items, Now: fixedNow}, domain.FeedTop)
	stale := m.fetchPage(m.initReq)

	m, _ = m.Update(keyRunes("r"))
	m, _ = m.Update(stale())

	if len(m.feed.View().Stories) != 0 || !m.feed.View().IsInitializing {
		t.Fatalf("result of the replaced session must be dropped")
	}
}

func TestEnterOpensSelectedStory(t *testing.T) {
	items := newStubItems(seqIDs(1, 3), nil)
	m := newLoadedModel(t, items, 20)
	m, _ = m.Update(keyRunes("j"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected open command")
	}
	msg, ok := cmd().(OpenStoryMsg)
	if !ok || msg.Story.ID != 2 {
		t.Fatalf("expected OpenStoryMsg for story 2, got %#v", msg)
	}
}

func TestInitialFailureShowsRetryHint(t *testing.T) {
	items := newStubItems(seqIDs(1, 3), nil)
	items.batchErr = &domain.APIError{Endpoint: "item/1", Status: 503}
	m := New(Deps{Items: items, Now: fixedNow}, domain.FeedTop)
	m = runPage(t, m, m.fetchPage(m.initReq))

	out := m.View()
	if !strings.Contains(out, "press r to retry") || !strings.Contains(out, "503") {
		t.Fatalf("expected error state:\n%s", out)
	}
}

func TestAbortedPageIsSilent(t *testing.T) {
	items := newStubItems(seqIDs(1, 3), nil)
	m := New(Deps{Items: items, Now: fixedNow}, domain.FeedTop)
	req := m.initReq
	m, _ = m.Update(PageLoadedMsg{Result: pager.PageResult{
		FeedType:  req.FeedType,
		SessionID: req.SessionID,
		Err:       &domain.AbortedError{Endpoint: "topstories"},
	}})
	if m.feed.View().Err != nil || m.Loading() {
		t.Fatalf("aborted page must only clear the request")
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	items := newStubItems(seqIDs(1, 20), nil)
	m := newLoadedModel(t, items, 20)

	for range 15 {
		m, _ = m.Update(keyRunes("j"))
	}
	if m.scrollTop%rowHeight != 0 {
		t.Fatalf("scroll must align to rows: %d", m.scrollTop)
	}
	top := m.scrollTop / rowHeight
	if m.cursor < top || m.cursor >= top+m.visibleRows() {
		t.Fatalf("cursor %d outside rows [%d,%d)", m.cursor, top, top+m.visibleRows())
	}
	if !strings.Contains(m.View(), "16. Story 16") {
		t.Fatalf("selected story must be rendered")
	}
}

func TestViewFitsTerminalHeight(t *testing.T) {
	items := newStubItems(seqIDs(1, 40), nil)
	m := newLoadedModel(t, items, 20)

	for height := 12; height <= 40; height++ {
		m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: height})
		if got := lipgloss.Height(m.View()); got > height {
			t.Fatalf("height=%d: view is %d lines", height, got)
		}
		// The cursor row must still be drawn after a resize.
		if !strings.Contains(m.View(), "1. Story 1") {
			t.Fatalf("height=%d: selected story missing", height)
		}
	}
}
