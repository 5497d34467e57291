// Package pager holds the pagination state machines behind the story feed and
// the comment panel. Transitions are pure: they never perform I/O and never
// mutate the receiver. Network work is described by request values and run
// by FetchPage and FetchThread.
package pager

import (
	"context"
	"maps"
	"slices"

	"github.com/CrestNiraj12/hnterm/app"
	"github.com/CrestNiraj12/hnterm/domain"
)

// DefaultPageSize is the number of ids resolved per feed page.
const DefaultPageSize = 20

// Page is one applied slice of the id snapshot.
type Page struct {
	Start     int
	NextStart int
	HasMore   bool
	Stories   []domain.Story
}

// PageRequest describes the next page to fetch.
type PageRequest struct {
	FeedType  domain.FeedType
	SessionID int
	Start     int
	Limit     int
	// IDs is the session's pinned ordering. Nil asks for a fresh id list.
	IDs []int
}

// PageResult is the outcome of a PageRequest.
type PageResult struct {
	FeedType  domain.FeedType
	SessionID int
	Start     int
	// IDs is the ordering the page was sliced from.
	IDs   []int
	Batch domain.StoriesBatch
	Err   error
}

// FeedView is the read model rendered by the UI.
type FeedView struct {
	FeedType       domain.FeedType
	SessionID      int
	Stories        []domain.Story
	HasMore        bool
	IsInitializing bool
	IsFetchingMore bool
	Err            error
}

// Feed is the story feed state for one feed type and session.
type Feed struct {
	feedType  domain.FeedType
	sessionID int
	pageSize  int
	ids       []int
	pages     []Page
	stories   []domain.Story
	seen      map[int]struct{}
	inFlight  *PageRequest
	err       error
}

// InitializeFeed starts session 0 and requests its first page.
func InitializeFeed(feedType domain.FeedType, pageSize int) (Feed, PageRequest) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Feed{feedType: feedType, sessionID: -1, pageSize: pageSize}.newSession(feedType)
}

func (f Feed) newSession(feedType domain.FeedType) (Feed, PageRequest) {
	req := PageRequest{
		FeedType:  feedType,
		SessionID: f.sessionID + 1,
		Start:     0,
		Limit:     f.pageSize,
	}
	next := Feed{
		feedType:  feedType,
		sessionID: req.SessionID,
		pageSize:  f.pageSize,
		seen:      map[int]struct{}{},
		inFlight:  &req,
	}
	return next, req
}

// LoadMore requests the page after the last applied one. It returns nil
// while a page is in flight, before any page has loaded, or at the end.
func (f Feed) LoadMore() (Feed, *PageRequest) {
	if f.inFlight != nil || len(f.pages) == 0 {
		return f, nil
	}
	last := f.pages[len(f.pages)-1]
	if !last.HasMore {
		return f, nil
	}
	req := PageRequest{
		FeedType:  f.feedType,
		SessionID: f.sessionID,
		Start:     last.NextStart,
		Limit:     f.pageSize,
		IDs:       f.ids,
	}
	f.inFlight = &req
	f.err = nil
	return f, &req
}

// SetFeedType switches feeds, starting a new session. It returns nil when
// next is already the current feed.
func (f Feed) SetFeedType(next domain.FeedType) (Feed, *PageRequest) {
	if next == f.feedType {
		return f, nil
	}
	nf, req := f.newSession(next)
	return nf, &req
}

// Refresh starts a new session for the current feed, dropping the id snapshot.
func (f Feed) Refresh() (Feed, PageRequest) {
	return f.newSession(f.feedType)
}

// Apply folds a page result into the feed. Results that do not answer the
// request in flight are ignored. Aborted results only clear the request.
func (f Feed) Apply(res PageResult) Feed {
	if f.inFlight == nil ||
		res.SessionID != f.sessionID ||
		res.FeedType != f.feedType ||
		res.Start != f.inFlight.Start {
		return f
	}
	f.inFlight = nil

	switch {
	case domain.IsAborted(res.Err):
		return f
	case res.Err != nil:
		f.err = res.Err
		return f
	}

	if f.ids == nil {
		f.ids = slices.Clone(res.IDs)
		if f.ids == nil {
			f.ids = []int{}
		}
	}

	seen := maps.Clone(f.seen)
	if seen == nil {
		seen = map[int]struct{}{}
	}
	fresh := make([]domain.Story, 0, len(res.Batch.Stories))
	for _, s := range res.Batch.Stories {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		fresh = append(fresh, s)
	}

	f.seen = seen
	f.stories = slices.Concat(f.stories, fresh)
	f.pages = slices.Concat(f.pages, []Page{{
		Start:     res.Start,
		NextStart: res.Batch.NextStart,
		HasMore:   res.Batch.HasMore,
		Stories:   fresh,
	}})
	f.err = nil
	return f
}

// View returns the read model.
func (f Feed) View() FeedView {
	v := FeedView{
		FeedType:  f.feedType,
		SessionID: f.sessionID,
		Stories:   f.stories,
		Err:       f.err,
	}
	if len(f.pages) > 0 {
		v.HasMore = f.pages[len(f.pages)-1].HasMore
	}
	if f.inFlight != nil {
		v.IsInitializing = len(f.pages) == 0
		v.IsFetchingMore = len(f.pages) > 0
	}
	return v
}

// Pages returns the applied pages in order.
func (f Feed) Pages() []Page {
	return f.pages
}

// FetchPage runs req against src. A nil req.IDs fetches the feed's id list
// first; the list used is returned in the result so the feed can pin it.
func FetchPage(ctx context.Context, src app.StorySource, req PageRequest) PageResult {
	res := PageResult{FeedType: req.FeedType, SessionID: req.SessionID, Start: req.Start}

	ids := req.IDs
	if ids == nil {
		fetched, err := src.FetchStoryIDs(ctx, req.FeedType)
		if err != nil {
			res.Err = err
			return res
		}
		ids = fetched
		if ids == nil {
			ids = []int{}
		}
	}
	res.IDs = ids

	batch, err := src.FetchStoriesBatch(ctx, req.FeedType, req.Start, req.Limit, ids)
	if err != nil {
		res.Err = err
		return res
	}
	res.Batch = batch
	return res
}
