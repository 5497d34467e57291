package pager

import (
	"context"
	"slices"

	"github.com/CrestNiraj12/hnterm/app"
	"github.com/CrestNiraj12/hnterm/domain"
)

const (
	// DefaultBatchSize is how many top-level threads LoadMore adds.
	DefaultBatchSize = 3
	// DefaultPrefetch is how far past the resolved threads to fetch ahead.
	DefaultPrefetch = 2
)

// ThreadOptions tunes a Threads pager. Zero values pick the defaults;
// a negative Prefetch disables prefetching.
type ThreadOptions struct {
	BatchSize int
	Prefetch  int
	// Generation tags every request and must come back on its result.
	// Results carrying another generation are ignored.
	Generation uint64
}

type slotState int

const (
	slotIdle slotState = iota
	slotLoading
	slotResolved
	slotFailed
)

type threadSlot struct {
	state slotState
	node  *domain.CommentNode
	err   error
}

// ThreadRequest asks for the thread rooted at the story's Index-th kid.
type ThreadRequest struct {
	Generation uint64
	StoryID    int
	Index      int
	CommentID  int
}

// ThreadResult answers a ThreadRequest. A nil Node with a nil Err means the
// root was missing or tombstoned.
type ThreadResult struct {
	Generation uint64
	StoryID    int
	Index      int
	CommentID  int
	Node       *domain.CommentNode
	Err        error
}

// ThreadsView is the read model rendered by the comment panel.
type ThreadsView struct {
	// Comments are the resolved threads, in order, up to the first thread
	// that has not resolved yet.
	Comments         []domain.CommentNode
	HasMore          bool
	IsLoadingInitial bool
	// IsLoading is true while any thread request is outstanding.
	IsLoading        bool
	ResolvedCount    int
	Requested        int
	Total            int
	// Hidden counts resolved threads held back behind an unresolved one.
	Hidden           int
	Err              error
}

// Threads pages through a story's top-level comment threads.
type Threads struct {
	generation uint64
	storyID    int
	hasStory   bool
	kids       []int
	batchSize  int
	prefetch   int
	requested  int
	slots      []threadSlot
}

// NewThreads starts paging story's threads and returns the first batch of
// requests. A nil story yields an empty pager.
func NewThreads(story *domain.Story, opts ThreadOptions) (Threads, []ThreadRequest) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	switch {
	case opts.Prefetch == 0:
		opts.Prefetch = DefaultPrefetch
	case opts.Prefetch < 0:
		opts.Prefetch = 0
	}

	t := Threads{generation: opts.Generation, batchSize: opts.BatchSize, prefetch: opts.Prefetch}
	if story == nil {
		return t, nil
	}
	t.storyID = story.ID
	t.hasStory = true
	t.kids = slices.Clone(story.Kids)
	t.slots = make([]threadSlot, len(t.kids))
	t.requested = min(t.batchSize, len(t.kids))
	return t.issue()
}

// LoadMore widens the requested window by one batch and retries failed
// threads inside it.
func (t Threads) LoadMore() (Threads, []ThreadRequest) {
	if !t.hasStory || t.resolvedCount() >= len(t.kids) {
		return t, nil
	}
	t.slots = slices.Clone(t.slots)
	t.requested = min(t.requested+t.batchSize, len(t.kids))
	for i := 0; i < t.requested; i++ {
		if t.slots[i].state == slotFailed {
			t.slots[i] = threadSlot{}
		}
	}
	return t.issue()
}

// Apply records a thread result and returns prefetch requests, if any.
// Stale results are ignored.
func (t Threads) Apply(res ThreadResult) (Threads, []ThreadRequest) {
	if !t.hasStory || res.Generation != t.generation || res.StoryID != t.storyID ||
		res.Index < 0 || res.Index >= len(t.slots) {
		return t, nil
	}
	if t.slots[res.Index].state != slotLoading {
		return t, nil
	}

	t.slots = slices.Clone(t.slots)
	switch {
	case domain.IsAborted(res.Err):
		t.slots[res.Index] = threadSlot{}
		return t, nil
	case res.Err != nil:
		t.slots[res.Index] = threadSlot{state: slotFailed, err: res.Err}
	default:
		t.slots[res.Index] = threadSlot{state: slotResolved, node: res.Node}
	}

	if t.settled() {
		resolved := t.resolvedCount()
		if resolved < len(t.kids) {
			t.requested = max(t.requested, min(resolved+t.prefetch, len(t.kids)))
			return t.issue()
		}
	}
	return t, nil
}

// issue marks idle slots inside the requested window as loading.
// Callers must pass a Threads whose slots they own.
func (t Threads) issue() (Threads, []ThreadRequest) {
	var reqs []ThreadRequest
	for i := 0; i < t.requested; i++ {
		if t.slots[i].state != slotIdle {
			continue
		}
		if reqs == nil {
			t.slots = slices.Clone(t.slots)
		}
		t.slots[i].state = slotLoading
		reqs = append(reqs, ThreadRequest{Generation: t.generation, StoryID: t.storyID, Index: i, CommentID: t.kids[i]})
	}
	return t, reqs
}

// settled reports whether nothing is loading and nothing has failed.
func (t Threads) settled() bool {
	for _, s := range t.slots {
		if s.state == slotLoading || s.state == slotFailed {
			return false
		}
	}
	return true
}

func (t Threads) resolvedCount() int {
	n := 0
	for _, s := range t.slots {
		if s.state == slotResolved {
			n++
		}
	}
	return n
}

// View returns the read model.
func (t Threads) View() ThreadsView {
	v := ThreadsView{
		Comments:      []domain.CommentNode{},
		ResolvedCount: t.resolvedCount(),
		Requested:     t.requested,
		Total:         len(t.kids),
	}
	v.HasMore = v.ResolvedCount < v.Total

	prefix := true
	loading := false
	for _, s := range t.slots {
		switch s.state {
		case slotLoading:
			loading = true
		case slotFailed:
			if v.Err == nil {
				v.Err = s.err
			}
		}
		if s.state != slotResolved {
			prefix = false
		}
		if s.node == nil {
			continue
		}
		if prefix {
			v.Comments = append(v.Comments, *s.node)
		} else {
			v.Hidden++
		}
	}
	v.IsLoading = loading
	v.IsLoadingInitial = v.ResolvedCount == 0 && v.Total > 0 && loading
	return v
}

// Generation returns the tag stamped on this pager's requests.
func (t Threads) Generation() uint64 {
	return t.generation
}

// StoryID returns the story being paged.
func (t Threads) StoryID() int {
	return t.storyID
}

// FetchThread runs req against src.
func FetchThread(ctx context.Context, src app.ThreadSource, req ThreadRequest) ThreadResult {
	node, err := src.FetchCommentThread(ctx, req.CommentID)
	return ThreadResult{
		Generation: req.Generation,
		StoryID:    req.StoryID,
		Index:      req.Index,
		CommentID:  req.CommentID,
		Node:       node,
		Err:        err,
	}
}
