package pager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/hnterm/domain"
)

func storyWithKids(kids ...int) *domain.Story {
	return &domain.Story{ID: 99, Kids: kids}
}

func resolved(req ThreadRequest) ThreadResult {
	return ThreadResult{
		Generation: req.Generation,
		StoryID:    req.StoryID,
		Index:      req.Index,
		CommentID:  req.CommentID,
		Node:       &domain.CommentNode{Comment: domain.Comment{ID: req.CommentID}, Children: []domain.CommentNode{}},
	}
}

func commentIDs(nodes []domain.CommentNode) []int {
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func requestIDs(reqs []ThreadRequest) []int {
	out := make([]int, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.CommentID)
	}
	return out
}

func TestThreads_InitialBatchThenLoadMoreCapsAtTotal(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2, 3, 4, 5), ThreadOptions{})

	assert.Equal(t, []int{1, 2, 3}, requestIDs(reqs))
	v := th.View()
	assert.Equal(t, 3, v.Requested)
	assert.True(t, v.IsLoadingInitial)
	assert.True(t, v.HasMore)

	th, more := th.LoadMore()
	assert.Equal(t, []int{4, 5}, requestIDs(more))
	assert.Equal(t, 5, th.View().Requested)
}

func TestThreads_PrefetchesAfterBatchSettles(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2, 3, 4, 5), ThreadOptions{})
	require.Len(t, reqs, 3)

	var prefetch []ThreadRequest
	for i, req := range reqs {
		th, prefetch = th.Apply(resolved(req))
		if i < len(reqs)-1 {
			assert.Empty(t, prefetch, "no prefetch while loads are outstanding")
		}
	}

	assert.Equal(t, []int{4, 5}, requestIDs(prefetch))
	v := th.View()
	assert.Equal(t, 5, v.Requested)
	assert.Equal(t, 3, v.ResolvedCount)
	assert.Equal(t, []int{1, 2, 3}, commentIDs(v.Comments))
	assert.False(t, v.IsLoadingInitial)
}

func TestThreads_NullThreadCountsAsResolved(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2), ThreadOptions{})
	th, _ = th.Apply(ThreadResult{StoryID: 99, Index: 0, CommentID: 1})
	th, _ = th.Apply(resolved(reqs[1]))

	v := th.View()
	assert.Equal(t, 2, v.ResolvedCount)
	assert.False(t, v.HasMore)
	assert.Equal(t, []int{2}, commentIDs(v.Comments))

	_, none := th.LoadMore()
	assert.Nil(t, none)
}

func TestThreads_FailureIsIsolatedAndRetried(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2, 3, 4), ThreadOptions{})
	boom := errors.New("boom")

	th, _ = th.Apply(resolved(reqs[0]))
	th, _ = th.Apply(ThreadResult{StoryID: 99, Index: 1, CommentID: 2, Err: boom})
	th, prefetch := th.Apply(resolved(reqs[2]))
	assert.Empty(t, prefetch, "prefetch pauses while a thread has failed")

	v := th.View()
	assert.ErrorIs(t, v.Err, boom)
	assert.Equal(t, 2, v.ResolvedCount)
	assert.Equal(t, []int{1}, commentIDs(v.Comments), "threads after a gap wait for it")
	assert.Equal(t, 1, v.Hidden)

	th, retry := th.LoadMore()
	assert.Equal(t, []int{2, 4}, requestIDs(retry))
	assert.NoError(t, th.View().Err)
}

func TestThreads_AbortReturnsSlotToIdle(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2), ThreadOptions{})
	aborted := &domain.AbortedError{Endpoint: "item/1", Err: context.Canceled}

	th, next := th.Apply(ThreadResult{StoryID: 99, Index: 0, CommentID: 1, Err: aborted})
	assert.Nil(t, next)
	assert.NoError(t, th.View().Err)

	th, retry := th.Apply(resolved(reqs[1]))
	assert.Equal(t, []int{1}, requestIDs(retry), "idle slots inside the window are re-requested once loads settle")
	assert.Equal(t, 1, th.View().ResolvedCount)
}

func TestThreads_IgnoresStaleAndDuplicateResults(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2, 3), ThreadOptions{})

	other := resolved(reqs[0])
	other.StoryID = 7
	same, next := th.Apply(other)
	assert.Nil(t, next)
	assert.Equal(t, th.View(), same.View())

	th, _ = th.Apply(resolved(reqs[0]))
	again, _ := th.Apply(resolved(reqs[0]))
	assert.Equal(t, th.View(), again.View())

	outOfRange, _ := th.Apply(ThreadResult{StoryID: 99, Index: 12})
	assert.Equal(t, th.View(), outOfRange.View())
}

func TestThreads_IgnoresResultsOfAnotherGeneration(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2, 3), ThreadOptions{Generation: 2})
	require.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.Equal(t, uint64(2), r.Generation)
	}

	aborted := &domain.AbortedError{Endpoint: "item/1", Err: context.Canceled}
	for _, r := range reqs {
		var next []ThreadRequest
		th, next = th.Apply(ThreadResult{Generation: 1, StoryID: 99, Index: r.Index, CommentID: r.CommentID, Err: aborted})
		assert.Nil(t, next)
	}
	assert.True(t, th.View().IsLoading, "earlier generation must not reset loading slots")

	for _, r := range reqs {
		th, _ = th.Apply(resolved(r))
	}
	assert.Equal(t, []int{1, 2, 3}, commentIDs(th.View().Comments))
}

func TestThreads_NoStoryOrNoKids(t *testing.T) {
	th, reqs := NewThreads(nil, ThreadOptions{})
	assert.Nil(t, reqs)
	_, more := th.LoadMore()
	assert.Nil(t, more)
	assert.False(t, th.View().HasMore)

	th, reqs = NewThreads(storyWithKids(), ThreadOptions{})
	assert.Empty(t, reqs)
	v := th.View()
	assert.False(t, v.IsLoadingInitial)
	assert.False(t, v.HasMore)
	assert.NotNil(t, v.Comments)
}

func TestThreads_CustomBatchAndPrefetch(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2, 3, 4, 5, 6, 7), ThreadOptions{BatchSize: 2, Prefetch: -1})
	assert.Equal(t, []int{1, 2}, requestIDs(reqs))

	th, _ = th.Apply(resolved(reqs[0]))
	th, prefetch := th.Apply(resolved(reqs[1]))
	assert.Empty(t, prefetch, "negative prefetch disables it")

	_, more := th.LoadMore()
	assert.Equal(t, []int{3, 4}, requestIDs(more))
}

func TestThreads_TransitionsArePure(t *testing.T) {
	th, reqs := NewThreads(storyWithKids(1, 2, 3), ThreadOptions{})
	before := th.View()

	_, _ = th.Apply(resolved(reqs[0]))
	_, _ = th.LoadMore()

	assert.Equal(t, before, th.View())
}

type stubThreads struct {
	node *domain.CommentNode
	err  error
	got  int
}

func (s *stubThreads) FetchCommentThread(_ context.Context, id int) (*domain.CommentNode, error) {
	s.got = id
	return s.node, s.err
}

func TestFetchThread_CarriesRequestIdentity(t *testing.T) {
	src := &stubThreads{node: &domain.CommentNode{Comment: domain.Comment{ID: 301}}}
	res := FetchThread(context.Background(), src, ThreadRequest{Generation: 4, StoryID: 99, Index: 2, CommentID: 301})

	assert.Equal(t, 301, src.got)
	assert.Equal(t, uint64(4), res.Generation)
	assert.Equal(t, 99, res.StoryID)
	assert.Equal(t, 2, res.Index)
	require.NotNil(t, res.Node)
	assert.Equal(t, 301, res.Node.ID)
}
