package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/CrestNiraj12/hnterm/app"
	"github.com/CrestNiraj12/hnterm/domain"
)

// stubItems serves a fixed id list per feed; story N is titled "Story N".
type stubItems struct {
	mu       sync.Mutex
	ids      map[domain.FeedType][]int
	opened   int
	closed   int
	batchErr error
}

func newStubItems(top, fresh []int) *stubItems {
	return &stubItems{ids: map[domain.FeedType][]int{domain.FeedTop: top, domain.FeedNew: fresh}}
}

func (s *stubItems) OpenSession() app.ItemSession {
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	return stubSession{s}
}

func (s *stubItems) FetchStoryIDs(_ context.Context, feed domain.FeedType) ([]int, error) {
	return s.ids[feed], nil
}

func (s *stubItems) FetchStoriesBatch(_ context.Context, _ domain.FeedType, start, limit int, ids []int) (domain.StoriesBatch, error) {
	if s.batchErr != nil {
		return domain.StoriesBatch{}, s.batchErr
	}
	end := min(start+limit, len(ids))
	batch := domain.StoriesBatch{NextStart: end, HasMore: end < len(ids)}
	for _, id := range ids[start:end] {
		batch.Stories = append(batch.Stories, makeStory(id))
	}
	return batch, nil
}

func (s *stubItems) FetchCommentThread(context.Context, int) (*domain.CommentNode, error) {
	return nil, nil
}

func (s *stubItems) LoadStory(_ context.Context, id int) (*domain.Story, error) {
	st := makeStory(id)
	return &st, nil
}

func (s *stubItems) LoadComment(context.Context, int) (*domain.Comment, error) {
	return nil, nil
}

func (s *stubItems) FetchStoryComments(context.Context, int) ([]domain.CommentNode, error) {
	return []domain.CommentNode{}, nil
}

func (s *stubItems) closedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type stubSession struct {
	*stubItems
}

func (s stubSession) Close() {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
}

func makeStory(id int) domain.Story {
	return domain.Story{
		ID:          id,
		By:          "pg",
		Title:       fmt.Sprintf("Story %d", id),
		URL:         fmt.Sprintf("https://www.example.com/%d", id),
		Domain:      "example.com",
		Score:       id * 10,
		Descendants: 1,
		Time:        1_700_000_000,
	}
}

func seqIDs(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, id)
	}
	return out
}
