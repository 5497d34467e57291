package app

import (
	"context"

	"github.com/CrestNiraj12/hnterm/domain"
)

// StorySource fetches story feeds.
type StorySource interface {
	// FetchStoryIDs returns the ranked id list of a feed.
	FetchStoryIDs(ctx context.Context, feed domain.FeedType) ([]int, error)

	// FetchStoriesBatch resolves ids[start:start+limit]. A nil ids fetches
	// the feed's id list first.
	FetchStoriesBatch(ctx context.Context, feed domain.FeedType, start, limit int, ids []int) (domain.StoriesBatch, error)
}

// ThreadSource resolves comment threads.
type ThreadSource interface {
	// FetchCommentThread returns nil, nil when the root is missing or tombstoned.
	FetchCommentThread(ctx context.Context, id int) (*domain.CommentNode, error)
}

// ItemReader is the full read surface of the remote item store.
type ItemReader interface {
	StorySource
	ThreadSource

	// LoadStory returns nil, nil when the item is absent or not a story.
	LoadStory(ctx context.Context, id int) (*domain.Story, error)

	// LoadComment returns nil, nil when the item is absent or not a comment.
	LoadComment(ctx context.Context, id int) (*domain.Comment, error)

	// FetchStoryComments resolves every thread of a story at once.
	FetchStoryComments(ctx context.Context, storyID int) ([]domain.CommentNode, error)
}

// ItemSession is an ItemReader backed by a cache that lives until Close.
// Close cancels loads still in flight.
type ItemSession interface {
	ItemReader
	Close()
}

// ItemService opens cache sessions over the remote store.
type ItemService interface {
	ItemReader
	OpenSession() ItemSession
}
