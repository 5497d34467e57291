package hackernews

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/CrestNiraj12/hnterm/app"
	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/metrics"
)

// DefaultPageSize is used when a batch is requested with limit <= 0.
const DefaultPageSize = 20

// Gateway implements app.ItemService over the Hacker News API.
// A bare Gateway never caches; OpenSession returns a cached view.
type Gateway struct {
	client     *Client
	items      itemFetcher
	logger     *slog.Logger
	metrics    *metrics.Recorder
	maxDepth   int
	pageSize   int
	fetchLimit int
}

// GatewayOptions tunes a Gateway. The zero value is usable.
type GatewayOptions struct {
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	// MaxCommentDepth bounds thread recursion. Zero is unbounded.
	MaxCommentDepth int
	// PageSize is the default batch size. Zero means DefaultPageSize.
	PageSize int
	// FetchLimit caps concurrent item requests per batch.
	FetchLimit int
}

var _ app.ItemService = (*Gateway)(nil)

// NewGateway creates a Gateway backed by client.
func NewGateway(client *Client, opts GatewayOptions) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	fetchLimit := opts.FetchLimit
	if fetchLimit <= 0 {
		fetchLimit = defaultFetchLimit
	}
	return &Gateway{
		client:     client,
		items:      client,
		logger:     logger,
		metrics:    opts.Metrics,
		maxDepth:   opts.MaxCommentDepth,
		pageSize:   pageSize,
		fetchLimit: fetchLimit,
	}
}

// OpenSession returns a reader whose item loads are memoized until Close.
func (g *Gateway) OpenSession() app.ItemSession {
	cache := newItemCache(g.client, g.fetchLimit, g.metrics)
	scoped := *g
	scoped.items = cache
	return &Session{Gateway: &scoped, cache: cache}
}

// FetchStoryIDs returns the ranked id list of feed.
func (g *Gateway) FetchStoryIDs(ctx context.Context, feed domain.FeedType) ([]int, error) {
	return g.client.fetchIDs(ctx, feed.Endpoint())
}

// LoadStory returns nil, nil when id is absent or not a story.
func (g *Gateway) LoadStory(ctx context.Context, id int) (*domain.Story, error) {
	item, err := g.items.fetchItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return toStory(item), nil
}

// LoadComment returns nil, nil when id is absent or not a comment.
func (g *Gateway) LoadComment(ctx context.Context, id int) (*domain.Comment, error) {
	item, err := g.items.fetchItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return toComment(item), nil
}

// FetchStoriesBatch resolves ids[start:start+limit] in slice order,
// dropping anything that is not a story. A nil ids fetches feed's id list.
func (g *Gateway) FetchStoriesBatch(ctx context.Context, feed domain.FeedType, start, limit int, ids []int) (domain.StoriesBatch, error) {
	if ids == nil {
		fetched, err := g.FetchStoryIDs(ctx, feed)
		if err != nil {
			return domain.StoriesBatch{}, err
		}
		ids = fetched
	}
	if limit <= 0 {
		limit = g.pageSize
	}
	start = max(0, min(start, len(ids)))
	end := min(start+limit, len(ids))
	slice := ids[start:end]

	stories := make([]*domain.Story, len(slice))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.fetchLimit)
	for i, id := range slice {
		eg.Go(func() error {
			story, err := g.LoadStory(egctx, id)
			if err != nil {
				return err
			}
			stories[i] = story
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return domain.StoriesBatch{}, err
	}

	batch := domain.StoriesBatch{
		Stories:   make([]domain.Story, 0, len(slice)),
		NextStart: end,
		HasMore:   end < len(ids),
	}
	for _, s := range stories {
		if s != nil {
			batch.Stories = append(batch.Stories, *s)
		}
	}
	return batch, nil
}

// FetchCommentThread resolves one comment and its replies.
// It returns nil, nil when the root is missing, not a comment, or tombstoned.
func (g *Gateway) FetchCommentThread(ctx context.Context, id int) (*domain.CommentNode, error) {
	nodes, err := g.Trees().Build(ctx, []int{id})
	if err != nil {
		return nil, fmt.Errorf("comment thread %d: %w", id, err)
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return &nodes[0], nil
}

// FetchStoryComments resolves every thread of a story at once.
// It returns an empty forest when the story is absent.
func (g *Gateway) FetchStoryComments(ctx context.Context, storyID int) ([]domain.CommentNode, error) {
	story, err := g.LoadStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return []domain.CommentNode{}, nil
	}
	nodes, err := g.Trees().Build(ctx, story.Kids)
	if err != nil {
		return nil, fmt.Errorf("comments for story %d: %w", storyID, err)
	}
	return nodes, nil
}

// Trees returns a builder sharing the gateway's item source.
func (g *Gateway) Trees() TreeBuilder {
	return TreeBuilder{items: g.items, maxDepth: g.maxDepth}
}

// Session is a Gateway view backed by an ItemCache.
type Session struct {
	*Gateway
	cache *ItemCache
}

// Close cancels loads in flight and drops the cache.
func (s *Session) Close() {
	s.cache.Dispose()
}
