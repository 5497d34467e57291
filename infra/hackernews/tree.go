package hackernews

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/CrestNiraj12/hnterm/domain"
)

// TreeBuilder resolves comment ids into nested CommentNodes.
type TreeBuilder struct {
	items itemFetcher
	// maxDepth stops descending below this many levels. Zero is unbounded.
	maxDepth int
}

// Build resolves ids and all their descendants concurrently.
//
// Output follows input order. Missing, deleted and dead comments are dropped
// along with their subtrees. Any load failure fails the whole build.
func (b TreeBuilder) Build(ctx context.Context, ids []int) ([]domain.CommentNode, error) {
	if len(ids) == 0 {
		return []domain.CommentNode{}, nil
	}
	return b.build(ctx, ids, 1, newVisitSet())
}

func (b TreeBuilder) build(ctx context.Context, ids []int, depth int, seen *visitSet) ([]domain.CommentNode, error) {
	nodes := make([]*domain.CommentNode, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		if !seen.claim(id) {
			continue
		}
		g.Go(func() error {
			node, err := b.resolve(gctx, id, depth, seen)
			if err != nil {
				return err
			}
			nodes[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.CommentNode, 0, len(ids))
	for _, n := range nodes {
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (b TreeBuilder) resolve(ctx context.Context, id, depth int, seen *visitSet) (*domain.CommentNode, error) {
	item, err := b.items.fetchItem(ctx, id)
	if err != nil {
		return nil, err
	}
	comment := toComment(item)
	if comment == nil || comment.Tombstoned() {
		return nil, nil
	}

	node := &domain.CommentNode{Comment: *comment, Children: []domain.CommentNode{}}
	if len(comment.Kids) == 0 || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return node, nil
	}

	children, err := b.build(ctx, comment.Kids, depth+1, seen)
	if err != nil {
		return nil, err
	}
	node.Children = children
	return node, nil
}

// visitSet guarantees an id is resolved at most once per build.
type visitSet struct {
	mu   sync.Mutex
	seen map[int]struct{}
}

func newVisitSet() *visitSet {
	return &visitSet{seen: make(map[int]struct{})}
}

func (v *visitSet) claim(id int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[id]; ok {
		return false
	}
	v.seen[id] = struct{}{}
	return true
}
