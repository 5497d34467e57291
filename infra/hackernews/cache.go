package hackernews

import (
	"context"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"github.com/CrestNiraj12/hnterm/domain"
	"github.com/CrestNiraj12/hnterm/infra/metrics"
)

const (
	defaultBatchWait  = 2 * time.Millisecond
	defaultFetchLimit = 8
)

// ItemCache memoizes item loads for the lifetime of a session.
//
// Each id is fetched at most once while cached: concurrent callers share the
// in-flight load. Loads run under the cache's own context so one caller
// giving up does not fail the others. Failed loads are evicted.
type ItemCache struct {
	ctx    context.Context
	cancel context.CancelFunc
	loader *dataloader.Loader[int, *hnItem]
	thunks dataloader.Cache[int, *hnItem]

	closeOnce sync.Once
}

func newItemCache(source itemFetcher, fetchLimit int, rec *metrics.Recorder) *ItemCache {
	if fetchLimit <= 0 {
		fetchLimit = defaultFetchLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &ItemCache{
		ctx:    ctx,
		cancel: cancel,
		thunks: &countingCache{Cache: dataloader.NewCache[int, *hnItem](), metrics: rec},
	}

	batch := func(batchCtx context.Context, ids []int) []*dataloader.Result[*hnItem] {
		results := make([]*dataloader.Result[*hnItem], len(ids))
		var g errgroup.Group
		g.SetLimit(fetchLimit)
		for i, id := range ids {
			g.Go(func() error {
				item, err := source.fetchItem(batchCtx, id)
				if err != nil {
					c.thunks.Delete(batchCtx, id)
				}
				results[i] = &dataloader.Result[*hnItem]{Data: item, Error: err}
				return nil
			})
		}
		_ = g.Wait()
		return results
	}

	c.loader = dataloader.NewBatchedLoader(batch,
		dataloader.WithCache[int, *hnItem](c.thunks),
		dataloader.WithWait[int, *hnItem](defaultBatchWait),
	)
	return c
}

func (c *ItemCache) fetchItem(ctx context.Context, id int) (*hnItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.AbortedError{Endpoint: itemEndpoint(id), Err: err}
	}
	if err := c.ctx.Err(); err != nil {
		return nil, &domain.AbortedError{Endpoint: itemEndpoint(id), Err: err}
	}

	thunk := c.loader.Load(c.ctx, id)

	type loaded struct {
		item *hnItem
		err  error
	}
	done := make(chan loaded, 1)
	go func() {
		item, err := thunk()
		done <- loaded{item: item, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, &domain.AbortedError{Endpoint: itemEndpoint(id), Err: ctx.Err()}
	case res := <-done:
		return res.item, res.err
	}
}

// Dispose cancels loads in flight and drops every cached entry.
func (c *ItemCache) Dispose() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.loader.ClearAll()
	})
}

// countingCache reports hits and misses of the thunk cache.
type countingCache struct {
	dataloader.Cache[int, *hnItem]
	metrics *metrics.Recorder
}

func (c *countingCache) Get(ctx context.Context, id int) (dataloader.Thunk[*hnItem], bool) {
	thunk, ok := c.Cache.Get(ctx, id)
	c.metrics.ObserveCacheLookup(ok)
	return thunk, ok
}
