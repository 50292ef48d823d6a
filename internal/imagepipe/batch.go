package imagepipe

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the batch chunk size when none is configured.
const DefaultConcurrency = 3

// FetchAll retrieves a sequence of image URLs with a fixed concurrency
// ceiling, returning one FetchResult per input URL in input order.
//
// The input is partitioned into consecutive chunks of at most limit URLs;
// fetches within a chunk run concurrently, chunks run strictly
// sequentially. This bounds simultaneous connections to the tracker.
// Individual failures surface as failed results at their positions and
// never abort the batch.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, limit int) []FetchResult {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]FetchResult, len(urls))
	for start := 0; start < len(urls); start += limit {
		end := min(start+limit, len(urls))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = f.Fetch(gctx, urls[i])
				return nil
			})
		}
		// Fetch never returns an error, so Wait only synchronizes the chunk.
		_ = g.Wait()
	}

	return results
}
