// Package resilience groups the fault-tolerance building blocks used by the
// crawl pipeline's outbound calls: circuit breakers around feed fetching,
// article page fetching and the enrichment API, plus retry with exponential
// backoff and jitter. Guard combines the two for the common case:
//
//	g := resilience.NewGuard("feed-fetch",
//	    circuitbreaker.FeedFetchConfig(), retry.FeedFetchConfig())
//	items, err := resilience.Do(ctx, g, url, func() ([]entity.RawItem, error) {
//	    return fetchFeed(url)
//	})
//
// The subpackages remain usable on their own when only one half is needed,
// as the page excerpt fetcher does with its breaker.
package resilience
