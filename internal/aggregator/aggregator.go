/*
Package aggregator merges, deduplicates and time-orders events from all
source feeds into a single stream keyed by company and period.
*/
package aggregator

import (
	"context"
	"sort"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/finscope/finscope/internal/sources"
	"github.com/finscope/finscope/internal/types"
)

// fetchConcurrency bounds the identity x feed fan-out.
const fetchConcurrency = 10

// FetchFailure records one feed failing for one identity. Failures are
// collected and returned alongside the partial result, never fatal.
type FetchFailure struct {
	Ticker string
	Source types.EventSource
	Err    error
}

// Aggregator fans out across its feeds and joins the results into one
// deterministic event stream.
type Aggregator struct {
	feeds  []sources.EventFeed
	logger arbor.ILogger
}

// New creates an aggregator over the given feeds.
func New(logger arbor.ILogger, feeds ...sources.EventFeed) *Aggregator {
	return &Aggregator{
		feeds:  feeds,
		logger: logger,
	}
}

// Aggregate fetches events for every identity from every feed within the
// window. Events with the same derived id collapse into one record, keeping
// the copy from the more authoritative source (filings > calendar >
// transcripts). The result is sorted by date ascending, then ticker. A feed
// failing for one identity drops only that contribution; the failure is
// recorded and aggregation continues.
func (a *Aggregator) Aggregate(ctx context.Context, identities []types.CompanyIdentity, window sources.Window) ([]types.Event, []FetchFailure) {
	type result struct {
		events  []types.Event
		failure *FetchFailure
	}

	// The channel buffers every task's result so workers never block on send;
	// with an unbuffered channel the spawn loop and a full semaphore would
	// deadlock before the drain below starts.
	var wg sync.WaitGroup
	resultChan := make(chan result, len(identities)*len(a.feeds))
	sem := make(chan struct{}, fetchConcurrency)

	for _, identity := range identities {
		for _, feed := range a.feeds {
			wg.Add(1)
			sem <- struct{}{}

			go func(id types.CompanyIdentity, feed sources.EventFeed) {
				defer wg.Done()
				defer func() { <-sem }()

				events, err := feed.Events(ctx, id, window)
				if err != nil {
					a.logger.Warn().
						Err(err).
						Str("ticker", id.Ticker).
						Str("source", feed.Source().String()).
						Msg("Feed failed for identity, continuing")
					resultChan <- result{failure: &FetchFailure{
						Ticker: id.Ticker,
						Source: feed.Source(),
						Err:    err,
					}}
					return
				}
				resultChan <- result{events: events}
			}(identity, feed)
		}
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	merged := make(map[string]types.Event)
	var failures []FetchFailure
	for r := range resultChan {
		if r.failure != nil {
			failures = append(failures, *r.failure)
			continue
		}
		for _, e := range r.events {
			existing, ok := merged[e.ID]
			if !ok || e.Source > existing.Source {
				merged[e.ID] = e
			}
		}
	}

	events := make([]types.Event, 0, len(merged))
	for _, e := range merged {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Company.Ticker < events[j].Company.Ticker
	})

	a.logger.Info().
		Int("identities", len(identities)).
		Int("events", len(events)).
		Int("failures", len(failures)).
		Msg("Aggregation complete")

	return events, failures
}
