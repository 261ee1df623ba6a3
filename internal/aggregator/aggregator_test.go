package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/finscope/internal/common"
	"github.com/finscope/finscope/internal/sources"
	"github.com/finscope/finscope/internal/types"
)

// stubFeed serves canned events per ticker and can fail for selected tickers.
type stubFeed struct {
	source types.EventSource
	events map[string][]types.Event
	errFor map[string]error
}

func (f *stubFeed) Source() types.EventSource {
	return f.source
}

func (f *stubFeed) Events(ctx context.Context, identity types.CompanyIdentity, window sources.Window) ([]types.Event, error) {
	if err, ok := f.errFor[identity.Ticker]; ok {
		return nil, err
	}
	return f.events[identity.Ticker], nil
}

func mustIdentity(t *testing.T, name, ticker string) types.CompanyIdentity {
	t.Helper()
	identity, err := types.NewCompanyIdentity(name, ticker, "")
	require.NoError(t, err)
	return identity
}

func TestAggregateDeduplicationPrecedence(t *testing.T) {
	identity := mustIdentity(t, "Apple Inc.", "AAPL")
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	// The same underlying event reported by three providers: all three hash
	// to the same id, and the most authoritative copy must win regardless of
	// feed registration order.
	transcriptFeed := &stubFeed{
		source: types.SourceTranscripts,
		events: map[string][]types.Event{
			"AAPL": {types.NewEvent(identity, types.EventReport, date, "transcript title", types.Period{Quarter: 1, Year: 2024}, types.SourceTranscripts)},
		},
	}
	filingsFeed := &stubFeed{
		source: types.SourceFilings,
		events: map[string][]types.Event{
			"AAPL": {types.NewEvent(identity, types.EventReport, date, "filings title", types.Period{Quarter: 1, Year: 2024}, types.SourceFilings)},
		},
	}
	calendarFeed := &stubFeed{
		source: types.SourceCalendar,
		events: map[string][]types.Event{
			"AAPL": {types.NewEvent(identity, types.EventReport, date, "calendar title", types.Period{Quarter: 1, Year: 2024}, types.SourceCalendar)},
		},
	}

	agg := New(common.GetLogger(), transcriptFeed, filingsFeed, calendarFeed)
	events, failures := agg.Aggregate(context.Background(), []types.CompanyIdentity{identity}, sources.Window{})

	assert.Empty(t, failures)
	require.Len(t, events, 1)
	assert.Equal(t, "filings title", events[0].Title)
	assert.Equal(t, types.SourceFilings, events[0].Source)
}

func TestAggregatePartialFailure(t *testing.T) {
	apple := mustIdentity(t, "Apple Inc.", "AAPL")
	nvidia := mustIdentity(t, "NVIDIA Corporation", "NVDA")
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	calendarFeed := &stubFeed{
		source: types.SourceCalendar,
		events: map[string][]types.Event{
			"AAPL": {types.NewEvent(apple, types.EventReport, date, "AAPL earnings", types.Period{Quarter: 1, Year: 2024}, types.SourceCalendar)},
			"NVDA": {types.NewEvent(nvidia, types.EventReport, date, "NVDA earnings", types.Period{Quarter: 1, Year: 2024}, types.SourceCalendar)},
		},
	}
	transcriptFeed := &stubFeed{
		source: types.SourceTranscripts,
		errFor: map[string]error{
			"NVDA": errors.New("provider timeout"),
		},
	}

	agg := New(common.GetLogger(), calendarFeed, transcriptFeed)
	events, failures := agg.Aggregate(context.Background(), []types.CompanyIdentity{apple, nvidia}, sources.Window{})

	// One feed failing for one company drops only that contribution.
	require.Len(t, events, 2)
	require.Len(t, failures, 1)
	assert.Equal(t, "NVDA", failures[0].Ticker)
	assert.Equal(t, types.SourceTranscripts, failures[0].Source)
	assert.EqualError(t, failures[0].Err, "provider timeout")
}

func TestAggregateOrdering(t *testing.T) {
	apple := mustIdentity(t, "Apple Inc.", "AAPL")
	nvidia := mustIdentity(t, "NVIDIA Corporation", "NVDA")

	early := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	period := types.Period{Quarter: 1, Year: 2024}

	feed := &stubFeed{
		source: types.SourceCalendar,
		events: map[string][]types.Event{
			"AAPL": {types.NewEvent(apple, types.EventReport, late, "AAPL late", period, types.SourceCalendar)},
			"NVDA": {
				types.NewEvent(nvidia, types.EventReport, late, "NVDA late", period, types.SourceCalendar),
				types.NewEvent(nvidia, types.EventReport, early, "NVDA early", period, types.SourceCalendar),
			},
		},
	}

	agg := New(common.GetLogger(), feed)
	events, failures := agg.Aggregate(context.Background(), []types.CompanyIdentity{apple, nvidia}, sources.Window{})

	assert.Empty(t, failures)
	require.Len(t, events, 3)
	assert.Equal(t, "NVDA early", events[0].Title)
	assert.Equal(t, "AAPL late", events[1].Title) // same date sorts by ticker
	assert.Equal(t, "NVDA late", events[2].Title)
}

func TestAggregateManyTasks(t *testing.T) {
	// More identity x feed tasks than the concurrency bound; the fan-out must
	// still drain and return.
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	period := types.Period{Quarter: 1, Year: 2024}

	tickers := []string{"AAPL", "MSFT", "NVDA", "AMZN", "META"}
	identities := make([]types.CompanyIdentity, 0, len(tickers))
	events := make(map[string][]types.Event)
	for _, ticker := range tickers {
		identity := mustIdentity(t, ticker+" Inc.", ticker)
		identities = append(identities, identity)
		events[ticker] = []types.Event{
			types.NewEvent(identity, types.EventReport, date, ticker+" earnings", period, types.SourceCalendar),
		}
	}

	feeds := []*stubFeed{
		{source: types.SourceCalendar, events: events},
		{source: types.SourceTranscripts},
		{source: types.SourceFilings},
	}
	agg := New(common.GetLogger(), feeds[0], feeds[1], feeds[2])

	done := make(chan struct{})
	var gotEvents []types.Event
	var gotFailures []FetchFailure
	go func() {
		defer close(done)
		gotEvents, gotFailures = agg.Aggregate(context.Background(), identities, sources.Window{})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Aggregate did not return with more tasks than the concurrency bound")
	}

	assert.Empty(t, gotFailures)
	assert.Len(t, gotEvents, len(tickers))
}

func TestAggregateNoIdentities(t *testing.T) {
	agg := New(common.GetLogger(), &stubFeed{source: types.SourceCalendar})
	events, failures := agg.Aggregate(context.Background(), nil, sources.Window{})

	assert.Empty(t, events)
	assert.Empty(t, failures)
}
