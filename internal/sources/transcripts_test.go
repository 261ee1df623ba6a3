package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/finscope/internal/types"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
}

func TestRecentPeriods(t *testing.T) {
	tests := []struct {
		name  string
		clock func() time.Time
		want  []types.Period
	}{
		{
			name:  "mid year",
			clock: fixedClock(2024, time.August, 15),
			want: []types.Period{
				{Quarter: 3, Year: 2024},
				{Quarter: 2, Year: 2024},
				{Quarter: 1, Year: 2024},
				{Quarter: 4, Year: 2023},
			},
		},
		{
			name:  "january wraps into prior year",
			clock: fixedClock(2024, time.January, 2),
			want: []types.Period{
				{Quarter: 1, Year: 2024},
				{Quarter: 4, Year: 2023},
				{Quarter: 3, Year: 2023},
				{Quarter: 2, Year: 2023},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewTranscriptClient("key", testLogger(), WithTranscriptClock(tt.clock))
			assert.Equal(t, tt.want, client.RecentPeriods())
		})
	}
}

func TestFetchTranscriptMissingParameters(t *testing.T) {
	client := NewTranscriptClient("key", testLogger())

	_, err := client.FetchTranscript(context.Background(), "", types.Period{Quarter: 1, Year: 2024})
	var missing *types.MissingParameterError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "ticker", missing.Name)

	_, err = client.FetchTranscript(context.Background(), "AAPL", types.Period{Quarter: 1})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "year", missing.Name)

	_, err = client.FetchTranscript(context.Background(), "AAPL", types.Period{Quarter: 5, Year: 2024})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "quarter", missing.Name)
}

func TestFetchTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/earningstranscript", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("ticker"))
		assert.Equal(t, "2024", r.URL.Query().Get("year"))
		assert.Equal(t, "1", r.URL.Query().Get("quarter"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Write([]byte(`{
			"ticker":"AAPL","year":2024,"quarter":1,
			"transcript":"Operator: Good afternoon. CEO: Thanks everyone.",
			"transcript_split":[
				{"speaker":"Operator","text":"Good afternoon."},
				{"speaker":"CEO","text":"Thanks everyone."}
			]
		}`))
	}))
	defer server.Close()

	client := NewTranscriptClient("test-key", testLogger(), WithTranscriptBaseURL(server.URL))
	transcript, err := client.FetchTranscript(context.Background(), "AAPL", types.Period{Quarter: 1, Year: 2024})
	require.NoError(t, err)
	require.NotNil(t, transcript)

	assert.Equal(t, "AAPL", transcript.Ticker)
	assert.Equal(t, types.Period{Quarter: 1, Year: 2024}, transcript.Period)
	require.Len(t, transcript.Segments, 2)
	assert.Equal(t, "Operator", transcript.Segments[0].Speaker)
	assert.Equal(t, "Thanks everyone.", transcript.Segments[1].Text)
}

func TestFetchTranscriptAbsentIsNotAnError(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty object",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "no transcript", http.StatusNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewTranscriptClient("test-key", testLogger(), WithTranscriptBaseURL(server.URL))
			transcript, err := client.FetchTranscript(context.Background(), "AAPL", types.Period{Quarter: 1, Year: 2024})
			require.NoError(t, err)
			assert.Nil(t, transcript)
		})
	}
}

func TestTranscriptEvents(t *testing.T) {
	// Only Q1 2024 has a transcript; the other probed quarters return an
	// empty object.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") == "2024" && r.URL.Query().Get("quarter") == "1" {
			w.Write([]byte(`{"ticker":"AAPL","year":2024,"quarter":1,"transcript":"Operator: Good afternoon."}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	identity, err := types.NewCompanyIdentity("Apple Inc.", "AAPL", "320193")
	require.NoError(t, err)

	client := NewTranscriptClient("test-key", testLogger(),
		WithTranscriptBaseURL(server.URL),
		WithTranscriptClock(fixedClock(2024, time.August, 15)),
	)
	window := Window{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	events, err := client.Events(context.Background(), identity, window)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, types.EventTranscript, events[0].Type)
	assert.Equal(t, types.SourceTranscripts, events[0].Source)
	assert.Equal(t, types.Period{Quarter: 1, Year: 2024}, events[0].Period)
	assert.Equal(t, "2024-04-01", events[0].Date.Format("2006-01-02"))
}
