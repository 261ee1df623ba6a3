package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/finscope/finscope/internal/types"
)

const (
	transcriptsDefaultBaseURL   = "https://api.api-ninjas.com/v1"
	transcriptsDefaultTimeout   = 30 * time.Second
	transcriptsDefaultRateLimit = 5

	// recentQuarterCount is how many quarters back the feed looks when the
	// caller gives no period.
	recentQuarterCount = 4
)

// TranscriptClient adapts the transcript provider to the TranscriptSource
// capability.
type TranscriptClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	now        func() time.Time
}

// TranscriptOption configures the TranscriptClient.
type TranscriptOption func(*TranscriptClient)

// WithTranscriptBaseURL sets a custom base URL.
func WithTranscriptBaseURL(baseURL string) TranscriptOption {
	return func(c *TranscriptClient) {
		c.baseURL = baseURL
	}
}

// WithTranscriptHTTPClient sets a custom HTTP client.
func WithTranscriptHTTPClient(httpClient *http.Client) TranscriptOption {
	return func(c *TranscriptClient) {
		c.httpClient = httpClient
	}
}

// WithTranscriptClock overrides the clock used for recent-quarter math.
func WithTranscriptClock(now func() time.Time) TranscriptOption {
	return func(c *TranscriptClient) {
		c.now = now
	}
}

// NewTranscriptClient creates a transcript provider adapter.
func NewTranscriptClient(apiKey string, logger arbor.ILogger, opts ...TranscriptOption) *TranscriptClient {
	c := &TranscriptClient{
		baseURL:    transcriptsDefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: transcriptsDefaultTimeout},
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(transcriptsDefaultRateLimit), transcriptsDefaultRateLimit),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source identifies this feed for deduplication precedence.
func (c *TranscriptClient) Source() types.EventSource {
	return types.SourceTranscripts
}

// RecentPeriods returns the most recent quarters counting back from the
// current date, newest first. Stepping back from Q1 wraps to Q4 of the prior
// year.
func (c *TranscriptClient) RecentPeriods() []types.Period {
	periods := make([]types.Period, 0, recentQuarterCount)
	p := types.CurrentPeriod(c.now())
	for i := 0; i < recentQuarterCount; i++ {
		periods = append(periods, p)
		p = p.Previous()
	}
	return periods
}

// transcriptResponse mirrors the provider payload. The provider returns an
// empty object when no transcript exists for the period.
type transcriptResponse struct {
	Ticker     string `json:"ticker"`
	Year       int    `json:"year"`
	Quarter    int    `json:"quarter"`
	Transcript string `json:"transcript"`
	Split      []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"transcript_split"`
}

// FetchTranscript retrieves the earnings call transcript for one quarter.
// A nil transcript with a nil error means none exists for that period.
func (c *TranscriptClient) FetchTranscript(ctx context.Context, ticker string, period types.Period) (*types.Transcript, error) {
	switch {
	case ticker == "":
		return nil, &types.MissingParameterError{Name: "ticker"}
	case period.Year == 0:
		return nil, &types.MissingParameterError{Name: "year"}
	case !period.Valid():
		return nil, &types.MissingParameterError{Name: "quarter"}
	}
	if c.apiKey == "" {
		return nil, &types.UpstreamUnavailableError{Provider: "transcripts", Reason: "API key is not configured"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("year", fmt.Sprintf("%d", period.Year))
	params.Set("quarter", fmt.Sprintf("%d", period.Quarter))

	reqURL := fmt.Sprintf("%s/earningstranscript?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	c.logger.Debug().
		Str("ticker", ticker).
		Str("period", period.String()).
		Msg("Transcript provider request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.UpstreamError{Provider: "transcripts", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &types.InvalidUpstreamResponseError{Provider: "transcripts", Reason: err.Error()}
	}
	if payload.Transcript == "" {
		return nil, nil
	}

	transcript := &types.Transcript{
		Ticker: ticker,
		Period: period,
		Text:   payload.Transcript,
	}
	for _, seg := range payload.Split {
		transcript.Segments = append(transcript.Segments, types.TranscriptSegment{
			Speaker: seg.Speaker,
			Text:    seg.Text,
		})
	}
	return transcript, nil
}

// Events probes the most recent quarters for transcripts and yields one
// event of type transcript per quarter that has one. Transcript dates are
// approximated to the first day after the quarter closes, since the provider
// reports no call date.
func (c *TranscriptClient) Events(ctx context.Context, identity types.CompanyIdentity, window Window) ([]types.Event, error) {
	var events []types.Event
	for _, period := range c.RecentPeriods() {
		transcript, err := c.FetchTranscript(ctx, identity.Ticker, period)
		if err != nil {
			return nil, err
		}
		if transcript == nil {
			continue
		}

		date := time.Date(period.Year, time.Month(period.Quarter*3)+1, 1, 0, 0, 0, 0, time.UTC)
		if !window.Contains(date) {
			continue
		}
		title := fmt.Sprintf("%s Q%d %d earnings call transcript", identity.Ticker, period.Quarter, period.Year)
		events = append(events, types.NewEvent(identity, types.EventTranscript, date, title, period, types.SourceTranscripts))
	}
	return events, nil
}
