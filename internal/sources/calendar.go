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
	calendarDefaultBaseURL   = "https://finnhub.io/api/v1"
	calendarDefaultTimeout   = 30 * time.Second
	calendarDefaultRateLimit = 10
)

// CalendarClient adapts the earnings-calendar provider to the CalendarSource
// capability.
type CalendarClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// CalendarOption configures the CalendarClient.
type CalendarOption func(*CalendarClient)

// WithCalendarBaseURL sets a custom base URL.
func WithCalendarBaseURL(baseURL string) CalendarOption {
	return func(c *CalendarClient) {
		c.baseURL = baseURL
	}
}

// WithCalendarHTTPClient sets a custom HTTP client.
func WithCalendarHTTPClient(httpClient *http.Client) CalendarOption {
	return func(c *CalendarClient) {
		c.httpClient = httpClient
	}
}

// NewCalendarClient creates an earnings-calendar adapter.
func NewCalendarClient(apiKey string, logger arbor.ILogger, opts ...CalendarOption) *CalendarClient {
	c := &CalendarClient{
		baseURL:    calendarDefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: calendarDefaultTimeout},
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(calendarDefaultRateLimit), calendarDefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source identifies this feed for deduplication precedence.
func (c *CalendarClient) Source() types.EventSource {
	return types.SourceCalendar
}

// calendarResponse mirrors the provider's earnings calendar payload.
type calendarResponse struct {
	EarningsCalendar []struct {
		Date    string `json:"date"`
		Symbol  string `json:"symbol"`
		Quarter int    `json:"quarter"`
		Year    int    `json:"year"`
	} `json:"earningsCalendar"`
}

// FetchEarnings retrieves scheduled earnings reports for a symbol between
// from and to, yielding events of type report.
func (c *CalendarClient) FetchEarnings(ctx context.Context, symbol string, from, to time.Time) ([]types.Event, error) {
	switch {
	case symbol == "":
		return nil, &types.MissingParameterError{Name: "symbol"}
	case from.IsZero():
		return nil, &types.MissingParameterError{Name: "from"}
	case to.IsZero():
		return nil, &types.MissingParameterError{Name: "to"}
	}
	if c.apiKey == "" {
		return nil, &types.UpstreamUnavailableError{Provider: "calendar", Reason: "API token is not configured"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s/calendar/earnings?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar request: %w", err)
	}

	c.logger.Debug().
		Str("symbol", symbol).
		Str("from", from.Format("2006-01-02")).
		Str("to", to.Format("2006-01-02")).
		Msg("Calendar provider request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.UpstreamError{Provider: "calendar", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload calendarResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &types.InvalidUpstreamResponseError{Provider: "calendar", Reason: err.Error()}
	}

	identity, err := types.NewCompanyIdentity("", symbol, "")
	if err != nil {
		return nil, err
	}

	events := make([]types.Event, 0, len(payload.EarningsCalendar))
	for _, entry := range payload.EarningsCalendar {
		date, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			c.logger.Warn().Str("date", entry.Date).Msg("Skipping calendar entry with unparseable date")
			continue
		}
		period := types.Period{Quarter: entry.Quarter, Year: entry.Year}
		title := fmt.Sprintf("%s Q%d %d earnings report", entry.Symbol, entry.Quarter, entry.Year)
		events = append(events, types.NewEvent(identity, types.EventReport, date, title, period, types.SourceCalendar))
	}
	return events, nil
}

// Events implements EventFeed over FetchEarnings, rebinding the resolved
// identity onto each event.
func (c *CalendarClient) Events(ctx context.Context, identity types.CompanyIdentity, window Window) ([]types.Event, error) {
	events, err := c.FetchEarnings(ctx, identity.Ticker, window.From, window.To)
	if err != nil {
		return nil, err
	}
	out := make([]types.Event, 0, len(events))
	for _, e := range events {
		out = append(out, types.NewEvent(identity, e.Type, e.Date, e.Title, e.Period, e.Source))
	}
	return out, nil
}
