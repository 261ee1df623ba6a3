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
	quotesDefaultBaseURL   = "https://finnhub.io/api/v1"
	quotesDefaultTimeout   = 15 * time.Second
	quotesDefaultRateLimit = 10
)

// QuoteClient adapts the quote provider to the QuoteSource capability.
type QuoteClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// QuoteOption configures the QuoteClient.
type QuoteOption func(*QuoteClient)

// WithQuoteBaseURL sets a custom base URL.
func WithQuoteBaseURL(baseURL string) QuoteOption {
	return func(c *QuoteClient) {
		c.baseURL = baseURL
	}
}

// WithQuoteHTTPClient sets a custom HTTP client.
func WithQuoteHTTPClient(httpClient *http.Client) QuoteOption {
	return func(c *QuoteClient) {
		c.httpClient = httpClient
	}
}

// NewQuoteClient creates a quote provider adapter.
func NewQuoteClient(apiKey string, logger arbor.ILogger, opts ...QuoteOption) *QuoteClient {
	c := &QuoteClient{
		baseURL:    quotesDefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: quotesDefaultTimeout},
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(quotesDefaultRateLimit), quotesDefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// quoteResponse mirrors the provider payload. Current price is a pointer so
// an absent field is distinguishable from zero.
type quoteResponse struct {
	Current       *float64 `json:"c"`
	High          float64  `json:"h"`
	Low           float64  `json:"l"`
	Open          float64  `json:"o"`
	PreviousClose float64  `json:"pc"`
	Timestamp     int64    `json:"t"`
}

// FetchQuote retrieves a price snapshot for the symbol. The adapter validates
// the response shape rather than forwarding whatever the provider returns: a
// missing or non-numeric current price is an InvalidUpstreamResponseError.
func (c *QuoteClient) FetchQuote(ctx context.Context, symbol string) (*types.Quote, error) {
	if symbol == "" {
		return nil, &types.MissingParameterError{Name: "symbol"}
	}
	if c.apiKey == "" {
		return nil, &types.UpstreamUnavailableError{Provider: "quotes", Reason: "API token is not configured"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s/quote?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Msg("Quote provider request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.UpstreamError{Provider: "quotes", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &types.InvalidUpstreamResponseError{Provider: "quotes", Reason: err.Error()}
	}
	if payload.Current == nil {
		return nil, &types.InvalidUpstreamResponseError{Provider: "quotes", Reason: "current price is absent or not numeric"}
	}

	return &types.Quote{
		Symbol:        symbol,
		Current:       *payload.Current,
		High:          payload.High,
		Low:           payload.Low,
		Open:          payload.Open,
		PreviousClose: payload.PreviousClose,
		Timestamp:     time.Unix(payload.Timestamp, 0).UTC(),
	}, nil
}
