package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/finscope/finscope/internal/types"
)

const (
	filingsDefaultArchiveURL = "https://www.sec.gov/Archives/edgar/data"
	filingsDefaultIndexURL   = "https://data.sec.gov/submissions"
	filingsDefaultTimeout    = 30 * time.Second
	filingsDefaultRateLimit  = 5
)

// FilingsClient adapts the filings registry to the FilingsSource capability.
// The registry mandates an identification header on every request.
type FilingsClient struct {
	archiveURL string
	indexURL   string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// FilingsOption configures the FilingsClient.
type FilingsOption func(*FilingsClient)

// WithFilingsArchiveURL sets a custom archive base URL.
func WithFilingsArchiveURL(baseURL string) FilingsOption {
	return func(c *FilingsClient) {
		c.archiveURL = baseURL
	}
}

// WithFilingsIndexURL sets a custom submissions-index base URL.
func WithFilingsIndexURL(baseURL string) FilingsOption {
	return func(c *FilingsClient) {
		c.indexURL = baseURL
	}
}

// WithFilingsHTTPClient sets a custom HTTP client.
func WithFilingsHTTPClient(httpClient *http.Client) FilingsOption {
	return func(c *FilingsClient) {
		c.httpClient = httpClient
	}
}

// NewFilingsClient creates a filings registry adapter identifying itself with
// the given user agent.
func NewFilingsClient(userAgent string, logger arbor.ILogger, opts ...FilingsOption) *FilingsClient {
	c := &FilingsClient{
		archiveURL: filingsDefaultArchiveURL,
		indexURL:   filingsDefaultIndexURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: filingsDefaultTimeout},
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(filingsDefaultRateLimit), filingsDefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source identifies this feed for deduplication precedence. The registry is
// the most authoritative source.
func (c *FilingsClient) Source() types.EventSource {
	return types.SourceFilings
}

func (c *FilingsClient) get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create filings request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.httpClient.Do(req)
}

// FetchDocument retrieves one filing document. The accession number is
// normalized by stripping all '-' separators before building the archive
// path. The raw response is reduced to unstructured prose: markup tags
// stripped, whitespace collapsed.
func (c *FilingsClient) FetchDocument(ctx context.Context, registryID, accessionNumber, form string) (*types.FilingDocument, error) {
	switch {
	case registryID == "":
		return nil, &types.MissingParameterError{Name: "registryId"}
	case accessionNumber == "":
		return nil, &types.MissingParameterError{Name: "accessionNumber"}
	case form == "":
		return nil, &types.MissingParameterError{Name: "form"}
	}

	stripped := strings.ReplaceAll(accessionNumber, "-", "")
	docURL := fmt.Sprintf("%s/%s/%s/%s", c.archiveURL, registryID, stripped, form)

	c.logger.Debug().
		Str("registry_id", registryID).
		Str("accession", stripped).
		Str("form", form).
		Msg("Filings registry document request")

	resp, err := c.get(ctx, docURL)
	if err != nil {
		return nil, fmt.Errorf("filings document request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.UpstreamError{Provider: "filings", StatusCode: resp.StatusCode, Body: string(body)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read filings response: %w", err)
	}

	return &types.FilingDocument{
		RegistryID:      registryID,
		AccessionNumber: accessionNumber,
		Form:            form,
		RawText:         stripMarkup(string(raw)),
	}, nil
}

// submissionsResponse mirrors the registry's submissions index, which lists
// recent filings as parallel arrays.
type submissionsResponse struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Events lists the company's recent filings within the window as events of
// type filing. Identities without a registry id contribute nothing.
func (c *FilingsClient) Events(ctx context.Context, identity types.CompanyIdentity, window Window) ([]types.Event, error) {
	if identity.RegistryID == "" {
		return nil, nil
	}

	indexURL := fmt.Sprintf("%s/CIK%s.json", c.indexURL, identity.RegistryID)
	resp, err := c.get(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("filings index request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &types.UpstreamError{Provider: "filings", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload submissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &types.InvalidUpstreamResponseError{Provider: "filings", Reason: err.Error()}
	}

	recent := payload.Filings.Recent
	if len(recent.AccessionNumber) != len(recent.FilingDate) ||
		len(recent.AccessionNumber) != len(recent.Form) ||
		len(recent.AccessionNumber) != len(recent.PrimaryDocument) {
		return nil, &types.InvalidUpstreamResponseError{Provider: "filings", Reason: "submissions index arrays are uneven"}
	}

	var events []types.Event
	for i := range recent.AccessionNumber {
		date, err := time.Parse("2006-01-02", recent.FilingDate[i])
		if err != nil || !window.Contains(date) {
			continue
		}
		// The primary document name is what FetchDocument needs, so it rides
		// in the title alongside the accession number.
		title := fmt.Sprintf("%s filing %s (%s)", recent.Form[i], recent.AccessionNumber[i], recent.PrimaryDocument[i])
		events = append(events, types.NewEvent(identity, types.EventFiling, date, title, types.CurrentPeriod(date), types.SourceFilings))
	}
	return events, nil
}
