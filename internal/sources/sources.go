/*
Package sources contains one adapter per external provider (earnings calendar,
filings registry, transcripts, quotes), each translating the provider-specific
response into the common event and document shapes.
*/
package sources

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/finscope/finscope/internal/types"
)

// Window bounds a date range for event fetches. A zero From or To leaves that
// side open.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// EventFeed is the capability the aggregator consumes: a provider-backed
// stream of normalized events for one company within a window.
type EventFeed interface {
	// Source identifies the feed for deduplication precedence.
	Source() types.EventSource
	// Events fetches the normalized events for the identity within the window.
	Events(ctx context.Context, identity types.CompanyIdentity, window Window) ([]types.Event, error)
}

// CalendarSource fetches scheduled earnings reports.
type CalendarSource interface {
	EventFeed
	FetchEarnings(ctx context.Context, symbol string, from, to time.Time) ([]types.Event, error)
}

// TranscriptSource fetches earnings call transcripts.
type TranscriptSource interface {
	EventFeed
	// FetchTranscript returns nil (not an error) when no transcript exists
	// for the period.
	FetchTranscript(ctx context.Context, ticker string, period types.Period) (*types.Transcript, error)
}

// FilingsSource fetches registry filings.
type FilingsSource interface {
	EventFeed
	FetchDocument(ctx context.Context, registryID, accessionNumber, form string) (*types.FilingDocument, error)
}

// QuoteSource fetches a current price snapshot.
type QuoteSource interface {
	FetchQuote(ctx context.Context, symbol string) (*types.Quote, error)
}

// stripMarkup removes HTML/XML tags from raw text and collapses runs of
// whitespace into single spaces. Best-effort text extraction, not a
// structural parse.
func stripMarkup(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}

	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)

	return strings.Join(strings.Fields(sb.String()), " ")
}
