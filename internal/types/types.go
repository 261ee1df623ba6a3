/*
Package types defines the shared data model for the event aggregation and
analysis pipeline: company identities, normalized events, filing documents
and the analysis artifact exchanged between components.
*/
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// EventType classifies a corporate event by the kind of feed it came from.
type EventType string

const (
	EventReport     EventType = "report"
	EventTranscript EventType = "transcript"
	EventFiling     EventType = "filing"
)

// EventSource identifies which provider produced an event record. Ordering
// matters for deduplication: the filings registry is the primary legal source
// of truth, then the calendar provider, then the transcript provider.
type EventSource int

const (
	SourceTranscripts EventSource = iota + 1
	SourceCalendar
	SourceFilings
)

func (s EventSource) String() string {
	switch s {
	case SourceFilings:
		return "filings"
	case SourceCalendar:
		return "calendar"
	case SourceTranscripts:
		return "transcripts"
	default:
		return "unknown"
	}
}

const registryIDWidth = 10

// CompanyIdentity is the canonical identity a free-text query or symbol
// resolves to. A ticker that has been issued more than one registry id keeps
// the extra ids as aliases rather than silently dropping them.
type CompanyIdentity struct {
	CanonicalName   string
	Ticker          string
	RegistryID      string
	RegistryAliases []string
}

// NewCompanyIdentity validates and normalizes an identity. The ticker must be
// non-empty uppercase alphanumeric after normalization; the registry id must
// be numeric and is zero-padded to its fixed width.
func NewCompanyIdentity(name, ticker, registryID string) (CompanyIdentity, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return CompanyIdentity{}, fmt.Errorf("company identity requires a ticker")
	}
	for _, r := range ticker {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return CompanyIdentity{}, fmt.Errorf("ticker %q is not uppercase alphanumeric", ticker)
		}
	}

	registryID = strings.TrimSpace(registryID)
	if registryID != "" {
		for _, r := range registryID {
			if r < '0' || r > '9' {
				return CompanyIdentity{}, fmt.Errorf("registry id %q is not numeric", registryID)
			}
		}
		if len(registryID) > registryIDWidth {
			return CompanyIdentity{}, fmt.Errorf("registry id %q exceeds %d digits", registryID, registryIDWidth)
		}
		registryID = strings.Repeat("0", registryIDWidth-len(registryID)) + registryID
	}

	return CompanyIdentity{
		CanonicalName: strings.TrimSpace(name),
		Ticker:        ticker,
		RegistryID:    registryID,
	}, nil
}

// AddRegistryAlias records an additional registry id for the same ticker.
// Duplicates of the primary id or an existing alias are ignored.
func (c *CompanyIdentity) AddRegistryAlias(registryID string) {
	registryID = strings.TrimSpace(registryID)
	if registryID == "" || len(registryID) > registryIDWidth {
		return
	}
	registryID = strings.Repeat("0", registryIDWidth-len(registryID)) + registryID
	if registryID == c.RegistryID {
		return
	}
	for _, a := range c.RegistryAliases {
		if a == registryID {
			return
		}
	}
	c.RegistryAliases = append(c.RegistryAliases, registryID)
}

// Period identifies a fiscal quarter.
type Period struct {
	Quarter int
	Year    int
}

// Previous returns the quarter before p, wrapping Q1 into Q4 of the prior year.
func (p Period) Previous() Period {
	if p.Quarter <= 1 {
		return Period{Quarter: 4, Year: p.Year - 1}
	}
	return Period{Quarter: p.Quarter - 1, Year: p.Year}
}

// Valid reports whether the quarter is in 1..4.
func (p Period) Valid() bool {
	return p.Quarter >= 1 && p.Quarter <= 4
}

func (p Period) String() string {
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// CurrentPeriod computes the quarter containing t, grouping months in
// three-month bands (Jan-Mar = Q1 ... Oct-Dec = Q4).
func CurrentPeriod(t time.Time) Period {
	return Period{
		Quarter: int(t.Month()-1)/3 + 1,
		Year:    t.Year(),
	}
}

// Event is one normalized corporate event. Events are immutable after
// construction; the aggregator replaces records, it never patches them.
type Event struct {
	ID      string
	Company CompanyIdentity
	Type    EventType
	Date    time.Time
	Title   string
	Period  Period
	Source  EventSource
}

// NewEvent constructs an event with its derived id.
func NewEvent(company CompanyIdentity, eventType EventType, date time.Time, title string, period Period, source EventSource) Event {
	return Event{
		ID:      EventID(company.Ticker, eventType, date),
		Company: company,
		Type:    eventType,
		Date:    date,
		Title:   title,
		Period:  period,
		Source:  source,
	}
}

// EventID derives the stable event id from (ticker, type, date). The same
// underlying event reported by two providers hashes to the same id, so the
// aggregator can collapse them into one record.
func EventID(ticker string, eventType EventType, date time.Time) string {
	key := strings.ToUpper(ticker) + "|" + string(eventType) + "|" + date.Format("2006-01-02")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

// FilingDocument is the raw text of one registry filing. Documents are
// fetched on demand and never cached across requests.
type FilingDocument struct {
	RegistryID      string
	AccessionNumber string
	Form            string
	RawText         string
}

// FilingSections holds the structured sections extracted from a filing.
// Immutable once produced.
type FilingSections struct {
	Business             string
	RiskFactors          string
	ManagementDiscussion string
}

// AnalysisArtifact is the structured output of a filing analysis. It is owned
// by the session it is handed to and is the sole grounding context for
// follow-up questions.
type AnalysisArtifact struct {
	Summary         string   `json:"summary"`
	KeyTechnologies []string `json:"key_technologies"`
	StrategicFocus  string   `json:"strategic_focus"`
	Risks           []string `json:"risks"`
	Opportunities   []string `json:"opportunities"`
}

// TranscriptSegment is one speaker turn in an earnings call transcript.
type TranscriptSegment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Transcript is an earnings call transcript for one fiscal quarter.
type Transcript struct {
	Ticker   string              `json:"ticker"`
	Period   Period              `json:"-"`
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
}

// Quote is a point-in-time price snapshot for a symbol.
type Quote struct {
	Symbol        string
	Current       float64
	High          float64
	Low           float64
	Open          float64
	PreviousClose float64
	Timestamp     time.Time
}
