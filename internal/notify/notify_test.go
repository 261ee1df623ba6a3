package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/finscope/internal/aggregator"
	"github.com/finscope/finscope/internal/types"
)

func TestFormatDigest(t *testing.T) {
	identity, err := types.NewCompanyIdentity("Apple Inc.", "AAPL", "320193")
	require.NoError(t, err)

	events := []types.Event{
		types.NewEvent(identity, types.EventReport,
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			"AAPL Q1 2024 earnings report",
			types.Period{Quarter: 1, Year: 2024},
			types.SourceCalendar,
		),
	}
	failures := []aggregator.FetchFailure{
		{Ticker: "NVDA", Source: types.SourceTranscripts, Err: errors.New("provider timeout")},
	}
	artifact := &types.AnalysisArtifact{
		Summary:        "Designs consumer devices.",
		StrategicFocus: "services growth",
		Risks:          []string{"supply chain concentration"},
	}

	digest := FormatDigest(events, failures, artifact)

	assert.Contains(t, digest, "1 events")
	assert.Contains(t, digest, "2024-02-01")
	assert.Contains(t, digest, "AAPL Q1 2024 earnings report")
	assert.Contains(t, digest, "Partial failures:")
	assert.Contains(t, digest, "NVDA (transcripts): provider timeout")
	assert.Contains(t, digest, "Summary: Designs consumer devices.")
	assert.Contains(t, digest, "Risks:")
	assert.Contains(t, digest, "supply chain concentration")
}

func TestFormatDigestWithoutExtras(t *testing.T) {
	digest := FormatDigest(nil, nil, nil)

	assert.Contains(t, digest, "0 events")
	assert.NotContains(t, digest, "Partial failures:")
	assert.NotContains(t, digest, "Analysis:")
}
