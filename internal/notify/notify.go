/*
Package notify reports aggregated event feeds via console output and optional
email digests.
*/
package notify

import (
	"fmt"
	"strings"

	"github.com/finscope/finscope/internal/aggregator"
	"github.com/finscope/finscope/internal/types"
)

// FormatDigest renders an event feed, any partial-fetch failures and an
// optional analysis artifact as a plain-text digest.
func FormatDigest(events []types.Event, failures []aggregator.FetchFailure, artifact *types.AnalysisArtifact) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%d events\n", len(events)))
	sb.WriteString("===========================================\n")

	for _, e := range events {
		sb.WriteString(fmt.Sprintf("%s  %-6s %-10s %-6s %s\n",
			e.Date.Format("2006-01-02"),
			e.Company.Ticker,
			e.Type,
			e.Period,
			e.Title,
		))
	}

	if len(failures) > 0 {
		sb.WriteString("\nPartial failures:\n")
		for _, f := range failures {
			sb.WriteString(fmt.Sprintf("\t- %s (%s): %v\n", f.Ticker, f.Source, f.Err))
		}
	}

	if artifact != nil {
		sb.WriteString("\nAnalysis:\n")
		sb.WriteString(fmt.Sprintf("Summary: %s\n", artifact.Summary))
		sb.WriteString(fmt.Sprintf("Strategic focus: %s\n", artifact.StrategicFocus))
		sb.WriteString(formatBulletList("Key technologies", artifact.KeyTechnologies))
		sb.WriteString(formatBulletList("Risks", artifact.Risks))
		sb.WriteString(formatBulletList("Opportunities", artifact.Opportunities))
	}

	return sb.String()
}

func formatBulletList(heading string, points []string) string {
	if len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(heading + ":\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("\t- %s\n", p))
	}
	return sb.String()
}
