/*
Package analyzer extracts structured sections from a filing document and
produces an analysis artifact through a single text-generation call.
*/
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/finscope/finscope/internal/llm"
	"github.com/finscope/finscope/internal/types"
)

// sectionBudget is the per-section character budget submitted for analysis.
// Truncation is a deliberate lossy step bounding cost and latency; the
// artifact never reflects content past this point.
const sectionBudget = 2000

const systemInstruction = `You are an industry analyst reviewing a corporate regulatory filing.

Analyze the filing sections provided and respond with a JSON object containing exactly these fields:
- "summary": a concise summary of the company's business
- "key_technologies": a list of the key technologies and products mentioned
- "strategic_focus": the company's primary strategic focus
- "risks": an ordered list of the most significant risk factors
- "opportunities": an ordered list of the most significant opportunities

Base every statement strictly on the provided text.`

// Analyzer turns filing sections into analysis artifacts. It holds no state
// between calls; every call re-analyzes from the given sections.
type Analyzer struct {
	provider llm.Provider
	logger   arbor.ILogger
}

// New creates an analyzer backed by the given text-generation provider.
func New(provider llm.Provider, logger arbor.ILogger) *Analyzer {
	return &Analyzer{
		provider: provider,
		logger:   logger,
	}
}

// Truncate bounds a section to the analysis character budget, backing off to
// the nearest rune boundary so no split rune reaches the prompt.
func Truncate(section string) string {
	if len(section) <= sectionBudget {
		return section
	}
	cut := sectionBudget
	for cut > 0 && !utf8.RuneStart(section[cut]) {
		cut--
	}
	return section[:cut]
}

// Analyze submits the truncated sections in a single structured-JSON request
// and parses the artifact. Malformed provider output is surfaced as a
// MalformedAnalysisResponseError and is not retried here; the caller decides.
func (a *Analyzer) Analyze(ctx context.Context, sections types.FilingSections) (*types.AnalysisArtifact, error) {
	prompt := fmt.Sprintf(`Filing sections follow.

## Business
%s

## Risk Factors
%s

## Management Discussion
%s`,
		Truncate(sections.Business),
		Truncate(sections.RiskFactors),
		Truncate(sections.ManagementDiscussion),
	)

	req := &llm.Request{
		SystemInstruction: systemInstruction,
		UserContent:       prompt,
		RequireJSON:       true,
		OutputSchema:      artifactSchema(),
	}

	a.logger.Debug().
		Str("provider", a.provider.Name()).
		Int("prompt_chars", len(prompt)).
		Msg("Submitting filing sections for analysis")

	raw, err := a.provider.GenerateContent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analysis call failed: %w", err)
	}

	var artifact types.AnalysisArtifact
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &artifact); err != nil {
		return nil, &types.MalformedAnalysisResponseError{Raw: raw, Err: err}
	}
	return &artifact, nil
}

func artifactSchema() map[string]interface{} {
	stringList := map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string"},
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary":          map[string]interface{}{"type": "string"},
			"key_technologies": stringList,
			"strategic_focus":  map[string]interface{}{"type": "string"},
			"risks":            stringList,
			"opportunities":    stringList,
		},
		"required": []string{"summary", "key_technologies", "strategic_focus", "risks", "opportunities"},
	}
}
