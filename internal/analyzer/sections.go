package analyzer

import (
	"regexp"
	"strings"

	"github.com/finscope/finscope/internal/types"
)

// Section heading patterns in the flattened filing prose. Registries number
// the business description, risk factors and management discussion sections
// consistently across annual report forms.
var (
	businessPattern = regexp.MustCompile(`(?i)item\s*1\s*[.:]?\s*business`)
	riskPattern     = regexp.MustCompile(`(?i)item\s*1a\s*[.:]?\s*risk\s*factors`)
	mdaPattern      = regexp.MustCompile(`(?i)item\s*7\s*[.:]?\s*management'?s?\s*discussion`)
	anyItemPattern  = regexp.MustCompile(`(?i)item\s*\d+[a-z]?\s*[.:]`)
)

// sectionLookahead bounds how far past a heading a section slice may run.
const sectionLookahead = 40000

// ExtractSections locates the business, risk factor and management
// discussion sections inside a filing's flattened text. When a heading
// cannot be found the whole document stands in for the business section, so
// downstream analysis always has something to work with.
func ExtractSections(doc *types.FilingDocument) types.FilingSections {
	text := doc.RawText

	sections := types.FilingSections{
		Business:             sliceSection(text, businessPattern),
		RiskFactors:          sliceSection(text, riskPattern),
		ManagementDiscussion: sliceSection(text, mdaPattern),
	}
	if sections.Business == "" {
		sections.Business = text
	}
	return sections
}

// sliceSection returns the text between a section heading and the next item
// heading, bounded by a fixed lookahead.
func sliceSection(text string, heading *regexp.Regexp) string {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	start := loc[1]
	end := len(text)
	if end > start+sectionLookahead {
		end = start + sectionLookahead
	}

	body := text[start:end]
	if next := anyItemPattern.FindStringIndex(body); next != nil && next[0] > 0 {
		body = body[:next[0]]
	}
	return strings.TrimSpace(body)
}
