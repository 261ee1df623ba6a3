/*
Package session answers follow-up questions strictly grounded in a previously
produced analysis artifact. Each call is independent: there is no memory of
prior questions and no context beyond the supplied artifact.
*/
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/finscope/finscope/internal/llm"
	"github.com/finscope/finscope/internal/types"
)

const systemInstruction = `You are an industry analyst. Answer the user's question based on this filing analysis and nothing else. If the analysis does not contain the answer, say so plainly.`

// Session answers questions against analysis artifacts.
type Session struct {
	provider llm.Provider
	logger   arbor.ILogger
}

// New creates a session backed by the given text-generation provider.
func New(provider llm.Provider, logger arbor.ILogger) *Session {
	return &Session{
		provider: provider,
		logger:   logger,
	}
}

// Ask answers a question grounded only in the artifact. A blank question is
// rejected before any network call.
func (s *Session) Ask(ctx context.Context, artifact *types.AnalysisArtifact, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", types.ErrEmptyQuestion
	}

	serialized, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize artifact: %w", err)
	}

	prompt := fmt.Sprintf(`Filing analysis:

%s

Question: %s`, serialized, question)

	s.logger.Debug().
		Str("provider", s.provider.Name()).
		Int("question_chars", len(question)).
		Msg("Grounded question")

	answer, err := s.provider.GenerateContent(ctx, &llm.Request{
		SystemInstruction: systemInstruction,
		UserContent:       prompt,
	})
	if err != nil {
		return "", fmt.Errorf("grounded answer failed: %w", err)
	}
	return answer, nil
}
