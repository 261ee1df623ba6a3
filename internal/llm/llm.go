/*
Package llm provides a provider-agnostic text-generation capability backed by
Gemini or Claude. Components receive a Provider at construction so tests can
substitute a double.
*/
package llm

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/finscope/finscope/internal/config"
	"github.com/finscope/finscope/internal/types"
)

// Request is a provider-agnostic content generation request.
type Request struct {
	// SystemInstruction frames the role the model answers in.
	SystemInstruction string
	// UserContent is the user-visible prompt body.
	UserContent string
	// RequireJSON asks the provider for a structured JSON completion.
	RequireJSON bool
	// OutputSchema optionally constrains the JSON shape. Providers without
	// native schema support fold it into the instruction text.
	OutputSchema map[string]interface{}
	Temperature  float32
}

// Provider generates a single text completion for a request.
type Provider interface {
	GenerateContent(ctx context.Context, req *Request) (string, error)
	Name() string
}

// NewFromConfig selects a provider implementation from the configured model
// name: "claude-*" models route to Anthropic, everything else to Gemini.
func NewFromConfig(cfg config.LLMConfig, logger arbor.ILogger) (Provider, error) {
	model := strings.ToLower(cfg.Model)

	if strings.HasPrefix(model, "claude-") || strings.HasPrefix(model, "claude/") {
		if cfg.AnthropicAPIKey == "" {
			return nil, &types.UpstreamUnavailableError{Provider: "claude", Reason: "API key is not configured"}
		}
		return newClaudeProvider(cfg, logger), nil
	}

	if cfg.GeminiAPIKey == "" {
		return nil, &types.UpstreamUnavailableError{Provider: "gemini", Reason: "API key is not configured"}
	}
	return newGeminiProvider(cfg, logger), nil
}
