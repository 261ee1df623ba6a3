package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/finscope/finscope/internal/config"
	"github.com/finscope/finscope/internal/types"
)

const claudeDefaultMaxTokens = 4096

type claudeProvider struct {
	client      anthropic.Client
	model       string
	temperature float32
	logger      arbor.ILogger
}

func newClaudeProvider(cfg config.LLMConfig, logger arbor.ILogger) *claudeProvider {
	model := strings.TrimPrefix(cfg.Model, "claude/")
	return &claudeProvider{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)),
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func (p *claudeProvider) Name() string { return "claude" }

func (p *claudeProvider) GenerateContent(ctx context.Context, req *Request) (string, error) {
	system := req.SystemInstruction
	if req.RequireJSON {
		// Claude has no response-schema parameter; the JSON contract rides in
		// the system instruction instead.
		system += "\n\nRespond with a single JSON object only. No prose, no markdown fences."
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: claudeDefaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserContent)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	temp := req.Temperature
	if temp <= 0 {
		temp = p.temperature
	}
	if temp > 0 {
		params.Temperature = anthropic.Float(float64(temp))
	}

	p.logger.Debug().
		Str("model", p.model).
		Bool("require_json", req.RequireJSON).
		Msg("Claude content request")

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", &types.InvalidUpstreamResponseError{Provider: "claude", Reason: "empty response"}
	}
	return text.String(), nil
}
