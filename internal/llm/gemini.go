package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/finscope/finscope/internal/config"
	"github.com/finscope/finscope/internal/types"
)

type geminiProvider struct {
	apiKey      string
	model       string
	temperature float32
	logger      arbor.ILogger

	mu     sync.Mutex
	client *genai.Client
}

func newGeminiProvider(cfg config.LLMConfig, logger arbor.ILogger) *geminiProvider {
	model := strings.TrimPrefix(cfg.Model, "gemini/")
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &geminiProvider{
		apiKey:      cfg.GeminiAPIKey,
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &types.UpstreamUnavailableError{Provider: "gemini", Reason: err.Error()}
	}
	p.client = client
	return client, nil
}

func (p *geminiProvider) GenerateContent(ctx context.Context, req *Request) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(req.Temperature)
	} else if p.temperature > 0 {
		cfg.Temperature = genai.Ptr(p.temperature)
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.RequireJSON {
		cfg.ResponseMIMEType = "application/json"
		if schema, err := convertToGenaiSchema(req.OutputSchema); err == nil && schema != nil {
			cfg.ResponseSchema = schema
		}
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.UserContent, genai.RoleUser),
	}

	p.logger.Debug().
		Str("model", p.model).
		Bool("require_json", req.RequireJSON).
		Msg("Gemini content request")

	resp, err := client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API call failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &types.InvalidUpstreamResponseError{Provider: "gemini", Reason: "empty response"}
	}

	text := resp.Text()
	if text == "" {
		return "", &types.InvalidUpstreamResponseError{Provider: "gemini", Reason: "no text in response"}
	}
	return text, nil
}

// convertToGenaiSchema converts a plain map representation of a JSON schema
// into the genai schema structure. Only the subset of the schema vocabulary
// used by this application is handled.
func convertToGenaiSchema(schemaMap map[string]interface{}) (*genai.Schema, error) {
	if len(schemaMap) == 0 {
		return nil, nil
	}

	schema := &genai.Schema{}

	if typeStr, ok := schemaMap["type"].(string); ok {
		switch strings.ToLower(typeStr) {
		case "object":
			schema.Type = genai.TypeObject
		case "array":
			schema.Type = genai.TypeArray
		case "string":
			schema.Type = genai.TypeString
		case "number":
			schema.Type = genai.TypeNumber
		case "integer":
			schema.Type = genai.TypeInteger
		case "boolean":
			schema.Type = genai.TypeBoolean
		}
	}

	if desc, ok := schemaMap["description"].(string); ok {
		schema.Description = desc
	}

	if reqVals, ok := schemaMap["required"].([]string); ok {
		schema.Required = reqVals
	} else if reqVals, ok := schemaMap["required"].([]interface{}); ok {
		for _, v := range reqVals {
			if s, ok := v.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if itemsMap, ok := schemaMap["items"].(map[string]interface{}); ok {
		itemSchema, err := convertToGenaiSchema(itemsMap)
		if err != nil {
			return nil, fmt.Errorf("failed to convert items schema: %w", err)
		}
		schema.Items = itemSchema
	}

	if propsMap, ok := schemaMap["properties"].(map[string]interface{}); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for name, val := range propsMap {
			propMap, ok := val.(map[string]interface{})
			if !ok {
				continue
			}
			propSchema, err := convertToGenaiSchema(propMap)
			if err != nil {
				return nil, fmt.Errorf("failed to convert property %q: %w", name, err)
			}
			schema.Properties[name] = propSchema
		}
	}

	return schema, nil
}
