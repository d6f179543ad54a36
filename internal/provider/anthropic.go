package provider

import (
	"context"
	"strings"
	"time"

	"goodgood/internal/gg"
)

const (
	anthropicName         = "anthropic"
	anthropicDefaultModel = "claude-sonnet-4-5"
	anthropicBaseURL      = "https://api.anthropic.com/v1"
	anthropicVersion      = "2023-06-01"
	anthropicMaxTokens    = 4000
)

// Anthropic calls the messages API.
type Anthropic struct {
	api    apiClient
	apiKey string
	model  string
}

var _ gg.ContentProvider = (*Anthropic)(nil)

// NewAnthropic creates an Anthropic provider. An empty model selects the default.
func NewAnthropic(apiKey, model, baseURL string, timeout time.Duration) (*Anthropic, error) {
	if apiKey == "" {
		return nil, missingKey(anthropicName, "ANTHROPIC_API_KEY")
	}
	if model == "" {
		model = anthropicDefaultModel
	}
	return &Anthropic{
		api:    newAPIClient(anthropicName, baseURL, anthropicBaseURL, timeout),
		apiKey: apiKey,
		model:  model,
	}, nil
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (p *Anthropic) Name() string { return anthropicName }

func (p *Anthropic) Generate(ctx context.Context, system, prompt string) (*gg.Generation, error) {
	req := anthropicRequest{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		System:    system,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var resp anthropicResponse
	if err := p.api.post(ctx, "/messages", headers, req, &resp); err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" || block.Type == "" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, p.api.fail("response has no text content")
	}
	return &gg.Generation{Text: text.String(), Model: reportedModel(resp.Model, p.model)}, nil
}
