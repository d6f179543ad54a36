package provider

import (
	"context"
	"time"

	"goodgood/internal/gg"
)

const (
	openAIName         = "openai"
	openAIDefaultModel = "gpt-5.2"
	openAIBaseURL      = "https://api.openai.com/v1"
	openAITemperature  = 0.7
)

// OpenAI calls the chat completions API.
type OpenAI struct {
	api    apiClient
	apiKey string
	model  string
}

var _ gg.ContentProvider = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI provider. An empty model selects the default.
func NewOpenAI(apiKey, model, baseURL string, timeout time.Duration) (*OpenAI, error) {
	if apiKey == "" {
		return nil, missingKey(openAIName, "OPENAI_API_KEY")
	}
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAI{
		api:    newAPIClient(openAIName, baseURL, openAIBaseURL, timeout),
		apiKey: apiKey,
		model:  model,
	}, nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAI) Name() string { return openAIName }

func (p *OpenAI) Generate(ctx context.Context, system, prompt string) (*gg.Generation, error) {
	req := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: openAITemperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	var resp openAIResponse
	if err := p.api.post(ctx, "/chat/completions", headers, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, p.api.fail("response has no choices")
	}
	return &gg.Generation{Text: resp.Choices[0].Message.Content, Model: reportedModel(resp.Model, p.model)}, nil
}

// reportedModel prefers the model the API says it used.
func reportedModel(reported, requested string) string {
	if reported != "" {
		return reported
	}
	return requested
}
