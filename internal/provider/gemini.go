package provider

import (
	"context"
	"net/url"
	"strings"
	"time"

	"goodgood/internal/gg"
)

const (
	geminiName         = "gemini"
	geminiDefaultModel = "gemini-2.5-flash"
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
)

// Gemini calls the generateContent API. The key travels in a header so it
// never shows up in request URLs.
type Gemini struct {
	api    apiClient
	apiKey string
	model  string
}

var _ gg.ContentProvider = (*Gemini)(nil)

// NewGemini creates a Gemini provider. An empty model selects the default.
func NewGemini(apiKey, model, baseURL string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, missingKey(geminiName, "GEMINI_API_KEY")
	}
	if model == "" {
		model = geminiDefaultModel
	}
	return &Gemini{
		api:    newAPIClient(geminiName, baseURL, geminiBaseURL, timeout),
		apiKey: apiKey,
		model:  model,
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction geminiContent   `json:"systemInstruction"`
}

type geminiResponse struct {
	ModelVersion string `json:"modelVersion"`
	Candidates   []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (p *Gemini) Name() string { return geminiName }

func (p *Gemini) Generate(ctx context.Context, system, prompt string) (*gg.Generation, error) {
	req := geminiRequest{
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		SystemInstruction: geminiContent{Parts: []geminiPart{{Text: system}}},
	}
	headers := map[string]string{"x-goog-api-key": p.apiKey}
	path := "/models/" + url.PathEscape(p.model) + ":generateContent"

	var resp geminiResponse
	if err := p.api.post(ctx, path, headers, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, p.api.fail("response missing candidates/content")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return &gg.Generation{Text: text.String(), Model: reportedModel(resp.ModelVersion, p.model)}, nil
}
