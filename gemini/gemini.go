// Package gemini adapts Google's Gemini API to the pipeline's Generator
// interface: one-shot text generation with a system instruction, multimodal
// extraction from an image, and classification of API failures for the
// model fallback decision.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"

	optimizer "github.com/MattiasMilger/AI-Portfolio-Optimizer"
)

// Client wraps a genai client.
type Client struct {
	c *genai.Client
}

// NewClient creates a Gemini client. An empty apiKey falls back to the
// environment (GEMINI_API_KEY / GOOGLE_API_KEY).
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	var cc *genai.ClientConfig
	if apiKey != "" {
		cc = &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}
	return &Client{c: c}, nil
}

// Generate asks a text model for a single completion under a system
// instruction.
func (c *Client) Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if systemInstruction != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		}
	}
	resp, err := c.c.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	return firstText(resp, model)
}

// GenerateVision sends an image plus an instruction to a multimodal model.
func (c *Client) GenerateVision(ctx context.Context, model, instruction string, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: instruction},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		},
	}}
	resp, err := c.c.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	return firstText(resp, model)
}

// Classify maps a genai error to the pipeline's failure classes. 429 is a
// quota rejection; 404 a model that does not exist for this key; 503 the
// transiently overloaded backend. Everything else (network, auth, 5xx) is
// not retried across models.
func (c *Client) Classify(err error) optimizer.FailureClass {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return optimizer.FailureOther
	}
	switch apiErr.Code {
	case 429:
		return optimizer.FailureRateLimited
	case 404, 503:
		return optimizer.FailureUnavailable
	default:
		return optimizer.FailureOther
	}
}

// ListModels returns the models on this API key that support content
// generation, sorted by name.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for model, err := range c.c.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("listing models: %w", err)
		}
		if !supportsGenerate(model) {
			continue
		}
		names = append(names, strings.TrimPrefix(model.Name, "models/"))
	}
	sort.Strings(names)
	return names, nil
}

func supportsGenerate(m *genai.Model) bool {
	for _, action := range m.SupportedActions {
		if action == "generateContent" {
			return true
		}
	}
	return false
}

func firstText(resp *genai.GenerateContentResponse, model string) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from model %s", model)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", model)
	}
	return text, nil
}
