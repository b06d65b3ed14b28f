package completions

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// Ensure implementation satisfies the interface
var _ Client = (*GeminiClient)(nil)

// GeminiClient is an alternative completion backend using the Gemini API.
// Request.Model is ignored; the configured Gemini model serves both the full
// and the fallback prompts.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](defaultTemperature),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	// The Gemini API has no separate system role here; fold the framing into
	// the prompt text.
	prompt := systemPrompt + "\n\n" + req.Prompt
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	txt := result.Text()
	if txt == "" {
		return "", fmt.Errorf("no valid content from Gemini")
	}
	return txt, nil
}
