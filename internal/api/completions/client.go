package completions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultTemperature = 0.7

	// systemPrompt frames every completion request.
	systemPrompt = "You are a travel expert providing detailed information about destinations."
)

// ErrMissingAPIKey is returned before any network call when no credential is
// configured.
var ErrMissingAPIKey = errors.New("completion service API key is not configured")

// Request is a single text-completion request. Model and MaxTokens vary
// between the full destination prompt and the narrower fallback prompt.
type Request struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// Client issues text-completion requests and returns the raw textual payload.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Ensure implementation satisfies the interface
var _ Client = (*OpenAIClient)(nil)

// OpenAIClient talks to an OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenAIClient reads the bearer credential from OPENAI_API_KEY and fails
// fast when it is absent. The timeout bounds every request issued through the
// client.
func NewOpenAIClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion request and returns the assistant
// message content. Non-2xx responses and responses without a message are hard
// failures; there is no retry at this level.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (content string, err error) {
	start := time.Now()
	defer func() {
		if m := metrics.Get(); m != nil {
			attrs := metric.WithAttributes(
				attribute.String("model", req.Model),
				attribute.Bool("success", err == nil),
			)
			m.CompletionRequestsTotal.Add(ctx, 1, attrs)
			m.CompletionDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
		}
	}()

	body, err := json.Marshal(chatCompletionRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: defaultTemperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.ErrorContext(ctx, "Completion service returned an error",
			slog.Int("status", resp.StatusCode),
			slog.String("model", req.Model),
			slog.String("body", string(errBody)))
		return "", fmt.Errorf("completion service responded with status %d: %s", resp.StatusCode, string(errBody))
	}

	var payload chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(payload.Choices) == 0 || payload.Choices[0].Message == nil {
		return "", errors.New("invalid response structure from completion service")
	}

	c.logger.DebugContext(ctx, "Completion received",
		slog.String("model", req.Model),
		slog.Duration("latency", time.Since(start)))

	return payload.Choices[0].Message.Content, nil
}
