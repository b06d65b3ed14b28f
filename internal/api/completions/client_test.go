package completions

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *OpenAIClient {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	client, err := NewOpenAIClient(serverURL, 5*time.Second, slog.Default())
	require.NoError(t, err)
	return client
}

func TestNewOpenAIClient_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewOpenAIClient("", time.Second, slog.Default())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestComplete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotReq chatCompletionRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			resp := map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": `{"activities": []}`}},
				},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL)
		content, err := client.Complete(context.Background(), Request{
			Model:     "gpt-4",
			Prompt:    "Generate a travel plan",
			MaxTokens: 2000,
		})

		require.NoError(t, err)
		assert.Equal(t, `{"activities": []}`, content)

		assert.Equal(t, "gpt-4", gotReq.Model)
		assert.Equal(t, 2000, gotReq.MaxTokens)
		assert.InDelta(t, 0.7, gotReq.Temperature, 0.0001)
		require.Len(t, gotReq.Messages, 2)
		assert.Equal(t, "system", gotReq.Messages[0].Role)
		assert.Equal(t, systemPrompt, gotReq.Messages[0].Content)
		assert.Equal(t, "user", gotReq.Messages[1].Role)
		assert.Equal(t, "Generate a travel plan", gotReq.Messages[1].Content)
	})

	t.Run("Non2xxStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "rate limited"}}`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL)
		_, err := client.Complete(context.Background(), Request{Model: "gpt-4", Prompt: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 429")
	})

	t.Run("MissingChoices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL)
		_, err := client.Complete(context.Background(), Request{Model: "gpt-4", Prompt: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid response structure")
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		client := newTestClient(t, srv.URL)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := client.Complete(ctx, Request{Model: "gpt-4", Prompt: "x"})
		assert.Error(t, err)
	})
}
