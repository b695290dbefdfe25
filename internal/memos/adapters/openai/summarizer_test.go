package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memoboard/internal/memos/adapters/openai"
	"memoboard/internal/memos/domain/entities"
	"memoboard/internal/memos/resilience"
)

type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	TopP        float32 `json:"top_p"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
}

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func fastRetry() resilience.RetryConfig {
	retry := resilience.DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	retry.MaxBackoff = time.Millisecond
	return retry
}

func TestSummarizer_Summarize(t *testing.T) {
	var got chatRequest
	var auth string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("  A short summary.  \n"))
	})

	s := openai.NewSummarizer(openai.Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})

	summary, err := s.Summarize(context.Background(), "# Trip\n\nBook **flights** and [hotel](https://x.example).")

	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, openai.DefaultModel, got.Model)
	assert.Equal(t, openai.DefaultMaxTokens, got.MaxTokens)
	assert.InDelta(t, openai.DefaultTemperature, got.Temperature, 1e-6)
	assert.InDelta(t, openai.DefaultTopP, got.TopP, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "Trip\nBook flights and hotel.")
	assert.NotContains(t, got.Messages[0].Content, "**")
}

func TestSummarizer_BlankInputSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	s := openai.NewSummarizer(openai.Config{APIKey: "k", BaseURL: srv.URL})

	_, err := s.Summarize(context.Background(), "   \n ")

	assert.ErrorIs(t, err, entities.ErrSummarization)
	assert.Zero(t, calls.Load())
}

func TestSummarizer_EmptyCompletion(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion("   "))
	})

	s := openai.NewSummarizer(openai.Config{APIKey: "k", BaseURL: srv.URL})

	_, err := s.Summarize(context.Background(), "text")

	assert.ErrorIs(t, err, entities.ErrSummarization)
	assert.Contains(t, err.Error(), openai.ErrMsgEmptyCompletion)
}

func TestSummarizer_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{name: "client error is not retried", status: http.StatusBadRequest, wantCalls: 1},
		{name: "server error is retried", status: http.StatusInternalServerError, wantCalls: 3},
		{name: "rate limit is retried", status: http.StatusTooManyRequests, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"invalid_request_error"}}`))
			})

			s := openai.NewSummarizerWithResilience(openai.Config{APIKey: "k", BaseURL: srv.URL},
				resilience.DefaultCircuitBreakerConfig(), fastRetry())

			_, err := s.Summarize(context.Background(), "text")

			assert.ErrorIs(t, err, entities.ErrSummarization)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestSummarizer_ClientErrorsDoNotOpenCircuit(t *testing.T) {
	var calls atomic.Int32
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	cb := resilience.DefaultCircuitBreakerConfig()
	cb.ErrorThreshold = 1
	retry := fastRetry()
	retry.ShouldRetry = func(error) bool { return true }

	s := openai.NewSummarizerWithResilience(openai.Config{APIKey: "k", BaseURL: srv.URL}, cb, retry)

	for range 3 {
		_, err := s.Summarize(context.Background(), "text")
		require.ErrorIs(t, err, entities.ErrSummarization)
		assert.NotErrorIs(t, err, resilience.ErrCircuitOpen)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestDisabled(t *testing.T) {
	_, err := openai.Disabled{}.Summarize(context.Background(), "text")

	assert.ErrorIs(t, err, entities.ErrSummarizationDisabled)
	assert.ErrorIs(t, err, entities.ErrSummarization)
	assert.True(t, entities.IsSummarizationError(err))
}
