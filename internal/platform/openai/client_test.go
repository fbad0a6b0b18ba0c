package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(logger.Nop(), Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestCompleteSendsChatCompletionRequest(t *testing.T) {
	var got chatCompletionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chatCompletionsPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"gpt-4o-2024","choices":[{"message":{"role":"assistant","content":"{\"answer\":\"hi\"}"}}],"usage":{"prompt_tokens":11,"completion_tokens":7}}`))
	})

	res, err := c.Complete(context.Background(), ChatRequest{Operation: "ask", System: "sys", User: "usr", Temperature: 0.3, JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"hi"}`, res.Content)
	assert.Equal(t, "gpt-4o-2024", res.Model)
	assert.Equal(t, 11, res.InputTokens)
	assert.Equal(t, 7, res.OutputTokens)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 0.3, got.Temperature)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "usr", got.Messages[1].Content)
}

func TestCompleteTextModeOmitsResponseFormat(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"enhanced"}}]}`))
	})
	res, err := c.Complete(context.Background(), ChatRequest{System: "s", User: "u", Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "enhanced", res.Content)
	_, present := raw["response_format"]
	assert.False(t, present)
}

func TestCompleteDoesNotRetryUpstreamErrors(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"overloaded"}`))
	})
	_, err := c.Complete(context.Background(), ChatRequest{System: "s", User: "u"})
	require.Error(t, err)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.HTTPStatusCode())
	assert.Equal(t, 1, calls)
}

func TestCompleteEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.Complete(context.Background(), ChatRequest{System: "s", User: "u"})
	require.Error(t, err)
}

func TestCompleteHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Complete(ctx, ChatRequest{System: "s", User: "u"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(logger.Nop(), Config{})
	require.Error(t, err)

	_, err = Disabled("no key").Complete(context.Background(), ChatRequest{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}
