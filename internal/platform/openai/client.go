package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/medstudy-backend/internal/observability"
	"github.com/yungbote/medstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o"
	DefaultTimeout = 60 * time.Second

	chatCompletionsPath = "/v1/chat/completions"
)

// ErrNotConfigured is returned by the disabled client.
var ErrNotConfigured = errors.New("openai client not configured")

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ChatRequest is a single system+user turn.
type ChatRequest struct {
	// Operation labels metrics and logs, e.g. "ask".
	Operation   string
	System      string
	User        string
	Temperature float64
	// JSON asks for response_format {"type":"json_object"}.
	JSON bool
}

type ChatResult struct {
	Content      string
	Model        string
	InputTokens  int
	OutputTokens int
}

// Client is the language model client used by the AI service. Calls are
// single-shot: no retries.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResult, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &client{
		log:        log.With("service", "OpenAIClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type disabledClient struct{ reason string }

// Disabled returns a client whose every call fails with ErrNotConfigured.
func Disabled(reason string) Client { return disabledClient{reason: reason} }

func (d disabledClient) Complete(context.Context, ChatRequest) (ChatResult, error) {
	return ChatResult{}, fmt.Errorf("%w: %s", ErrNotConfigured, d.reason)
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *client) Complete(ctx context.Context, req ChatRequest) (ChatResult, error) {
	ctx = ctxutil.Default(ctx)
	body := chatCompletionRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	start := time.Now()
	resp, raw, err := c.doOnce(ctx, http.MethodPost, chatCompletionsPath, body)
	status := statusFromRespErr(resp, err)
	if err != nil {
		observability.Current().ObserveLLMRequest(c.model, req.Operation, status, time.Since(start), 0, 0)
		c.log.Warn("OpenAI request failed",
			"operation", req.Operation,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return ChatResult{}, err
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		observability.Current().ObserveLLMRequest(c.model, req.Operation, "decode_error", time.Since(start), 0, 0)
		return ChatResult{}, fmt.Errorf("openai decode error: %w", err)
	}
	out := ChatResult{
		Model:        decoded.Model,
		InputTokens:  decoded.Usage.PromptTokens,
		OutputTokens: decoded.Usage.CompletionTokens,
	}
	if out.Model == "" {
		out.Model = c.model
	}
	observability.Current().ObserveLLMRequest(c.model, req.Operation, status, time.Since(start), out.InputTokens, out.OutputTokens)

	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return out, fmt.Errorf("openai: empty completion")
	}
	out.Content = decoded.Choices[0].Message.Content
	c.log.Debug("OpenAI request completed",
		"operation", req.Operation,
		"model", out.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", out.InputTokens,
		"output_tokens", out.OutputTokens,
	)
	return out, nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}
	return resp, raw, nil
}

func statusFromRespErr(resp *http.Response, err error) string {
	switch {
	case resp != nil:
		return strconv.Itoa(resp.StatusCode)
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case err != nil:
		return "error"
	default:
		return "0"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
