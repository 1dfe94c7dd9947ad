package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
)

const (
	// DiagnosticLimit caps the upstream error excerpt surfaced to clients.
	DiagnosticLimit = 2000

	defaultEndpoint = "https://api.openai.com"
	defaultModel    = "gpt-4o-mini"
)

// ErrMissingAPIKey is returned before any network call when no key is configured.
var ErrMissingAPIKey = errors.New("upstream api key is empty")

// StatusError carries a non-success upstream HTTP status and a truncated body excerpt.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Body)
}

// Config holds the chat-completions provider settings.
type Config struct {
	APIKey    string
	Endpoint  string
	Model     string
	MaxTokens int
}

// Client calls an OpenAI-compatible chat-completions API. Streaming requests
// go over a raw HTTP POST so the caller owns the event-stream framing; the
// non-streaming vision call goes through the SDK.
type Client struct {
	apiKey    string
	endpoint  string
	model     string
	maxTokens int
	http      *http.Client
	sdk       openaiclient.Client
}

// New builds a client from cfg, applying endpoint and model defaults.
func New(cfg Config) *Client {
	endpoint := normalizeEndpoint(cfg.Endpoint)
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 450
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		openaioption.WithMaxRetries(0),
		openaioption.WithBaseURL(endpoint + "/v1"),
	}

	return &Client{
		apiKey:    strings.TrimSpace(cfg.APIKey),
		endpoint:  endpoint,
		model:     model,
		maxTokens: maxTokens,
		http:      &http.Client{Timeout: 60 * time.Second},
		sdk:       openaiclient.NewClient(opts...),
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// OpenStream starts a streaming chat completion and returns the raw response
// body. The caller is responsible for parsing the event-stream frames and for
// closing the body. A non-2xx status is translated into a *StatusError with a
// truncated body excerpt and no body is returned.
func (c *Client) OpenStream(ctx context.Context, systemPrompt, userPrompt string) (io.ReadCloser, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"model":       c.model,
		"temperature": 0,
		"max_tokens":  c.maxTokens,
		"stream":      true,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, DiagnosticLimit+1))
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: Truncate(string(body), DiagnosticLimit)}
	}
	return resp.Body, nil
}

// DescribeImage runs a non-streaming vision completion over an inline image
// and returns the model reply text.
func (c *Client) DescribeImage(ctx context.Context, systemPrompt, userPrompt, dataURL string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model:       openaiclient.ChatModel(c.model),
		Temperature: openaiclient.Float(0),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.SystemMessage(systemPrompt),
			openaiclient.UserMessage([]openaiclient.ChatCompletionContentPartUnionParam{
				openaiclient.TextContentPart(userPrompt),
				openaiclient.ImageContentPart(openaiclient.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.New("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// Complete runs a plain non-streaming chat completion.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, openaiclient.ChatCompletionNewParams{
		Model:       openaiclient.ChatModel(c.model),
		Temperature: openaiclient.Float(0),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.SystemMessage(systemPrompt),
			openaiclient.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", errors.New("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// Truncate caps text at maxLen runes.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}

// normalizeEndpoint reduces an endpoint to scheme://host[/path] without a
// trailing /v1, which all request paths append themselves.
func normalizeEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return defaultEndpoint
	}

	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		cleaned := strings.TrimRight(base, "/")
		return strings.TrimSuffix(cleaned, "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	parsed.Path = strings.TrimSuffix(path, "/v1")
	return strings.TrimRight(parsed.String(), "/")
}
