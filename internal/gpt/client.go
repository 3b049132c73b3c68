// Package gpt implements domain.Model on an OpenAI-compatible chat
// completions endpoint (OpenAI, Azure OpenAI, or a local server).
package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithModel overrides the default model name. On Azure it selects the deployment.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) ClientOption {
	return func(c *Client) { c.maxTokens = n }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit caps outgoing requests per minute. Calls wait for a
// slot; they are never retried.
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	limiter     *rate.Limiter
	log         *logger.Logger
}

var _ domain.Model = (*Client)(nil)

// NewClient creates a chat client.
//   - endpoint: base URL, e.g. "https://api.openai.com/v1" or
//     "https://<resource>.openai.azure.com/". Empty means OpenAI.
//   - apiKey:   the API or subscription key
func NewClient(endpoint, apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		model:       openai.GPT4oMini,
		temperature: 0.2,
		maxTokens:   800,
		timeout:     30 * time.Second,
		log:         log,
	}
	for _, o := range opts {
		o(c)
	}

	var cfg openai.ClientConfig
	if strings.Contains(endpoint, ".openai.azure.com") {
		cfg = openai.DefaultAzureConfig(apiKey, endpoint)
	} else {
		cfg = openai.DefaultConfig(apiKey)
		if endpoint != "" {
			cfg.BaseURL = strings.TrimRight(endpoint, "/")
		}
	}
	cfg.HTTPClient = &http.Client{Timeout: c.timeout}
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

// Converse sends the transcript with the tool declarations and returns
// the assistant's text or tool calls.
func (c *Client) Converse(ctx context.Context, req domain.ConverseRequest) (*domain.Reply, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	body := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toMessages(req.System, req.Turns),
		Tools:       toTools(req.Tools),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	c.log.Debug("gpt: converse (%d messages, %d tools)", len(body.Messages), len(body.Tools))
	resp, err := c.api.CreateChatCompletion(ctx, body)
	if err != nil {
		return nil, modelError("gpt.converse", err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.Errorf(domain.KindModel, "gpt.converse", "empty response (no choices)")
	}

	msg := resp.Choices[0].Message
	reply := &domain.Reply{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		call, err := fromToolCall(tc)
		if err != nil {
			return nil, err
		}
		reply.ToolCalls = append(reply.ToolCalls, call)
	}

	c.log.Debug("gpt: reply (%d chars, %d tool calls): %s", len(reply.Text), len(reply.ToolCalls), truncate(reply.Text, 120))
	return reply, nil
}

// GenerateJSON asks for a single JSON object shaped by schema.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *domain.Schema) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	body := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if schema != nil {
		def := toDefinition(schema)
		body.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "response",
				Schema: &def,
			},
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, body)
	if err != nil {
		return "", modelError("gpt.json", err)
	}
	if len(resp.Choices) == 0 {
		return "", domain.Errorf(domain.KindModel, "gpt.json", "empty response (no choices)")
	}
	out := resp.Choices[0].Message.Content
	c.log.Debug("gpt: json reply (%d chars): %s", len(out), truncate(out, 120))
	return out, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WrapError(domain.KindModel, "gpt.ratelimit", err)
	}
	return nil
}

func modelError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.Error{Kind: domain.KindModel, Op: op, Msg: apiErr.Message, Err: err}
	}
	return domain.WrapError(domain.KindModel, op, err)
}

func fromToolCall(tc openai.ToolCall) (domain.ToolCall, error) {
	call := domain.ToolCall{ID: tc.ID, Name: tc.Function.Name, Args: map[string]any{}}
	if strings.TrimSpace(tc.Function.Arguments) == "" {
		return call, nil
	}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &call.Args); err != nil {
		return call, &domain.Error{Kind: domain.KindValidation, Op: "gpt.toolcall", Msg: "tool arguments are not valid JSON", Err: err}
	}
	return call, nil
}

// truncate caps s at n runes, so a multibyte character is never split.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
