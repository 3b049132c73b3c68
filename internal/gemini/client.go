// Package gemini implements domain.Model on the Gemini API.
package gemini

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

const defaultModel = "gemini-2.5-flash"

// Option configures the Client.
type Option func(*Client)

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float32) Option {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens sets the output token limit.
func WithMaxTokens(n int32) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithRateLimit caps outgoing requests per minute.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) {
		if perMinute > 0 {
			c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
		}
	}
}

// Client wraps a genai client.
type Client struct {
	api         *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	limiter     *rate.Limiter
	log         *logger.Logger
}

var _ domain.Model = (*Client)(nil)

// NewClient connects to the Gemini API with apiKey.
func NewClient(ctx context.Context, apiKey string, log *logger.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, domain.Errorf(domain.KindValidation, "gemini.new", "api key is required")
	}
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domain.WrapError(domain.KindModel, "gemini.new", err)
	}

	c := &Client{
		api:         api,
		model:       defaultModel,
		temperature: 0.2,
		maxTokens:   1024,
		log:         log,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Converse sends the transcript with function declarations.
func (c *Client) Converse(ctx context.Context, req domain.ConverseRequest) (*domain.Reply, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	cfg := c.config()
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	cfg.Tools = toTools(req.Tools)

	contents := toContents(req.Turns)
	c.log.Debug("gemini: converse (%d contents)", len(contents))

	resp, err := c.api.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return nil, domain.WrapError(domain.KindModel, "gemini.converse", err)
	}
	return fromResponse(resp), nil
}

// GenerateJSON requests a JSON response constrained by schema.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *domain.Schema) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	cfg := c.config()
	cfg.ResponseMIMEType = "application/json"
	if schema != nil {
		cfg.ResponseSchema = toSchema(schema)
	}

	resp, err := c.api.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
	if err != nil {
		return "", domain.WrapError(domain.KindModel, "gemini.json", err)
	}
	return resp.Text(), nil
}

func (c *Client) config() *genai.GenerateContentConfig {
	temp := c.temperature
	return &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: c.maxTokens,
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WrapError(domain.KindModel, "gemini.ratelimit", err)
	}
	return nil
}
