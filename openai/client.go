package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/campus"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Interface compliance check.
var _ campus.Provider = (*Client)(nil)

// Client implements [campus.Provider] for an OpenAI-compatible endpoint.
type Client struct {
	client openai.Client
	name   string
	model  string
}

// Option configures a [Client].
type Option func(*clientConfig)

type clientConfig struct {
	name    string
	model   string
	baseURL string
	reqOpts []option.RequestOption
}

// WithBaseURL sets the API base URL, e.g. [GroqBaseURL].
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithModel sets the default model ID.
func WithModel(model string) Option {
	return func(c *clientConfig) { c.model = model }
}

// WithName sets the provider name used in error messages.
func WithName(name string) Option {
	return func(c *clientConfig) { c.name = name }
}

// WithRequestOptions passes raw SDK options through, e.g. retry limits.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *clientConfig) { c.reqOpts = append(c.reqOpts, opts...) }
}

// New creates a [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := clientConfig{name: "openai", model: GroqModel}
	for _, o := range opts {
		o(&cfg)
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	reqOpts = append(reqOpts, cfg.reqOpts...)
	return &Client{
		client: openai.NewClient(reqOpts...),
		name:   cfg.name,
		model:  cfg.model,
	}
}

// NewGroq creates a [Client] preset for Groq.
func NewGroq(apiKey string, opts ...Option) *Client {
	base := []Option{WithName("groq"), WithBaseURL(GroqBaseURL), WithModel(GroqModel)}
	return New(apiKey, append(base, opts...)...)
}

// NewCerebras creates a [Client] preset for Cerebras.
func NewCerebras(apiKey string, opts ...Option) *Client {
	base := []Option{WithName("cerebras"), WithBaseURL(CerebrasBaseURL), WithModel(CerebrasModel)}
	return New(apiKey, append(base, opts...)...)
}

// Stream opens a streaming chat completion.
func (c *Client) Stream(ctx context.Context, req campus.Request) (campus.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
	s := c.client.Chat.Completions.NewStreaming(ctx, c.params(req))
	// NewStreaming reports request failures through Err.
	if err := s.Err(); err != nil {
		_ = s.Close()
		return nil, c.wrap(err)
	}
	return newStream(ctx, c.name, s), nil
}

func (c *Client) params(req campus.Request) openai.ChatCompletionNewParams {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	p := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model),
		Messages:  convertMessages(req.SystemPrompt, req.Messages),
		MaxTokens: openai.Int(int64(maxTokens)),
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	}
	if req.Temperature != nil {
		p.Temperature = openai.Float(*req.Temperature)
	}
	return p
}

func convertMessages(system string, msgs []campus.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)+1)
	if system != "" {
		result = append(result, openai.SystemMessage(system))
	}
	for _, msg := range msgs {
		if msg.Text() == "" {
			continue
		}
		switch msg.Role() {
		case campus.RoleUser:
			result = append(result, openai.UserMessage(msg.Text()))
		case campus.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Text()))
		}
	}
	return result
}

func (c *Client) wrap(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: HTTP %d: %w", c.name, apiErr.StatusCode, err)
	}
	return fmt.Errorf("%s: %w", c.name, err)
}
