package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/campus"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ campus.Provider = (*Client)(nil)

// Client implements [campus.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Stream sends a streaming request to the Gemini API.
func (c *Client) Stream(ctx context.Context, req campus.Request) (campus.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	model := req.Model
	if model == "" {
		model = c.model
	}
	iter := c.client.Models.GenerateContentStream(ctx, model, ConvertMessages(req.Messages), BuildConfig(req))
	return NewStreamFromIter(ctx, iter), nil
}

// BuildConfig maps request parameters onto a generation config.
// Exported for testing.
func BuildConfig(req campus.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	return config
}

// ConvertMessages converts campus messages to genai contents. Empty
// messages are dropped. Exported for testing.
func ConvertMessages(msgs []campus.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Text() == "" {
			continue
		}
		content := genai.NewContentFromText(msg.Text(), genai.RoleUser)
		if msg.Role() == campus.RoleAssistant {
			content = genai.NewContentFromText(msg.Text(), genai.RoleModel)
		}
		result = append(result, content)
	}
	return result
}
