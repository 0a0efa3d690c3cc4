package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.Provider = (*Client)(nil)

// Client implements [campus.Provider] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithModel sets the model used when a request does not name one.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends a streaming request to the Messages API.
func (c *Client) Stream(ctx context.Context, req campus.Request) (campus.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return newStream(ctx, resp.Body), nil
}

func (c *Client) buildRequest(req campus.Request) apiRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	r := apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Stream:      true,
		Messages:    convertMessages(req.Messages),
		Temperature: req.Temperature,
	}
	// Cache breakpoint on the system prompt, which carries the passages.
	if req.SystemPrompt != "" {
		r.System = []apiText{{
			Type:         "text",
			Text:         req.SystemPrompt,
			CacheControl: &apiCacheControl{Type: "ephemeral"},
		}}
	}
	return r
}

// convertMessages maps the conversation onto API messages. Empty assistant
// turns are skipped since the API rejects empty text blocks.
func convertMessages(msgs []campus.Message) []apiMessage {
	result := make([]apiMessage, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Text() == "" {
			continue
		}
		result = append(result, apiMessage{
			Role:    string(msg.Role()),
			Content: []apiText{{Type: "text", Text: msg.Text()}},
		})
	}
	return result
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil || e.Error.Message == "" {
		return fmt.Errorf("anthropic: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return fmt.Errorf("anthropic: %s: %s", e.Error.Type, e.Error.Message)
}
