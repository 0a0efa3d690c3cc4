package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.Provider = (*Client)(nil)

// Client implements campus.Provider against a chat server. The server keeps
// the conversation, so only the last question of each request is sent; the
// session ID returned by the first answer is reused for later ones.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	sessionID string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithSessionID continues an existing server session.
func WithSessionID(id string) ClientOption {
	return func(cl *Client) { cl.sessionID = id }
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SessionID returns the server session the client is attached to, or ""
// before the first answer.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

func (c *Client) setSessionID(id string) {
	if id == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
}

// Stream asks the last user message of req. Model, system prompt and
// sampling settings are decided by the server.
func (c *Client) Stream(ctx context.Context, req campus.Request) (campus.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	question := req.Messages[len(req.Messages)-1].Text()

	body, err := json.Marshal(chatRequest{Message: question, SessionID: c.SessionID()})
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/stream", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return newStream(ctx, resp.Body, c.setSessionID), nil
}

func parseHTTPError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxRequestBodySize))
	var e errorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return fmt.Errorf("http: HTTP %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("http: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}
