// Package anthropic implements [campus.Provider] for the Anthropic Messages API.
//
// Requests are sent as JSON and the answer is read back as server-sent
// events. Only text content is exchanged: the assistant answers in markdown
// and every text_delta becomes one [campus.EventTextDelta].
package anthropic

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
	apiVersion       = "2023-06-01"
	messagesPath     = "/v1/messages"
)

// apiCacheControl marks a prompt caching breakpoint.
type apiCacheControl struct {
	Type string `json:"type"`
}

// apiRequest is the JSON body sent to the Messages API.
type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Stream      bool         `json:"stream"`
	System      []apiText    `json:"system,omitempty"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type apiMessage struct {
	Role    string    `json:"role"`
	Content []apiText `json:"content"`
}

type apiText struct {
	Type         string           `json:"type"`
	Text         string           `json:"text"`
	CacheControl *apiCacheControl `json:"cache_control,omitempty"`
}

// SSE payloads.

type sseMessageStart struct {
	Message struct {
		Usage struct {
			InputTokens int `json:"input_tokens"`
		} `json:"usage"`
	} `json:"message"`
}

type sseContentBlockDelta struct {
	Index int `json:"index"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
}

type sseMessageDelta struct {
	Delta struct {
		StopReason *string `json:"stop_reason"`
	} `json:"delta"`
	Usage struct {
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
