package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSSE = "event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"usage\":{\"input_tokens\":0,\"output_tokens\":0}}}\n\n" +
	"event: message_delta\ndata: {\"type\":\"message_delta\",\"delta\":{\"stop_reason\":\"end_turn\"},\"usage\":{\"output_tokens\":0}}\n\n" +
	"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n"

func TestClient_RequestFormat(t *testing.T) {
	t.Parallel()

	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)

		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("Anthropic-Version"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(minimalSSE))
	}))
	defer srv.Close()

	temp := 0.7
	client := anthropic.New("test-api-key", anthropic.WithBaseURL(srv.URL+"/"))
	s, err := client.Stream(context.Background(), campus.Request{
		Model:        "claude-opus-4-20250514",
		SystemPrompt: "You are KCA Connect AI.",
		Messages: []campus.Message{
			campus.AssistantMessage{Content: ""},
			campus.UserMessage{Content: "When do exams start?"},
			campus.AssistantMessage{Content: "In **May**."},
			campus.UserMessage{Content: "Thanks"},
		},
		MaxTokens:   1024,
		Temperature: &temp,
	})
	require.NoError(t, err)
	defer s.Close()

	var body map[string]any
	require.NoError(t, json.Unmarshal(captured, &body))

	assert.Equal(t, "claude-opus-4-20250514", body["model"])
	assert.Equal(t, float64(1024), body["max_tokens"])
	assert.Equal(t, true, body["stream"])
	assert.Equal(t, 0.7, body["temperature"])

	system := body["system"].([]any)
	require.Len(t, system, 1)
	sys0 := system[0].(map[string]any)
	assert.Equal(t, "You are KCA Connect AI.", sys0["text"])
	assert.Equal(t, map[string]any{"type": "ephemeral"}, sys0["cache_control"])

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 3, "empty assistant turns are dropped")

	msg0 := msgs[0].(map[string]any)
	assert.Equal(t, "user", msg0["role"])
	content0 := msg0["content"].([]any)
	require.Len(t, content0, 1)
	block0 := content0[0].(map[string]any)
	assert.Equal(t, "text", block0["type"])
	assert.Equal(t, "When do exams start?", block0["text"])

	msg1 := msgs[1].(map[string]any)
	assert.Equal(t, "assistant", msg1["role"])
}

func TestClient_Defaults(t *testing.T) {
	t.Parallel()

	t.Run("built-in model", func(t *testing.T) {
		t.Parallel()
		body := captureRequest(t)
		assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
		assert.Equal(t, float64(4096), body["max_tokens"])
		assert.NotContains(t, body, "system")
		assert.NotContains(t, body, "temperature")
	})

	t.Run("client model", func(t *testing.T) {
		t.Parallel()
		body := captureRequest(t, anthropic.WithModel("claude-haiku"))
		assert.Equal(t, "claude-haiku", body["model"])
	})
}

func captureRequest(t *testing.T, opts ...anthropic.Option) map[string]any {
	t.Helper()
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(minimalSSE))
	}))
	t.Cleanup(srv.Close)

	opts = append(opts, anthropic.WithBaseURL(srv.URL))
	s, err := anthropic.New("k", opts...).Stream(context.Background(), campus.Request{
		Messages: []campus.Message{campus.UserMessage{Content: "Hi"}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var body map[string]any
	require.NoError(t, json.Unmarshal(captured, &body))
	return body
}

func TestClient_InvalidRequest(t *testing.T) {
	t.Parallel()
	client := anthropic.New("k", anthropic.WithBaseURL("http://127.0.0.1:0"))
	_, err := client.Stream(context.Background(), campus.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, campus.ErrValidation)
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens: integer above 1 expected"}}`))
	}))
	defer srv.Close()

	client := anthropic.New("test-key", anthropic.WithBaseURL(srv.URL))
	_, err := client.Stream(context.Background(), campus.Request{
		Messages: []campus.Message{campus.UserMessage{Content: "Hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_request_error")
	assert.Contains(t, err.Error(), "max_tokens")
}

func TestClient_HTTPErrorNonJSON(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	client := anthropic.New("test-key", anthropic.WithBaseURL(srv.URL))
	_, err := client.Stream(context.Background(), campus.Request{
		Messages: []campus.Message{campus.UserMessage{Content: "Hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "internal server error")
}
