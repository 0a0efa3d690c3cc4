// Package http serves the chat assistant over HTTP and consumes that API as a
// campus.Provider.
//
// Streaming answers use server-sent events. Each chunk produces a "delta"
// event with the raw text and a "blocks" event with the display blocks of
// the answer so far; the stream ends with exactly one "done" or "error"
// event.
package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// maxRequestBodySize caps JSON request bodies.
const maxRequestBodySize = 1 << 20

// maxSessionIDLen bounds client-chosen session ids.
const maxSessionIDLen = 128

// SSE event names.
const (
	eventDelta  = "delta"
	eventBlocks = "blocks"
	eventDone   = "done"
	eventError  = "error"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type deltaEvent struct {
	Text string `json:"text"`
}

type doneEvent struct {
	SessionID  string `json:"session_id"`
	StopReason string `json:"stop_reason"`
}

type errorEvent struct {
	Message string `json:"message"`
}

type renderRequest struct {
	Text      string `json:"text"`
	Streaming bool   `json:"streaming"`
	Format    string `json:"format"`
}

type sessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
