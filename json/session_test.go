package json_test

import (
	"testing"
	"time"

	"github.com/fwojciec/campus"
	campusjson "github.com/fwojciec/campus/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSession() campus.Session {
	created := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	return campus.Session{
		ID:        "sess-123",
		Title:     "When do exams start?",
		CreatedAt: created,
		UpdatedAt: created.Add(5 * time.Minute),
		Messages: []campus.Message{
			campus.AssistantMessage{
				Content:    "Hello! I'm KCA Connect AI.",
				StopReason: campus.StopEndTurn,
				Timestamp:  created,
			},
			campus.UserMessage{Content: "When do exams start?", Timestamp: created.Add(time.Minute)},
			campus.AssistantMessage{
				Content:       "## Exams\n- Start **May 4**",
				StopReason:    campus.StopLength,
				RawStopReason: "max_tokens",
				Usage:         campus.Usage{InputTokens: 150, OutputTokens: 42},
				Timestamp:     created.Add(2 * time.Minute),
			},
		},
	}
}

func TestMarshalSession_RoundTrip(t *testing.T) {
	t.Parallel()
	session := sampleSession()

	data, err := campusjson.MarshalSession(session)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 1`)
	assert.Contains(t, string(data), `"role": "assistant"`)

	got, err := campusjson.UnmarshalSession(data)
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestUnmarshalSession_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `{`, "unmarshal envelope"},
		{"version", `{"version":2}`, "unsupported envelope version: 2"},
		{"role", `{"version":1,"messages":[{"role":"system","content":"x"}]}`, `unknown message role: "system"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := campusjson.UnmarshalSession([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnmarshalSession_MissingOptionalFields(t *testing.T) {
	t.Parallel()
	got, err := campusjson.UnmarshalSession([]byte(`{"version":1,"id":"a","messages":[{"role":"assistant","content":"hi"}]}`))
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, campus.AssistantMessage{Content: "hi"}, got.Messages[0])
}
