package campus_test

import (
	"testing"

	"github.com/fwojciec/campus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	user := []campus.Message{campus.UserMessage{Content: "hi"}}

	tests := []struct {
		name    string
		req     campus.Request
		wantErr bool
	}{
		{name: "minimal", req: campus.Request{Messages: user}},
		{name: "temperature zero", req: campus.Request{Messages: user, Temperature: ptr(0.0)}},
		{name: "temperature two", req: campus.Request{Messages: user, Temperature: ptr(2.0)}},
		{name: "temperature negative", req: campus.Request{Messages: user, Temperature: ptr(-0.1)}, wantErr: true},
		{name: "temperature too high", req: campus.Request{Messages: user, Temperature: ptr(2.1)}, wantErr: true},
		{name: "negative max tokens", req: campus.Request{Messages: user, MaxTokens: -1}, wantErr: true},
		{name: "no messages", req: campus.Request{}, wantErr: true},
		{
			name: "last message from assistant",
			req: campus.Request{Messages: []campus.Message{
				campus.UserMessage{Content: "hi"},
				campus.AssistantMessage{Content: "hello"},
			}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, campus.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
