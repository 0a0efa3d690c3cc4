package mock

import (
	"io"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.Stream = (*Stream)(nil)

// Stream is a test double for campus.Stream.
// Set the function fields for the methods you need. NextFn and MessageFn
// panic when nil to catch missing setup. CloseFn and StateFn are nil-safe
// (no-op and zero value) because callers commonly defer stream.Close().
type Stream struct {
	NextFn    func() (campus.Event, error)
	StateFn   func() campus.StreamState
	MessageFn func() (campus.AssistantMessage, error)
	CloseFn   func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (campus.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() campus.StreamState {
	if s.StateFn == nil {
		return campus.StreamStateNew
	}
	return s.StateFn()
}

// Message delegates to MessageFn.
func (s *Stream) Message() (campus.AssistantMessage, error) {
	return s.MessageFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// TextStream returns a Stream that yields one EventTextDelta per delta and
// then io.EOF. Message reports StopEndTurn with the concatenated text.
func TextStream(deltas ...string) *Stream {
	i := 0
	var content string
	return &Stream{
		NextFn: func() (campus.Event, error) {
			if i >= len(deltas) {
				return nil, io.EOF
			}
			d := deltas[i]
			i++
			content += d
			return campus.EventTextDelta{Delta: d}, nil
		},
		MessageFn: func() (campus.AssistantMessage, error) {
			return campus.AssistantMessage{Content: content, StopReason: campus.StopEndTurn}, nil
		},
	}
}
