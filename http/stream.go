package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/campus"
)

// sseStream implements [campus.Stream] over the server's SSE chat events.
type sseStream struct {
	body      io.ReadCloser
	events    *eventReader
	ctx       context.Context
	onSession func(string)
	state     campus.StreamState
	text      strings.Builder
	msg       campus.AssistantMessage
	err       error
}

var _ campus.Stream = (*sseStream)(nil)

func newStream(ctx context.Context, body io.ReadCloser, onSession func(string)) *sseStream {
	return &sseStream{
		body:      body,
		events:    newEventReader(body),
		ctx:       ctx,
		onSession: onSession,
		state:     campus.StreamStateNew,
	}
}

// Next returns the next text delta. Block snapshots are skipped; callers
// format the text themselves.
func (s *sseStream) Next() (campus.Event, error) {
	switch s.state {
	case campus.StreamStateComplete:
		return nil, io.EOF
	case campus.StreamStateError:
		return nil, s.err
	case campus.StreamStateClosed:
		return nil, fmt.Errorf("http: %w", campus.ErrStreamClosed)
	}

	for {
		event, data, err := s.events.next()
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}
		s.state = campus.StreamStateStreaming

		evt, err := s.process(event, data)
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}
		if s.state == campus.StreamStateComplete {
			return nil, io.EOF
		}
		if evt != nil {
			return evt, nil
		}
	}
}

// State returns the current stream state.
func (s *sseStream) State() campus.StreamState {
	return s.state
}

// Message returns the answer assembled so far.
func (s *sseStream) Message() (campus.AssistantMessage, error) {
	if s.state == campus.StreamStateNew {
		return campus.AssistantMessage{}, fmt.Errorf("http: %w", campus.ErrStreamNotReady)
	}
	msg := s.msg
	msg.Content = s.text.String()
	return msg, nil
}

// Close closes the response body.
func (s *sseStream) Close() error {
	if s.state != campus.StreamStateComplete && s.state != campus.StreamStateError {
		s.state = campus.StreamStateClosed
		s.msg.StopReason = campus.StopAborted
		s.msg.RawStopReason = "aborted"
	}
	return s.body.Close()
}

func (s *sseStream) terminate(err error) {
	s.state = campus.StreamStateError
	switch {
	case s.ctx.Err() != nil:
		s.err = fmt.Errorf("http: %w", s.ctx.Err())
		s.msg.StopReason = campus.StopAborted
		s.msg.RawStopReason = "aborted"
	case errors.Is(err, io.EOF):
		s.err = errors.New("http: unexpected end of stream")
		s.msg.StopReason = campus.StopError
		s.msg.RawStopReason = "error"
	default:
		s.err = err
		s.msg.StopReason = campus.StopError
		s.msg.RawStopReason = "error"
	}
}

func (s *sseStream) process(event, data string) (campus.Event, error) {
	switch event {
	case eventDelta:
		var evt deltaEvent
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return nil, fmt.Errorf("http: failed to parse delta: %w", err)
		}
		if evt.Text == "" {
			return nil, nil
		}
		s.text.WriteString(evt.Text)
		return campus.EventTextDelta{Delta: evt.Text}, nil
	case eventDone:
		var evt doneEvent
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return nil, fmt.Errorf("http: failed to parse done: %w", err)
		}
		s.onSession(evt.SessionID)
		s.msg.RawStopReason = evt.StopReason
		s.msg.StopReason = stopReason(evt.StopReason)
		s.state = campus.StreamStateComplete
		return nil, nil
	case eventError:
		var evt errorEvent
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return nil, fmt.Errorf("http: failed to parse error event: %w", err)
		}
		return nil, fmt.Errorf("http: server: %s", evt.Message)
	default:
		// blocks and unknown events.
		return nil, nil
	}
}

func stopReason(raw string) campus.StopReason {
	switch r := campus.StopReason(raw); r {
	case campus.StopEndTurn, campus.StopLength:
		return r
	case "":
		return campus.StopEndTurn
	default:
		return campus.StopUnknown
	}
}
