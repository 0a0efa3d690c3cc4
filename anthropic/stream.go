package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/campus"
)

// stream implements [campus.Stream] by parsing SSE events from an HTTP response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	state   campus.StreamState
	text    strings.Builder
	msg     campus.AssistantMessage
	err     error // terminal error, if any
}

// Interface compliance check.
var _ campus.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &stream{
		body:    body,
		scanner: sc,
		ctx:     ctx,
		state:   campus.StreamStateNew,
	}
}

// Next reads the next text delta from the SSE stream.
// Returns io.EOF when the stream completes normally.
func (s *stream) Next() (campus.Event, error) {
	switch s.state {
	case campus.StreamStateComplete:
		return nil, io.EOF
	case campus.StreamStateError:
		return nil, s.err
	case campus.StreamStateClosed:
		return nil, fmt.Errorf("anthropic: %w", campus.ErrStreamClosed)
	}

	for {
		eventType, data, err := s.readSSEEvent()
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}
		s.state = campus.StreamStateStreaming

		evt, err := s.processEvent(eventType, data)
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
func (s *stream) State() campus.StreamState {
	return s.state
}

// Message returns the assembled AssistantMessage.
func (s *stream) Message() (campus.AssistantMessage, error) {
	if s.state == campus.StreamStateNew {
		return campus.AssistantMessage{}, fmt.Errorf("anthropic: %w", campus.ErrStreamNotReady)
	}
	msg := s.msg
	msg.Content = s.text.String()
	return msg, nil
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != campus.StreamStateComplete && s.state != campus.StreamStateError {
		s.state = campus.StreamStateClosed
		s.msg.StopReason = campus.StopAborted
		s.msg.RawStopReason = "aborted"
	}
	return s.body.Close()
}

func (s *stream) terminate(err error) {
	s.state = campus.StreamStateError
	switch {
	case s.ctx.Err() != nil:
		s.err = fmt.Errorf("anthropic: %w", s.ctx.Err())
		s.msg.StopReason = campus.StopAborted
		s.msg.RawStopReason = "aborted"
	case err == io.EOF:
		// message_stop completes the stream; a bare EOF means it was cut off.
		s.err = fmt.Errorf("anthropic: unexpected end of stream")
		s.msg.StopReason = campus.StopError
		s.msg.RawStopReason = "error"
	default:
		s.err = err
		s.msg.StopReason = campus.StopError
		s.msg.RawStopReason = "error"
	}
}

// readSSEEvent reads lines until a complete SSE event is assembled.
func (s *stream) readSSEEvent() (string, string, error) {
	var eventType string
	var data strings.Builder

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			if data.Len() > 0 {
				return eventType, data.String(), nil
			}
			continue
		}
		if v, ok := strings.CutPrefix(line, "event:"); ok {
			eventType = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "data:"); ok {
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(v, " "))
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", "", fmt.Errorf("anthropic: %w", err)
	}
	if data.Len() > 0 {
		return eventType, data.String(), nil
	}
	return "", "", io.EOF
}

// processEvent maps an SSE event to a semantic event, or nil for events
// that only update bookkeeping.
func (s *stream) processEvent(eventType, data string) (campus.Event, error) {
	switch eventType {
	case "message_start":
		var evt sseMessageStart
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return nil, fmt.Errorf("anthropic: failed to parse message_start: %w", err)
		}
		s.msg.Usage.InputTokens = evt.Message.Usage.InputTokens
		return nil, nil
	case "content_block_delta":
		var evt sseContentBlockDelta
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return nil, fmt.Errorf("anthropic: failed to parse content_block_delta: %w", err)
		}
		if evt.Delta.Type != "text_delta" || evt.Delta.Text == "" {
			return nil, nil
		}
		s.text.WriteString(evt.Delta.Text)
		return campus.EventTextDelta{Delta: evt.Delta.Text}, nil
	case "message_delta":
		var evt sseMessageDelta
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return nil, fmt.Errorf("anthropic: failed to parse message_delta: %w", err)
		}
		s.msg.Usage.OutputTokens = evt.Usage.OutputTokens
		if evt.Delta.StopReason != nil {
			s.msg.RawStopReason = *evt.Delta.StopReason
			s.msg.StopReason = mapStopReason(*evt.Delta.StopReason)
		}
		return nil, nil
	case "message_stop":
		s.state = campus.StreamStateComplete
		return nil, nil
	case "error":
		var evt apiError
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			return nil, fmt.Errorf("anthropic: failed to parse error event: %w", err)
		}
		return nil, fmt.Errorf("anthropic: %s: %s", evt.Error.Type, evt.Error.Message)
	default:
		// ping, content_block_start/stop and unknown events.
		return nil, nil
	}
}

func mapStopReason(raw string) campus.StopReason {
	switch raw {
	case "end_turn", "stop_sequence":
		return campus.StopEndTurn
	case "max_tokens":
		return campus.StopLength
	default:
		return campus.StopUnknown
	}
}
