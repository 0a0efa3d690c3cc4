package openai

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/campus"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"
)

// stream implements [campus.Stream] over an SDK chunk stream.
type stream struct {
	ctx   context.Context
	name  string
	sse   *ssestream.Stream[openai.ChatCompletionChunk]
	state campus.StreamState
	text  strings.Builder
	raw   string
	msg   campus.AssistantMessage
	err   error
}

// Interface compliance check.
var _ campus.Stream = (*stream)(nil)

func newStream(ctx context.Context, name string, sse *ssestream.Stream[openai.ChatCompletionChunk]) *stream {
	return &stream{ctx: ctx, name: name, sse: sse, state: campus.StreamStateNew}
}

func (s *stream) Next() (campus.Event, error) {
	switch s.state {
	case campus.StreamStateComplete:
		return nil, io.EOF
	case campus.StreamStateError:
		return nil, s.err
	case campus.StreamStateClosed:
		return nil, fmt.Errorf("%s: %w", s.name, campus.ErrStreamClosed)
	}

	for s.sse.Next() {
		s.state = campus.StreamStateStreaming
		chunk := s.sse.Current()
		if chunk.Usage.PromptTokens > 0 || chunk.Usage.CompletionTokens > 0 {
			s.msg.Usage = campus.Usage{
				InputTokens:  int(chunk.Usage.PromptTokens),
				OutputTokens: int(chunk.Usage.CompletionTokens),
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			s.raw = choice.FinishReason
		}
		if choice.Delta.Content != "" {
			s.text.WriteString(choice.Delta.Content)
			return campus.EventTextDelta{Delta: choice.Delta.Content}, nil
		}
	}

	if err := s.sse.Err(); err != nil {
		s.state = campus.StreamStateError
		if s.ctx.Err() != nil {
			s.err = fmt.Errorf("%s: %w", s.name, s.ctx.Err())
			s.msg.StopReason = campus.StopAborted
			s.msg.RawStopReason = "aborted"
		} else {
			s.err = fmt.Errorf("%s: %w", s.name, err)
			s.msg.StopReason = campus.StopError
			s.msg.RawStopReason = "error"
		}
		return nil, s.err
	}

	s.state = campus.StreamStateComplete
	s.msg.StopReason = mapFinishReason(s.raw)
	s.msg.RawStopReason = s.raw
	if s.raw == "" {
		s.msg.RawStopReason = "end_turn"
	}
	return nil, io.EOF
}

func mapFinishReason(raw string) campus.StopReason {
	switch raw {
	case "", "stop":
		return campus.StopEndTurn
	case "length":
		return campus.StopLength
	default:
		return campus.StopUnknown
	}
}

func (s *stream) State() campus.StreamState {
	return s.state
}

func (s *stream) Message() (campus.AssistantMessage, error) {
	if s.state == campus.StreamStateNew {
		return campus.AssistantMessage{}, fmt.Errorf("%s: %w", s.name, campus.ErrStreamNotReady)
	}
	msg := s.msg
	msg.Content = s.text.String()
	return msg, nil
}

func (s *stream) Close() error {
	if s.state != campus.StreamStateComplete && s.state != campus.StreamStateError {
		s.state = campus.StreamStateClosed
		s.msg.StopReason = campus.StopAborted
		s.msg.RawStopReason = "aborted"
	}
	return s.sse.Close()
}
