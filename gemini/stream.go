package gemini

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/fwojciec/campus"
	"google.golang.org/genai"
)

// stream implements [campus.Stream] by pulling from the genai streaming iterator.
type stream struct {
	ctx    context.Context
	pull   func() (*genai.GenerateContentResponse, error, bool)
	stop   func()
	state  campus.StreamState
	text   strings.Builder
	finish genai.FinishReason
	msg    campus.AssistantMessage
	err    error
}

// Interface compliance check.
var _ campus.Stream = (*stream)(nil)

// NewStreamFromIter wraps a genai response iterator as a [campus.Stream].
// Exported for testing.
func NewStreamFromIter(ctx context.Context, seq iter.Seq2[*genai.GenerateContentResponse, error]) campus.Stream {
	next, stop := iter.Pull2(seq)
	return &stream{
		ctx:   ctx,
		pull:  next,
		stop:  stop,
		state: campus.StreamStateNew,
	}
}

func (s *stream) Next() (campus.Event, error) {
	switch s.state {
	case campus.StreamStateComplete:
		return nil, io.EOF
	case campus.StreamStateError:
		return nil, s.err
	case campus.StreamStateClosed:
		return nil, fmt.Errorf("gemini: %w", campus.ErrStreamClosed)
	}

	for {
		if err := s.ctx.Err(); err != nil {
			s.fail(fmt.Errorf("gemini: %w", err), campus.StopAborted, "aborted")
			return nil, s.err
		}
		resp, err, ok := s.pull()
		if !ok {
			s.complete()
			return nil, io.EOF
		}
		s.state = campus.StreamStateStreaming
		if err != nil {
			if s.ctx.Err() != nil {
				s.fail(fmt.Errorf("gemini: %w", s.ctx.Err()), campus.StopAborted, "aborted")
			} else {
				s.fail(fmt.Errorf("gemini: %w", err), campus.StopError, "error")
			}
			return nil, s.err
		}
		if resp == nil {
			continue
		}
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && len(resp.Candidates) == 0 {
			s.fail(fmt.Errorf("gemini: prompt blocked: %s", fb.BlockReason), campus.StopError, string(fb.BlockReason))
			return nil, s.err
		}
		s.usage(resp.UsageMetadata)
		if delta := s.chunkText(resp); delta != "" {
			s.text.WriteString(delta)
			return campus.EventTextDelta{Delta: delta}, nil
		}
	}
}

// chunkText concatenates the visible text parts of the first candidate.
// Thought parts are skipped.
func (s *stream) chunkText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.FinishReason != "" {
		s.finish = cand.FinishReason
	}
	if cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// usage records the latest metadata; Gemini reports running totals.
func (s *stream) usage(md *genai.GenerateContentResponseUsageMetadata) {
	if md == nil {
		return
	}
	s.msg.Usage = campus.Usage{
		InputTokens:  int(md.PromptTokenCount),
		OutputTokens: int(md.CandidatesTokenCount),
	}
}

func (s *stream) complete() {
	s.state = campus.StreamStateComplete
	switch s.finish {
	case "", genai.FinishReasonStop:
		s.msg.StopReason = campus.StopEndTurn
		s.msg.RawStopReason = "end_turn"
		if s.finish != "" {
			s.msg.RawStopReason = string(s.finish)
		}
	case genai.FinishReasonMaxTokens:
		s.msg.StopReason = campus.StopLength
		s.msg.RawStopReason = string(s.finish)
	default:
		s.msg.StopReason = campus.StopUnknown
		s.msg.RawStopReason = string(s.finish)
	}
}

func (s *stream) fail(err error, reason campus.StopReason, raw string) {
	s.state = campus.StreamStateError
	s.err = err
	s.msg.StopReason = reason
	s.msg.RawStopReason = raw
}

func (s *stream) State() campus.StreamState {
	return s.state
}

func (s *stream) Message() (campus.AssistantMessage, error) {
	if s.state == campus.StreamStateNew {
		return campus.AssistantMessage{}, fmt.Errorf("gemini: %w", campus.ErrStreamNotReady)
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
	s.stop()
	return nil
}
