// Package stream accumulates the chunks of one streaming answer and keeps
// its display blocks current.
package stream

import (
	"strings"
	"sync"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/markdown"
)

// State is the lifecycle of one answer. It moves from StateStreaming to
// StateComplete exactly once.
type State int

const (
	StateStreaming State = iota
	StateComplete
)

// String returns a lowercase name for the state.
func (s State) String() string {
	if s == StateComplete {
		return "complete"
	}
	return "streaming"
}

// Outcome records which signal completed the answer.
type Outcome int

const (
	OutcomeNone      Outcome = iota // Still streaming.
	OutcomeCompleted                // OnComplete.
	OutcomeFailed                   // OnError.
	OutcomeAborted                  // OnAbort.
)

// Snapshot is a consistent view of a Buffer.
type Snapshot struct {
	Text    string
	State   State
	Outcome Outcome
	Err     string // OnError message, empty otherwise
	Blocks  []campus.Block

	// Discard is set when the answer failed before any text arrived and
	// should not be kept in history.
	Discard bool
}

// RenderFunc receives a snapshot after every change.
type RenderFunc func(Snapshot)

// Option configures a Buffer.
type Option func(*Buffer)

// WithRenderFunc registers fn to be called after every appended chunk and
// once more when the answer completes. fn runs while the Buffer is locked,
// which serializes render passes; it must not call back into the Buffer.
func WithRenderFunc(fn RenderFunc) Option {
	return func(b *Buffer) { b.render = fn }
}

// Buffer owns the accumulated text and state of one answer. It implements
// campus.Sink and is safe for concurrent use. Chunks that arrive after the
// answer completed, failed or was aborted are ignored.
type Buffer struct {
	mu        sync.Mutex
	text      strings.Builder
	state     State
	outcome   Outcome
	err       string
	blocks    []campus.Block
	formatter markdown.Formatter
	render    RenderFunc
}

// Interface compliance check.
var _ campus.Sink = (*Buffer)(nil)

// New creates a Buffer for a new answer.
func New(opts ...Option) *Buffer {
	b := &Buffer{}
	for _, o := range opts {
		o(b)
	}
	b.blocks = b.formatter.Format("", true)
	return b
}

// OnChunk appends text and reformats the whole answer.
func (b *Buffer) OnChunk(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != StateStreaming || text == "" {
		return
	}
	b.text.WriteString(text)
	b.update()
}

// OnComplete finalizes the answer.
func (b *Buffer) OnComplete() { b.finish(OutcomeCompleted, "") }

// OnError finalizes the answer with message. Partial text is kept.
func (b *Buffer) OnError(message string) { b.finish(OutcomeFailed, message) }

// OnAbort finalizes a cancelled answer. Partial text is kept.
func (b *Buffer) OnAbort() { b.finish(OutcomeAborted, "") }

func (b *Buffer) finish(outcome Outcome, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateComplete {
		return
	}
	b.state = StateComplete
	b.outcome = outcome
	b.err = message
	b.update()
}

// update reformats and renders. Callers hold b.mu.
func (b *Buffer) update() {
	b.blocks = b.formatter.Format(b.text.String(), b.state == StateStreaming)
	if b.render != nil {
		b.render(b.snapshot())
	}
}

// Snapshot returns the current state of the answer.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Buffer) snapshot() Snapshot {
	text := b.text.String()
	return Snapshot{
		Text:    text,
		State:   b.state,
		Outcome: b.outcome,
		Err:     b.err,
		Blocks:  b.blocks,
		Discard: b.outcome == OutcomeFailed && text == "",
	}
}

// Reset clears the buffer for a new answer.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text.Reset()
	b.state = StateStreaming
	b.outcome = OutcomeNone
	b.err = ""
	b.formatter.Reset()
	b.blocks = b.formatter.Format("", true)
}
