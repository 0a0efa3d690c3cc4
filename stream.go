package campus

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving deltas.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// String returns a lowercase name for the state.
func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Provider.Stream().
//
// State() returns the current StreamState. Callers can use it to determine
// whether Message() will return a partial or complete message.
//
// Message() returns the assembled AssistantMessage. Behavior by stream state:
//   - StreamStateComplete: complete message, nil error.
//   - StreamStateError: partial message, nil error. StopReason is StopError
//     for transport/protocol failures, StopAborted for context cancellation.
//   - StreamStateStreaming: partial message, nil error. Content reflects
//     deltas received so far.
//   - StreamStateNew: zero-value message, non-nil error.
//   - StreamStateClosed: partial message with StopReason = StopAborted.
//     Subsequent Next() calls return error.
//   - If a terminal state (Complete/Error) was reached before Close(),
//     Message() returns the terminal-state result.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Message() (AssistantMessage, error)
	Close() error
}

// Sink receives the text of one streaming response, in arrival order.
//
// OnChunk is called once per fragment. Exactly one of OnComplete, OnError
// and OnAbort is called afterwards; implementations must ignore chunks that
// arrive once one of them has been called.
type Sink interface {
	OnChunk(text string)
	OnComplete()
	OnError(message string)
	OnAbort()
}
