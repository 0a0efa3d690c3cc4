package mock

import (
	"sync"

	"github.com/fwojciec/campus"
)

// Interface compliance check.
var _ campus.Sink = (*Sink)(nil)

// Sink is a campus.Sink that records every call. It is safe for concurrent
// use. The zero value is ready to use.
type Sink struct {
	mu       sync.Mutex
	chunks   []string
	terminal []string
	errMsg   string
}

// OnChunk records text.
func (s *Sink) OnChunk(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, text)
}

// OnComplete records a "complete" terminal call.
func (s *Sink) OnComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminal = append(s.terminal, "complete")
}

// OnError records an "error" terminal call and its message.
func (s *Sink) OnError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminal = append(s.terminal, "error")
	s.errMsg = message
}

// OnAbort records an "abort" terminal call.
func (s *Sink) OnAbort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminal = append(s.terminal, "abort")
}

// Chunks returns the recorded chunks in order.
func (s *Sink) Chunks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.chunks...)
}

// Terminal returns the recorded terminal calls in order.
func (s *Sink) Terminal() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.terminal...)
}

// ErrorMessage returns the message passed to the last OnError call.
func (s *Sink) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}
