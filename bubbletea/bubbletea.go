// Package bubbletea provides a Bubble Tea TUI for the campus assistant.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/stream"
)

// ChatFunc asks question within session and streams the answer into sink.
// It blocks until the answer completes or the context is cancelled.
// (*campus.Chat).Run satisfies it.
type ChatFunc func(ctx context.Context, session *campus.Session, question string, sink campus.Sink) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// SnapshotMsg delivers the latest state of the streaming answer.
type SnapshotMsg struct {
	Snapshot stream.Snapshot
}

// ChatDoneMsg signals that the chat function returned.
type ChatDoneMsg struct {
	Err error
}
