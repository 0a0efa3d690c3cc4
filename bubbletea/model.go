package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/markdown"
	"github.com/fwojciec/campus/stream"
)

var _ tea.Model = Model{}

// Title is shown in the status line.
const Title = "KCA Connect AI"

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	chat    ChatFunc
	session *campus.Session
	theme   campus.Theme
	styles  Styles

	blocks []MessageBlock
	answer *AssistantBlock // block of the answer being streamed
	buf    *stream.Buffer

	running bool
	cancel  context.CancelFunc
	snapCh  chan stream.Snapshot
	doneCh  chan error
	err     error
	ready   bool
}

// New creates a TUI Model that answers with chat and shows session.
func New(chat ChatFunc, session *campus.Session, cfg campus.RenderConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about fees, admissions, the calendar..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	theme := cfg.Theme()
	return Model{
		Input:   ti,
		chat:    chat,
		session: session,
		theme:   theme,
		styles:  NewStyles(theme),
	}
}

// Running returns whether an answer is streaming.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		if m.answer != nil {
			m.answer.Apply(msg.Snapshot)
			m.refresh()
		}
		if m.snapCh != nil {
			return m, listen(m.snapCh, m.doneCh)
		}
		return m, nil

	case ChatDoneMsg:
		m = m.finish(msg.Err)
		m.refresh()
		cmd := m.Input.Focus()
		return m, cmd
	}

	// Viewport always receives messages for scrolling (keyboard and mouse).
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderSession()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.running && m.cancel != nil {
			m.cancel()
		}
		return m, nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submit(text)
	}

	// When idle, pass keys to both the input (for typing) and the viewport
	// (for scrolling). Character keys only go to the input.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.snapCh = make(chan stream.Snapshot, 1)
	m.doneCh = make(chan error, 1)
	m.running = true

	snapCh := m.snapCh
	m.buf = stream.New(stream.WithRenderFunc(func(s stream.Snapshot) {
		publish(snapCh, s)
	}))
	m.answer = NewAssistantBlock(m.theme, m.styles)
	m.answer.Apply(m.buf.Snapshot())
	m.blocks = append(m.blocks, NewUserMessageBlock(text, m.styles), m.answer)
	m.refresh()

	m.Input.Blur()

	return m, tea.Batch(
		startChat(m.chat, ctx, m.session, text, m.buf, m.doneCh),
		listen(m.snapCh, m.doneCh),
	)
}

// finish applies the final state of the answer once the chat function has
// returned.
func (m Model) finish(err error) Model {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	m.snapCh = nil
	m.doneCh = nil

	if err != nil && !errors.Is(err, context.Canceled) {
		m.err = err
	}
	if m.answer == nil {
		return m
	}

	// The buffer may still be streaming if the chat function returned
	// without signalling the sink.
	if err != nil {
		m.buf.OnError(err.Error())
	} else {
		m.buf.OnComplete()
	}
	snap := m.buf.Snapshot()
	m.answer.Apply(snap)
	if snap.Text == "" && snap.Outcome != stream.OutcomeCompleted {
		m.blocks = m.blocks[:len(m.blocks)-1]
	}
	if m.err != nil {
		m.blocks = append(m.blocks, NewErrorBlock(m.err.Error(), m.styles))
	}
	m.answer = nil
	m.buf = nil
	return m
}

// renderSession creates blocks from existing session messages.
func (m Model) renderSession() Model {
	for _, msg := range m.session.Messages {
		switch msg := msg.(type) {
		case campus.UserMessage:
			m.blocks = append(m.blocks, NewUserMessageBlock(msg.Content, m.styles))
		case campus.AssistantMessage:
			block := NewAssistantBlock(m.theme, m.styles)
			block.SetBlocks(markdown.Format(msg.Content, false))
			block.aborted = msg.StopReason == campus.StopAborted
			m.blocks = append(m.blocks, block)
		}
	}
	return m
}

func (m *Model) refresh() {
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString(blockSeparator(m.blocks[i-1], block))
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.running {
		return m.styles.Muted.Render("Generating... Esc to stop")
	}
	return m.styles.Accent.Render(Title) + m.styles.Muted.Render("  Enter to send, Ctrl+C to quit")
}

// startChat runs the chat function in a goroutine and signals completion.
func startChat(chat ChatFunc, ctx context.Context, session *campus.Session, question string, sink campus.Sink, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		doneCh <- chat(ctx, session, question, sink)
		return nil
	}
}

// publish hands s to the model, replacing a snapshot it has not read yet.
func publish(ch chan stream.Snapshot, s stream.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// listen waits for the next snapshot or for the chat function to return.
func listen(snapCh <-chan stream.Snapshot, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-snapCh:
			return SnapshotMsg{Snapshot: s}
		case err := <-doneCh:
			return ChatDoneMsg{Err: err}
		}
	}
}
