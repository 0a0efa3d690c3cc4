package campus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Chat answers student questions: it augments each question with retrieved
// document context, streams the provider's answer into a Sink, and records
// both messages in the session.
type Chat struct {
	provider     Provider
	retriever    Retriever
	store        SessionStore
	logger       *slog.Logger
	now          func() time.Time
	systemPrompt string
	model        string
	maxTokens    int
	temperature  *float64
	topK         int
	threshold    float64
	historyLimit int
}

// ChatOption configures a Chat.
type ChatOption func(*Chat)

// WithRetriever enables document context. Up to k passages scoring at
// least threshold are added to the system prompt of every request.
func WithRetriever(r Retriever, k int, threshold float64) ChatOption {
	return func(c *Chat) {
		c.retriever = r
		c.topK = k
		c.threshold = threshold
	}
}

// WithSessionStore persists the session after every run.
func WithSessionStore(s SessionStore) ChatOption {
	return func(c *Chat) { c.store = s }
}

// WithSystemPrompt replaces DefaultSystemPrompt.
func WithSystemPrompt(p string) ChatOption {
	return func(c *Chat) { c.systemPrompt = p }
}

// WithModel sets the model ID for provider requests.
// Empty string means the provider uses its default model.
func WithModel(model string) ChatOption {
	return func(c *Chat) { c.model = model }
}

// WithMaxTokens caps the answer length. Zero means provider default.
func WithMaxTokens(n int) ChatOption {
	return func(c *Chat) { c.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ChatOption {
	return func(c *Chat) { c.temperature = &t }
}

// WithHistoryLimit bounds how many earlier messages are sent with each
// question. Zero sends the whole session.
func WithHistoryLimit(n int) ChatOption {
	return func(c *Chat) { c.historyLimit = n }
}

// WithLogger sets the logger for non-fatal failures such as retrieval errors.
func WithLogger(l *slog.Logger) ChatOption {
	return func(c *Chat) { c.logger = l }
}

// WithClock overrides time.Now for message timestamps.
func WithClock(now func() time.Time) ChatOption {
	return func(c *Chat) { c.now = now }
}

// NewChat creates a Chat that answers with the given provider.
func NewChat(provider Provider, opts ...ChatOption) *Chat {
	c := &Chat{
		provider:     provider,
		logger:       slog.New(slog.DiscardHandler),
		now:          time.Now,
		systemPrompt: DefaultSystemPrompt,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewSession starts a session whose first message is greeting. An empty
// greeting starts an empty session.
func NewSession(id, greeting string, now time.Time) Session {
	s := Session{ID: id, CreatedAt: now, UpdatedAt: now}
	if greeting != "" {
		s.Messages = append(s.Messages, AssistantMessage{
			Content:    greeting,
			StopReason: StopEndTurn,
			Timestamp:  now,
		})
	}
	return s
}

// Run asks question within session and streams the answer into sink.
//
// Exactly one of sink.OnComplete, sink.OnError or sink.OnAbort is called
// once streaming has started. Events that arrive after ctx is cancelled are
// dropped. The question and answer are appended to session.Messages unless
// the stream ended before producing any text, in which case the session is
// left unchanged. Cancellation returns ctx.Err().
//
// When the provider fails before any text arrives, or the Chat has no
// provider, the retrieved passages are returned as the answer instead.
func (c *Chat) Run(ctx context.Context, session *Session, question string, sink Sink) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrEmptyMessage
	}

	user := UserMessage{Content: question, Timestamp: c.now()}
	passages := c.retrieve(ctx, Contextualize(session.Messages, question))
	if c.provider == nil {
		c.logger.Warn("no provider configured, answering from documents", "session", session.ID)
		return c.answerFromDocuments(ctx, session, user, documentsAnswer(passages), sink)
	}

	history := append(slices.Clip(session.Messages), user)
	req := Request{
		Model:        c.model,
		SystemPrompt: BuildPrompt(c.systemPrompt, passages),
		Messages:     window(history, c.historyLimit),
		MaxTokens:    c.maxTokens,
		Temperature:  c.temperature,
	}
	if err := req.Validate(); err != nil {
		sink.OnError(err.Error())
		return err
	}

	stream, err := c.provider.Stream(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			sink.OnAbort()
			return ctx.Err()
		}
		if len(passages) > 0 {
			c.logger.Warn("provider failed, answering from documents", "session", session.ID, "error", err)
			return c.answerFromDocuments(ctx, session, user, recoveryAnswer(passages), sink)
		}
		sink.OnError(err.Error())
		return err
	}
	defer stream.Close()

	// Drain the stream, forwarding text to the sink.
	var text strings.Builder
	var streamErr error
	for {
		if err := ctx.Err(); err != nil {
			streamErr = err
			break
		}
		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			streamErr = err
			break
		}
		// A delta that raced with cancellation is stale.
		if err := ctx.Err(); err != nil {
			streamErr = err
			break
		}
		if d, ok := evt.(EventTextDelta); ok {
			text.WriteString(d.Delta)
			sink.OnChunk(d.Delta)
		}
	}

	if streamErr != nil && ctx.Err() == nil && text.Len() == 0 && len(passages) > 0 {
		c.logger.Warn("provider failed, answering from documents", "session", session.ID, "error", streamErr)
		return c.answerFromDocuments(ctx, session, user, recoveryAnswer(passages), sink)
	}

	// Provider metadata (stop reason, usage) is kept; content is what the
	// sink saw.
	msg, msgErr := stream.Message()
	if msgErr != nil {
		msg = AssistantMessage{}
	}
	msg.Content = text.String()
	msg.Timestamp = c.now()

	switch {
	case streamErr == nil:
		sink.OnComplete()
		if msg.StopReason == "" {
			msg.StopReason = StopEndTurn
		}
	case ctx.Err() != nil:
		sink.OnAbort()
		streamErr = ctx.Err()
		msg.StopReason = StopAborted
		msg.RawStopReason = "aborted"
	default:
		sink.OnError(streamErr.Error())
		msg.StopReason = StopError
		msg.RawStopReason = "error"
	}
	c.logger.Info("answer finished",
		"session", session.ID,
		"stop_reason", msg.StopReason,
		"input_tokens", msg.Usage.InputTokens,
		"output_tokens", msg.Usage.OutputTokens,
		"total_tokens", msg.Usage.Total(),
	)

	// A question without an answer is not recorded.
	if msg.Content == "" && streamErr != nil {
		return streamErr
	}
	record(session, user, msg)
	if err := c.save(ctx, session); err != nil && streamErr == nil {
		return err
	}
	return streamErr
}

// answerFromDocuments completes the turn with a canned answer built from
// retrieved passages.
func (c *Chat) answerFromDocuments(ctx context.Context, session *Session, user UserMessage, answer string, sink Sink) error {
	sink.OnChunk(answer)
	sink.OnComplete()
	record(session, user, AssistantMessage{
		Content:       answer,
		StopReason:    StopEndTurn,
		RawStopReason: "documents",
		Timestamp:     c.now(),
	})
	return c.save(ctx, session)
}

// record appends one question and its answer to session.
func record(session *Session, user UserMessage, answer AssistantMessage) {
	session.Messages = append(session.Messages, user, answer)
	if session.Title == "" {
		session.Title = TitleFromQuestion(user.Content)
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = user.Timestamp
	}
	session.UpdatedAt = answer.Timestamp
}

func (c *Chat) save(ctx context.Context, session *Session) error {
	if c.store == nil {
		return nil
	}
	// History is written even when the answer was cancelled.
	if err := c.store.Save(context.WithoutCancel(ctx), *session); err != nil {
		c.logger.Error("save session", "session", session.ID, "error", err)
		return err
	}
	return nil
}

// window returns the last limit messages, dropped forward to the first
// user message so that requests never open with an assistant turn.
func window(msgs []Message, limit int) []Message {
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	for len(msgs) > 0 {
		if _, ok := msgs[0].(UserMessage); ok {
			break
		}
		msgs = msgs[1:]
	}
	return msgs
}

// IsCanceled reports whether err is a cancellation rather than a failure.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
