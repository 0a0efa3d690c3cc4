package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/goldmark"
	campusjson "github.com/fwojciec/campus/json"
	"github.com/fwojciec/campus/markdown"
	"github.com/fwojciec/campus/stream"
	"github.com/google/uuid"
)

// ServiceName is reported by the banner endpoint.
const ServiceName = "KCA Connect AI"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Server serves the chat API.
type Server struct {
	chat          *campus.Chat
	sessions      campus.SessionStore
	logger        *slog.Logger
	version       string
	greeting      string
	documents     int
	llmConfigured bool
	render        campus.RenderConfig
	perMinute     int
	burst         int
	newID         func() string
	now           func() time.Time

	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithVersion sets the version reported by the banner.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithGreeting sets the first message of new sessions.
func WithGreeting(g string) Option {
	return func(s *Server) { s.greeting = g }
}

// WithDocuments reports n indexed passages on /health.
func WithDocuments(n int) Option {
	return func(s *Server) { s.documents = n }
}

// WithLLMConfigured reports whether a real provider is configured.
func WithLLMConfigured(ok bool) Option {
	return func(s *Server) { s.llmConfigured = ok }
}

// WithRenderConfig sets the presentation used by HTML rendering.
func WithRenderConfig(cfg campus.RenderConfig) Option {
	return func(s *Server) { s.render = cfg }
}

// WithRateLimit allows perMinute requests per client with the given burst.
// Zero disables rate limiting.
func WithRateLimit(perMinute, burst int) Option {
	return func(s *Server) {
		s.perMinute = perMinute
		s.burst = burst
	}
}

// WithIDFunc overrides the session ID generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Server) { s.newID = fn }
}

// WithClock overrides time.Now for new sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a Server answering with chat. Sessions are looked up in
// sessions; chat is expected to persist them.
func NewServer(chat *campus.Chat, sessions campus.SessionStore, opts ...Option) *Server {
	s := &Server{
		chat:          chat,
		sessions:      sessions,
		logger:        slog.New(slog.DiscardHandler),
		version:       "dev",
		llmConfigured: true,
		newID:         uuid.NewString,
		now:           time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleBanner)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /chat/stream", s.handleChatStream)
	mux.HandleFunc("POST /render", s.handleRender)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)

	var h http.Handler = mux
	if s.perMinute > 0 {
		h = newRateLimiter(s.perMinute, s.burst).middleware(h)
	}
	s.handler = logRequests(s.logger, h)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http: %w", err)
	}
	return nil
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"service": ServiceName,
		"version": s.version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"documents":      s.documents,
		"llm_configured": s.llmConfigured,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChat(w, r)
	if !ok {
		return
	}
	session, err := s.session(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	buf := stream.New()
	if err := s.chat.Run(r.Context(), &session, req.Message, buf); err != nil {
		if campus.IsCanceled(err) {
			return
		}
		s.logger.Error("chat failed", "session", session.ID, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Response:  buf.Snapshot().Text,
		SessionID: session.ID,
	})
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChat(w, r)
	if !ok {
		return
	}
	session, err := s.session(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ev := newEventWriter(w)
	ev.start()

	sink := &sseSink{events: ev}
	sink.buf = stream.New(stream.WithRenderFunc(sink.blocks))

	err = s.chat.Run(r.Context(), &session, req.Message, sink)
	switch {
	case err == nil:
		ev.send(eventDone, doneEvent{
			SessionID:  session.ID,
			StopReason: string(lastStopReason(session)),
		})
	case campus.IsCanceled(err):
		s.logger.Info("stream aborted", "session", session.ID)
	default:
		s.logger.Warn("stream failed", "session", session.ID, "error", err)
		ev.send(eventError, errorEvent{Message: err.Error()})
	}
	if ev.err != nil {
		s.logger.Warn("stream events dropped", "session", session.ID, "error", ev.err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	blocks := markdown.Format(req.Text, req.Streaming)

	switch req.Format {
	case "", "json":
		data, err := campusjson.MarshalBlocks(blocks)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	case "html":
		out, err := goldmark.RenderHTML(blocks, s.render)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", req.Format))
	}
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.sessions.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]sessionSummary, len(summaries))
	for i, sum := range summaries {
		out[i] = sessionSummary{
			ID:           sum.ID,
			Title:        sum.Title,
			MessageCount: sum.MessageCount,
			UpdatedAt:    sum.UpdatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	data, err := campusjson.MarshalSession(session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeChat reads a chat request and rejects blank messages.
func (s *Server) decodeChat(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, campus.ErrEmptyMessage.Error())
		return req, false
	}
	return req, true
}

// session loads id. A well-formed id the store does not know yet starts a
// session under that id, so clients can keep their own session ids.
func (s *Server) session(ctx context.Context, id string) (campus.Session, error) {
	if id == "" || len(id) > maxSessionIDLen {
		return campus.NewSession(s.newID(), s.greeting, s.now()), nil
	}
	session, err := s.sessions.Get(ctx, id)
	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, campus.ErrNotFound):
		return campus.NewSession(id, s.greeting, s.now()), nil
	case errors.Is(err, campus.ErrValidation):
		return campus.NewSession(s.newID(), s.greeting, s.now()), nil
	}
	return campus.Session{}, err
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, campus.ErrNotFound), errors.Is(err, campus.ErrValidation):
		writeError(w, http.StatusNotFound, "session not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func lastStopReason(s campus.Session) campus.StopReason {
	if n := len(s.Messages); n > 0 {
		if m, ok := s.Messages[n-1].(campus.AssistantMessage); ok {
			return m.StopReason
		}
	}
	return campus.StopUnknown
}

// sseSink forwards each chunk as a delta event and each reformat of the
// answer as a blocks event.
type sseSink struct {
	events *eventWriter
	buf    *stream.Buffer
	done   bool
}

var _ campus.Sink = (*sseSink)(nil)

func (s *sseSink) OnChunk(text string) {
	if s.done || text == "" {
		return
	}
	s.events.send(eventDelta, deltaEvent{Text: text})
	s.buf.OnChunk(text)
}

func (s *sseSink) OnComplete() { s.done = true; s.buf.OnComplete() }

func (s *sseSink) OnError(message string) { s.done = true; s.buf.OnError(message) }

func (s *sseSink) OnAbort() { s.done = true; s.buf.OnAbort() }

func (s *sseSink) blocks(snap stream.Snapshot) {
	data, err := campusjson.MarshalBlocks(snap.Blocks)
	if err != nil {
		s.events.fail(fmt.Errorf("encode blocks: %w", err))
		return
	}
	s.events.sendRaw(eventBlocks, data)
}
