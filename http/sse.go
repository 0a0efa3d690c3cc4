package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// eventWriter writes server-sent events and flushes after each one. The
// first write error is kept and later events are dropped.
type eventWriter struct {
	w   http.ResponseWriter
	rc  *http.ResponseController
	err error
}

func newEventWriter(w http.ResponseWriter) *eventWriter {
	return &eventWriter{w: w, rc: http.NewResponseController(w)}
}

func (e *eventWriter) start() {
	h := e.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	e.w.WriteHeader(http.StatusOK)
	e.flush()
}

func (e *eventWriter) send(event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		e.fail(err)
		return
	}
	e.sendRaw(event, data)
}

// fail records err unless an earlier error was recorded. Later events are
// dropped.
func (e *eventWriter) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *eventWriter) sendRaw(event string, data []byte) {
	if e.err != nil {
		return
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		e.err = err
		return
	}
	e.flush()
}

func (e *eventWriter) flush() {
	err := e.rc.Flush()
	if err != nil && !errors.Is(err, http.ErrNotSupported) && e.err == nil {
		e.err = err
	}
}

// eventReader parses server-sent events.
type eventReader struct {
	scanner *bufio.Scanner
}

func newEventReader(r io.Reader) *eventReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &eventReader{scanner: sc}
}

// next returns the next event. It returns io.EOF when the body ends
// between events.
func (e *eventReader) next() (event string, data string, err error) {
	var buf strings.Builder
	for e.scanner.Scan() {
		line := e.scanner.Text()
		if line == "" {
			if buf.Len() > 0 {
				return event, buf.String(), nil
			}
			continue
		}
		if v, ok := strings.CutPrefix(line, "event:"); ok {
			event = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "data:"); ok {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(strings.TrimPrefix(v, " "))
		}
	}
	if err := e.scanner.Err(); err != nil {
		return "", "", err
	}
	if buf.Len() > 0 {
		return event, buf.String(), nil
	}
	return "", "", io.EOF
}
