package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// heartbeatInterval spaces the comment lines that keep idle streams open
// through proxies.
const heartbeatInterval = 15 * time.Second

// eventStream writes Server-Sent Events. Each event carries an increasing id.
type eventStream struct {
	w      http.ResponseWriter
	flush  http.Flusher
	nextID int
}

// openEventStream answers the request with the event stream headers.
func openEventStream(w http.ResponseWriter, origin string) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer cannot stream")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("Access-Control-Allow-Origin", origin)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &eventStream{w: w, flush: flusher}, nil
}

// Send writes one named event with a JSON payload.
func (e *eventStream) Send(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", name, err)
	}
	e.nextID++
	if _, err := fmt.Fprintf(e.w, "id: %d\nevent: %s\ndata: %s\n\n", e.nextID, name, data); err != nil {
		return err
	}
	e.flush.Flush()
	return nil
}

// Heartbeat writes a comment line that clients ignore.
func (e *eventStream) Heartbeat() error {
	if _, err := fmt.Fprint(e.w, ": ping\n\n"); err != nil {
		return err
	}
	e.flush.Flush()
	return nil
}

// Fail sends an error event; write failures are ignored since the stream ends anyway.
func (e *eventStream) Fail(message string) {
	_ = e.Send("error", map[string]string{"error": message})
}
