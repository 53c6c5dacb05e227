package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSEWriter writes the chat stream contract over Server-Sent Events:
// data-only frames, each a JSON object with a "type" discriminator. A
// stream carries zero or more chunk frames and exactly one terminal frame,
// done or error; after a terminal frame further writes are dropped.
type SSEWriter struct {
	w        http.ResponseWriter
	flusher  http.Flusher
	terminal bool
}

// NewSSEWriter prepares w for event streaming.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteChunk sends one content chunk frame. Chunks after a terminal frame
// are a caller bug; they are swallowed so the wire contract holds.
func (s *SSEWriter) WriteChunk(content string) error {
	if s.terminal {
		return nil
	}
	return s.writeFrame(map[string]string{"type": "chunk", "content": content})
}

// WriteDone sends the terminal success frame.
func (s *SSEWriter) WriteDone(sessionID string) error {
	if s.terminal {
		return nil
	}
	s.terminal = true
	return s.writeFrame(map[string]string{"type": "done", "session_id": sessionID})
}

// WriteError sends the terminal error frame.
func (s *SSEWriter) WriteError(message string) error {
	if s.terminal {
		return nil
	}
	s.terminal = true
	return s.writeFrame(map[string]string{"type": "error", "message": message})
}

func (s *SSEWriter) writeFrame(frame any) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
