package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFrames(t *testing.T, body string) []map[string]string {
	t.Helper()
	var frames []map[string]string
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var frame map[string]string
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame))
		frames = append(frames, frame)
	}
	return frames
}

func TestSSEWriter_Headers(t *testing.T) {
	rec := httptest.NewRecorder()
	_, err := NewSSEWriter(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))
}

func TestSSEWriter_ChunksThenDone(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteChunk("Hel"))
	require.NoError(t, w.WriteChunk("lo"))
	require.NoError(t, w.WriteDone("sess-1"))

	frames := parseFrames(t, rec.Body.String())
	require.Len(t, frames, 3)
	assert.Equal(t, map[string]string{"type": "chunk", "content": "Hel"}, frames[0])
	assert.Equal(t, map[string]string{"type": "chunk", "content": "lo"}, frames[1])
	assert.Equal(t, map[string]string{"type": "done", "session_id": "sess-1"}, frames[2])
}

func TestSSEWriter_SingleTerminalFrame(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := NewSSEWriter(rec)
	require.NoError(t, err)

	require.NoError(t, w.WriteChunk("partial"))
	require.NoError(t, w.WriteError("backend fault"))
	// Late writes after the terminal frame are dropped, not duplicated.
	require.NoError(t, w.WriteDone("sess-1"))
	require.NoError(t, w.WriteError("second fault"))
	require.NoError(t, w.WriteChunk("late"))

	frames := parseFrames(t, rec.Body.String())
	require.Len(t, frames, 2)
	assert.Equal(t, "chunk", frames[0]["type"])
	assert.Equal(t, map[string]string{"type": "error", "message": "backend fault"}, frames[1])
}
