package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/playback"
)

// dialPlayback connects to the playback socket of the loaded run.
func dialPlayback(t *testing.T, srv *Server, runID, query string) (*websocket.Conn, func()) {
	t.Helper()

	ts := httptest.NewServer(srv.Routes())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/runs/" + runID + "/playback" + query

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}

	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

func readUpdate(t *testing.T, conn *websocket.Conn) playbackUpdate {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var u playbackUpdate
	require.NoError(t, conn.ReadJSON(&u))
	return u
}

func TestPlaybackSocket_InitialUpdate(t *testing.T) {
	srv, view := newTestServer(t)
	conn, done := dialPlayback(t, srv, view.Run.RunID, "")
	defer done()

	u := readUpdate(t, conn)
	assert.Equal(t, -1, u.Step)
	assert.Equal(t, 5, u.Total)
	assert.Equal(t, playback.StateStopped, u.State)
	assert.Nil(t, u.Event)
	require.NotNil(t, u.Highlight)
	assert.Empty(t, u.Highlight.Edges)
}

func TestPlaybackSocket_SeekAndStep(t *testing.T) {
	srv, view := newTestServer(t)
	conn, done := dialPlayback(t, srv, view.Run.RunID, "")
	defer done()

	readUpdate(t, conn) // initial

	// Seek to the fail event.
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"action": "seek", "step": 2}))
	u := readUpdate(t, conn)
	assert.Equal(t, 2, u.Step)
	require.NotNil(t, u.Event)
	assert.Equal(t, domain.EventFail, u.Event.Type)
	require.NotNil(t, u.Highlight)
	assert.Equal(t, []int64{101}, u.Highlight.ErrorEdges)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"action": "step"}))
	u = readUpdate(t, conn)
	assert.Equal(t, 3, u.Step)
	require.NotNil(t, u.Event)
	assert.Equal(t, domain.EventAttempt, u.Event.Type)
}

func TestPlaybackSocket_PlayToEnd(t *testing.T) {
	srv, view := newTestServer(t)
	conn, done := dialPlayback(t, srv, view.Run.RunID, "?interval_ms=2")
	defer done()

	readUpdate(t, conn) // initial

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"action": "play"}))

	// Collect updates until the last event arrives.
	var last playbackUpdate
	for {
		last = readUpdate(t, conn)
		if last.Step == 4 {
			break
		}
	}
	require.NotNil(t, last.Event)
	assert.Equal(t, domain.EventSuccess, last.Event.Type)

	// After auto-stop a pause command reports the final, stopped position.
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"action": "pause"}))
	u := readUpdate(t, conn)
	assert.Equal(t, 4, u.Step)
	assert.Equal(t, playback.StateStopped, u.State)
}

func TestPlaybackSocket_UnloadedRun(t *testing.T) {
	srv, _ := newTestServer(t)

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/runs/unknown/playback"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}

func TestPlaybackSocket_BadInterval(t *testing.T) {
	srv, view := newTestServer(t)

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/runs/" + view.Run.RunID + "/playback?interval_ms=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}
