package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/highlight"
	"ln-sim-viz/internal/playback"
)

const (
	// Time allowed to write a message to the peer.
	wsWriteWait = 10 * time.Second

	// Maximum command size allowed from the peer.
	wsMaxMessageSize = 4096

	// Outbound update buffer. The timer produces at most one update per
	// tick, so the buffer only absorbs seek bursts.
	wsSendBufferSize = 64
)

// playbackCommand is a client control message.
type playbackCommand struct {
	Action string `json:"action"` // play, pause, seek, step
	Step   int    `json:"step"`   // seek target
}

// playbackUpdate is pushed to the client on every position change.
type playbackUpdate struct {
	Step      int                   `json:"step"` // -1 before the first event
	Total     int                   `json:"total"`
	State     playback.State        `json:"state"`
	Event     *domain.TimelineEvent `json:"event,omitempty"`
	Highlight *highlight.Sets       `json:"highlight"`
}

// handlePlayback upgrades to WebSocket and drives one playback controller
// per connection. The client sends play/pause/seek/step commands; the
// server pushes the current event and its highlight sets on every
// position change.
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	view, ok := s.view(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not loaded; POST /api/runs to load it")
		return
	}

	interval := playback.DefaultInterval
	if raw := r.URL.Query().Get("interval_ms"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid interval_ms: "+raw)
			return
		}
		interval = time.Duration(ms) * time.Millisecond
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	sess := &playbackSession{
		server: s,
		view:   view,
		conn:   conn,
		send:   make(chan playbackUpdate, wsSendBufferSize),
	}
	sess.ctrl = playback.NewController(len(view.Timeline), interval, sess.onStep)

	go sess.writePump()
	sess.readPump()
}

// playbackSession is one WebSocket playback connection.
type playbackSession struct {
	server *Server
	view   *RunView
	conn   *websocket.Conn
	ctrl   *playback.Controller
	send   chan playbackUpdate
}

// onStep runs on the controller's timer goroutine. A slow client drops
// intermediate updates rather than stalling the timer; the next update
// carries the full current position anyway.
func (s *playbackSession) onStep(step int) {
	select {
	case s.send <- s.update(step):
	default:
	}
}

// update assembles the push message for one position.
func (s *playbackSession) update(step int) playbackUpdate {
	u := playbackUpdate{
		Step:  step,
		Total: len(s.view.Timeline),
		State: s.ctrl.State(),
	}

	var active []domain.TimelineEvent
	if step >= 0 && step < len(s.view.Timeline) {
		u.Event = &s.view.Timeline[step]
		active = s.view.Timeline[step : step+1]
	}
	u.Highlight = highlight.Resolve(active, nil, s.view.Snap)

	return u
}

// readPump consumes client commands until the connection closes, then
// tears the session down.
func (s *playbackSession) readPump() {
	defer func() {
		s.ctrl.Close()
		close(s.send)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(wsMaxMessageSize)

	// Initial position so the client can render before pressing play.
	s.send <- s.update(s.ctrl.Position())

	for {
		var cmd playbackCommand
		if err := s.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.server.logger.Printf("Playback read error: %v", err)
			}
			return
		}

		switch cmd.Action {
		case "play":
			s.ctrl.Play()
		case "pause":
			s.ctrl.Pause()
			// Pausing changes state but not position; push so the client
			// sees the state flip.
			s.onStep(s.ctrl.Position())
		case "seek":
			s.ctrl.Seek(cmd.Step)
		case "step":
			s.ctrl.Step()
		default:
			s.server.logger.Printf("Unknown playback action: %q", cmd.Action)
		}
	}
}

// writePump serializes updates onto the connection. Exits when readPump
// closes the send channel.
func (s *playbackSession) writePump() {
	for u := range s.send {
		s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := s.conn.WriteJSON(u); err != nil {
			s.server.logger.Printf("Playback write error: %v", err)
			// Drain so readPump's close does not block on a full buffer.
			for range s.send {
			}
			return
		}
	}
	s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWait))
}
