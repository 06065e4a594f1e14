package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"ln-sim-viz/internal/storage"
)

// Stores holds the persistence backends the server archives into.
type Stores struct {
	Runs            storage.RunStore
	EdgeStats       storage.EdgeStatsStore
	CapacitySamples storage.CapacitySampleStore
	TimelineEvents  storage.TimelineEventStore
}

// Server serves loaded run views and the run archive.
type Server struct {
	stores   Stores
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	views map[string]*RunView // runs loaded in this process, by run id
}

// New creates a server around the given stores.
func New(stores Stores, logger *log.Logger) *Server {
	return &Server{
		stores: stores,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The viewer is served from arbitrary local origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		views: make(map[string]*RunView),
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/runs", func(r chi.Router) {
		r.Post("/", s.handleLoadRun)
		r.Get("/", s.handleListRuns)

		r.Route("/{runID}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Get("/graph", s.handleGraph)
			r.Get("/summary", s.handleSummary)
			r.Get("/timeline", s.handleTimeline)
			r.Get("/highlight", s.handleHighlight)
			r.Get("/report.csv", s.handleReportCSV)

			r.Get("/payments/roots", s.handlePaymentRoots)
			r.Get("/payments/{paymentID}", s.handlePayment)
			r.Get("/payments/{paymentID}/tree", s.handlePaymentTree)

			r.Get("/stats/nodes", s.handleNodeStats)
			r.Get("/stats/channels", s.handleChannelStats)
			r.Get("/stats/edges", s.handleEdgeStats)
			r.Get("/edges/{edgeID}/capacity", s.handleEdgeCapacity)

			r.Get("/archive/edge_stats", s.handleArchivedEdgeStats)
			r.Get("/archive/events", s.handleArchivedEvents)
		})
	})

	r.Get("/ws/runs/{runID}/playback", s.handlePlayback)

	return r
}

// view resolves a run id to its loaded view. Archived runs that were not
// loaded in this process have no view.
func (s *Server) view(runID string) (*RunView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[runID]
	return v, ok
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("Failed to encode response: %v", err)
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
