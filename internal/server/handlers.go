package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ln-sim-viz/internal/aggregate"
	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/forest"
	"ln-sim-viz/internal/highlight"
	"ln-sim-viz/internal/reporting"
	"ln-sim-viz/internal/storage"
)

// loadRunRequest is the body of POST /api/runs.
type loadRunRequest struct {
	Name string `json:"name"`
	Dir  string `json:"dir"`
}

// handleLoadRun loads a simulation dump directory and archives the run.
func (s *Server) handleLoadRun(w http.ResponseWriter, r *http.Request) {
	var req loadRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Dir == "" {
		s.writeError(w, http.StatusBadRequest, "dir is required")
		return
	}
	if req.Name == "" {
		req.Name = req.Dir
	}

	view, err := s.LoadRun(r.Context(), req.Name, req.Dir)
	if err != nil {
		s.logger.Printf("Load failed: %v", err)
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, view.Run)
}

// handleListRuns lists archived runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.stores.Runs.GetAll(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []*domain.Run{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// handleGetRun returns one archived run's metadata.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run, err := s.stores.Runs.GetByID(r.Context(), runID)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// loadedView resolves the run id of the request to a view loaded in this
// process, writing a 404 when it is absent.
func (s *Server) loadedView(w http.ResponseWriter, r *http.Request) (*RunView, bool) {
	runID := chi.URLParam(r, "runID")
	view, ok := s.view(runID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "run not loaded; POST /api/runs to load it")
		return nil, false
	}
	return view, true
}

// graphResponse is the full network topology of one run.
type graphResponse struct {
	Nodes    []*domain.Node    `json:"nodes"`
	Channels []*domain.Channel `json:"channels"`
	Edges    []*domain.Edge    `json:"edges"`
	Config   *domain.SimConfig `json:"config"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, graphResponse{
		Nodes:    view.Snap.Nodes,
		Channels: view.Snap.Channels,
		Edges:    view.Snap.Edges,
		Config:   view.Snap.Config,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, view.Summary)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, view.Timeline)
}

// handleHighlight resolves highlight sets for a playback step and an
// optional selected payment. step is the timeline index of the current
// event; -1 or absent means no active event. payment selects a payment by
// id.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}

	step := -1
	if raw := r.URL.Query().Get("step"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid step: "+raw)
			return
		}
		step = v
	}

	var selected *domain.Payment
	if raw := r.URL.Query().Get("payment"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid payment id: "+raw)
			return
		}
		p, ok := view.Snap.PaymentByID[id]
		if !ok {
			s.writeError(w, http.StatusNotFound, "payment not found")
			return
		}
		selected = p
	}

	var active []domain.TimelineEvent
	if step >= 0 && step < len(view.Timeline) {
		active = view.Timeline[step : step+1]
	}

	s.writeJSON(w, http.StatusOK, highlight.Resolve(active, selected, view.Snap))
}

// handleReportCSV streams one of the statistics tables as CSV. kind is
// edges, channels or nodes; edges is the default.
func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}

	var body string
	switch kind := r.URL.Query().Get("kind"); kind {
	case "", "edges":
		body = reporting.RenderEdgeStatsCSV(view.Stats)
	case "channels":
		body = reporting.RenderChannelStatsCSV(view.Stats)
	case "nodes":
		body = reporting.RenderNodeStatsCSV(view.Stats)
	default:
		s.writeError(w, http.StatusBadRequest, "unknown kind: "+kind)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func (s *Server) handlePaymentRoots(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	roots := view.Forest.Roots(view.Snap.Payments)
	if roots == nil {
		roots = []*forest.TreeNode{}
	}
	s.writeJSON(w, http.StatusOK, roots)
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	id, ok := s.paymentID(w, r)
	if !ok {
		return
	}
	p, ok := view.Snap.PaymentByID[id]
	if !ok {
		s.writeError(w, http.StatusNotFound, "payment not found")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePaymentTree(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	id, ok := s.paymentID(w, r)
	if !ok {
		return
	}
	tree := view.Forest.TreeOf(id)
	if tree == nil {
		s.writeError(w, http.StatusNotFound, "payment not found")
		return
	}
	s.writeJSON(w, http.StatusOK, tree)
}

func (s *Server) paymentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "paymentID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid payment id: "+raw)
		return 0, false
	}
	return id, true
}

func (s *Server) handleNodeStats(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, view.Stats.NodesSorted())
}

func (s *Server) handleChannelStats(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, view.Stats.ChannelsSorted())
}

func (s *Server) handleEdgeStats(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, view.Stats.EdgesSorted())
}

// capacityAtResponse is the point lookup answer for ?at=T.
type capacityAtResponse struct {
	EdgeID   int64 `json:"edge_id"`
	Time     int64 `json:"time"`
	Capacity int64 `json:"capacity"`
}

// handleEdgeCapacity returns an edge's capacity history, or a point
// lookup when the at query parameter is set.
func (s *Server) handleEdgeCapacity(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadedView(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "edgeID")
	edgeID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid edge id: "+raw)
		return
	}
	if _, ok := view.Snap.EdgeByID[edgeID]; !ok {
		s.writeError(w, http.StatusNotFound, "edge not found")
		return
	}

	history := view.Stats.CapacityHistory[edgeID]

	if rawAt := r.URL.Query().Get("at"); rawAt != "" {
		at, err := strconv.ParseInt(rawAt, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid at: "+rawAt)
			return
		}
		capacity, err := aggregate.CapacityAt(at, history)
		if errors.Is(err, aggregate.ErrNoCapacityData) {
			s.writeError(w, http.StatusNotFound, "no capacity data for edge")
			return
		}
		s.writeJSON(w, http.StatusOK, capacityAtResponse{EdgeID: edgeID, Time: at, Capacity: capacity})
		return
	}

	if history == nil {
		history = []domain.CapacitySample{}
	}
	s.writeJSON(w, http.StatusOK, history)
}

// handleArchivedEdgeStats reads a run's edge aggregates back from the
// archive, serving runs loaded by earlier processes too.
func (s *Server) handleArchivedEdgeStats(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	records, err := s.stores.EdgeStats.GetByRunID(r.Context(), runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*domain.EdgeStatsRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

// handleArchivedEvents reads a run's derived event stream back from the
// archive, ordered by sequence.
func (s *Server) handleArchivedEvents(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	records, err := s.stores.TimelineEvents.GetByRunID(r.Context(), runID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*domain.TimelineEventRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}
