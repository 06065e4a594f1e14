// Package server exposes loaded runs over HTTP and WebSocket: graph and
// timeline payloads, per-payment trees, aggregated statistics, highlight
// resolution and timer-driven playback.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ln-sim-viz/internal/aggregate"
	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/forest"
	"ln-sim-viz/internal/idhash"
	"ln-sim-viz/internal/reporting"
	"ln-sim-viz/internal/session"
	"ln-sim-viz/internal/storage"
	"ln-sim-viz/internal/timeline"
)

// RunView bundles one immutable snapshot with every structure derived
// from it. All fields are computed once at load time; a reload produces a
// whole new view.
type RunView struct {
	Run      *domain.Run
	Snap     *session.Snapshot
	Timeline []domain.TimelineEvent
	Forest   *forest.Forest
	Stats    *aggregate.Result
	Summary  *reporting.Summary
}

// BuildView derives all view structures for a freshly loaded snapshot and
// assembles the run metadata record.
func BuildView(name, sourceDir string, loadedAt int64, snap *session.Snapshot) *RunView {
	events := timeline.Derive(snap.Payments)
	stats := aggregate.Compute(snap)

	cfgJSON, err := json.Marshal(snap.Config)
	if err != nil {
		cfgJSON = []byte("{}")
	}

	run := &domain.Run{
		RunID:        idhash.ComputeRunID(name, sourceDir, loadedAt),
		Name:         name,
		SourceDir:    sourceDir,
		LoadedAt:     loadedAt,
		NodeCount:    len(snap.Nodes),
		ChannelCount: len(snap.Channels),
		EdgeCount:    len(snap.Edges),
		PaymentCount: len(snap.Payments),
		EventCount:   len(events),
		ConfigJSON:   string(cfgJSON),
	}

	return &RunView{
		Run:      run,
		Snap:     snap,
		Timeline: events,
		Forest:   forest.Build(snap.Payments),
		Stats:    stats,
		Summary:  reporting.Build(snap, events),
	}
}

// LoadRun parses a simulation dump directory, derives all view
// structures, archives the run and registers the view for serving.
func (s *Server) LoadRun(ctx context.Context, name, dir string) (*RunView, error) {
	snap, err := session.Load(ctx, session.DirSource{Dir: dir})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}

	view := BuildView(name, dir, time.Now().UnixMilli(), snap)

	if err := s.archive(ctx, view); err != nil {
		return nil, fmt.Errorf("archive run %s: %w", view.Run.RunID, err)
	}

	s.mu.Lock()
	s.views[view.Run.RunID] = view
	s.mu.Unlock()

	s.logger.Printf("Loaded run %s from %s: %d nodes, %d channels, %d edges, %d payments, %d events",
		view.Run.RunID[:12], dir,
		view.Run.NodeCount, view.Run.ChannelCount, view.Run.EdgeCount,
		view.Run.PaymentCount, view.Run.EventCount)

	return view, nil
}

// archive persists the run record and its derived series. A duplicate
// run_id means the exact same load was archived before and is not an
// error.
func (s *Server) archive(ctx context.Context, view *RunView) error {
	err := s.stores.Runs.Insert(ctx, view.Run)
	if errors.Is(err, storage.ErrDuplicateKey) {
		s.logger.Printf("Run %s already archived, skipping", view.Run.RunID[:12])
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := s.stores.EdgeStats.InsertBulk(ctx, edgeStatsRecords(view)); err != nil {
		return fmt.Errorf("insert edge stats: %w", err)
	}
	if err := s.stores.CapacitySamples.InsertBulk(ctx, capacitySampleRecords(view)); err != nil {
		return fmt.Errorf("insert capacity samples: %w", err)
	}
	if err := s.stores.TimelineEvents.InsertBulk(ctx, timelineEventRecords(view)); err != nil {
		return fmt.Errorf("insert timeline events: %w", err)
	}
	return nil
}

func edgeStatsRecords(view *RunView) []*domain.EdgeStatsRecord {
	records := make([]*domain.EdgeStatsRecord, 0, len(view.Stats.Edges))
	for _, es := range view.Stats.EdgesSorted() {
		records = append(records, &domain.EdgeStatsRecord{
			RunID:        view.Run.RunID,
			EdgeID:       es.EdgeID,
			UsageCount:   es.UsageCount,
			FailureCount: es.FailureCount,
		})
	}
	return records
}

func capacitySampleRecords(view *RunView) []*domain.CapacitySampleRecord {
	var records []*domain.CapacitySampleRecord
	for _, es := range view.Stats.EdgesSorted() {
		for _, sample := range view.Stats.CapacityHistory[es.EdgeID] {
			records = append(records, &domain.CapacitySampleRecord{
				RunID:     view.Run.RunID,
				EdgeID:    es.EdgeID,
				Time:      sample.Time,
				Capacity:  sample.Capacity,
				PaymentID: sample.PaymentID,
				SentAmt:   sample.SentAmt,
			})
		}
	}
	return records
}

func timelineEventRecords(view *RunView) []*domain.TimelineEventRecord {
	records := make([]*domain.TimelineEventRecord, 0, len(view.Timeline))
	for i := range view.Timeline {
		ev := &view.Timeline[i]
		records = append(records, &domain.TimelineEventRecord{
			RunID:        view.Run.RunID,
			Seq:          i,
			Time:         ev.Time,
			Type:         string(ev.Type),
			PaymentID:    ev.PaymentID,
			AttemptIndex: ev.AttemptIndex,
			RouteEdges:   ev.RouteEdges,
			ErrorEdgeID:  ev.ErrorEdgeID,
		})
	}
	return records
}
