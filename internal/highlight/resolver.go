// Package highlight computes the id sets the views light up for the
// current playback step and selection. Sets are recomputed fresh on every
// step or selection change; the rendering layer owns its own diffing.
package highlight

import (
	"sort"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/session"
)

// Sets are the resolved highlight id sets, each sorted ascending.
// Channels are the channels of the highlighted edges, for display.
type Sets struct {
	Nodes      []int64 `json:"nodes"`
	Edges      []int64 `json:"edges"`
	Channels   []int64 `json:"channels"`
	ErrorEdges []int64 `json:"error_edges"`
}

// resolver accumulates ids during one resolution pass.
type resolver struct {
	snap       *session.Snapshot
	nodes      map[int64]bool
	edges      map[int64]bool
	channels   map[int64]bool
	errorEdges map[int64]bool
}

// Resolve computes the highlight sets for the events active at the
// current playback step plus an optionally selected payment (nil for
// none).
//
// Active events contribute their route edges and those edges' endpoints;
// fail events contribute their error edge. A selected payment always
// contributes its sender and receiver, its final route, and its last
// attempt's route even when that attempt differs from the final route.
// Ids that do not resolve in the snapshot are skipped silently.
func Resolve(active []domain.TimelineEvent, selected *domain.Payment, snap *session.Snapshot) *Sets {
	r := &resolver{
		snap:       snap,
		nodes:      make(map[int64]bool),
		edges:      make(map[int64]bool),
		channels:   make(map[int64]bool),
		errorEdges: make(map[int64]bool),
	}

	for i := range active {
		ev := &active[i]
		for _, edgeID := range ev.RouteEdges {
			r.addEdge(edgeID)
		}
		if ev.Type == domain.EventFail && ev.ErrorEdgeID != domain.NoID {
			r.addErrorEdge(ev.ErrorEdgeID)
		}
	}

	if selected != nil {
		r.addNode(selected.SenderID)
		r.addNode(selected.ReceiverID)
		for _, edgeID := range selected.Route {
			r.addEdge(edgeID)
		}
		if last := selected.LastAttempt(); last != nil {
			for _, hop := range last.Route {
				r.addEdge(hop.EdgeID)
			}
		}
	}

	return &Sets{
		Nodes:      sortedIDs(r.nodes),
		Edges:      sortedIDs(r.edges),
		Channels:   sortedIDs(r.channels),
		ErrorEdges: sortedIDs(r.errorEdges),
	}
}

func (r *resolver) addNode(id int64) {
	if _, ok := r.snap.NodeByID[id]; ok {
		r.nodes[id] = true
	}
}

// addEdge highlights an edge, its endpoints and its channel.
func (r *resolver) addEdge(id int64) {
	e, ok := r.snap.EdgeByID[id]
	if !ok {
		return
	}
	r.edges[id] = true
	r.addNode(e.FromNodeID)
	r.addNode(e.ToNodeID)
	if chID := r.snap.ChannelOfEdge(id); chID != domain.NoID {
		r.channels[chID] = true
	}
}

func (r *resolver) addErrorEdge(id int64) {
	if _, ok := r.snap.EdgeByID[id]; !ok {
		return
	}
	r.errorEdges[id] = true
	if chID := r.snap.ChannelOfEdge(id); chID != domain.NoID {
		r.channels[chID] = true
	}
}

func sortedIDs(set map[int64]bool) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
