// Package session owns the in-memory load session: an immutable snapshot
// of one parsed simulation dump, replaced wholesale on reload. Derived
// structures are pure functions of a snapshot and must be recomputed
// whenever the snapshot reference changes.
package session

import (
	"ln-sim-viz/internal/domain"
)

// Snapshot holds the five parsed collections of one load plus id indexes.
// A snapshot is never mutated after Load returns it.
type Snapshot struct {
	Nodes    []*domain.Node
	Channels []*domain.Channel
	Edges    []*domain.Edge
	Payments []*domain.Payment
	Config   *domain.SimConfig

	NodeByID    map[int64]*domain.Node
	ChannelByID map[int64]*domain.Channel
	EdgeByID    map[int64]*domain.Edge
	PaymentByID map[int64]*domain.Payment
}

// newSnapshot builds the id indexes for freshly parsed collections.
func newSnapshot(nodes []*domain.Node, channels []*domain.Channel, edges []*domain.Edge, payments []*domain.Payment, cfg *domain.SimConfig) *Snapshot {
	s := &Snapshot{
		Nodes:       nodes,
		Channels:    channels,
		Edges:       edges,
		Payments:    payments,
		Config:      cfg,
		NodeByID:    make(map[int64]*domain.Node, len(nodes)),
		ChannelByID: make(map[int64]*domain.Channel, len(channels)),
		EdgeByID:    make(map[int64]*domain.Edge, len(edges)),
		PaymentByID: make(map[int64]*domain.Payment, len(payments)),
	}
	for _, n := range nodes {
		s.NodeByID[n.ID] = n
	}
	for _, c := range channels {
		s.ChannelByID[c.ID] = c
	}
	for _, e := range edges {
		s.EdgeByID[e.ID] = e
	}
	for _, p := range payments {
		s.PaymentByID[p.ID] = p
	}
	return s
}

// ChannelOfEdge resolves an edge id to its channel id. Returns
// domain.NoID when the edge or its channel is not in the snapshot.
func (s *Snapshot) ChannelOfEdge(edgeID int64) int64 {
	e, ok := s.EdgeByID[edgeID]
	if !ok {
		return domain.NoID
	}
	if _, ok := s.ChannelByID[e.ChannelID]; !ok {
		return domain.NoID
	}
	return e.ChannelID
}
