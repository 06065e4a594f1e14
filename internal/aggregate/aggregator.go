// Package aggregate computes per-node, per-channel and per-edge derived
// statistics for the loaded payment collection. Every pass is a full scan
// over the snapshot; nothing is maintained incrementally across loads.
// Aggregation re-runs only on (re)load or entity selection, so full scans
// stay cheap enough.
package aggregate

import (
	"sort"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/session"
)

// Result holds one aggregation pass over a snapshot.
type Result struct {
	Edges    map[int64]*domain.EdgeStats
	Channels map[int64]*domain.ChannelStats
	Nodes    map[int64]*domain.NodeStats

	// CapacityHistory maps edge id to its capacity observations, ordered
	// by time. One sample per hop that traversed the edge.
	CapacityHistory map[int64][]domain.CapacitySample
}

// Compute runs a full aggregation pass over the snapshot.
//
// Usage counts are per hop, across all payments and attempts: a payment
// retried three times over the same edge counts three times. Hops and
// error markers referencing edges outside the snapshot are skipped
// silently. Node payment counters cover root (non-shard) payments only.
func Compute(snap *session.Snapshot) *Result {
	res := &Result{
		Edges:           make(map[int64]*domain.EdgeStats, len(snap.Edges)),
		Channels:        make(map[int64]*domain.ChannelStats, len(snap.Channels)),
		Nodes:           make(map[int64]*domain.NodeStats, len(snap.Nodes)),
		CapacityHistory: make(map[int64][]domain.CapacitySample),
	}

	for _, e := range snap.Edges {
		res.Edges[e.ID] = &domain.EdgeStats{EdgeID: e.ID}
	}
	for _, c := range snap.Channels {
		res.Channels[c.ID] = &domain.ChannelStats{ChannelID: c.ID}
	}
	for _, n := range snap.Nodes {
		res.Nodes[n.ID] = &domain.NodeStats{NodeID: n.ID}
	}

	// Structural stats: capacity per incident channel, balance per edge
	// direction.
	for _, c := range snap.Channels {
		if ns, ok := res.Nodes[c.Node1ID]; ok {
			ns.TotalCapacity += c.Capacity
		}
		if ns, ok := res.Nodes[c.Node2ID]; ok {
			ns.TotalCapacity += c.Capacity
		}
	}
	for _, e := range snap.Edges {
		if ns, ok := res.Nodes[e.FromNodeID]; ok {
			ns.OutboundBalance += e.Balance
		}
		if ns, ok := res.Nodes[e.ToNodeID]; ok {
			ns.InboundBalance += e.Balance
		}
	}

	// Attempt scan: usage, failures, capacity history.
	for _, p := range snap.Payments {
		for i := range p.AttemptsHistory {
			a := &p.AttemptsHistory[i]
			for _, hop := range a.Route {
				es, ok := res.Edges[hop.EdgeID]
				if !ok {
					continue
				}
				es.UsageCount++
				res.CapacityHistory[hop.EdgeID] = append(res.CapacityHistory[hop.EdgeID], domain.CapacitySample{
					EdgeID:    hop.EdgeID,
					Time:      a.EndTime,
					Capacity:  hop.EdgeCap,
					PaymentID: p.ID,
					SentAmt:   hop.SentAmt,
				})
				if chID := snap.ChannelOfEdge(hop.EdgeID); chID != domain.NoID {
					res.Channels[chID].UsageCount++
				}
			}
			if !a.IsSuccess && a.ErrorEdgeID != domain.NoID {
				if es, ok := res.Edges[a.ErrorEdgeID]; ok {
					es.FailureCount++
					if chID := snap.ChannelOfEdge(a.ErrorEdgeID); chID != domain.NoID {
						res.Channels[chID].FailureCount++
					}
				}
			}
		}

		if p.IsShard {
			continue
		}
		if ns, ok := res.Nodes[p.SenderID]; ok {
			ns.PaymentsSent++
			if p.IsSuccess {
				ns.SentSuccess++
			}
		}
		if ns, ok := res.Nodes[p.ReceiverID]; ok {
			ns.PaymentsReceived++
			if p.IsSuccess {
				ns.ReceivedSuccess++
			}
		}
	}

	for _, hist := range res.CapacityHistory {
		sort.SliceStable(hist, func(i, j int) bool {
			return hist[i].Time < hist[j].Time
		})
	}
	for _, ns := range res.Nodes {
		if ns.PaymentsSent > 0 {
			ns.SentSuccessRate = float64(ns.SentSuccess) / float64(ns.PaymentsSent)
		}
	}

	return res
}

// EdgesSorted returns edge stats ordered by edge id for deterministic
// output.
func (r *Result) EdgesSorted() []*domain.EdgeStats {
	out := make([]*domain.EdgeStats, 0, len(r.Edges))
	for _, es := range r.Edges {
		out = append(out, es)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EdgeID < out[j].EdgeID })
	return out
}

// ChannelsSorted returns channel stats ordered by channel id.
func (r *Result) ChannelsSorted() []*domain.ChannelStats {
	out := make([]*domain.ChannelStats, 0, len(r.Channels))
	for _, cs := range r.Channels {
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

// NodesSorted returns node stats ordered by node id.
func (r *Result) NodesSorted() []*domain.NodeStats {
	out := make([]*domain.NodeStats, 0, len(r.Nodes))
	for _, ns := range r.Nodes {
		out = append(out, ns)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeID < out[j].NodeID })
	return out
}
