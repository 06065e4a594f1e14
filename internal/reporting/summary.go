// Package reporting renders per-run summaries and CSV exports of the
// derived statistics.
package reporting

import (
	"sort"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/session"
)

// Summary holds whole-run statistics for the summary panel and the
// offline report.
type Summary struct {
	NodeCount    int `json:"node_count"`
	ChannelCount int `json:"channel_count"`
	EdgeCount    int `json:"edge_count"`

	TotalPayments   int     `json:"total_payments"`
	RootPayments    int     `json:"root_payments"`
	ShardPayments   int     `json:"shard_payments"`
	MPPPayments     int     `json:"mpp_payments"`
	SuccessfulRoots int     `json:"successful_roots"`
	FailedRoots     int     `json:"failed_roots"`
	SuccessRate     float64 `json:"success_rate"` // over root payments, 0..1

	TotalAttempts int   `json:"total_attempts"`
	TotalEvents   int   `json:"total_events"`
	TotalFeePaid  int64 `json:"total_fee_paid"` // msat, successful roots
	MedianFee     int64 `json:"median_fee"`     // msat, successful roots
}

// Build computes the summary for one snapshot and its derived timeline.
// Success statistics cover root (non-shard) payments; shards contribute
// to attempt and fee totals through their parents only when successful
// themselves.
func Build(snap *session.Snapshot, events []domain.TimelineEvent) *Summary {
	s := &Summary{
		NodeCount:    len(snap.Nodes),
		ChannelCount: len(snap.Channels),
		EdgeCount:    len(snap.Edges),
		TotalPayments: len(snap.Payments),
		TotalEvents:   len(events),
	}

	var fees []int64
	for _, p := range snap.Payments {
		s.TotalAttempts += len(p.AttemptsHistory)
		if p.MPP {
			s.MPPPayments++
		}
		if p.IsShard {
			s.ShardPayments++
			continue
		}
		s.RootPayments++
		if p.IsSuccess {
			s.SuccessfulRoots++
			s.TotalFeePaid += p.TotalFee
			fees = append(fees, p.TotalFee)
		} else {
			s.FailedRoots++
		}
	}

	if s.RootPayments > 0 {
		s.SuccessRate = float64(s.SuccessfulRoots) / float64(s.RootPayments)
	}
	if len(fees) > 0 {
		sort.Slice(fees, func(i, j int) bool { return fees[i] < fees[j] })
		s.MedianFee = fees[len(fees)/2]
	}

	return s
}
