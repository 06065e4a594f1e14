package domain

// EdgeStats holds per-edge usage derived from attempt routes.
// Usage is counted per hop, not deduplicated per payment.
type EdgeStats struct {
	EdgeID       int64 `json:"edge_id"`
	UsageCount   int64 `json:"usage_count"`
	FailureCount int64 `json:"failure_count"` // attempts whose error edge is this edge
}

// ChannelStats holds per-channel usage, summed over the channel's two edges.
type ChannelStats struct {
	ChannelID    int64 `json:"channel_id"`
	UsageCount   int64 `json:"usage_count"`
	FailureCount int64 `json:"failure_count"`
}

// NodeStats holds per-node capacity, balance and root-payment statistics.
// Payment counts and success rates cover root (non-shard) payments only.
type NodeStats struct {
	NodeID           int64   `json:"node_id"`
	TotalCapacity    int64   `json:"total_capacity"`   // sum of incident channel capacities, msat
	OutboundBalance  int64   `json:"outbound_balance"` // sum of outgoing edge balances, msat
	InboundBalance   int64   `json:"inbound_balance"`  // sum of incoming edge balances, msat
	PaymentsSent     int64   `json:"payments_sent"`
	PaymentsReceived int64   `json:"payments_received"`
	SentSuccess      int64   `json:"sent_success"`
	ReceivedSuccess  int64   `json:"received_success"`
	SentSuccessRate  float64 `json:"sent_success_rate"` // 0..1; 0 when PaymentsSent is 0
}

// CapacitySample is one observation of an edge's capacity taken from a hop
// that traversed it. Samples are ordered by Time within an edge's history.
type CapacitySample struct {
	EdgeID    int64 `json:"edge_id"`
	Time      int64 `json:"time"` // attempt end time, ms
	Capacity  int64 `json:"capacity"`
	PaymentID int64 `json:"payment_id"`
	SentAmt   int64 `json:"sent_amt"`
}
