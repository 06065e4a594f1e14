package domain

// RouteHop is one forwarding step inside an attempt's route.
// Hops exist only inside an AttemptHistory.
type RouteHop struct {
	EdgeID        int64  `json:"edge_id"`
	FromNodeID    int64  `json:"from_node_id"`
	ToNodeID      int64  `json:"to_node_id"`
	SentAmt       int64  `json:"sent_amt"`
	EdgeCap       int64  `json:"edge_cap"`
	ChannelCap    int64  `json:"channel_cap"`
	GroupCap      *int64 `json:"group_cap,omitempty"`
	ChannelUpdate int64  `json:"channel_update"` // edge's update counter observed at send time
}

// AttemptHistory is one routing attempt for a payment. ErrorEdgeID and
// ErrorType are meaningful only when IsSuccess is false; NoRouteID marks
// an absent error edge. Route is empty when no route was found.
type AttemptHistory struct {
	Attempt       int        `json:"attempt"`
	IsSuccess     bool       `json:"is_success"`
	EndTime       int64      `json:"end_time"`
	ErrorEdgeID   int64      `json:"error_edge"`
	ErrorType     string     `json:"error_type"`
	SplitDepth    int        `json:"split_depth"`
	SplitOccurred bool       `json:"split_occurred"`
	Shard1ID      int64      `json:"shard1_id"`
	Shard2ID      int64      `json:"shard2_id"`
	Shard1Amount  int64      `json:"shard1_amount"`
	Shard2Amount  int64      `json:"shard2_amount"`
	Route         []RouteHop `json:"route"`
}

// NoID is the sentinel for absent id references (parent, shards, error edge).
const NoID int64 = -1

// Payment is one simulated payment, root or shard.
// Corresponds to one row of payments_output.csv.
type Payment struct {
	ID               int64            `json:"id"`
	SenderID         int64            `json:"sender_id"`
	ReceiverID       int64            `json:"receiver_id"`
	Amount           int64            `json:"amount"`        // msat
	StartTime        int64            `json:"start_time"`    // ms
	MaxFeeLimit      int64            `json:"max_fee_limit"` // msat
	EndTime          int64            `json:"end_time"`      // ms
	MPP              bool             `json:"mpp"`
	IsSuccess        bool             `json:"is_success"`
	NoBalanceCount   int64            `json:"no_balance_count"`
	OfflineNodeCount int64            `json:"offline_node_count"`
	TimeoutExp       bool             `json:"timeout_exp"`
	Attempts         int64            `json:"attempts"`
	Route            []int64          `json:"route,omitempty"` // final route edge ids, present only on success
	TotalFee         int64            `json:"total_fee"`       // msat
	ParentPaymentID  int64            `json:"parent_payment_id"` // NoID for root payments
	IsShard          bool             `json:"is_shard"`
	Shard1ID         int64            `json:"shard1_id"` // NoID when absent
	Shard2ID         int64            `json:"shard2_id"` // NoID when absent
	ShardIDs         []int64          `json:"shard_ids,omitempty"` // generalized shards list; nil when the dump uses shard1/shard2
	IsRolledBack     bool             `json:"is_rolled_back"`
	AttemptsHistory  []AttemptHistory `json:"attempts_history,omitempty"`
}

// ChildShardIDs returns shard references in resolution order: the
// generalized list when present, otherwise shard1/shard2 with NoID skipped.
// Callers must treat ids that resolve to no payment as absent.
func (p *Payment) ChildShardIDs() []int64 {
	if len(p.ShardIDs) > 0 {
		return p.ShardIDs
	}
	var ids []int64
	if p.Shard1ID != NoID {
		ids = append(ids, p.Shard1ID)
	}
	if p.Shard2ID != NoID {
		ids = append(ids, p.Shard2ID)
	}
	return ids
}

// LastAttempt returns the final attempt in the history, or nil if the
// history is empty.
func (p *Payment) LastAttempt() *AttemptHistory {
	if len(p.AttemptsHistory) == 0 {
		return nil
	}
	return &p.AttemptsHistory[len(p.AttemptsHistory)-1]
}
