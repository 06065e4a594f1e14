package domain

// Edge is one direction of a channel's forwarding capacity.
// Corresponds to one row of edges_output.csv.
type Edge struct {
	ID              int64  `json:"id"`
	ChannelID       int64  `json:"channel_id"`
	CounterEdgeID   int64  `json:"counter_edge_id"` // oppositely-directed edge of the same channel
	FromNodeID      int64  `json:"from_node_id"`
	ToNodeID        int64  `json:"to_node_id"`
	Balance         int64  `json:"balance"`          // spendable msat in this direction
	FeeBase         int64  `json:"fee_base"`         // msat
	FeeProportional int64  `json:"fee_proportional"` // ppm
	MinHTLC         int64  `json:"min_htlc"`         // msat
	Timelock        int64  `json:"timelock"`
	IsClosed        bool   `json:"is_closed"`
	TotFlows        int64  `json:"tot_flows"`       // cumulative forwarded flow count
	CulThreshold    int64  `json:"cul_threshold"`   // cumulative threshold metric
	ChannelUpdates  int64  `json:"channel_updates"` // gossip update counter
	Group           *int64 `json:"group,omitempty"` // nil when the edge belongs to no group
}
