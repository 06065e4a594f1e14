package domain

// Channel is a bidirectional payment channel between two nodes, realized
// as two opposing directed edges. Corresponds to one row of
// channels_output.csv.
//
// Edge1ID and Edge2ID are counter-edges of each other; each terminates at
// Node1ID/Node2ID in opposite directions.
type Channel struct {
	ID       int64 `json:"id"`
	Edge1ID  int64 `json:"edge1_id"`
	Edge2ID  int64 `json:"edge2_id"`
	Node1ID  int64 `json:"node1_id"`
	Node2ID  int64 `json:"node2_id"`
	Capacity int64 `json:"capacity"` // msat
	IsClosed bool  `json:"is_closed"`
}
