package domain

// Node is a network participant.
// Corresponds to one row of nodes_output.csv.
type Node struct {
	ID        int64   `json:"id"`
	OpenEdges []int64 `json:"open_edges"` // ids of edges incident to this node, in file order
}
