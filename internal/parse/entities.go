package parse

import (
	"fmt"

	"ln-sim-viz/internal/domain"
)

// Nodes parses nodes_output.csv content.
// Columns: id, open_edges (separator-joined integer list).
func Nodes(data []byte) ([]*domain.Node, error) {
	var nodes []*domain.Node
	err := forEachRow(data, func(r row) {
		nodes = append(nodes, &domain.Node{
			ID:        parseInt(r.field("id")),
			OpenEdges: parseIDList(r.field("open_edges")),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parse nodes: %w", err)
	}
	return nodes, nil
}

// Channels parses channels_output.csv content.
func Channels(data []byte) ([]*domain.Channel, error) {
	var channels []*domain.Channel
	err := forEachRow(data, func(r row) {
		channels = append(channels, &domain.Channel{
			ID:       parseInt(r.field("id")),
			Edge1ID:  parseID(r.field("edge1")),
			Edge2ID:  parseID(r.field("edge2")),
			Node1ID:  parseID(r.field("node1")),
			Node2ID:  parseID(r.field("node2")),
			Capacity: parseInt(r.field("capacity")),
			IsClosed: parseBool(r.field("is_closed")),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parse channels: %w", err)
	}
	return channels, nil
}

// Edges parses edges_output.csv content. The group column uses the NULL
// sentinel for edges outside any group.
func Edges(data []byte) ([]*domain.Edge, error) {
	var edges []*domain.Edge
	err := forEachRow(data, func(r row) {
		edges = append(edges, &domain.Edge{
			ID:              parseInt(r.field("id")),
			ChannelID:       parseID(r.field("channel_id")),
			CounterEdgeID:   parseID(r.field("counter_edge_id")),
			FromNodeID:      parseID(r.field("from_node_id")),
			ToNodeID:        parseID(r.field("to_node_id")),
			Balance:         parseInt(r.field("balance")),
			FeeBase:         parseInt(r.field("fee_base")),
			FeeProportional: parseInt(r.field("fee_proportional")),
			MinHTLC:         parseInt(r.field("min_htlc")),
			Timelock:        parseInt(r.field("timelock")),
			IsClosed:        parseBool(r.field("is_closed")),
			TotFlows:        parseInt(r.field("tot_flows")),
			CulThreshold:    parseInt(r.field("cul_threshold")),
			ChannelUpdates:  parseInt(r.field("channel_updates")),
			Group:           parseNullableInt(r.field("group")),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("parse edges: %w", err)
	}
	return edges, nil
}
