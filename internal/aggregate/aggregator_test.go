package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ln-sim-viz/internal/domain"
	"ln-sim-viz/internal/session"
)

// buildSnapshot indexes the given collections the way a load would.
func buildSnapshot(nodes []*domain.Node, channels []*domain.Channel, edges []*domain.Edge, payments []*domain.Payment) *session.Snapshot {
	s := &session.Snapshot{
		Nodes:       nodes,
		Channels:    channels,
		Edges:       edges,
		Payments:    payments,
		Config:      &domain.SimConfig{},
		NodeByID:    make(map[int64]*domain.Node),
		ChannelByID: make(map[int64]*domain.Channel),
		EdgeByID:    make(map[int64]*domain.Edge),
		PaymentByID: make(map[int64]*domain.Payment),
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

// twoNodeSnapshot is nodes 1 and 2 joined by channel 200 (edges 100/101),
// with the given payments.
func twoNodeSnapshot(payments []*domain.Payment) *session.Snapshot {
	nodes := []*domain.Node{
		{ID: 1, OpenEdges: []int64{100}},
		{ID: 2, OpenEdges: []int64{101}},
	}
	channels := []*domain.Channel{
		{ID: 200, Edge1ID: 100, Edge2ID: 101, Node1ID: 1, Node2ID: 2, Capacity: 1000000},
	}
	edges := []*domain.Edge{
		{ID: 100, ChannelID: 200, CounterEdgeID: 101, FromNodeID: 1, ToNodeID: 2, Balance: 600000},
		{ID: 101, ChannelID: 200, CounterEdgeID: 100, FromNodeID: 2, ToNodeID: 1, Balance: 400000},
	}
	return buildSnapshot(nodes, channels, edges, payments)
}

func TestCompute_SuccessfulPayment(t *testing.T) {
	p := &domain.Payment{
		ID:         1,
		SenderID:   1,
		ReceiverID: 2,
		Amount:     10000,
		IsSuccess:  true,
		AttemptsHistory: []domain.AttemptHistory{
			{
				Attempt:   0,
				IsSuccess: true,
				EndTime:   1500,
				Route: []domain.RouteHop{
					{EdgeID: 100, SentAmt: 10000, EdgeCap: 600000},
				},
				ErrorEdgeID: domain.NoID,
			},
		},
	}

	res := Compute(twoNodeSnapshot([]*domain.Payment{p}))

	assert.Equal(t, int64(1), res.Edges[100].UsageCount)
	assert.Equal(t, int64(0), res.Edges[100].FailureCount)
	assert.Equal(t, int64(0), res.Edges[101].UsageCount)
	assert.Equal(t, int64(1), res.Channels[200].UsageCount)

	sender := res.Nodes[1]
	assert.Equal(t, int64(1), sender.PaymentsSent)
	assert.Equal(t, int64(1), sender.SentSuccess)
	assert.Equal(t, float64(1), sender.SentSuccessRate)
	assert.Equal(t, int64(1000000), sender.TotalCapacity)
	assert.Equal(t, int64(600000), sender.OutboundBalance)
	assert.Equal(t, int64(400000), sender.InboundBalance)

	receiver := res.Nodes[2]
	assert.Equal(t, int64(1), receiver.PaymentsReceived)
	assert.Equal(t, int64(1), receiver.ReceivedSuccess)
	assert.Equal(t, int64(0), receiver.PaymentsSent)
	assert.Equal(t, float64(0), receiver.SentSuccessRate)
}

func TestCompute_FailureCountsOnErrorEdge(t *testing.T) {
	p := &domain.Payment{
		ID:         1,
		SenderID:   1,
		ReceiverID: 2,
		AttemptsHistory: []domain.AttemptHistory{
			{
				Attempt:     0,
				IsSuccess:   false,
				EndTime:     1200,
				ErrorEdgeID: 100,
				Route:       []domain.RouteHop{{EdgeID: 100}},
			},
		},
	}

	res := Compute(twoNodeSnapshot([]*domain.Payment{p}))

	assert.Equal(t, int64(1), res.Edges[100].UsageCount)
	assert.Equal(t, int64(1), res.Edges[100].FailureCount)
	assert.Equal(t, int64(1), res.Channels[200].FailureCount)
	assert.Equal(t, float64(0), res.Nodes[1].SentSuccessRate)
}

func TestCompute_RetriesCountPerHop(t *testing.T) {
	p := &domain.Payment{
		ID: 1, SenderID: 1, ReceiverID: 2, IsSuccess: true,
		AttemptsHistory: []domain.AttemptHistory{
			{Attempt: 0, EndTime: 1100, ErrorEdgeID: domain.NoID, Route: []domain.RouteHop{{EdgeID: 100}}},
			{Attempt: 1, EndTime: 1200, ErrorEdgeID: domain.NoID, Route: []domain.RouteHop{{EdgeID: 100}}},
			{Attempt: 2, EndTime: 1300, ErrorEdgeID: domain.NoID, IsSuccess: true, Route: []domain.RouteHop{{EdgeID: 100}}},
		},
	}

	res := Compute(twoNodeSnapshot([]*domain.Payment{p}))
	assert.Equal(t, int64(3), res.Edges[100].UsageCount)
	assert.Equal(t, int64(3), res.Channels[200].UsageCount)
}

func TestCompute_ShardsExcludedFromNodeCounters(t *testing.T) {
	root := &domain.Payment{ID: 1, SenderID: 1, ReceiverID: 2, IsSuccess: true}
	shard := &domain.Payment{ID: 2, SenderID: 1, ReceiverID: 2, IsShard: true, IsSuccess: true}

	res := Compute(twoNodeSnapshot([]*domain.Payment{root, shard}))

	assert.Equal(t, int64(1), res.Nodes[1].PaymentsSent)
	assert.Equal(t, int64(1), res.Nodes[2].PaymentsReceived)
}

func TestCompute_UnknownReferencesSkipped(t *testing.T) {
	p := &domain.Payment{
		ID: 1, SenderID: 99, ReceiverID: 98,
		AttemptsHistory: []domain.AttemptHistory{
			{
				Attempt:     0,
				EndTime:     1000,
				ErrorEdgeID: 999,
				Route:       []domain.RouteHop{{EdgeID: 888}},
			},
		},
	}

	res := Compute(twoNodeSnapshot([]*domain.Payment{p}))

	// Foreign ids leave the known entities untouched.
	assert.Equal(t, int64(0), res.Edges[100].UsageCount)
	assert.Equal(t, int64(0), res.Edges[100].FailureCount)
	assert.NotContains(t, res.Edges, int64(888))
}

func TestCompute_CapacityHistoryOrdered(t *testing.T) {
	p1 := &domain.Payment{
		ID: 1, SenderID: 1, ReceiverID: 2,
		AttemptsHistory: []domain.AttemptHistory{
			{Attempt: 0, EndTime: 3000, ErrorEdgeID: domain.NoID, Route: []domain.RouteHop{{EdgeID: 100, EdgeCap: 80, SentAmt: 10}}},
		},
	}
	p2 := &domain.Payment{
		ID: 2, SenderID: 2, ReceiverID: 1,
		AttemptsHistory: []domain.AttemptHistory{
			{Attempt: 0, EndTime: 1000, ErrorEdgeID: domain.NoID, Route: []domain.RouteHop{{EdgeID: 100, EdgeCap: 100, SentAmt: 5}}},
		},
	}

	res := Compute(twoNodeSnapshot([]*domain.Payment{p1, p2}))

	hist := res.CapacityHistory[100]
	require.Len(t, hist, 2)
	assert.Equal(t, int64(1000), hist[0].Time)
	assert.Equal(t, int64(100), hist[0].Capacity)
	assert.Equal(t, int64(2), hist[0].PaymentID)
	assert.Equal(t, int64(3000), hist[1].Time)
	assert.Equal(t, int64(80), hist[1].Capacity)
}

func TestSortedAccessors(t *testing.T) {
	res := Compute(twoNodeSnapshot(nil))

	edges := res.EdgesSorted()
	require.Len(t, edges, 2)
	assert.Equal(t, int64(100), edges[0].EdgeID)
	assert.Equal(t, int64(101), edges[1].EdgeID)

	nodes := res.NodesSorted()
	require.Len(t, nodes, 2)
	assert.Equal(t, int64(1), nodes[0].NodeID)

	channels := res.ChannelsSorted()
	require.Len(t, channels, 1)
	assert.Equal(t, int64(200), channels[0].ChannelID)
}

func TestCapacityAt(t *testing.T) {
	history := []domain.CapacitySample{
		{Time: 1000, Capacity: 100},
		{Time: 2000, Capacity: 80},
		{Time: 3000, Capacity: 60},
	}

	cases := []struct {
		target int64
		want   int64
	}{
		{target: 2500, want: 80}, // last sample at or before target
		{target: 2000, want: 80}, // boundary is inclusive
		{target: 9999, want: 60},
		{target: 500, want: 100}, // before first sample: first is used
	}
	for _, tc := range cases {
		got, err := CapacityAt(tc.target, history)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "target %d", tc.target)
	}

	_, err := CapacityAt(1000, nil)
	assert.ErrorIs(t, err, ErrNoCapacityData)
}
