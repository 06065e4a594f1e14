package reporting

import (
	"fmt"
	"strings"

	"ln-sim-viz/internal/aggregate"
)

// RenderEdgeStatsCSV renders per-edge usage statistics as a CSV string,
// ordered by edge id.
func RenderEdgeStatsCSV(stats *aggregate.Result) string {
	var sb strings.Builder

	sb.WriteString("edge_id,usage_count,failure_count\n")
	for _, es := range stats.EdgesSorted() {
		sb.WriteString(fmt.Sprintf("%d,%d,%d\n", es.EdgeID, es.UsageCount, es.FailureCount))
	}

	return sb.String()
}

// RenderChannelStatsCSV renders per-channel usage statistics as a CSV
// string, ordered by channel id.
func RenderChannelStatsCSV(stats *aggregate.Result) string {
	var sb strings.Builder

	sb.WriteString("channel_id,usage_count,failure_count\n")
	for _, cs := range stats.ChannelsSorted() {
		sb.WriteString(fmt.Sprintf("%d,%d,%d\n", cs.ChannelID, cs.UsageCount, cs.FailureCount))
	}

	return sb.String()
}

// RenderNodeStatsCSV renders per-node statistics as a CSV string, ordered
// by node id.
func RenderNodeStatsCSV(stats *aggregate.Result) string {
	var sb strings.Builder

	sb.WriteString("node_id,total_capacity,outbound_balance,inbound_balance,")
	sb.WriteString("payments_sent,payments_received,sent_success,received_success,sent_success_rate\n")
	for _, ns := range stats.NodesSorted() {
		sb.WriteString(fmt.Sprintf("%d,%d,%d,%d,%d,%d,%d,%d,%.6f\n",
			ns.NodeID,
			ns.TotalCapacity,
			ns.OutboundBalance,
			ns.InboundBalance,
			ns.PaymentsSent,
			ns.PaymentsReceived,
			ns.SentSuccess,
			ns.ReceivedSuccess,
			ns.SentSuccessRate,
		))
	}

	return sb.String()
}
