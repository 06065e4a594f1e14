package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"ln-sim-viz/internal/domain"
)

// Payments parses payments_output.csv content.
//
// The attempts_history column holds a JSON-encoded array of attempt
// records. It is decoded independently per row; on decode failure that
// payment's history defaults to empty and the row is kept. A malformed
// history never aborts the parse.
func Payments(data []byte) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	err := forEachRow(data, func(r row) {
		p := &domain.Payment{
			ID:               parseInt(r.field("id")),
			SenderID:         parseID(r.field("sender_id")),
			ReceiverID:       parseID(r.field("receiver_id")),
			Amount:           parseInt(r.field("amount")),
			StartTime:        parseInt(r.field("start_time")),
			MaxFeeLimit:      parseInt(r.field("max_fee_limit")),
			EndTime:          parseInt(r.field("end_time")),
			MPP:              parseBool(r.field("mpp")),
			IsSuccess:        parseBool(r.field("is_success")),
			NoBalanceCount:   parseInt(r.field("no_balance_count")),
			OfflineNodeCount: parseInt(r.field("offline_node_count")),
			TimeoutExp:       parseBool(r.field("timeout_exp")),
			Attempts:         parseInt(r.field("attempts")),
			Route:            parseIDList(r.field("route")),
			TotalFee:         parseInt(r.field("total_fee")),
			ParentPaymentID:  parseID(r.field("parent_payment_id")),
			IsShard:          parseBool(r.field("is_shard")),
			Shard1ID:         parseID(r.field("shard1_id")),
			Shard2ID:         parseID(r.field("shard2_id")),
			ShardIDs:         parseIDList(r.field("shards")),
			IsRolledBack:     parseBool(r.field("is_rolledback")),
			AttemptsHistory:  parseAttemptsHistory(r.field("attempts_history")),
		}
		payments = append(payments, p)
	})
	if err != nil {
		return nil, fmt.Errorf("parse payments: %w", err)
	}
	return payments, nil
}

// attemptJSON mirrors domain.AttemptHistory with pointer id fields so an
// id reference absent from the fragment defaults to NoID, not edge 0.
type attemptJSON struct {
	Attempt       int               `json:"attempt"`
	IsSuccess     bool              `json:"is_success"`
	EndTime       int64             `json:"end_time"`
	ErrorEdgeID   *int64            `json:"error_edge"`
	ErrorType     string            `json:"error_type"`
	SplitDepth    int               `json:"split_depth"`
	SplitOccurred bool              `json:"split_occurred"`
	Shard1ID      *int64            `json:"shard1_id"`
	Shard2ID      *int64            `json:"shard2_id"`
	Shard1Amount  int64             `json:"shard1_amount"`
	Shard2Amount  int64             `json:"shard2_amount"`
	Route         []domain.RouteHop `json:"route"`
}

// parseAttemptsHistory decodes the embedded attempt-history fragment.
// Empty, NULL and undecodable fragments all yield an empty history.
func parseAttemptsHistory(s string) []domain.AttemptHistory {
	s = strings.TrimSpace(s)
	if s == "" || s == nullSentinel {
		return nil
	}
	var raw []attemptJSON
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}
	history := make([]domain.AttemptHistory, len(raw))
	for i, a := range raw {
		history[i] = domain.AttemptHistory{
			Attempt:       a.Attempt,
			IsSuccess:     a.IsSuccess,
			EndTime:       a.EndTime,
			ErrorEdgeID:   idOrNone(a.ErrorEdgeID),
			ErrorType:     a.ErrorType,
			SplitDepth:    a.SplitDepth,
			SplitOccurred: a.SplitOccurred,
			Shard1ID:      idOrNone(a.Shard1ID),
			Shard2ID:      idOrNone(a.Shard2ID),
			Shard1Amount:  a.Shard1Amount,
			Shard2Amount:  a.Shard2Amount,
			Route:         a.Route,
		}
	}
	return history
}

// idOrNone maps a missing id reference to the NoID sentinel.
func idOrNone(v *int64) int64 {
	if v == nil {
		return domain.NoID
	}
	return *v
}
