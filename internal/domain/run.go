package domain

// Run is one archived simulation load.
// Corresponds to runs table in PostgreSQL.
type Run struct {
	RunID        string `json:"run_id"` // deterministic hash of source dir + load time
	Name         string `json:"name"`
	SourceDir    string `json:"source_dir"`
	LoadedAt     int64  `json:"loaded_at"` // Unix timestamp in milliseconds
	NodeCount    int    `json:"node_count"`
	ChannelCount int    `json:"channel_count"`
	EdgeCount    int    `json:"edge_count"`
	PaymentCount int    `json:"payment_count"`
	EventCount   int    `json:"event_count"`  // derived timeline events
	ConfigJSON   string `json:"config_json"`  // SimConfig snapshot as JSON
}

// EdgeStatsRecord is a persisted per-run edge aggregate.
// Corresponds to edge_stats table in PostgreSQL.
type EdgeStatsRecord struct {
	RunID        string `json:"run_id"`
	EdgeID       int64  `json:"edge_id"`
	UsageCount   int64  `json:"usage_count"`
	FailureCount int64  `json:"failure_count"`
}

// CapacitySampleRecord is a persisted per-run capacity observation.
// Corresponds to capacity_samples table in ClickHouse.
type CapacitySampleRecord struct {
	RunID     string `json:"run_id"`
	EdgeID    int64  `json:"edge_id"`
	Time      int64  `json:"time"`
	Capacity  int64  `json:"capacity"`
	PaymentID int64  `json:"payment_id"`
	SentAmt   int64  `json:"sent_amt"`
}

// TimelineEventRecord is a persisted per-run timeline event. Seq is the
// event's index in the derived stream and preserves stable-sort order.
// Corresponds to timeline_events table in ClickHouse.
type TimelineEventRecord struct {
	RunID        string  `json:"run_id"`
	Seq          int     `json:"seq"`
	Time         int64   `json:"time"`
	Type         string  `json:"type"`
	PaymentID    int64   `json:"payment_id"`
	AttemptIndex int     `json:"attempt_index"`
	RouteEdges   []int64 `json:"route_edges,omitempty"`
	ErrorEdgeID  int64   `json:"error_edge"`
}
