package domain

// EventType classifies a derived timeline event.
type EventType string

// Timeline event types.
const (
	EventStart   EventType = "start"
	EventAttempt EventType = "attempt"
	EventSuccess EventType = "success"
	EventFail    EventType = "fail"
)

// TimelineEvent is a derived playback event. The stream is produced once
// per load, sorted by Time ascending with a stable sort.
type TimelineEvent struct {
	Time         int64     `json:"time"`
	Type         EventType `json:"type"`
	PaymentID    int64     `json:"payment_id"`
	AttemptIndex int       `json:"attempt_index"` // -1 for start events
	RouteEdges   []int64   `json:"route_edges,omitempty"`
	ErrorEdgeID  int64     `json:"error_edge"` // NoID unless Type is fail
}
