// Package timeline expands payment lifecycles into a single globally
// time-ordered event stream for scrubbing and playback. The stream is
// derived once per load and fully regenerated, never patched, when the
// payment collection changes.
package timeline

import (
	"sort"

	"ln-sim-viz/internal/domain"
)

// attemptStartGapMs approximates an attempt's start time as its recorded
// end time minus this constant. The simulator does not record attempt
// start times, so this is an approximation, not ground truth.
const attemptStartGapMs = 100

// Derive produces the event stream for a payment collection.
//
// Every payment emits one start event at its start time. Every attempt
// with a non-empty route emits an attempt event. Every attempt emits at
// most one terminal event: success when the attempt succeeded, fail when
// an error edge is recorded, nothing for a route-less error-less failure.
// Events are stably sorted by time, so equal-time events keep generation
// order: per payment start, then attempts, then terminals, and payments
// in collection order.
func Derive(payments []*domain.Payment) []domain.TimelineEvent {
	var events []domain.TimelineEvent

	for _, p := range payments {
		events = append(events, domain.TimelineEvent{
			Time:         p.StartTime,
			Type:         domain.EventStart,
			PaymentID:    p.ID,
			AttemptIndex: -1,
			ErrorEdgeID:  domain.NoID,
		})

		for i := range p.AttemptsHistory {
			a := &p.AttemptsHistory[i]
			routeEdges := hopEdgeIDs(a.Route)

			if len(routeEdges) > 0 {
				events = append(events, domain.TimelineEvent{
					Time:         a.EndTime - attemptStartGapMs,
					Type:         domain.EventAttempt,
					PaymentID:    p.ID,
					AttemptIndex: i,
					RouteEdges:   routeEdges,
					ErrorEdgeID:  domain.NoID,
				})
			}

			switch {
			case a.IsSuccess:
				events = append(events, domain.TimelineEvent{
					Time:         a.EndTime,
					Type:         domain.EventSuccess,
					PaymentID:    p.ID,
					AttemptIndex: i,
					RouteEdges:   routeEdges,
					ErrorEdgeID:  domain.NoID,
				})
			case a.ErrorEdgeID != domain.NoID:
				events = append(events, domain.TimelineEvent{
					Time:         a.EndTime,
					Type:         domain.EventFail,
					PaymentID:    p.ID,
					AttemptIndex: i,
					ErrorEdgeID:  a.ErrorEdgeID,
				})
			}
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events
}

// hopEdgeIDs extracts the edge ids of a route in hop order.
func hopEdgeIDs(route []domain.RouteHop) []int64 {
	if len(route) == 0 {
		return nil
	}
	ids := make([]int64, len(route))
	for i, h := range route {
		ids[i] = h.EdgeID
	}
	return ids
}
