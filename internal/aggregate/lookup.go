package aggregate

import (
	"errors"

	"ln-sim-viz/internal/domain"
)

// ErrNoCapacityData is returned when an edge has no capacity observations.
var ErrNoCapacityData = errors.New("no capacity data available")

// CapacityAt returns the observed capacity at or before the target time.
// If no sample precedes the target, the first available sample is used.
// Returns ErrNoCapacityData when the history is empty.
func CapacityAt(target int64, history []domain.CapacitySample) (int64, error) {
	if len(history) == 0 {
		return 0, ErrNoCapacityData
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Time <= target {
			return history[i].Capacity, nil
		}
	}
	return history[0].Capacity, nil
}
