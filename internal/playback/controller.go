// Package playback drives timer-based advancement through the derived
// timeline. A controller is bound to one event stream length; every Play
// has exactly one matching cancellation path (Pause, auto-stop at the last
// event, or Close), so no timer can advance state after disposal.
package playback

import (
	"sync"
	"time"
)

// State is the playback state machine state.
type State string

// Playback states. Play transitions stopped to playing; Pause, reaching
// the last event, and Close transition back to stopped.
const (
	StateStopped State = "stopped"
	StatePlaying State = "playing"
)

// DefaultInterval is the auto-advance tick interval.
const DefaultInterval = 500 * time.Millisecond

// Controller steps through total events one at a time. Position -1 means
// "before the first event". Safe for concurrent use.
type Controller struct {
	interval time.Duration
	onStep   func(step int)

	mu     sync.Mutex
	total  int
	step   int
	state  State
	stop   chan struct{} // non-nil exactly while playing
	closed bool
	wg     sync.WaitGroup
}

// NewController creates a stopped controller positioned before the first
// event. onStep is invoked from the timer goroutine on every position
// change and may be nil. An interval of 0 uses DefaultInterval.
func NewController(total int, interval time.Duration, onStep func(step int)) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Controller{
		interval: interval,
		onStep:   onStep,
		total:    total,
		step:     -1,
		state:    StateStopped,
	}
}

// State returns the current playback state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Position returns the current step index, -1 before the first event.
func (c *Controller) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Play starts timer-driven advancement. A no-op while already playing,
// after Close, and when there is nothing left to advance to (the empty
// stream is a valid, empty playback range).
func (c *Controller) Play() {
	c.mu.Lock()
	if c.closed || c.state == StatePlaying || c.step >= c.total-1 {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.stop = stop
	c.state = StatePlaying
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(stop)
}

// Pause stops timer-driven advancement. Valid in either state.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	close(c.stop)
	c.stop = nil
	c.state = StateStopped
	c.mu.Unlock()
}

// Seek scrubs to the given step, clamped to [-1, total-1]. Valid in
// either state and does not change the state.
func (c *Controller) Seek(step int) {
	c.mu.Lock()
	if step < -1 {
		step = -1
	}
	if step > c.total-1 {
		step = c.total - 1
	}
	changed := step != c.step
	c.step = step
	onStep := c.onStep
	c.mu.Unlock()

	if changed && onStep != nil {
		onStep(step)
	}
}

// Step advances one event manually and returns the new position.
// Advancing past the last event is a no-op.
func (c *Controller) Step() int {
	step, advanced, _ := c.advance()
	if advanced && c.onStep != nil {
		c.onStep(step)
	}
	return step
}

// Close pauses playback and waits for the timer goroutine to exit. The
// controller cannot be restarted afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.state == StatePlaying {
		close(c.stop)
		c.stop = nil
		c.state = StateStopped
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// run is the timer loop for one Play call. stop identifies this loop so
// a racing Pause and auto-stop cannot double-release.
func (c *Controller) run(stop chan struct{}) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			step, advanced, last := c.advance()
			if advanced && c.onStep != nil {
				c.onStep(step)
			}
			if last {
				c.mu.Lock()
				if c.stop == stop {
					c.stop = nil
					c.state = StateStopped
				}
				c.mu.Unlock()
				return
			}
		}
	}
}

// advance moves one step forward. Reports whether the position changed
// and whether the last event has been reached.
func (c *Controller) advance() (step int, advanced, last bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step < c.total-1 {
		c.step++
		advanced = true
	}
	return c.step, advanced, c.step >= c.total-1
}
