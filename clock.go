package reactfx

import (
	"sort"
	"time"
)

// Clock supplies the frame timestamp. Hosts with a vsync or fixed-tick source
// can substitute their own; tests use ManualClock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// ManualClock is a Clock that only moves when told to. It drives frame
// simulations deterministically.
type ManualClock struct {
	now time.Time
}

// NewManualClock returns a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) { c.now = t }

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}

// --- Deferred callbacks ---

// timer is one deferred callback in a timerQueue.
type timer struct {
	id  uint64
	due time.Time
	fn  func()
}

// timerQueue holds callbacks that run once their due time has passed. It is
// drained cooperatively at the start of each frame, so callbacks never run
// concurrently with the frame loop.
type timerQueue struct {
	pending []timer
	nextID  uint64
}

// after schedules fn to run at the first drain at or after due. Returns a
// handle usable with cancel.
func (q *timerQueue) after(due time.Time, fn func()) uint64 {
	q.nextID++
	t := timer{id: q.nextID, due: due, fn: fn}
	i := sort.Search(len(q.pending), func(i int) bool {
		return q.pending[i].due.After(due)
	})
	q.pending = append(q.pending, timer{})
	copy(q.pending[i+1:], q.pending[i:])
	q.pending[i] = t
	return t.id
}

// cancel removes a pending timer. No-op if it already fired.
func (q *timerQueue) cancel(id uint64) {
	for i := range q.pending {
		if q.pending[i].id == id {
			copy(q.pending[i:], q.pending[i+1:])
			q.pending[len(q.pending)-1] = timer{}
			q.pending = q.pending[:len(q.pending)-1]
			return
		}
	}
}

// fire runs every timer due at or before now, in due order. Timers scheduled
// by a firing callback wait for the next drain.
func (q *timerQueue) fire(now time.Time) int {
	n := 0
	for n < len(q.pending) && !q.pending[n].due.After(now) {
		n++
	}
	if n == 0 {
		return 0
	}
	due := make([]timer, n)
	copy(due, q.pending[:n])
	copy(q.pending, q.pending[n:])
	for i := len(q.pending) - n; i < len(q.pending); i++ {
		q.pending[i] = timer{}
	}
	q.pending = q.pending[:len(q.pending)-n]
	for _, t := range due {
		t.fn()
	}
	return n
}

// len returns the number of pending timers.
func (q *timerQueue) len() int {
	return len(q.pending)
}

// clear drops every pending timer without running it.
func (q *timerQueue) clear() {
	for i := range q.pending {
		q.pending[i] = timer{}
	}
	q.pending = q.pending[:0]
}
