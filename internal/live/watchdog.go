package live

import "time"

// Watchdog decides when realtime data is stale enough to warrant a polling
// fallback. It is not safe for concurrent use; the board's dispatcher owns
// it.
type Watchdog struct {
	staleAfter time.Duration
	guarded    bool
	last       time.Time
	inFlight   bool
}

// NewWatchdog creates a watchdog that fires when no data has arrived for
// longer than staleAfter, measured from start. With guarded set, a fallback
// in flight suppresses further ones until Done.
func NewWatchdog(staleAfter time.Duration, guarded bool, start time.Time) *Watchdog {
	return &Watchdog{staleAfter: staleAfter, guarded: guarded, last: start}
}

// Touch records a realtime data event.
func (w *Watchdog) Touch(t time.Time) {
	if t.After(w.last) {
		w.last = t
	}
}

// Last returns the time of the most recent data event.
func (w *Watchdog) Last() time.Time { return w.last }

// Due reports whether a fallback fetch should start at now. The threshold
// is strict: exactly staleAfter of silence is not yet stale.
func (w *Watchdog) Due(now time.Time) bool {
	if w.guarded && w.inFlight {
		return false
	}
	return now.Sub(w.last) > w.staleAfter
}

// Begin marks a fallback fetch as started.
func (w *Watchdog) Begin() { w.inFlight = true }

// Done marks the outstanding fallback fetch as finished.
func (w *Watchdog) Done() { w.inFlight = false }

// InFlight reports whether a fallback fetch is outstanding.
func (w *Watchdog) InFlight() bool { return w.inFlight }
