package live

import (
	"testing"
	"time"
)

func TestWatchdogRecentEventSuppressesFallback(t *testing.T) {
	start := time.UnixMilli(0)
	w := NewWatchdog(30*time.Second, true, start)

	w.Touch(start.Add(29000 * time.Millisecond))
	if w.Due(start.Add(30000 * time.Millisecond)) {
		t.Error("Due at 30000ms after an event at 29000ms, want not due")
	}
}

func TestWatchdogSilenceTriggersFallback(t *testing.T) {
	start := time.UnixMilli(0)
	w := NewWatchdog(30*time.Second, true, start)

	if w.Due(start.Add(30000 * time.Millisecond)) {
		t.Error("Due at exactly the threshold, want strict comparison")
	}
	if !w.Due(start.Add(30001 * time.Millisecond)) {
		t.Error("not Due at 30001ms of silence")
	}
}

func TestWatchdogGuard(t *testing.T) {
	start := time.UnixMilli(0)
	late := start.Add(time.Minute)

	guarded := NewWatchdog(30*time.Second, true, start)
	guarded.Begin()
	if guarded.Due(late) {
		t.Error("guarded watchdog Due while a fallback is in flight")
	}
	guarded.Done()
	if !guarded.Due(late) {
		t.Error("guarded watchdog not Due after Done")
	}

	open := NewWatchdog(30*time.Second, false, start)
	open.Begin()
	if !open.Due(late) {
		t.Error("unguarded watchdog not Due while a fallback is in flight")
	}
}

func TestWatchdogTouchIgnoresOlderTimes(t *testing.T) {
	start := time.UnixMilli(10000)
	w := NewWatchdog(30*time.Second, true, start)
	w.Touch(time.UnixMilli(5000))
	if !w.Last().Equal(start) {
		t.Errorf("Last = %v, want %v", w.Last(), start)
	}
}
