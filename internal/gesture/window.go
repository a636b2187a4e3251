package gesture

import "time"

// Window is a restartable click-suppression timeout. It does not run a
// goroutine: Active compares the clock against a deadline, so it is safe to
// use from the single event-handling goroutine without locking.
type Window struct {
	duration time.Duration
	now      func() time.Time
	until    time.Time
}

// NewWindow creates an inactive window of the given length. now defaults to
// time.Now.
func NewWindow(duration time.Duration, now func() time.Time) *Window {
	if now == nil {
		now = time.Now
	}
	return &Window{duration: duration, now: now}
}

// Restart opens the window for its full duration from now, replacing any
// deadline set earlier
func (w *Window) Restart() {
	w.until = w.now().Add(w.duration)
}

// Cancel closes the window immediately
func (w *Window) Cancel() {
	w.until = time.Time{}
}

// Active reports whether the window is still open
func (w *Window) Active() bool {
	if w.until.IsZero() {
		return false
	}
	return w.now().Before(w.until)
}

// Duration returns the window length
func (w *Window) Duration() time.Duration {
	return w.duration
}
