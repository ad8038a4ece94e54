package stave

import "time"

// RefreshFunc is a periodic refresh routine. It returns the delay until it
// should run again; a negative delay stops the loop.
type RefreshFunc func(now time.Time) time.Duration

// Refresher runs a RefreshFunc cooperatively from the frame loop,
// rescheduling it after each run. It never starts goroutines; Tick must be
// called from Update.
type Refresher struct {
	fn      RefreshFunc
	next    time.Time
	running bool
	runs    int
}

// NewRefresher creates a stopped refresher for fn. A nil fn makes every
// Tick a no-op.
func NewRefresher(fn RefreshFunc) *Refresher {
	return &Refresher{fn: fn}
}

// Start schedules the first run at now.
func (r *Refresher) Start(now time.Time) {
	r.running = true
	r.next = now
}

// Stop drops the pending run.
func (r *Refresher) Stop() { r.running = false }

// Running reports whether a run is scheduled.
func (r *Refresher) Running() bool { return r.running }

// Runs returns how many times the routine has run.
func (r *Refresher) Runs() int { return r.runs }

// Next returns the time of the scheduled run.
func (r *Refresher) Next() time.Time { return r.next }

// Tick runs the routine when it is due and reschedules it. Reports whether
// the routine ran.
func (r *Refresher) Tick(now time.Time) bool {
	if !r.running || r.fn == nil || now.Before(r.next) {
		return false
	}
	r.runs++
	delay := r.fn(now)
	if delay < 0 {
		r.running = false
		return true
	}
	r.next = now.Add(delay)
	return true
}
