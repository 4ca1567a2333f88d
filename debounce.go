package roi

import "time"

// DefaultLabelSettle is the default delay between the last invalidating
// change and a label layout pass.
const DefaultLabelSettle = 150 * time.Millisecond

// debouncer coalesces rapid triggers into one firing, driven by frame time
// rather than a timer so it runs on the update loop. Trigger restarts the
// delay; Cancel drops a pending firing.
type debouncer struct {
	delay     time.Duration
	remaining time.Duration
	pending   bool
}

func newDebouncer(delay time.Duration) debouncer {
	if delay <= 0 {
		delay = DefaultLabelSettle
	}
	return debouncer{delay: delay}
}

// Trigger schedules a firing after the full delay.
func (d *debouncer) Trigger() {
	d.pending = true
	d.remaining = d.delay
}

// Cancel drops any pending firing.
func (d *debouncer) Cancel() {
	d.pending = false
	d.remaining = 0
}

// Pending reports whether a firing is scheduled.
func (d *debouncer) Pending() bool {
	return d.pending
}

// Advance moves time forward by dt and reports whether the debouncer fired.
func (d *debouncer) Advance(dt time.Duration) bool {
	if !d.pending {
		return false
	}
	d.remaining -= dt
	if d.remaining > 0 {
		return false
	}
	d.pending = false
	d.remaining = 0
	return true
}
