package scanner

import "time"

// Throttler spaces out probes with a fixed wait after every request.
// The wait is neither adaptive nor interruptible.
type Throttler struct {
	delay time.Duration
	sleep func(time.Duration)
}

// NewThrottler creates a throttler that waits delay after each request.
func NewThrottler(delay time.Duration) *Throttler {
	return &Throttler{delay: delay, sleep: time.Sleep}
}

// Delay returns the configured per-request wait.
func (t *Throttler) Delay() time.Duration {
	return t.delay
}

// Wait blocks for the configured delay.
func (t *Throttler) Wait() {
	if t.delay <= 0 {
		return
	}
	t.sleep(t.delay)
}
