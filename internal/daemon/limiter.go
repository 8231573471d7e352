package daemon

import "time"

// WarnInterval is the minimum spacing between two link-creation warnings.
const WarnInterval = 10 * time.Minute

// WarnLimiter gates a repeated warning to once per WarnInterval.
// The zero value allows the first warning.
type WarnLimiter struct {
	interval time.Duration
	last     time.Time
	warned   bool
}

// NewWarnLimiter creates a limiter with the given spacing.
func NewWarnLimiter(interval time.Duration) *WarnLimiter {
	return &WarnLimiter{interval: interval}
}

// Allow reports whether a warning may be emitted at now, and records now
// as the last warning time when it does.
func (l *WarnLimiter) Allow(now time.Time) bool {
	if l.warned && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	l.warned = true
	return true
}

// Last returns the time of the last allowed warning and whether there was one.
func (l *WarnLimiter) Last() (time.Time, bool) {
	return l.last, l.warned
}
