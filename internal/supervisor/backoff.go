package supervisor

import "time"

// Schedule maps a recent-restart count to the delay before the next spawn.
// The mapping is monotone non-decreasing in the count and clamped at Max:
// Base for counts up to 3, doubled up to 5, quadrupled up to 10, Max above.
type Schedule struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns the wait before the next restart given the pruned restart
// count.
func (s Schedule) Delay(count int) time.Duration {
	var d time.Duration
	switch {
	case count <= 3:
		d = s.Base
	case count <= 5:
		d = 2 * s.Base
	case count <= 10:
		d = 4 * s.Base
	default:
		d = s.Max
	}
	if d > s.Max {
		d = s.Max
	}
	return d
}
