package supervisor

import (
	"sync"
	"time"
)

// DefaultWindow is the rolling window restarts are counted over.
const DefaultWindow = 24 * time.Hour

// Ledger records restart timestamps and prunes them to a trailing window.
// All entries are always within [now-window, now]; the pruned length is the
// restart count used for backoff and cap decisions. Safe for concurrent use.
type Ledger struct {
	mu     sync.Mutex
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

// NewLedger creates a ledger over the given window; window <= 0 means the
// default 24 hours.
func NewLedger(window time.Duration) *Ledger {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Ledger{window: window, now: time.Now}
}

// Record appends the current time, prunes aged-out entries and returns the
// resulting count.
func (l *Ledger) Record() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.pruneLocked(now)
	l.stamps = append(l.stamps, now)
	return len(l.stamps)
}

// Count prunes and returns the number of restarts within the window.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(l.now())
	return len(l.stamps)
}

// Reset drops all entries. Used after a cap-induced cooldown.
func (l *Ledger) Reset() {
	l.mu.Lock()
	l.stamps = l.stamps[:0]
	l.mu.Unlock()
}

func (l *Ledger) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}
