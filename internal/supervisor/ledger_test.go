package supervisor

import (
	"testing"
	"time"
)

func TestLedgerRecordCounts(t *testing.T) {
	l := NewLedger(time.Hour)
	for i := 1; i <= 5; i++ {
		if got := l.Record(); got != i {
			t.Fatalf("Record #%d returned %d", i, got)
		}
	}
	if got := l.Count(); got != 5 {
		t.Fatalf("Count = %d, want 5", got)
	}
}

func TestLedgerPrunesOutsideWindow(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	now := base
	l := NewLedger(24 * time.Hour)
	l.now = func() time.Time { return now }

	l.Record()
	now = base.Add(1 * time.Hour)
	l.Record()
	now = base.Add(23 * time.Hour)
	if got := l.Count(); got != 2 {
		t.Fatalf("Count at 23h = %d, want 2", got)
	}

	// First entry ages out just past 24h; the second survives.
	now = base.Add(24*time.Hour + time.Second)
	if got := l.Count(); got != 1 {
		t.Fatalf("Count at 24h+1s = %d, want 1", got)
	}
	now = base.Add(26 * time.Hour)
	if got := l.Count(); got != 0 {
		t.Fatalf("Count at 26h = %d, want 0", got)
	}
}

func TestLedgerCountIdempotent(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	now := base
	l := NewLedger(time.Hour)
	l.now = func() time.Time { return now }

	l.Record()
	l.Record()
	now = base.Add(30 * time.Minute)
	first := l.Count()
	for i := 0; i < 10; i++ {
		if got := l.Count(); got != first {
			t.Fatalf("Count changed from %d to %d without time passing", first, got)
		}
	}
}

func TestLedgerReset(t *testing.T) {
	l := NewLedger(time.Hour)
	l.Record()
	l.Record()
	l.Reset()
	if got := l.Count(); got != 0 {
		t.Fatalf("Count after Reset = %d, want 0", got)
	}
	if got := l.Record(); got != 1 {
		t.Fatalf("Record after Reset = %d, want 1", got)
	}
}

func TestLedgerZeroWindowUsesDefault(t *testing.T) {
	l := NewLedger(0)
	if l.window != DefaultWindow {
		t.Fatalf("window = %v, want %v", l.window, DefaultWindow)
	}
}
