package supervisor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/obidov404/ZetShopUZ/internal/config"
	"github.com/obidov404/ZetShopUZ/internal/history"
)

// memSink records history events in memory for assertions.
type memSink struct {
	mu     sync.Mutex
	events []history.Event
}

func (m *memSink) Send(_ context.Context, e history.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *memSink) Close() error { return nil }

func (m *memSink) byType(t history.EventType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func testConfig(command string) config.Supervisor {
	return config.Supervisor{
		Name:        "test-bot",
		Command:     command,
		BaseDelay:   20 * time.Millisecond,
		MaxDelay:    100 * time.Millisecond,
		MaxRestarts: 100,
		Cooldown:    50 * time.Millisecond,
		GracePeriod: 500 * time.Millisecond,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestRunCleanExitStopsLoop(t *testing.T) {
	requireUnix(t)
	sink := &memSink{}
	s := New(testConfig("true"), discardLogger(), sink)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after clean exit")
	}

	snap := s.Snapshot()
	require.Equal(t, StateStopped, snap.State)
	require.Equal(t, 0, snap.RestartCount, "clean exit must not enter the ledger")
	require.Equal(t, 0, snap.LastExitCode)
	require.Equal(t, 1, sink.byType(history.EventStart))
	require.Equal(t, 1, sink.byType(history.EventStop))
	require.Equal(t, 0, sink.byType(history.EventRestart))
}

func TestRunCrashRecordsAndRestarts(t *testing.T) {
	requireUnix(t)
	sink := &memSink{}
	s := New(testConfig("sh -c 'exit 5'"), discardLogger(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	waitFor(t, 5*time.Second, func() bool {
		snap := s.Snapshot()
		return snap.RestartCount >= 2 && snap.LastExitCode == 5
	})
	s.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	require.GreaterOrEqual(t, sink.byType(history.EventRestart), 2)
	// One ledger entry per crash: starts may exceed restarts by at most one
	// in-flight spawn.
	starts := sink.byType(history.EventStart)
	restarts := sink.byType(history.EventRestart)
	require.LessOrEqual(t, starts-restarts, 1)
	require.GreaterOrEqual(t, starts, restarts)
}

func TestRunCapEntersCooldownAndResets(t *testing.T) {
	requireUnix(t)
	cfg := testConfig("sh -c 'exit 1'")
	cfg.MaxRestarts = 2
	cfg.Cooldown = 100 * time.Millisecond
	sink := &memSink{}
	s := New(cfg, discardLogger(), sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	waitFor(t, 5*time.Second, func() bool { return sink.byType(history.EventCooldown) >= 1 })
	// After the cooldown sleep the ledger resets and spawning resumes.
	waitFor(t, 5*time.Second, func() bool {
		return sink.byType(history.EventStart) > cfg.MaxRestarts
	})

	s.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestStopInterruptsBackoffQuickly(t *testing.T) {
	requireUnix(t)
	cfg := testConfig("sh -c 'exit 1'")
	cfg.BaseDelay = 30 * time.Second
	cfg.MaxDelay = 30 * time.Second
	s := New(cfg, discardLogger(), nil)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	waitFor(t, 5*time.Second, func() bool { return s.Snapshot().State == StateBackoff })
	start := time.Now()
	s.Stop()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not leave backoff after Stop")
	}
	require.Less(t, time.Since(start), 2*time.Second, "shutdown latency out of backoff must stay bounded")
}

func TestStopTerminatesRunningChild(t *testing.T) {
	requireUnix(t)
	s := New(testConfig("sleep 30"), discardLogger(), nil)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	waitFor(t, 5*time.Second, func() bool { return s.Snapshot().ChildRunning })
	pid := s.Snapshot().ChildPID
	require.Positive(t, pid)

	s.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop with live child")
	}
	require.False(t, s.Snapshot().ChildRunning)
}

func TestStopDuringSpawnStillTerminatesChild(t *testing.T) {
	requireUnix(t)
	// Stop racing the spawn must not strand Run in Wait: if Stop snapshots
	// a nil child, Run has to notice the flag right after publishing the
	// fresh one and shut it down itself. Repeat with jitter to cover both
	// orderings.
	for i := 0; i < 20; i++ {
		s := New(testConfig("sleep 30"), discardLogger(), nil)

		done := make(chan struct{})
		go func() {
			s.Run(context.Background())
			close(done)
		}()

		time.Sleep(time.Duration(i) * 500 * time.Microsecond)
		s.Stop()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("iteration %d: Run did not return after Stop", i)
		}
		require.False(t, s.Snapshot().ChildRunning)
	}
}

func TestSpawnFailureRetriesWithoutLedgerEntry(t *testing.T) {
	requireUnix(t)
	cfg := testConfig("/nonexistent/zetshop-bot-binary")
	s := New(cfg, discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	waitFor(t, 5*time.Second, func() bool { return s.Snapshot().State == StateBackoff })
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0, s.Snapshot().RestartCount, "spawn failures must not count against the daily cap")

	s.Stop()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
