package supervisor

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/obidov404/ZetShopUZ/internal/config"
	"github.com/obidov404/ZetShopUZ/internal/history"
	"github.com/obidov404/ZetShopUZ/internal/metrics"
)

// State of the supervisor loop as exposed to the health surface.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateBackoff    State = "backoff"
	StateCooldown   State = "cooldown"
	StateStopped    State = "stopped"
)

// Snapshot is a read-only view of the supervisor for the health handler.
type Snapshot struct {
	State        State     `json:"state"`
	ChildRunning bool      `json:"child_running"`
	ChildPID     int       `json:"child_pid"`
	RestartCount int       `json:"restart_count"`
	LastExitCode int       `json:"last_exit_code"`
	StartedAt    time.Time `json:"started_at,omitempty"`
}

// Supervisor owns the spawn/wait/backoff loop for the bot worker. At most
// one child process is alive at any time; restarts are strictly sequential.
type Supervisor struct {
	cfg      config.Supervisor
	log      *slog.Logger
	ledger   *Ledger
	schedule Schedule
	sink     history.Sink // optional, best-effort

	mu        sync.Mutex
	child     *Child
	state     State
	lastExit  int
	startedAt time.Time

	stopped atomic.Bool
}

// New builds a Supervisor. sink may be nil to disable history export.
func New(cfg config.Supervisor, log *slog.Logger, sink history.Sink) *Supervisor {
	return &Supervisor{
		cfg:      cfg,
		log:      log,
		ledger:   NewLedger(DefaultWindow),
		schedule: Schedule{Base: cfg.BaseDelay, Max: cfg.MaxDelay},
		sink:     sink,
		state:    StateNotStarted,
	}
}

// Snapshot returns the current view for the health handler.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:        s.state,
		RestartCount: s.ledger.Count(),
		LastExitCode: s.lastExit,
		StartedAt:    s.startedAt,
	}
	if s.child != nil && s.state == StateRunning {
		snap.ChildRunning = true
		snap.ChildPID = s.child.PID()
	}
	return snap
}

// Stop requests termination: the flag flips exactly once, any live child is
// shut down gracefully and every sleep in Run returns early.
func (s *Supervisor) Stop() {
	if s.stopped.Swap(true) {
		return
	}
	s.mu.Lock()
	c := s.child
	s.mu.Unlock()
	if c != nil {
		s.log.Info("terminating bot process")
		c.Stop(s.cfg.GracePeriod)
	}
}

// Run drives the restart loop until termination is requested, the daily cap
// logic decides otherwise, or the worker exits cleanly. It is the only
// goroutine that spawns and reaps children.
func (s *Supervisor) Run(ctx context.Context) {
	for !s.stopping(ctx) {
		if n := s.ledger.Count(); n >= s.cfg.MaxRestarts {
			s.log.Error("maximum restarts exceeded in 24h, entering cooldown",
				"count", n, "max", s.cfg.MaxRestarts, "cooldown", s.cfg.Cooldown)
			metrics.IncCooldown()
			s.record(history.EventCooldown, 0, 0, "daily restart cap reached")
			s.setState(StateCooldown)
			if !s.sleep(ctx, s.cfg.Cooldown) {
				break
			}
			s.ledger.Reset()
			continue
		}

		child, err := startChild(s.cfg.Name, s.cfg.Command, s.cfg.WorkDir, s.childEnv(), s.log)
		if err != nil {
			s.log.Error("failed to start bot process", "error", err)
			s.setState(StateBackoff)
			if !s.sleep(ctx, s.cfg.BaseDelay) {
				break
			}
			continue
		}

		s.mu.Lock()
		s.child = child
		s.state = StateRunning
		s.startedAt = time.Now()
		s.mu.Unlock()
		if s.stopping(ctx) {
			// Stop may have snapshotted a nil child while we were spawning;
			// it is on us to terminate this one.
			child.Stop(s.cfg.GracePeriod)
		}
		s.log.Info("bot process started", "pid", child.PID())
		metrics.IncStart()
		metrics.SetChildRunning(true)
		s.record(history.EventStart, child.PID(), 0, "")

		code, werr := child.Wait()
		metrics.IncStop()
		metrics.SetChildRunning(false)
		s.record(history.EventStop, child.PID(), code, errDetail(werr))

		s.mu.Lock()
		s.child = nil
		s.lastExit = code
		s.mu.Unlock()

		if s.stopping(ctx) {
			s.log.Info("bot process terminated by request", "code", code)
			break
		}
		if code == 0 {
			// Intentional shutdown by the worker, not a crash.
			s.log.Info("bot process exited cleanly, not restarting")
			break
		}

		n := s.ledger.Record()
		metrics.IncRestart()
		s.record(history.EventRestart, child.PID(), code, "")
		delay := s.schedule.Delay(n)
		s.log.Warn("bot process exited, scheduling restart",
			"code", code, "restarts_24h", n, "delay", delay)
		s.setState(StateBackoff)
		if !s.sleep(ctx, delay) {
			break
		}
	}
	s.setState(StateStopped)
	s.log.Info("supervisor stopped")
}

func (s *Supervisor) stopping(ctx context.Context) bool {
	return s.stopped.Load() || ctx.Err() != nil
}

// sleep waits for d in increments of at most one second, returning false as
// soon as termination is requested. Shutdown latency out of any backoff stays
// bounded by the increment.
func (s *Supervisor) sleep(ctx context.Context, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if s.stopped.Load() {
			return false
		}
		remain := time.Until(deadline)
		if remain <= 0 {
			return true
		}
		step := time.Second
		if remain < step {
			step = remain
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(step):
		}
	}
}

func (s *Supervisor) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Supervisor) childEnv() []string {
	if len(s.cfg.Env) == 0 {
		return nil // inherit as-is
	}
	return append(os.Environ(), s.cfg.Env...)
}

// record exports a history event best-effort; sink errors are logged and
// never influence restart decisions.
func (s *Supervisor) record(t history.EventType, pid, code int, detail string) {
	if s.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e := history.Event{
		Type:       t,
		OccurredAt: time.Now(),
		Name:       s.cfg.Name,
		PID:        pid,
		ExitCode:   code,
		Detail:     detail,
	}
	if err := s.sink.Send(ctx, e); err != nil {
		s.log.Warn("history sink send failed", "event", string(t), "error", err)
	}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
