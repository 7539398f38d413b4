package supervisor

import (
	"bufio"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Child is a handle to one live worker process. At most one Child exists at
// a time; the supervisor loop is the single caller of Wait.
type Child struct {
	cmd     *exec.Cmd
	name    string
	log     *slog.Logger
	readers sync.WaitGroup

	waitOnce sync.Once
	exited   chan struct{}
	exitCode int
	exitErr  error
}

// startChild launches the worker with stdout/stderr piped into the logger
// via two line-reader goroutines. The child gets its own process group so
// Stop can signal the whole tree.
func startChild(name, command, workDir string, env []string, log *slog.Logger) (*Child, error) {
	cmd := buildCommand(command)
	if workDir != "" {
		cmd.Dir = workDir
	}
	if len(env) > 0 {
		cmd.Env = env
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	c := &Child{cmd: cmd, name: name, log: log, exited: make(chan struct{})}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	c.readers.Add(2)
	go c.drain(stdout, "out")
	go c.drain(stderr, "err")
	return c, nil
}

// drain re-logs each child output line with a stream-identifying attribute.
// Lines within one stream stay ordered; the two streams interleave freely.
func (c *Child) drain(r interface{ Read([]byte) (int, error) }, stream string) {
	defer c.readers.Done()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		c.log.Info(sc.Text(), "proc", c.name, "stream", stream)
	}
	if err := sc.Err(); err != nil {
		c.log.Error("error reading child output", "proc", c.name, "stream", stream, "error", err)
	}
}

// PID returns the child's process id.
func (c *Child) PID() int {
	if c.cmd.Process == nil {
		return 0
	}
	return c.cmd.Process.Pid
}

// Wait blocks until the child exits and returns its exit code. It first
// waits for both output readers so no lines are lost, then reaps the
// process. Safe to call once from the supervisor loop; later calls return
// the recorded result.
func (c *Child) Wait() (int, error) {
	c.waitOnce.Do(func() {
		c.readers.Wait()
		err := c.cmd.Wait()
		c.exitCode = exitCodeOf(err)
		if _, ok := err.(*exec.ExitError); ok {
			err = nil // non-zero exit is a result, not a wait failure
		}
		c.exitErr = err
		close(c.exited)
	})
	<-c.exited
	return c.exitCode, c.exitErr
}

// Stop requests graceful termination: SIGTERM to the process group, a grace
// period, then SIGKILL. It relies on the supervisor loop sitting in Wait to
// reap the process.
func (c *Child) Stop(grace time.Duration) {
	pid := c.PID()
	if pid == 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGTERM)
	select {
	case <-c.exited:
		return
	case <-time.After(grace):
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	select {
	case <-c.exited:
	case <-time.After(200 * time.Millisecond):
		// best-effort
	}
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	return -1
}

// buildCommand constructs an *exec.Cmd for the command string. It avoids
// invoking a shell when not necessary and honors an explicit "sh -c" prefix
// without double-wrapping.
func buildCommand(cmdStr string) *exec.Cmd {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		// #nosec G204
		return exec.Command("/bin/true")
	}
	if after, ok := stripExplicitShell(cmdStr); ok {
		// #nosec G204
		return exec.Command("/bin/sh", "-c", after)
	}
	if strings.ContainsAny(cmdStr, "|&;<>*?`$\"'(){}[]~") {
		// #nosec G204
		return exec.Command("/bin/sh", "-c", cmdStr)
	}
	parts := strings.Fields(cmdStr)
	// #nosec G204
	return exec.Command(parts[0], parts[1:]...)
}

// stripExplicitShell detects "sh -c <ARG>" style prefixes and returns the
// script to hand to /bin/sh, stripping one pair of wrapping quotes so
// redirection inside the script still parses.
func stripExplicitShell(cmdStr string) (string, bool) {
	trim := strings.TrimLeft(cmdStr, " \t")
	for _, p := range []string{"sh -c ", "/bin/sh -c ", "/usr/bin/sh -c "} {
		if strings.HasPrefix(trim, p) {
			after := trim[len(p):]
			if n := len(after); n >= 2 {
				if (after[0] == '\'' && after[n-1] == '\'') || (after[0] == '"' && after[n-1] == '"') {
					after = after[1 : n-1]
				}
			}
			return after, true
		}
	}
	return "", false
}
