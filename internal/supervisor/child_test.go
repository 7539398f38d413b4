package supervisor

import (
	"io"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests require sh on Unix-like systems")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChildWaitReturnsExitCode(t *testing.T) {
	requireUnix(t)
	c, err := startChild("t", "sh -c 'exit 7'", "", nil, discardLogger())
	if err != nil {
		t.Fatalf("startChild: %v", err)
	}
	code, werr := c.Wait()
	if werr != nil {
		t.Fatalf("Wait returned error: %v", werr)
	}
	if code != 7 {
		t.Fatalf("exit code = %d, want 7", code)
	}
}

func TestChildWaitCleanExit(t *testing.T) {
	requireUnix(t)
	c, err := startChild("t", "true", "", nil, discardLogger())
	if err != nil {
		t.Fatalf("startChild: %v", err)
	}
	code, werr := c.Wait()
	if werr != nil || code != 0 {
		t.Fatalf("Wait = (%d, %v), want (0, nil)", code, werr)
	}
}

func TestChildWaitIdempotent(t *testing.T) {
	requireUnix(t)
	c, err := startChild("t", "sh -c 'exit 3'", "", nil, discardLogger())
	if err != nil {
		t.Fatalf("startChild: %v", err)
	}
	first, _ := c.Wait()
	second, _ := c.Wait()
	if first != second {
		t.Fatalf("repeated Wait disagrees: %d vs %d", first, second)
	}
}

func TestChildStopTerminatesWithinGrace(t *testing.T) {
	requireUnix(t)
	c, err := startChild("t", "sleep 30", "", nil, discardLogger())
	if err != nil {
		t.Fatalf("startChild: %v", err)
	}
	done := make(chan int, 1)
	go func() {
		code, _ := c.Wait()
		done <- code
	}()
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	c.Stop(time.Second)
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("child did not exit after Stop")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Stop took %v", elapsed)
	}
}

func TestBuildCommandShellDetection(t *testing.T) {
	cases := []struct {
		in        string
		wantShell bool
	}{
		{"zetshop-bot", false},
		{"sleep 5", false},
		{"echo hi | grep hi", true},
		{"echo $HOME", true},
	}
	for _, c := range cases {
		cmd := buildCommand(c.in)
		isShell := strings.HasSuffix(cmd.Path, "/sh")
		if isShell != c.wantShell {
			t.Errorf("buildCommand(%q) shell=%v, want %v (path %s)", c.in, isShell, c.wantShell, cmd.Path)
		}
	}
}

func TestStripExplicitShell(t *testing.T) {
	after, ok := stripExplicitShell(`sh -c 'echo hi > /tmp/x'`)
	if !ok || after != "echo hi > /tmp/x" {
		t.Fatalf("got (%q, %v)", after, ok)
	}
	if _, ok := stripExplicitShell("sleep 1"); ok {
		t.Fatal("plain command misdetected as explicit shell")
	}
}

func TestBuildCommandEmptyFallsBack(t *testing.T) {
	cmd := buildCommand("   ")
	if cmd == nil || !strings.HasSuffix(cmd.Path, "true") {
		t.Fatalf("empty command built %v", cmd)
	}
}
