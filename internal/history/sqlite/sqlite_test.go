package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/obidov404/ZetShopUZ/internal/history"
)

func TestSendAndQueryBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	sink, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = sink.Close() }()

	ctx := context.Background()
	events := []history.Event{
		{Type: history.EventStart, OccurredAt: time.Now(), Name: "zetshop-bot", PID: 101},
		{Type: history.EventStop, OccurredAt: time.Now(), Name: "zetshop-bot", PID: 101, ExitCode: 1, Detail: "crash"},
		{Type: history.EventRestart, OccurredAt: time.Now(), Name: "zetshop-bot", PID: 101, ExitCode: 1},
	}
	for _, e := range events {
		if err := sink.Send(ctx, e); err != nil {
			t.Fatalf("Send(%s): %v", e.Type, err)
		}
	}

	var count int
	if err := sink.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM supervisor_history`).Scan(&count); err != nil {
		t.Fatalf("count query: %v", err)
	}
	if count != len(events) {
		t.Fatalf("row count = %d, want %d", count, len(events))
	}

	var event, detail string
	var exitCode int
	err = sink.db.QueryRowContext(ctx,
		`SELECT event, exit_code, COALESCE(detail,'') FROM supervisor_history WHERE event = 'stop'`).
		Scan(&event, &exitCode, &detail)
	if err != nil {
		t.Fatalf("row query: %v", err)
	}
	if event != "stop" || exitCode != 1 || detail != "crash" {
		t.Fatalf("stored row = (%s, %d, %q)", event, exitCode, detail)
	}
}

func TestNewDSNPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	sink, err := New("sqlite://" + path)
	if err != nil {
		t.Fatalf("New with prefix: %v", err)
	}
	_ = sink.Close()

	if _, err := New("  "); err == nil {
		t.Fatal("expected error for blank DSN")
	}
}
