package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/obidov404/ZetShopUZ/internal/history"
)

func TestSQLiteDSNDispatch(t *testing.T) {
	dir := t.TempDir()
	for _, dsn := range []string{
		filepath.Join(dir, "a.db"),
		"sqlite://" + filepath.Join(dir, "b.db"),
	} {
		sink, err := NewSinkFromDSN(dsn)
		if err != nil {
			t.Fatalf("NewSinkFromDSN(%q): %v", dsn, err)
		}
		e := history.Event{Type: history.EventStart, OccurredAt: time.Now(), Name: "t", PID: 1}
		if err := sink.Send(context.Background(), e); err != nil {
			t.Fatalf("Send via %q: %v", dsn, err)
		}
		_ = sink.Close()
	}
}

func TestOpenSearchDSNDispatch(t *testing.T) {
	for _, dsn := range []string{
		"opensearch://127.0.0.1:9200/restart-log",
		"elasticsearch://127.0.0.1:9200",
	} {
		sink, err := NewSinkFromDSN(dsn)
		if err != nil {
			t.Fatalf("NewSinkFromDSN(%q): %v", dsn, err)
		}
		if sink == nil {
			t.Fatalf("NewSinkFromDSN(%q): nil sink", dsn)
		}
		_ = sink.Close()
	}
}

func TestEmptyDSNRejected(t *testing.T) {
	if _, err := NewSinkFromDSN("   "); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestUnsupportedSchemeRejected(t *testing.T) {
	if _, err := NewSinkFromDSN("redis://localhost:6379"); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
}
