package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/obidov404/ZetShopUZ/internal/history"
)

func TestPostgresSink_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate PostgreSQL container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	sink, err := New(connStr)
	if err != nil {
		t.Fatalf("Failed to create PostgreSQL sink: %v", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			t.Errorf("Failed to close sink: %v", err)
		}
	}()

	events := []history.Event{
		{Type: history.EventStart, OccurredAt: time.Now().UTC(), Name: "zetshop-bot", PID: 4242},
		{Type: history.EventStop, OccurredAt: time.Now().UTC(), Name: "zetshop-bot", PID: 4242, ExitCode: 1, Detail: "signal: killed"},
		{Type: history.EventRestart, OccurredAt: time.Now().UTC(), Name: "zetshop-bot", PID: 4242, ExitCode: 1},
		{Type: history.EventCooldown, OccurredAt: time.Now().UTC(), Name: "zetshop-bot", Detail: "daily restart cap reached"},
	}
	for _, e := range events {
		if err := sink.Send(ctx, e); err != nil {
			t.Fatalf("Failed to send %s event: %v", e.Type, err)
		}
	}

	var count int
	if err := sink.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM supervisor_history`).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if count != len(events) {
		t.Fatalf("row count = %d, want %d", count, len(events))
	}

	var detail string
	err = sink.db.QueryRowContext(ctx,
		`SELECT COALESCE(detail,'') FROM supervisor_history WHERE event = 'cooldown'`).Scan(&detail)
	if err != nil {
		t.Fatalf("Failed to query cooldown row: %v", err)
	}
	if detail != "daily restart cap reached" {
		t.Fatalf("cooldown detail = %q", detail)
	}
}
