package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/obidov404/ZetShopUZ/internal/history"
)

// Sink sends supervisor events to ClickHouse using the official client.
type Sink struct {
	conn  driver.Conn
	table string
}

// New connects to ClickHouse at addr ("host:9000") and ensures the target
// table exists.
func New(addr, table string) (*Sink, error) {
	addr = strings.TrimPrefix(strings.TrimSpace(addr), "clickhouse://")
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: "default",
			Password: "",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	s := &Sink{conn: conn, table: table}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		occurred_at DateTime,
		event String,
		name String,
		pid Int32,
		exit_code Int32,
		detail String
	) ENGINE = MergeTree() ORDER BY occurred_at`, s.table)
	return s.conn.Exec(ctx, stmt)
}

func (s *Sink) Send(ctx context.Context, e history.Event) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (occurred_at, event, name, pid, exit_code, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		s.table)
	err := s.conn.Exec(ctx, query,
		e.OccurredAt,
		string(e.Type),
		e.Name,
		int32(e.PID),
		int32(e.ExitCode),
		e.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event into ClickHouse: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
