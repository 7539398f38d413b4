package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings for the supervisor log file.
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

// Config describes the supervisor's log destination. If Path is empty the
// supervisor logs to stderr only. Rotation parameters follow lumberjack
// semantics.
type Config struct {
	Path       string `json:"path" mapstructure:"path"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `json:"compress" mapstructure:"compress"`
	Debug      bool   `json:"debug" mapstructure:"debug"`
}

// New builds the supervisor's slog.Logger: a colored text handler on stderr,
// plus a rotated file sink when Path is set. The returned closer releases the
// file sink and is a no-op otherwise.
func New(c Config) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	handlers = append(handlers, NewColorTextHandler(os.Stderr, opts, true))

	var closer io.Closer = nopCloser{}
	if c.Path != "" {
		if dir := filepath.Dir(c.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, nil, err
			}
		}
		fw := &lj.Logger{
			Filename:   c.Path,
			MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
			MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   c.Compress,
		}
		handlers = append(handlers, slog.NewTextHandler(fw, opts))
		closer = fw
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closer, nil
	}
	return slog.New(multiHandler(handlers)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
