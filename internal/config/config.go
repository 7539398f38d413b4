package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/obidov404/ZetShopUZ/internal/logger"
)

// Env holds the environment-derived configuration shared by the supervisor
// and the bot worker. Values are read once at startup; BOT_TOKEN is the only
// required one.
type Env struct {
	BotToken    string // BOT_TOKEN
	Port        int    // PORT, health listener (default 8080)
	AdminID     int64  // ADMIN_ID, optional admin chat for the bot
	DatabaseURL string // DATABASE_URL, optional; empty means local SQLite
}

// LoadEnv reads .env (when present) and then the process environment.
// A missing BOT_TOKEN is a fatal configuration error for the caller.
func LoadEnv() (Env, error) {
	// Best-effort: absence of a .env file is not an error.
	_ = godotenv.Load()

	e := Env{Port: 8080}

	e.BotToken = os.Getenv("BOT_TOKEN")
	if e.BotToken == "" {
		return Env{}, fmt.Errorf("BOT_TOKEN environment variable not set")
	}

	if p := os.Getenv("PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return Env{}, fmt.Errorf("invalid PORT %q", p)
		}
		e.Port = port
	}

	if a := os.Getenv("ADMIN_ID"); a != "" {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return Env{}, fmt.Errorf("invalid ADMIN_ID %q", a)
		}
		e.AdminID = id
	}

	e.DatabaseURL = os.Getenv("DATABASE_URL")
	return e, nil
}

// Supervisor is the TOML-tunable part of the daemon: how the worker is
// launched and how aggressively it is restarted.
type Supervisor struct {
	Name        string        `toml:"name" mapstructure:"name"`
	Command     string        `toml:"command" mapstructure:"command"`
	WorkDir     string        `toml:"workdir" mapstructure:"workdir"`
	Env         []string      `toml:"env" mapstructure:"env"`
	BaseDelay   time.Duration `toml:"base_delay" mapstructure:"base_delay"`
	MaxDelay    time.Duration `toml:"max_delay" mapstructure:"max_delay"`
	MaxRestarts int           `toml:"max_restarts" mapstructure:"max_restarts"`
	Cooldown    time.Duration `toml:"cooldown" mapstructure:"cooldown"`
	GracePeriod time.Duration `toml:"grace_period" mapstructure:"grace_period"`
	HistoryDSN  string        `toml:"history_dsn" mapstructure:"history_dsn"`
	Log         logger.Config `toml:"log" mapstructure:"log"`
}

// Default restart policy, matching the worker's deployment profile.
const (
	DefaultBaseDelay   = 10 * time.Second
	DefaultMaxDelay    = 5 * time.Minute
	DefaultMaxRestarts = 20
	DefaultCooldown    = time.Hour
	DefaultGracePeriod = 2 * time.Second
)

// DefaultSupervisor returns the built-in policy used when no config file is
// given: launch the bot worker binary from PATH and restart it forever.
func DefaultSupervisor() Supervisor {
	return Supervisor{
		Name:        "zetshop-bot",
		Command:     "zetshop-bot",
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		MaxRestarts: DefaultMaxRestarts,
		Cooldown:    DefaultCooldown,
		GracePeriod: DefaultGracePeriod,
	}
}

// LoadSupervisor parses a TOML config file into a Supervisor, filling unset
// fields from the defaults.
func LoadSupervisor(path string) (Supervisor, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Supervisor{}, err
	}
	sc := DefaultSupervisor()
	if err := v.Unmarshal(&sc); err != nil {
		return Supervisor{}, err
	}
	return normalize(sc), nil
}

func normalize(sc Supervisor) Supervisor {
	def := DefaultSupervisor()
	if sc.Name == "" {
		sc.Name = def.Name
	}
	if sc.Command == "" {
		sc.Command = def.Command
	}
	if sc.BaseDelay <= 0 {
		sc.BaseDelay = def.BaseDelay
	}
	if sc.MaxDelay < sc.BaseDelay {
		sc.MaxDelay = def.MaxDelay
	}
	if sc.MaxRestarts <= 0 {
		sc.MaxRestarts = def.MaxRestarts
	}
	if sc.Cooldown <= 0 {
		sc.Cooldown = def.Cooldown
	}
	if sc.GracePeriod <= 0 {
		sc.GracePeriod = def.GracePeriod
	}
	return sc
}
