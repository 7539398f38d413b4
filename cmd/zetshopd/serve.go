package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/obidov404/ZetShopUZ/internal/config"
	"github.com/obidov404/ZetShopUZ/internal/history"
	"github.com/obidov404/ZetShopUZ/internal/history/factory"
	"github.com/obidov404/ZetShopUZ/internal/logger"
	"github.com/obidov404/ZetShopUZ/internal/metrics"
	"github.com/obidov404/ZetShopUZ/internal/probe"
	"github.com/obidov404/ZetShopUZ/internal/server"
	"github.com/obidov404/ZetShopUZ/internal/supervisor"
)

func createServeCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the supervisor and the health HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(flags)
		},
	}
}

func runServe(flags *GlobalFlags) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	sc := config.DefaultSupervisor()
	if flags.ConfigPath != "" {
		sc, err = config.LoadSupervisor(flags.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", flags.ConfigPath, err)
		}
	}

	log, closer, err := logger.New(sc.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		if closer != nil {
			_ = closer.Close()
		}
	}()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	var sink history.Sink
	if sc.HistoryDSN != "" {
		sink, err = factory.NewSinkFromDSN(sc.HistoryDSN)
		if err != nil {
			return fmt.Errorf("open history sink: %w", err)
		}
		defer func() { _ = sink.Close() }()
	}

	sup := supervisor.New(sc, log, sink)

	prober := probe.NewTelegramProber(env.BotToken, 30*time.Second)
	router := server.NewRouter(prober, sup.Snapshot)
	srv := server.NewServer(fmt.Sprintf(":%d", env.Port), router, log)
	log.Info("health server listening", "addr", srv.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")
		sup.Stop()
	}()

	log.Info("supervisor starting", "name", sc.Name, "command", sc.Command,
		"max_restarts", sc.MaxRestarts, "base_delay", sc.BaseDelay)
	sup.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("health server shutdown", "error", err)
	}
	return nil
}
