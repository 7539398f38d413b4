package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/obidov404/ZetShopUZ/internal/bot"
	"github.com/obidov404/ZetShopUZ/internal/config"
	"github.com/obidov404/ZetShopUZ/internal/shop"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("bot exited with error", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	store, err := shop.Open(env.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.SeedIfEmpty(seedCtx); err != nil {
		return err
	}

	b, err := bot.NewBot(env.BotToken, store, env.AdminID, logger)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		logger.Info("shutdown signal received", zap.String("signal", s.String()))
		b.Stop()
	}()

	return b.Start()
}
