package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minefield/internal/app"
	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/store"
)

func main() {
	_ = godotenv.Load()

	log, err := config.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	mines.Log = log

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := app.ConfigFromEnv()
	if err != nil {
		log.WithError(err).Fatal("unable to read config")
	}

	log.WithFields(logrus.Fields{
		"addr":        cfg.Addr,
		"base_path":   cfg.BasePath,
		"size":        cfg.Params.Size,
		"mine_count":  cfg.Params.MineCount,
		"flags":       cfg.Params.Flags,
		"session_ttl": cfg.TTL.String(),
		"development": config.Development(),
	}).Info("starting up")

	a := app.New(log, cfg, store.NewMemory(nil), nil)
	if err := a.Start(ctx); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}

	log.Info("shut down")
}
