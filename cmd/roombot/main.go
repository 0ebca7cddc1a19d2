// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

// Command roombot runs the room management bot: it serves user
// commands from the platform inbox and keeps the local room state
// reconciled against the platform's room list.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/roombot-project/roombot/lib/bot"
	"github.com/roombot-project/roombot/lib/brain"
	"github.com/roombot-project/roombot/lib/config"
	"github.com/roombot-project/roombot/lib/reconcile"
	"github.com/roombot-project/roombot/lib/store"
	"github.com/roombot-project/roombot/lib/version"
	"github.com/roombot-project/roombot/messaging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
	)
	pflag.StringVar(&configPath, "config", "", "path to roombot.yaml (overrides ROOMBOT_CONFIG)")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Printf("roombot %s\n", version.Info())
		return nil
	}

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := brain.Open(brain.Config{
		Path:   cfg.Brain.Path,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("opening brain: %w", err)
	}
	defer db.Close()

	roomStore := store.New(db, cfg.Brain.StateKey, logger)
	if err := roomStore.Load(ctx); err != nil {
		return fmt.Errorf("loading room state: %w", err)
	}

	client, err := messaging.NewClient(messaging.ClientConfig{
		BaseURL: cfg.Platform.URL,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	session, err := client.Session(cfg.Platform.Username, cfg.Platform.Token)
	if err != nil {
		return err
	}

	engine := reconcile.New(reconcile.Config{
		Transport: session,
		Store:     roomStore,
		Interval:  cfg.Refresh(),
		Logger:    logger,
	})
	go engine.Run(ctx)

	commandBot := bot.New(bot.Config{
		Transport: session,
		Store:     roomStore,
		Username:  cfg.Platform.Username,
		Logger:    logger,
	})

	logger.Info("roombot started",
		"platform", cfg.Platform.URL,
		"username", cfg.Platform.Username,
		"refresh_interval", cfg.Refresh(),
	)
	messaging.RunInboxLoop(ctx, session, messaging.InboxConfig{
		Timeout: cfg.InboxTimeoutMS,
	}, commandBot.HandleMessage, nil, logger)

	// Mutations persist as they happen; this final save only matters
	// if the last one failed.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := roomStore.Save(saveCtx); err != nil {
		logger.Error("final state save failed", "error", err)
	}

	logger.Info("roombot stopped")
	return nil
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
