// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

// Package reconcile keeps the local room store aligned with the
// platform's authoritative room list.
//
// The platform is the source of truth for which rooms the bot is in
// and who their members and moderators are. The store is the source
// of truth for title-based identity and visibility, which the
// platform does not track. The engine pulls the full room list on a
// fixed interval and merges it into the store.
//
// Known limitation, inherited from the platform: after the bot leaves
// a delisted room, the platform may keep reporting it for a while
// from its own stale cache, which re-adds the room here as hidden.
// The engine does not second-guess the platform's list; the window
// closes when the platform's cache catches up.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roombot-project/roombot/lib/clock"
	"github.com/roombot-project/roombot/lib/room"
	"github.com/roombot-project/roombot/lib/store"
	"github.com/roombot-project/roombot/messaging"
)

// DefaultInterval is the time between reconciliation runs.
const DefaultInterval = 60 * time.Second

// Transport is the platform surface the engine needs.
type Transport interface {
	Rooms(ctx context.Context) ([]messaging.RoomInfo, error)
}

// Config holds the engine's collaborators. Transport and Store are
// required; Clock defaults to the real clock, Interval to
// DefaultInterval, and a nil Logger discards output.
type Config struct {
	Transport Transport
	Store     *store.Store
	Clock     clock.Clock
	Interval  time.Duration
	Logger    *slog.Logger
}

// Engine merges the platform's room list into the store
// periodically. Create with New, then call Run.
type Engine struct {
	transport Transport
	store     *store.Store
	clock     clock.Clock
	interval  time.Duration
	logger    *slog.Logger
}

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		transport: cfg.Transport,
		store:     cfg.Store,
		clock:     clk,
		interval:  interval,
		logger:    logger,
	}
}

// Run reconciles once immediately, then on every interval tick until
// ctx is cancelled. Failed runs are logged and skipped; the next tick
// tries again with the previous state intact.
func (e *Engine) Run(ctx context.Context) {
	if err := e.RunOnce(ctx); err != nil {
		e.logger.Error("initial reconciliation failed", "error", err)
	}

	ticker := e.clock.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.RunOnce(ctx); err != nil {
				e.logger.Error("reconciliation failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single reconciliation run. On a transport
// failure or a malformed platform response the run is aborted and the
// store is left untouched.
func (e *Engine) RunOnce(ctx context.Context) error {
	e.logger.Debug("updating room state")

	reported, err := e.transport.Rooms(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: fetching room list: %w", err)
	}

	now := e.clock.Now()
	incoming := make([]*room.Room, len(reported))
	for index, info := range reported {
		incoming[index] = room.FromPlatform(
			info.Title,
			info.GroupID,
			info.Description,
			messaging.MemberNames(info.Members),
			messaging.MemberNames(info.Moderators),
			now,
		)
	}

	outcome, err := e.store.Reconcile(ctx, incoming, now)
	for _, conflict := range outcome.Conflicts {
		e.logger.Warn("added to room with conflicting title",
			"title", conflict.Title,
			"new_group_id", conflict.ReportedGroupID,
			"existing_group_id", conflict.ExistingGroupID,
		)
	}
	if err != nil {
		return fmt.Errorf("reconcile: merging room list: %w", err)
	}

	if outcome.Added > 0 || len(outcome.Conflicts) > 0 {
		e.logger.Info("room state updated",
			"reported", len(reported),
			"updated", outcome.Updated,
			"added", outcome.Added,
			"conflicts", len(outcome.Conflicts),
		)
	}
	return nil
}
