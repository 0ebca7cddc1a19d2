// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/roombot-project/roombot/lib/clock"
	"github.com/roombot-project/roombot/lib/store"
	"github.com/roombot-project/roombot/messaging"
)

// Transport is the slice of the platform API the bot needs.
// *messaging.Session implements it; tests substitute fakes.
type Transport interface {
	CreateRoom(ctx context.Context, request messaging.CreateRoomRequest) (*messaging.CreateRoomResponse, error)
	AddMembers(ctx context.Context, groupID string, members []string) error
	LeaveRoom(ctx context.Context, groupID string) error
	SendToRoom(ctx context.Context, groupID, text string, opts *messaging.MessageOptions) error
	SendToUser(ctx context.Context, user, text string, opts *messaging.MessageOptions) error
}

// Config holds the bot's collaborators.
type Config struct {
	Transport Transport
	Store     *store.Store

	// Username is the bot's own platform account. Join uses it to
	// check whether the bot holds moderator rights in a room before
	// attempting a direct add.
	Username string

	// Clock defaults to the real clock.
	Clock clock.Clock

	// Logger defaults to discarding output.
	Logger *slog.Logger
}

// Bot routes inbound messages to command handlers.
type Bot struct {
	transport Transport
	store     *store.Store
	username  string
	clock     clock.Clock
	logger    *slog.Logger
	commands  []command
}

// command is one entry of the dispatch table. Hidden commands work
// when invoked but are left out of the help listing.
type command struct {
	name        string
	description string
	hidden      bool
	run         func(ctx context.Context, msg messaging.Message, args []string)
}

// New builds a Bot with its command table registered.
func New(cfg Config) *Bot {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &Bot{
		transport: cfg.Transport,
		store:     cfg.Store,
		username:  cfg.Username,
		clock:     cfg.Clock,
		logger:    cfg.Logger,
	}
	b.commands = []command{
		{name: "create", description: "Create a new room, e.g. `/create Book Club`", run: b.create},
		{name: "list", description: "List the rooms available to join", run: b.list},
		{name: "join", description: "Join a room by name, e.g. `/join Book Club`", run: b.join},
		{name: "visibility", description: "Show or change the current room's visibility (moderators only)", run: b.visibility},
		{name: "describe", description: "Show a room's full details", hidden: true, run: b.describe},
		{name: "delist", description: "Remove a room from the list and have me leave it (moderators only)", run: b.delist},
		{name: "add", description: "Add a user to the current room (moderators only)", run: b.add},
		{name: "help", description: "Show this message", run: b.help},
	}
	return b
}

// HandleMessage parses and dispatches one inbound message. Messages
// that do not start with a slash are ignored. A panic in a handler is
// recovered and logged so one bad command cannot take down the inbox
// loop.
func (b *Bot) HandleMessage(ctx context.Context, msg messaging.Message) {
	defer func() {
		if panicked := recover(); panicked != nil {
			b.logger.Error("recovered from command handler panic",
				"sender", msg.Sender,
				"text", msg.Text,
				"panic", panicked,
			)
		}
	}()

	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	fields := strings.Fields(text)
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	args := fields[1:]

	for _, cmd := range b.commands {
		if cmd.name == name {
			b.logger.Info("handling command",
				"command", name,
				"sender", msg.Sender,
				"direct", msg.Direct(),
			)
			cmd.run(ctx, msg, args)
			return
		}
	}
	b.unknownCommand(ctx, msg, name)
}

// unknownCommand points the user at the closest registered command
// name, or at /help when nothing is close.
func (b *Bot) unknownCommand(ctx context.Context, msg messaging.Message, name string) {
	bestName := ""
	bestDistance := 4
	for _, cmd := range b.commands {
		if cmd.hidden {
			continue
		}
		if distance := levenshtein(name, cmd.name); distance < bestDistance {
			bestDistance = distance
			bestName = cmd.name
		}
	}

	if bestName != "" {
		b.reply(ctx, msg, "Unknown command /"+name+". Did you mean /"+bestName+"?", nil)
		return
	}
	b.reply(ctx, msg, "Unknown command /"+name+". Send /help for the list of commands.", nil)
}

// reply sends text back into the conversation the message arrived in.
func (b *Bot) reply(ctx context.Context, msg messaging.Message, text string, opts *messaging.MessageOptions) {
	var err error
	if msg.Direct() {
		err = b.transport.SendToUser(ctx, msg.Sender, text, opts)
	} else {
		err = b.transport.SendToRoom(ctx, msg.GroupID, text, opts)
	}
	if err != nil {
		b.logger.Error("sending reply", "sender", msg.Sender, "error", err)
	}
}

// replyPrivate sends text directly to the sender, regardless of where
// the command arrived.
func (b *Bot) replyPrivate(ctx context.Context, msg messaging.Message, text string, opts *messaging.MessageOptions) {
	if err := b.transport.SendToUser(ctx, msg.Sender, text, opts); err != nil {
		b.logger.Error("sending private reply", "sender", msg.Sender, "error", err)
	}
}
