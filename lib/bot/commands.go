// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roombot-project/roombot/lib/room"
	"github.com/roombot-project/roombot/lib/store"
	"github.com/roombot-project/roombot/messaging"
)

// title recovers a free-text room title from a whitespace-tokenized
// argument list.
func title(args []string) string {
	return strings.Join(args, " ")
}

func (b *Bot) create(ctx context.Context, msg messaging.Message, args []string) {
	if len(args) == 0 {
		b.reply(ctx, msg, "To create a room, provide the room name, e.g. `/create Room Name`", nil)
		return
	}

	name := title(args)
	if len(name) > room.MaxTitleLength {
		b.replyPrivate(ctx, msg, fmt.Sprintf("Error: Room name must be %d characters or fewer", room.MaxTitleLength), nil)
		return
	}
	if _, err := b.store.Get(name); err == nil {
		b.replyPrivate(ctx, msg, "Error: A room with this name already exists", nil)
		return
	}

	b.logger.Info("creating room", "title", name, "owner", msg.Sender)
	response, err := b.transport.CreateRoom(ctx, messaging.CreateRoomRequest{
		Title:      name,
		Owner:      msg.Sender,
		Moderators: []string{msg.Sender},
	})
	if err != nil {
		b.logger.Error("creating room", "title", name, "error", err)
		b.replyPrivate(ctx, msg, "Error: Failed to create the room", nil)
		return
	}

	created := room.New(name, response.GroupID, msg.Sender, b.clock.Now())
	if err := b.store.Insert(ctx, created); err != nil {
		if errors.Is(err, store.ErrDuplicateTitle) {
			b.replyPrivate(ctx, msg, "Error: A room with this name already exists", nil)
			return
		}
		// The room exists on the platform and in memory; only the
		// write-back failed. Reconciliation will re-persist it.
		b.logger.Error("saving new room", "title", name, "error", err)
	}

	b.replyPrivate(ctx, msg, fmt.Sprintf("Room created successfully! You are now the moderator of %q.", name), nil)
	welcome := "\U0001F973 You have started a new room!\n\n" +
		"This room is currently private: it shows up in the room list but joining requires an invite. " +
		"Moderators can change that with `/visibility public`, `/visibility private`, or `/visibility hidden`."
	if err := b.transport.SendToRoom(ctx, response.GroupID, welcome, nil); err != nil {
		b.logger.Error("sending welcome message", "group_id", response.GroupID, "error", err)
	}
}

func (b *Bot) list(ctx context.Context, msg messaging.Message, args []string) {
	listed := b.store.Listed()
	if len(listed) == 0 {
		b.replyPrivate(ctx, msg, "No rooms found \U0001F641 Start the movement with `/create`", nil)
		return
	}

	var out strings.Builder
	out.WriteString("*Room List*")
	for _, r := range listed {
		out.WriteString("\n• " + r.Title)
		if r.Visibility == room.Private {
			out.WriteString(" (private)")
		}
	}
	b.replyPrivate(ctx, msg, out.String(), nil)
}

func (b *Bot) join(ctx context.Context, msg messaging.Message, args []string) {
	if len(args) == 0 {
		b.replyPrivate(ctx, msg, "To join a room, provide the room name, e.g. `/join Room Name`", nil)
		return
	}

	name := title(args)
	r, err := b.store.Get(name)
	if err != nil {
		if suggestion := suggestTitle(name, b.store.Titles()); suggestion != "" {
			b.replyPrivate(ctx, msg, fmt.Sprintf("Room not found. Did you mean %q?", suggestion), &messaging.MessageOptions{
				Buttons: []messaging.Button{
					{Text: "Join " + suggestion, Command: "/join " + suggestion},
					{Text: "List Rooms", Command: "/list"},
				},
			})
			return
		}
		b.replyPrivate(ctx, msg, "Error: 404 Room Not Found", nil)
		return
	}

	if r.IsMember(msg.Sender) {
		b.replyPrivate(ctx, msg, "You are already a member of that room", nil)
		return
	}

	// A direct add needs the room to be public and the bot to hold
	// moderator rights in it. Everything else goes through an invite
	// request posted into the room.
	if r.Visibility.DirectJoin(r.IsModerator(b.username)) {
		if err := b.transport.AddMembers(ctx, r.GroupID, []string{msg.Sender}); err != nil {
			b.logger.Error("adding member", "title", r.Title, "user", msg.Sender, "error", err)
			b.replyPrivate(ctx, msg, "Error: Failed to add you to the room", nil)
			return
		}
		if err := b.store.AddMember(ctx, r.Title, msg.Sender); err != nil {
			b.logger.Error("recording new member", "title", r.Title, "user", msg.Sender, "error", err)
		}
		b.replyPrivate(ctx, msg, fmt.Sprintf("You have been added to %q", r.Title), nil)
		return
	}

	request := fmt.Sprintf("\U0001F4E8 Invite request: %s has asked to be added to this room", msg.Sender)
	if err := b.transport.SendToRoom(ctx, r.GroupID, request, nil); err != nil {
		b.logger.Error("sending invite request", "title", r.Title, "user", msg.Sender, "error", err)
		b.replyPrivate(ctx, msg, "Error: Failed to send the invite request", nil)
		return
	}
	b.replyPrivate(ctx, msg, fmt.Sprintf("An invite request has been sent to %q", r.Title), nil)
}

func (b *Bot) visibility(ctx context.Context, msg messaging.Message, args []string) {
	if msg.Direct() {
		b.replyPrivate(ctx, msg, "Error: The visibility command only works inside a room", nil)
		return
	}

	r, err := b.store.ByGroupID(msg.GroupID)
	if err != nil {
		b.reply(ctx, msg, "Error: Unable to find details for this room", nil)
		return
	}

	if len(args) == 0 {
		b.reply(ctx, msg, fmt.Sprintf("This room is currently %s. Moderators can change it with `/visibility public|private|hidden`.", r.Visibility), nil)
		return
	}

	visibility, err := room.ParseVisibility(args[0])
	if err != nil {
		b.reply(ctx, msg, fmt.Sprintf("Error: %q is not a valid visibility setting (public, private, or hidden)", args[0]), nil)
		return
	}
	if !r.IsModerator(msg.Sender) {
		b.reply(ctx, msg, "Error: You must be a moderator of this room to change its visibility", nil)
		return
	}

	if err := b.store.SetVisibility(ctx, r.Title, visibility); err != nil {
		b.logger.Error("updating visibility", "title", r.Title, "error", err)
		b.reply(ctx, msg, "Error: Failed to update the visibility", nil)
		return
	}
	b.reply(ctx, msg, fmt.Sprintf("Visibility updated to %s", visibility), nil)
}

func (b *Bot) describe(ctx context.Context, msg messaging.Message, args []string) {
	if len(args) == 0 {
		b.replyPrivate(ctx, msg, "To describe a room, provide the room name, e.g. `/describe Room Name`", nil)
		return
	}

	r, err := b.store.Get(title(args))
	if err != nil {
		b.replyPrivate(ctx, msg, "Error: 404 Room Not Found", nil)
		return
	}
	if !r.IsMember(msg.Sender) && !r.IsOwner(msg.Sender) {
		b.replyPrivate(ctx, msg, "You must be a member of a room to describe it", nil)
		return
	}
	b.replyPrivate(ctx, msg, r.Describe(), nil)
}

func (b *Bot) delist(ctx context.Context, msg messaging.Message, args []string) {
	if len(args) == 0 {
		b.replyPrivate(ctx, msg, "To delist a room, provide the room name, e.g. `/delist Room Name`", nil)
		return
	}

	name := title(args)
	r, err := b.store.Get(name)
	if err != nil {
		b.replyPrivate(ctx, msg, "Error: 404 Room Not Found", nil)
		return
	}
	if !r.IsModerator(msg.Sender) {
		b.replyPrivate(ctx, msg, "You must be a moderator of the room to delist it", nil)
		return
	}

	b.logger.Info("delisting room", "title", name, "group_id", r.GroupID, "sender", msg.Sender)
	removed, err := b.store.Delete(ctx, name)
	if removed == nil {
		b.replyPrivate(ctx, msg, "Error: 404 Room Not Found", nil)
		return
	}
	if err != nil {
		b.logger.Error("saving state after delist", "title", name, "error", err)
	}

	// The platform may keep reporting this room for a while if its
	// cache of known rooms is stale; reconciliation will then re-add
	// it as hidden. Accepted inconsistency window.
	if err := b.transport.LeaveRoom(ctx, removed.GroupID); err != nil {
		b.logger.Error("leaving room", "title", name, "group_id", removed.GroupID, "error", err)
	}
	b.replyPrivate(ctx, msg, fmt.Sprintf("Successfully delisted %q", name), nil)
}

func (b *Bot) add(ctx context.Context, msg messaging.Message, args []string) {
	if msg.Direct() {
		b.replyPrivate(ctx, msg, "Error: The add command only works inside a room", nil)
		return
	}
	if len(args) == 0 {
		b.reply(ctx, msg, "You must provide a username to add, e.g. `/add bob@example.com`", nil)
		return
	}
	target := args[0]

	r, err := b.store.ByGroupID(msg.GroupID)
	if err != nil {
		b.reply(ctx, msg, "Error: Unable to find details for this room", nil)
		return
	}
	if !r.IsModerator(msg.Sender) {
		b.reply(ctx, msg, "Error: You must be a moderator of this room to add a user", nil)
		return
	}
	if r.IsMember(target) {
		b.reply(ctx, msg, fmt.Sprintf("%s is already a member of this room", target), nil)
		return
	}

	if err := b.transport.AddMembers(ctx, r.GroupID, []string{target}); err != nil {
		b.logger.Error("adding member", "title", r.Title, "user", target, "error", err)
		b.reply(ctx, msg, "Error: Failed to add the user to this room", nil)
		return
	}
	if err := b.store.AddMember(ctx, r.Title, target); err != nil {
		b.logger.Error("recording new member", "title", r.Title, "user", target, "error", err)
	}
	b.logger.Info("added member", "title", r.Title, "user", target, "by", msg.Sender)
}

func (b *Bot) help(ctx context.Context, msg messaging.Message, args []string) {
	var out strings.Builder
	out.WriteString("I manage shared rooms: create one, browse the list, and join the ones you like.\n\n")
	out.WriteString("Rooms have one of three visibility settings:\n")
	out.WriteString("• public: shown in the room list, anyone can join directly\n")
	out.WriteString("• private: shown in the room list, joining sends an invite request (the default)\n")
	out.WriteString("• hidden: not listed, invite only\n\n")
	out.WriteString("Commands:")
	for _, cmd := range b.commands {
		if cmd.hidden {
			continue
		}
		out.WriteString("\n/" + cmd.name + ": " + cmd.description)
	}
	b.replyPrivate(ctx, msg, out.String(), nil)
}
