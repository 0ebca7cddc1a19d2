// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/roombot-project/roombot/lib/brain"
	"github.com/roombot-project/roombot/lib/room"
	"github.com/roombot-project/roombot/lib/store"
	"github.com/roombot-project/roombot/messaging"
)

const botUsername = "roombot@example.com"

type sent struct {
	target string
	text   string
	opts   *messaging.MessageOptions
}

type addCall struct {
	groupID string
	members []string
}

// fakeTransport records every platform call the bot makes.
type fakeTransport struct {
	createRequests []messaging.CreateRoomRequest
	createResponse *messaging.CreateRoomResponse
	createErr      error

	addCalls []addCall
	addErr   error

	leaveCalls []string

	roomMessages []sent
	userMessages []sent
}

func (f *fakeTransport) CreateRoom(_ context.Context, request messaging.CreateRoomRequest) (*messaging.CreateRoomResponse, error) {
	f.createRequests = append(f.createRequests, request)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResponse != nil {
		return f.createResponse, nil
	}
	return &messaging.CreateRoomResponse{GroupID: "group-new"}, nil
}

func (f *fakeTransport) AddMembers(_ context.Context, groupID string, members []string) error {
	f.addCalls = append(f.addCalls, addCall{groupID: groupID, members: members})
	return f.addErr
}

func (f *fakeTransport) LeaveRoom(_ context.Context, groupID string) error {
	f.leaveCalls = append(f.leaveCalls, groupID)
	return nil
}

func (f *fakeTransport) SendToRoom(_ context.Context, groupID, text string, opts *messaging.MessageOptions) error {
	f.roomMessages = append(f.roomMessages, sent{target: groupID, text: text, opts: opts})
	return nil
}

func (f *fakeTransport) SendToUser(_ context.Context, user, text string, opts *messaging.MessageOptions) error {
	f.userMessages = append(f.userMessages, sent{target: user, text: text, opts: opts})
	return nil
}

func (f *fakeTransport) lastUserMessage(t *testing.T) sent {
	t.Helper()
	if len(f.userMessages) == 0 {
		t.Fatal("no direct messages sent")
	}
	return f.userMessages[len(f.userMessages)-1]
}

func newTestBot(t *testing.T) (*Bot, *fakeTransport, *store.Store) {
	t.Helper()
	transport := &fakeTransport{}
	st := store.New(brain.NewMemory(), "", nil)
	b := New(Config{
		Transport: transport,
		Store:     st,
		Username:  botUsername,
	})
	return b, transport, st
}

// seed inserts a room directly into the store.
func seed(t *testing.T, st *store.Store, r *room.Room) {
	t.Helper()
	if r.Created.IsZero() {
		r.Created = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		r.LastUpdated = r.Created
	}
	if err := st.Insert(context.Background(), r); err != nil {
		t.Fatalf("seeding room %q: %v", r.Title, err)
	}
}

func roomMsg(sender, groupID, text string) messaging.Message {
	return messaging.Message{ID: "m1", Sender: sender, GroupID: groupID, Text: text}
}

func directMsg(sender, text string) messaging.Message {
	return messaging.Message{ID: "m1", Sender: sender, GroupID: "dm-1", Receiver: botUsername, Text: text}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/create Book Club"))

		if len(transport.createRequests) != 1 {
			t.Fatalf("create calls = %d, want 1", len(transport.createRequests))
		}
		request := transport.createRequests[0]
		if request.Title != "Book Club" || request.Owner != "alice" {
			t.Errorf("create request = %+v", request)
		}
		if len(request.Moderators) != 1 || request.Moderators[0] != "alice" {
			t.Errorf("create moderators = %v, want [alice]", request.Moderators)
		}

		created, err := st.Get("Book Club")
		if err != nil {
			t.Fatalf("room not stored: %v", err)
		}
		if created.GroupID != "group-new" {
			t.Errorf("group id = %q", created.GroupID)
		}
		if created.Owner != "alice" {
			t.Errorf("owner = %q", created.Owner)
		}
		if created.Visibility != room.Private {
			t.Errorf("visibility = %q, want private", created.Visibility)
		}

		confirmation := transport.lastUserMessage(t)
		if confirmation.target != "alice" || !strings.Contains(confirmation.text, "Room created successfully") {
			t.Errorf("confirmation = %+v", confirmation)
		}
		if len(transport.roomMessages) != 1 || transport.roomMessages[0].target != "group-new" {
			t.Fatalf("welcome messages = %+v", transport.roomMessages)
		}
		if !strings.Contains(transport.roomMessages[0].text, "started a new room") {
			t.Errorf("welcome text = %q", transport.roomMessages[0].text)
		}
	})

	t.Run("empty title", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/create"))

		if len(transport.createRequests) != 0 {
			t.Errorf("create calls = %d, want 0", len(transport.createRequests))
		}
		if st.Len() != 0 {
			t.Errorf("store len = %d, want 0", st.Len())
		}
	})

	t.Run("title too long", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		long := strings.Repeat("x", room.MaxTitleLength+1)
		b.HandleMessage(ctx, directMsg("alice", "/create "+long))

		if len(transport.createRequests) != 0 {
			t.Errorf("create calls = %d, want 0", len(transport.createRequests))
		}
		if st.Len() != 0 {
			t.Errorf("store len = %d, want 0", st.Len())
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "64 characters") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("duplicate title", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, room.New("Book Club", "group-1", "bob", time.Now()))

		b.HandleMessage(ctx, directMsg("alice", "/create Book Club"))

		if len(transport.createRequests) != 0 {
			t.Errorf("create calls = %d, want 0", len(transport.createRequests))
		}
		existing, err := st.Get("Book Club")
		if err != nil {
			t.Fatal(err)
		}
		if existing.Owner != "bob" {
			t.Errorf("existing room owner = %q, want bob", existing.Owner)
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "already exists") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("platform failure", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		transport.createErr = errors.New("boom")

		b.HandleMessage(ctx, directMsg("alice", "/create Book Club"))

		if st.Len() != 0 {
			t.Errorf("store len = %d, want 0", st.Len())
		}
		reply := transport.lastUserMessage(t)
		if !strings.Contains(reply.text, "Failed to create") {
			t.Errorf("reply = %q", reply.text)
		}
		if strings.Contains(reply.text, "boom") {
			t.Errorf("reply leaks internal error detail: %q", reply.text)
		}
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/list"))

		if !strings.Contains(transport.lastUserMessage(t).text, "No rooms found") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("excludes hidden and marks private", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Alpha", GroupID: "g1", Visibility: room.Public})
		seed(t, st, &room.Room{Title: "Beta", GroupID: "g2", Visibility: room.Private})
		seed(t, st, &room.Room{Title: "Gamma", GroupID: "g3", Visibility: room.Hidden})

		b.HandleMessage(ctx, directMsg("alice", "/list"))

		listing := transport.lastUserMessage(t).text
		want := "*Room List*\n\u2022 Alpha\n\u2022 Beta (private)"
		if listing != want {
			t.Errorf("listing = %q, want %q", listing, want)
		}
	})
}

func TestJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("already a member", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public, Members: []string{"alice"}})

		b.HandleMessage(ctx, directMsg("alice", "/join Fake Room"))

		if len(transport.addCalls) != 0 {
			t.Errorf("member-update calls = %d, want 0", len(transport.addCalls))
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "already a member") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("public room with bot as moderator", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public, Moderators: []string{botUsername}})

		b.HandleMessage(ctx, directMsg("alice", "/join Fake Room"))

		if len(transport.addCalls) != 1 {
			t.Fatalf("member-update calls = %d, want 1", len(transport.addCalls))
		}
		call := transport.addCalls[0]
		if call.groupID != "g1" || len(call.members) != 1 || call.members[0] != "alice" {
			t.Errorf("member-update call = %+v", call)
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "You have been added") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}

		updated, err := st.Get("Fake Room")
		if err != nil {
			t.Fatal(err)
		}
		if !updated.IsMember("alice") {
			t.Error("alice not recorded as a member")
		}
	})

	t.Run("public room without bot moderator rights", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public})

		b.HandleMessage(ctx, directMsg("alice", "/join Fake Room"))

		if len(transport.addCalls) != 0 {
			t.Errorf("member-update calls = %d, want 0", len(transport.addCalls))
		}
		if len(transport.roomMessages) != 1 {
			t.Fatalf("room posts = %+v", transport.roomMessages)
		}
		if !strings.Contains(transport.roomMessages[0].text, "Invite request") {
			t.Errorf("room post = %q", transport.roomMessages[0].text)
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "invite request has been sent") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("private and hidden rooms always invite-request", func(t *testing.T) {
		for _, visibility := range []room.Visibility{room.Private, room.Hidden} {
			t.Run(string(visibility), func(t *testing.T) {
				b, transport, st := newTestBot(t)
				seed(t, st, &room.Room{
					Title:      "Fake Room",
					GroupID:    "g1",
					Visibility: visibility,
					Moderators: []string{botUsername},
				})

				b.HandleMessage(ctx, directMsg("alice", "/join Fake Room"))

				if len(transport.addCalls) != 0 {
					t.Errorf("member-update calls = %d, want 0", len(transport.addCalls))
				}
				if len(transport.roomMessages) != 1 || !strings.Contains(transport.roomMessages[0].text, "Invite request") {
					t.Errorf("room posts = %+v", transport.roomMessages)
				}
			})
		}
	})

	t.Run("close match suggested with buttons", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public})

		b.HandleMessage(ctx, directMsg("alice", "/join Drake Room"))

		reply := transport.lastUserMessage(t)
		if !strings.Contains(reply.text, `"Fake Room"`) {
			t.Errorf("reply = %q", reply.text)
		}
		if reply.opts == nil || len(reply.opts.Buttons) != 2 {
			t.Fatalf("buttons = %+v", reply.opts)
		}
		if reply.opts.Buttons[0].Command != "/join Fake Room" {
			t.Errorf("join button = %+v", reply.opts.Buttons[0])
		}
		if reply.opts.Buttons[1].Command != "/list" {
			t.Errorf("list button = %+v", reply.opts.Buttons[1])
		}
	})

	t.Run("no close match", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public})

		b.HandleMessage(ctx, directMsg("alice", "/join Completely Different"))

		if !strings.Contains(transport.lastUserMessage(t).text, "404 Room Not Found") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected in direct message", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/visibility public"))

		if !strings.Contains(transport.lastUserMessage(t).text, "only works inside a room") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("unknown room", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, roomMsg("alice", "g-unknown", "/visibility public"))

		if len(transport.roomMessages) != 1 || !strings.Contains(transport.roomMessages[0].text, "Unable to find details") {
			t.Errorf("room posts = %+v", transport.roomMessages)
		}
	})

	t.Run("no argument reports current value", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Hidden})

		b.HandleMessage(ctx, roomMsg("alice", "g1", "/visibility"))

		if len(transport.roomMessages) != 1 || !strings.Contains(transport.roomMessages[0].text, "currently hidden") {
			t.Errorf("room posts = %+v", transport.roomMessages)
		}
	})

	t.Run("case-insensitive input stored lowercase", func(t *testing.T) {
		b, _, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public, Moderators: []string{"alice"}})

		b.HandleMessage(ctx, roomMsg("alice", "g1", "/visibility PRiVaTe"))

		updated, err := st.Get("Fake Room")
		if err != nil {
			t.Fatal(err)
		}
		if updated.Visibility != room.Private {
			t.Errorf("visibility = %q, want private", updated.Visibility)
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public, Moderators: []string{"alice"}})

		b.HandleMessage(ctx, roomMsg("alice", "g1", "/visibility secret"))

		updated, _ := st.Get("Fake Room")
		if updated.Visibility != room.Public {
			t.Errorf("visibility = %q, want public", updated.Visibility)
		}
		if len(transport.roomMessages) != 1 || !strings.Contains(transport.roomMessages[0].text, "not a valid visibility") {
			t.Errorf("room posts = %+v", transport.roomMessages)
		}
	})

	t.Run("non-moderator rejected", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public, Moderators: []string{"bob"}})

		b.HandleMessage(ctx, roomMsg("alice", "g1", "/visibility hidden"))

		updated, _ := st.Get("Fake Room")
		if updated.Visibility != room.Public {
			t.Errorf("visibility = %q, want public (unchanged)", updated.Visibility)
		}
		if len(transport.roomMessages) != 1 || !strings.Contains(transport.roomMessages[0].text, "must be a moderator") {
			t.Errorf("room posts = %+v", transport.roomMessages)
		}
	})
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()

	t.Run("member sees full snapshot", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Private, Members: []string{"alice"}})

		b.HandleMessage(ctx, directMsg("alice", "/describe Fake Room"))

		reply := transport.lastUserMessage(t).text
		for _, field := range []string{"Title: Fake Room", "Group ID: g1", "Visibility: private", "Members: alice"} {
			if !strings.Contains(reply, field) {
				t.Errorf("snapshot missing %q:\n%s", field, reply)
			}
		}
	})

	t.Run("owner sees snapshot without membership", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Owner: "alice", Visibility: room.Private})

		b.HandleMessage(ctx, directMsg("alice", "/describe Fake Room"))

		if !strings.Contains(transport.lastUserMessage(t).text, "Owner: alice") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("non-member rejected", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Owner: "bob", Visibility: room.Private})

		b.HandleMessage(ctx, directMsg("alice", "/describe Fake Room"))

		if !strings.Contains(transport.lastUserMessage(t).text, "must be a member") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("unknown title", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/describe Fake Room"))

		if !strings.Contains(transport.lastUserMessage(t).text, "404 Room Not Found") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})
}

func TestDelist(t *testing.T) {
	ctx := context.Background()

	t.Run("moderator delists", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public, Moderators: []string{"alice"}})

		b.HandleMessage(ctx, directMsg("alice", "/delist Fake Room"))

		if _, err := st.Get("Fake Room"); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("lookup after delist: %v, want ErrNotFound", err)
		}
		if len(transport.leaveCalls) != 1 || transport.leaveCalls[0] != "g1" {
			t.Errorf("leave calls = %v, want [g1]", transport.leaveCalls)
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "Successfully delisted") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("non-moderator rejected", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Public, Moderators: []string{"bob"}})

		b.HandleMessage(ctx, directMsg("alice", "/delist Fake Room"))

		if _, err := st.Get("Fake Room"); err != nil {
			t.Errorf("room should still exist: %v", err)
		}
		if len(transport.leaveCalls) != 0 {
			t.Errorf("leave calls = %v, want none", transport.leaveCalls)
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "must be a moderator") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("unknown title", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/delist Fake Room"))

		if len(transport.leaveCalls) != 0 {
			t.Errorf("leave calls = %v, want none", transport.leaveCalls)
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "404 Room Not Found") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("moderator adds a user", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Private, Moderators: []string{"alice"}})

		b.HandleMessage(ctx, roomMsg("alice", "g1", "/add bob@example.com"))

		if len(transport.addCalls) != 1 {
			t.Fatalf("member-update calls = %d, want 1", len(transport.addCalls))
		}
		call := transport.addCalls[0]
		if call.groupID != "g1" || len(call.members) != 1 || call.members[0] != "bob@example.com" {
			t.Errorf("member-update call = %+v", call)
		}

		updated, err := st.Get("Fake Room")
		if err != nil {
			t.Fatal(err)
		}
		if !updated.IsMember("bob@example.com") {
			t.Error("bob not recorded as a member")
		}
	})

	t.Run("rejected in direct message", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/add bob@example.com"))

		if len(transport.addCalls) != 0 {
			t.Errorf("member-update calls = %d, want 0", len(transport.addCalls))
		}
		if !strings.Contains(transport.lastUserMessage(t).text, "only works inside a room") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("missing username", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Private, Moderators: []string{"alice"}})

		b.HandleMessage(ctx, roomMsg("alice", "g1", "/add"))

		if len(transport.addCalls) != 0 {
			t.Errorf("member-update calls = %d, want 0", len(transport.addCalls))
		}
		if len(transport.roomMessages) != 1 || !strings.Contains(transport.roomMessages[0].text, "provide a username") {
			t.Errorf("room posts = %+v", transport.roomMessages)
		}
	})

	t.Run("non-moderator rejected", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{Title: "Fake Room", GroupID: "g1", Visibility: room.Private, Moderators: []string{"carol"}})

		b.HandleMessage(ctx, roomMsg("alice", "g1", "/add bob@example.com"))

		if len(transport.addCalls) != 0 {
			t.Errorf("member-update calls = %d, want 0", len(transport.addCalls))
		}
		updated, _ := st.Get("Fake Room")
		if updated.IsMember("bob@example.com") {
			t.Error("member list mutated by rejected add")
		}
	})

	t.Run("already a member", func(t *testing.T) {
		b, transport, st := newTestBot(t)
		seed(t, st, &room.Room{
			Title:      "Fake Room",
			GroupID:    "g1",
			Visibility: room.Private,
			Moderators: []string{"alice"},
			Members:    []string{"bob@example.com"},
		})

		b.HandleMessage(ctx, roomMsg("alice", "g1", "/add bob@example.com"))

		if len(transport.addCalls) != 0 {
			t.Errorf("member-update calls = %d, want 0", len(transport.addCalls))
		}
		if len(transport.roomMessages) != 1 || !strings.Contains(transport.roomMessages[0].text, "already a member") {
			t.Errorf("room posts = %+v", transport.roomMessages)
		}
	})
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("non-command text ignored", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, roomMsg("alice", "g1", "good morning everyone"))

		if len(transport.roomMessages)+len(transport.userMessages) != 0 {
			t.Errorf("unexpected replies: %+v %+v", transport.roomMessages, transport.userMessages)
		}
	})

	t.Run("unknown command suggests a close one", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/lsit"))

		if !strings.Contains(transport.lastUserMessage(t).text, "/list") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("command names are case-insensitive", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/LIST"))

		if !strings.Contains(transport.lastUserMessage(t).text, "No rooms found") {
			t.Errorf("reply = %q", transport.lastUserMessage(t).text)
		}
	})

	t.Run("handler panic is recovered", func(t *testing.T) {
		transport := &fakeTransport{}
		// A nil store makes every handler panic on first use.
		b := New(Config{Transport: transport, Username: botUsername})

		b.HandleMessage(ctx, directMsg("alice", "/list"))
	})

	t.Run("help lists visible commands only", func(t *testing.T) {
		b, transport, _ := newTestBot(t)
		b.HandleMessage(ctx, directMsg("alice", "/help"))

		text := transport.lastUserMessage(t).text
		for _, name := range []string{"/create", "/list", "/join", "/visibility", "/delist", "/add", "/help"} {
			if !strings.Contains(text, name+":") {
				t.Errorf("help missing %s:\n%s", name, text)
			}
		}
		if strings.Contains(text, "/describe") {
			t.Errorf("help lists hidden command:\n%s", text)
		}
	})
}
