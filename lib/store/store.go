// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/roombot-project/roombot/lib/brain"
	"github.com/roombot-project/roombot/lib/room"
)

// DefaultStateKey is the brain key the serialized state lives under.
const DefaultStateKey = "roombot/state"

// Lookup failures are typed so command handlers can translate them
// into the right user-facing message instead of matching error text.
var (
	// ErrNotFound is returned when no room exists for a title or
	// group id.
	ErrNotFound = errors.New("room not found")

	// ErrDuplicateTitle is returned by Insert when the title is
	// already taken.
	ErrDuplicateTitle = errors.New("a room with this title already exists")
)

// Store is the durable title-keyed room mapping. Create with New,
// then call Load once before use.
type Store struct {
	brain  brain.Brain
	key    string
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[string]*room.Room
	// order holds titles in insertion order. Listings follow it so
	// output is stable across calls.
	order []string
}

// New creates an empty store persisting to the given brain key. A nil
// logger discards log output. An empty key uses DefaultStateKey.
func New(b brain.Brain, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultStateKey
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		brain:  b,
		key:    key,
		logger: logger,
		rooms:  make(map[string]*room.Room),
	}
}

// state is the persisted document: {"rooms": {title: record}}. The
// title lives in the map key only; roomRecord carries the rest.
type state struct {
	Rooms map[string]roomRecord `json:"rooms"`
}

type roomRecord struct {
	GroupID     string          `json:"group_id"`
	Owner       string          `json:"owner,omitempty"`
	Visibility  room.Visibility `json:"visibility"`
	Description string          `json:"description,omitempty"`
	Members     []string        `json:"members,omitempty"`
	Moderators  []string        `json:"moderators,omitempty"`
	Created     time.Time       `json:"created"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Load reads and decodes the persisted blob. A missing blob is a
// first run and leaves the store empty. A malformed blob or a brain
// read failure is logged and the current in-memory state is kept —
// the bot keeps running rather than crashing on bad state.
func (s *Store) Load(ctx context.Context) error {
	blob, found, err := s.brain.Get(ctx, s.key)
	if err != nil {
		s.logger.Error("loading saved state", "key", s.key, "error", err)
		return nil
	}
	if !found {
		s.logger.Info("no saved state, starting empty", "key", s.key)
		return nil
	}

	var decoded state
	if err := json.Unmarshal(blob, &decoded); err != nil {
		s.logger.Error("malformed saved state, keeping in-memory state",
			"key", s.key, "error", err)
		return nil
	}

	rooms := make(map[string]*room.Room, len(decoded.Rooms))
	for title, record := range decoded.Rooms {
		rooms[title] = &room.Room{
			Title:       title,
			GroupID:     record.GroupID,
			Owner:       record.Owner,
			Visibility:  record.Visibility,
			Description: record.Description,
			Members:     record.Members,
			Moderators:  record.Moderators,
			Created:     record.Created,
			LastUpdated: record.LastUpdated,
		}
	}

	// JSON objects carry no order, so rebuild the listing order from
	// creation time (ties broken by title) — the closest stable
	// approximation of original insertion order.
	order := make([]string, 0, len(rooms))
	for title := range rooms {
		order = append(order, title)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := rooms[order[i]], rooms[order[j]]
		if !a.Created.Equal(b.Created) {
			return a.Created.Before(b.Created)
		}
		return a.Title < b.Title
	})

	s.mu.Lock()
	s.rooms = rooms
	s.order = order
	s.mu.Unlock()

	s.logger.Info("loaded state", "key", s.key, "rooms", len(rooms))
	return nil
}

// Save persists the current state. Exposed for the shutdown path;
// every mutating operation saves on its own.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// saveLocked serializes the whole mapping and overwrites the blob.
// Caller holds s.mu.
func (s *Store) saveLocked(ctx context.Context) error {
	document := state{Rooms: make(map[string]roomRecord, len(s.rooms))}
	for title, r := range s.rooms {
		document.Rooms[title] = roomRecord{
			GroupID:     r.GroupID,
			Owner:       r.Owner,
			Visibility:  r.Visibility,
			Description: r.Description,
			Members:     r.Members,
			Moderators:  r.Moderators,
			Created:     r.Created,
			LastUpdated: r.LastUpdated,
		}
	}

	blob, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("store: encoding state: %w", err)
	}
	if err := s.brain.Set(ctx, s.key, blob); err != nil {
		return fmt.Errorf("store: saving state: %w", err)
	}
	return nil
}

// Get returns a copy of the room with the given title, or ErrNotFound.
func (s *Store) Get(title string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[title]
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

// ByGroupID returns a copy of the room with the given platform group
// id, or ErrNotFound.
func (s *Store) ByGroupID(groupID string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byGroupIDLocked(groupID)
	if !ok {
		return nil, ErrNotFound
	}
	return r.Clone(), nil
}

func (s *Store) byGroupIDLocked(groupID string) (*room.Room, bool) {
	for _, title := range s.order {
		if r := s.rooms[title]; r.GroupID == groupID {
			return r, true
		}
	}
	return nil, false
}

// Insert adds a new room and persists. Returns ErrDuplicateTitle if
// the title is already taken; the existing record is untouched.
func (s *Store) Insert(ctx context.Context, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[r.Title]; exists {
		return ErrDuplicateTitle
	}
	s.rooms[r.Title] = r.Clone()
	s.order = append(s.order, r.Title)
	return s.saveLocked(ctx)
}

// Delete removes the room with the given title and persists. Returns
// a copy of the removed room so the caller can reach its group id.
func (s *Store) Delete(ctx context.Context, title string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[title]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.rooms, title)
	if index := slices.Index(s.order, title); index >= 0 {
		s.order = slices.Delete(s.order, index, index+1)
	}
	removed := r.Clone()
	return removed, s.saveLocked(ctx)
}

// SetVisibility updates a room's visibility and persists.
func (s *Store) SetVisibility(ctx context.Context, title string, visibility room.Visibility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[title]
	if !ok {
		return ErrNotFound
	}
	r.Visibility = visibility
	return s.saveLocked(ctx)
}

// AddMember appends user to a room's local member list and persists.
// The platform and local views may briefly diverge after an add; the
// next reconciliation run settles them.
func (s *Store) AddMember(ctx context.Context, title, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[title]
	if !ok {
		return ErrNotFound
	}
	if !slices.Contains(r.Members, user) {
		r.Members = append(r.Members, user)
	}
	return s.saveLocked(ctx)
}

// Listed returns copies of the rooms whose visibility permits
// listing, in insertion order.
func (s *Store) Listed() []*room.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	var listed []*room.Room
	for _, title := range s.order {
		if r := s.rooms[title]; r.Visibility.Listed() {
			listed = append(listed, r.Clone())
		}
	}
	return listed
}

// Titles returns every stored title in insertion order.
func (s *Store) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// Len returns the number of stored rooms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
