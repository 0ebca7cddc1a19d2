// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/roombot-project/roombot/lib/room"
)

// TitleConflict records a platform-reported room whose title is
// already claimed by a different group id. The conflicting room is
// skipped; an operator must resolve it manually.
type TitleConflict struct {
	Title           string
	ReportedGroupID string
	ExistingGroupID string
}

// Outcome summarizes a reconciliation merge.
type Outcome struct {
	Updated   int
	Added     int
	Conflicts []TitleConflict
}

// Reconcile merges the platform-reported rooms into the store under
// one lock, then persists once. The platform is authoritative for
// membership, moderators, and description; the store is authoritative
// for title identity, owner, visibility, and creation time.
//
// For each reported room:
//   - a group-id match updates Members, Moderators, Description, and
//     LastUpdated in place, preserving Title, Owner, Visibility, and
//     Created;
//   - no group-id match but the title held by a different group id is
//     a conflict: the reported room is skipped, nothing is mutated;
//   - otherwise the reported room is inserted as new (hidden, owner
//     unknown), covering the bot being handed moderator rights in a
//     room it did not create.
//
// Running Reconcile twice against an unchanged platform changes
// nothing but LastUpdated.
func (s *Store) Reconcile(ctx context.Context, reported []*room.Room, now time.Time) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var outcome Outcome
	for _, incoming := range reported {
		if existing, ok := s.byGroupIDLocked(incoming.GroupID); ok {
			existing.Members = incoming.Members
			existing.Moderators = incoming.Moderators
			existing.Description = incoming.Description
			existing.LastUpdated = now
			outcome.Updated++
			continue
		}

		if holder, exists := s.rooms[incoming.Title]; exists {
			outcome.Conflicts = append(outcome.Conflicts, TitleConflict{
				Title:           incoming.Title,
				ReportedGroupID: incoming.GroupID,
				ExistingGroupID: holder.GroupID,
			})
			continue
		}

		s.rooms[incoming.Title] = incoming.Clone()
		s.order = append(s.order, incoming.Title)
		outcome.Added++
	}

	return outcome, s.saveLocked(ctx)
}
