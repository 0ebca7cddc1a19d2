// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// MaxTitleLength is the longest room title the bot accepts. Titles
// beyond this are rejected before any platform call.
const MaxTitleLength = 64

// Room is the bot's record of one managed chat room. Title is the
// primary key in the store; GroupID is the platform's stable
// identifier and is what every platform call uses. Owner is set once
// at creation and never overwritten.
//
// Members and Moderators are the platform-reported lists from the most
// recent reconciliation. They are ordered slices treated as sets:
// membership is tested by containment and duplicates are not expected.
type Room struct {
	Title       string
	GroupID     string
	Owner       string
	Visibility  Visibility
	Description string
	Members     []string
	Moderators  []string
	Created     time.Time
	LastUpdated time.Time
}

// New builds a Room created through the create command. The owner is
// fixed for the life of the room and the visibility starts at the
// default. Both timestamps are set to now.
func New(title, groupID, owner string, now time.Time) *Room {
	return &Room{
		Title:       title,
		GroupID:     groupID,
		Owner:       owner,
		Visibility:  DefaultVisibility,
		Created:     now,
		LastUpdated: now,
	}
}

// FromPlatform builds the transient view of a platform-reported room
// used during reconciliation. The owner is unknown and the visibility
// defaults to hidden: a room of unknown provenance should not surface
// in listings until a moderator says so.
func FromPlatform(title, groupID, description string, members, moderators []string, now time.Time) *Room {
	return &Room{
		Title:       title,
		GroupID:     groupID,
		Visibility:  Hidden,
		Description: description,
		Members:     members,
		Moderators:  moderators,
		Created:     now,
		LastUpdated: now,
	}
}

// Clone returns a deep copy. The store hands out clones so callers
// can read fields without racing against reconciliation updates.
func (r *Room) Clone() *Room {
	copied := *r
	copied.Members = slices.Clone(r.Members)
	copied.Moderators = slices.Clone(r.Moderators)
	return &copied
}

// IsOwner reports whether user created the room.
func (r *Room) IsOwner(user string) bool { return user == r.Owner }

// IsModerator reports whether user is in the platform-reported
// moderator list.
func (r *Room) IsModerator(user string) bool { return slices.Contains(r.Moderators, user) }

// IsMember reports whether user is in the platform-reported member
// list.
func (r *Room) IsMember(user string) bool { return slices.Contains(r.Members, user) }

// Describe renders a stable multi-line snapshot of every field, for
// members and the owner. Field order is fixed so replies are
// comparable across calls.
func (r *Room) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", r.Title)
	fmt.Fprintf(&b, "Group ID: %s\n", r.GroupID)
	fmt.Fprintf(&b, "Owner: %s\n", r.Owner)
	fmt.Fprintf(&b, "Visibility: %s\n", r.Visibility)
	fmt.Fprintf(&b, "Description: %s\n", r.Description)
	fmt.Fprintf(&b, "Members: %s\n", strings.Join(r.Members, ", "))
	fmt.Fprintf(&b, "Moderators: %s\n", strings.Join(r.Moderators, ", "))
	fmt.Fprintf(&b, "Created: %s\n", r.Created.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Last updated: %s", r.LastUpdated.UTC().Format(time.RFC3339))
	return b.String()
}
