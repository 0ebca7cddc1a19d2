// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package room

import (
	"fmt"
	"strings"
)

// Visibility controls how a room can be discovered and joined.
// Values are stored lowercase; ParseVisibility normalizes input.
type Visibility string

const (
	// Public rooms appear in listings. Any user can join directly
	// when the bot holds moderator rights in the room; otherwise an
	// invite request is posted instead.
	Public Visibility = "public"

	// Private rooms appear in listings but joining always requires
	// a moderator to act on an invite request.
	Private Visibility = "private"

	// Hidden rooms are unlisted and invite-only. This is the default
	// for rooms the bot discovers through reconciliation, where the
	// provenance is unknown.
	Hidden Visibility = "hidden"
)

// DefaultVisibility is assigned to rooms created through the create
// command when no visibility is given.
const DefaultVisibility = Private

// Visibilities lists the accepted values in display order.
var Visibilities = []Visibility{Public, Private, Hidden}

// ParseVisibility validates a user-supplied visibility value. Matching
// is case-insensitive; the returned value is lowercase. Unknown values
// return an error naming the accepted set.
func ParseVisibility(value string) (Visibility, error) {
	normalized := Visibility(strings.ToLower(value))
	for _, known := range Visibilities {
		if normalized == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown visibility %q (expected public, private, or hidden)", value)
}

// Listed reports whether rooms with this visibility appear in the
// list command's output. Unknown values are treated as hidden: a
// record that arrived with a visibility this build does not recognize
// stays unlisted rather than leaking.
func (v Visibility) Listed() bool {
	return v == Public || v == Private
}

// DirectJoin reports whether a join request may add the user without
// moderator involvement. Only public rooms allow it, and only when the
// bot itself is a moderator of the room — without moderator rights the
// platform would reject the membership change, so the bot falls back
// to posting an invite request.
func (v Visibility) DirectJoin(botIsModerator bool) bool {
	return v == Public && botIsModerator
}
