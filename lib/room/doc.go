// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

// Package room defines the Room entity and the visibility policy that
// governs how rooms are discovered and joined.
//
// A [Room] is the bot's record of one managed chat room: a unique
// human-chosen title, the platform's stable group id, the creating
// owner, a [Visibility], and the membership lists last reported by the
// platform. Rooms carry no behavior beyond simple predicates — all
// mutation policy lives in the store and the command handlers.
//
// [Visibility] is a closed enumeration (public, private, hidden) with
// an associated rule table consulted by the list and join commands.
// The rules are methods on the type rather than string comparisons
// scattered across handlers, so adding a visibility means extending
// one file.
package room
