// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

// Package bot routes inbound platform messages to command handlers
// and enforces authorization before any state changes.
//
// Every command follows the same shape: resolve the room (by title
// from the arguments, or by the group id the message arrived in),
// verify the sender's relationship to it (member, moderator, or
// owner, as the command requires), and only then touch the store or
// the platform. Every rejection is a specific user-facing message and
// performs no side effect.
//
// Lookup and validation failures are typed values (store.ErrNotFound,
// store.ErrDuplicateTitle, visibility parse errors) translated into
// user-facing text at the handler boundary; raw internal detail goes
// to the log, never to chat. A panicking handler is recovered and
// logged so one bad command cannot take down the inbox loop or the
// reconciliation timer.
package bot
