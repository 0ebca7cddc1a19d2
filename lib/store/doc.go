// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

// Package store holds the bot's durable mapping from room title to
// [room.Room], persisted through the brain as a single JSON blob.
//
// The title is the primary key: exactly one room per title at any
// time. Reconciliation looks rooms up by group id instead, since the
// platform's identifier is the stable one when titles drift.
//
// A coarse mutex guards the mapping. Every public operation takes the
// lock, applies its change, and persists the whole state before
// releasing it, so command handlers and the reconciliation timer can
// interleave without observing partial state. Room set sizes are
// small; contention is not a concern.
//
// Saves fully overwrite the previous blob (last-writer-wins). The
// store assumes a single process owns the brain key.
package store
