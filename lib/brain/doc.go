// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

// Package brain provides the bot's persistent key-value blob store.
//
// The store is deliberately dumb: opaque byte blobs keyed by strings,
// get and set, no transactions and no schema awareness. The room store
// serializes its entire state into a single blob under one fixed key
// and overwrites it on every save (last-writer-wins, single-process).
//
// [Open] returns the SQLite-backed implementation used in production.
// [NewMemory] returns an in-memory implementation for tests.
package brain
