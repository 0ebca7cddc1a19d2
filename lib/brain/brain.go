// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package brain

import "context"

// Brain is a persistent key-value byte store. Implementations must be
// safe for concurrent use.
type Brain interface {
	// Get returns the blob stored under key. The second return is
	// false when the key has never been written (distinct from an
	// empty blob).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores blob under key, replacing any previous value.
	Set(ctx context.Context, key string, blob []byte) error

	// Close releases the underlying storage. Idempotent.
	Close() error
}
