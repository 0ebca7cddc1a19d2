// Copyright 2026 The Roombot Authors
// SPDX-License-Identifier: Apache-2.0

package brain

import (
	"context"
	"sync"
)

// Memory is an in-memory Brain for tests. Safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// SetErr, when non-nil, is returned by every Set call. Tests use
	// it to exercise persistence-failure paths.
	SetErr error
}

// NewMemory returns an empty in-memory brain.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(blob))
	copy(copied, blob)
	return copied, true, nil
}

func (m *Memory) Set(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	copied := make([]byte, len(blob))
	copy(copied, blob)
	m.blobs[key] = copied
	return nil
}

func (m *Memory) Close() error { return nil }
