// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"
)

// MockSeenStore keeps previously reported numbers in memory
type MockSeenStore struct {
	mu        sync.Mutex
	numbers   map[string]struct{}
	loadError error
	saveError error
}

// Load returns a copy of the stored numbers
func (m *MockSeenStore) Load(ctx context.Context) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadError != nil {
		return nil, m.loadError
	}
	out := make(map[string]struct{}, len(m.numbers))
	for n := range m.numbers {
		out[n] = struct{}{}
	}
	return out, nil
}

// Save merges numbers into the store
func (m *MockSeenStore) Save(ctx context.Context, numbers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	for _, n := range numbers {
		m.numbers[n] = struct{}{}
	}
	return nil
}

// SetErrors makes Load and Save fail
func (m *MockSeenStore) SetErrors(loadErr, saveErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = loadErr
	m.saveError = saveErr
}

// Len returns how many numbers are stored
func (m *MockSeenStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.numbers)
}

// NewMockSeenStore creates a store preloaded with numbers
func NewMockSeenStore(numbers ...string) *MockSeenStore {
	s := &MockSeenStore{numbers: make(map[string]struct{}, len(numbers))}
	for _, n := range numbers {
		s.numbers[n] = struct{}{}
	}
	return s
}
