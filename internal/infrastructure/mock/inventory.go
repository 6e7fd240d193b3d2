// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
)

// MockInventoryRepository keeps purchased numbers in memory
type MockInventoryRepository struct {
	mu           sync.Mutex
	records      []model.AcquisitionRecord
	index        map[string]struct{}
	saveError    error
	isReadyError error
}

// Save stores records; numbers already stored are skipped
func (m *MockInventoryRepository) Save(ctx context.Context, records []model.AcquisitionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveError != nil {
		return m.saveError
	}
	for _, r := range records {
		if _, ok := m.index[r.PhoneNumber]; ok {
			continue
		}
		m.index[r.PhoneNumber] = struct{}{}
		m.records = append(m.records, r)
	}
	return nil
}

// List returns stored numbers newest first
func (m *MockInventoryRepository) List(ctx context.Context, limit, offset int) ([]model.AcquisitionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := make([]model.AcquisitionRecord, len(m.records))
	copy(sorted, m.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AcquiredAt.After(sorted[j].AcquiredAt)
	})

	if offset >= len(sorted) {
		return []model.AcquisitionRecord{}, nil
	}
	end := len(sorted)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return sorted[offset:end], nil
}

// IsReady implements the InventoryRepository interface
func (m *MockInventoryRepository) IsReady(ctx context.Context) error {
	return m.isReadyError
}

// SetSaveError makes every following Save fail with err
func (m *MockInventoryRepository) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetIsReadyError sets the error returned by IsReady
func (m *MockInventoryRepository) SetIsReadyError(err error) {
	m.isReadyError = err
}

// Count returns the number of stored records
func (m *MockInventoryRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// NewMockInventoryRepository creates an empty in-memory inventory
func NewMockInventoryRepository() *MockInventoryRepository {
	return &MockInventoryRepository{
		index: make(map[string]struct{}),
	}
}
