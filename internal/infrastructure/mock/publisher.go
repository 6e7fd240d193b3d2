// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"sync"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu           sync.Mutex
	events       []model.AcquisitionEvent
	publishError error
	closed       bool
}

// PublishAcquisition records the event
func (m *MockEventPublisher) PublishAcquisition(ctx context.Context, event model.AcquisitionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishError != nil {
		return m.publishError
	}
	m.events = append(m.events, event)
	return nil
}

// Close marks the publisher closed
func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Events returns a copy of the recorded events
func (m *MockEventPublisher) Events() []model.AcquisitionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AcquisitionEvent, len(m.events))
	copy(out, m.events)
	return out
}

// SetPublishError makes every following publish fail with err
func (m *MockEventPublisher) SetPublishError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishError = err
}

// NewMockEventPublisher creates a recording publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// NoopEventPublisher drops every event
type NoopEventPublisher struct{}

// PublishAcquisition implements the EventPublisher interface
func (NoopEventPublisher) PublishAcquisition(ctx context.Context, event model.AcquisitionEvent) error {
	return nil
}

// Close implements the EventPublisher interface
func (NoopEventPublisher) Close() error {
	return nil
}
