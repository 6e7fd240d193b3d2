// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"log/slog"

	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

// MockAuthService accepts any token and returns a fixed principal
type MockAuthService struct {
	principal string
}

// ParsePrincipal returns the configured principal (ignores token parameter)
func (m *MockAuthService) ParsePrincipal(ctx context.Context, token string) (string, error) {

	if m.principal == "" {
		return "", errors.NewValidation("mock principal not configured in JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL")
	}

	slog.DebugContext(ctx, "parsed principal",
		"user_id", m.principal,
	)

	return m.principal, nil
}

// NewMockAuthService creates a new mock authentication service
func NewMockAuthService(principal string) port.Authenticator {
	return &MockAuthService{principal: principal}
}
