// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "rate limited",
			err:      NewRateLimited("too many requests", time.Second),
			expected: true,
		},
		{
			name:     "service unavailable",
			err:      NewServiceUnavailable("connection refused"),
			expected: true,
		},
		{
			name:     "wrapped rate limited",
			err:      fmt.Errorf("fetch page: %w", NewRateLimited("too many requests", 0)),
			expected: true,
		},
		{
			name:     "validation is permanent",
			err:      NewValidation("unsupported country"),
			expected: false,
		},
		{
			name:     "unexpected is permanent",
			err:      NewUnexpected("failed to decode response"),
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsTransient(tc.err))
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewRateLimited("slow down", 3*time.Second))

	rateLimited, ok := IsRateLimited(err)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, rateLimited.RetryAfter)

	_, ok = IsRateLimited(NewServiceUnavailable("down"))
	assert.False(t, ok)
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("status 404")

	assert.Equal(t, "invalid request", NewValidation("invalid request").Error())
	assert.Equal(t, "invalid request: status 404", NewValidation("invalid request", cause).Error())
	assert.Equal(t, "number not found: status 404", NewNotFound("number not found", cause).Error())
	assert.True(t, errors.Is(NewUnexpected("decode failed", cause), cause))
}
