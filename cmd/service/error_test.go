// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numbersmith/number-inventory-service/internal/usecase"
	pkgerrors "github.com/numbersmith/number-inventory-service/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name           string
		inputError     error
		expectedStatus int
	}{
		{
			name:           "validation error",
			inputError:     pkgerrors.NewValidation("invalid input"),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrapped validation error",
			inputError:     fmt.Errorf("search: %w", pkgerrors.NewValidation("invalid input")),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not found error",
			inputError:     pkgerrors.NewNotFound("number not found"),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "rate limited",
			inputError:     pkgerrors.NewRateLimited("slow down", time.Second),
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "service unavailable",
			inputError:     pkgerrors.NewServiceUnavailable("provider down", errors.New("connection refused")),
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "unexpected provider response",
			inputError:     pkgerrors.NewUnexpected("malformed body"),
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:           "generic error",
			inputError:     errors.New("generic error"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "nil error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, statusFor(tc.inputError))
		})
	}
}

func TestWriteErrorRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &usecase.SearchFailed{Err: pkgerrors.NewRateLimited("slow down", 1500*time.Millisecond)}

	writeError(context.Background(), rec, err)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))

	var body ErrorResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Partial)
	assert.Zero(t, body.Partial.Total)
	assert.NotNil(t, body.Partial.Numbers)
}

func TestWriteErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown error")
}
