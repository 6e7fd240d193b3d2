// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/numbersmith/number-inventory-service/internal/usecase"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

// statusFor maps an error kind to the HTTP status returned to the caller.
// Unexpected errors come from provider responses we could not use.
func statusFor(err error) int {
	var (
		validation  errors.Validation
		notFound    errors.NotFound
		rateLimited errors.RateLimited
		unavailable errors.ServiceUnavailable
		unexpected  errors.Unexpected
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case stderrors.As(err, &validation):
		return http.StatusBadRequest
	case stderrors.As(err, &notFound):
		return http.StatusNotFound
	case stderrors.As(err, &rateLimited), stderrors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case stderrors.As(err, &unexpected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes the matching error response. A failed search
// returns the numbers it found before giving up.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := ErrorResponseDTO{Error: "unknown error"}
	if err != nil {
		body.Error = err.Error()
	}

	var failed *usecase.SearchFailed
	if stderrors.As(err, &failed) {
		body.Partial = searchResultToResponse(failed.Partial, failed.Batches, "", 0)
	}
	if rl, ok := errors.IsRateLimited(err); ok && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", "error", err, "status", status)
	} else {
		slog.WarnContext(ctx, "request rejected", "error", err, "status", status)
	}
	respondWithJSON(ctx, w, status, body)
}
