// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/internal/metrics"
)

const reasonCancelled = "cancelled"

// BatchAcquirer purchases numbers one at a time
type BatchAcquirer struct {
	provider port.NumberProvider
	pacer    Pacer
}

// Acquire attempts every candidate in order and returns one outcome per
// candidate at the same position. A failure never stops the batch; once ctx
// is done the remaining candidates are reported as cancelled without calling
// the provider.
func (a *BatchAcquirer) Acquire(ctx context.Context, candidates []model.Candidate) []model.AcquisitionOutcome {
	outcomes := make([]model.AcquisitionOutcome, len(candidates))

	for i, candidate := range candidates {
		if ctx.Err() != nil {
			outcomes[i] = model.Failed(candidate.PhoneNumber, reasonCancelled)
			continue
		}
		if a.pacer != nil {
			if err := a.pacer.Wait(ctx); err != nil {
				reason := err.Error()
				if ctx.Err() != nil {
					reason = reasonCancelled
				}
				outcomes[i] = model.Failed(candidate.PhoneNumber, reason)
				continue
			}
		}
		outcomes[i] = a.acquireOne(ctx, candidate.PhoneNumber)
		metrics.Acquisition(string(outcomes[i].Status))
	}

	return outcomes
}

func (a *BatchAcquirer) acquireOne(ctx context.Context, phoneNumber string) (outcome model.AcquisitionOutcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "provider panicked during acquisition",
				"phone_number", phoneNumber,
				"panic", r,
			)
			outcome = model.Failed(phoneNumber, fmt.Sprintf("provider panic: %v", r))
		}
	}()

	externalID, err := a.provider.Acquire(ctx, phoneNumber)
	if err != nil {
		slog.WarnContext(ctx, "failed to acquire number",
			"phone_number", phoneNumber,
			"error", err,
		)
		return model.Failed(phoneNumber, err.Error())
	}

	slog.DebugContext(ctx, "number acquired",
		"phone_number", phoneNumber,
		"external_id", externalID,
	)
	return model.Acquired(phoneNumber, externalID)
}

// NewBatchAcquirer creates a BatchAcquirer; pacer may be nil
func NewBatchAcquirer(provider port.NumberProvider, pacer Pacer) *BatchAcquirer {
	return &BatchAcquirer{
		provider: provider,
		pacer:    pacer,
	}
}
