// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
)

// InventoryRepository stores numbers that were purchased
type InventoryRepository interface {
	// Save records purchased numbers; numbers already stored are left untouched
	Save(ctx context.Context, records []model.AcquisitionRecord) error

	// List returns stored numbers, newest first
	List(ctx context.Context, limit, offset int) ([]model.AcquisitionRecord, error)

	// IsReady checks if the repository is reachable
	IsReady(ctx context.Context) error
}
