// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
)

// EventPublisher announces acquisition outcomes
type EventPublisher interface {
	PublishAcquisition(ctx context.Context, event model.AcquisitionEvent) error
	Close() error
}
