// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
)

// NumberProvider defines the behavior of a phone number provider.
// Implementations map transport failures to the pkg/errors kinds so the
// search loop can tell transient from permanent failures.
type NumberProvider interface {
	// SearchPage fetches one page of available numbers
	SearchPage(ctx context.Context, req model.PageRequest) (*model.Page, error)

	// Acquire purchases a single number and returns the provider's identifier for it
	Acquire(ctx context.Context, phoneNumber string) (string, error)

	// IsReady checks if the provider is reachable
	IsReady(ctx context.Context) error
}
