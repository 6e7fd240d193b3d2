// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/internal/usecase"
	"github.com/numbersmith/number-inventory-service/pkg/constants"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/numbersmith/number-inventory-service/pkg/log"
)

// NumberAcquisition purchases numbers and keeps the inventory of acquired ones
type NumberAcquisition struct {
	provider  port.NumberProvider
	inventory port.InventoryRepository
	publisher port.EventPublisher
	acquirer  *usecase.BatchAcquirer
	now       func() time.Time
}

// Acquire purchases every requested number and returns one outcome per number in
// request order. Inventory and event failures are logged; they never change an
// outcome.
func (s *NumberAcquisition) Acquire(ctx context.Context, req model.AcquisitionRequest) (*model.AcquisitionBatch, error) {
	if err := validateAcquisition(req); err != nil {
		slog.With("error", err).ErrorContext(ctx, "acquisition request validation failed")
		return nil, err
	}

	batch := &model.AcquisitionBatch{ID: uuid.NewString()}
	ctx = log.AppendCtx(ctx, slog.String("batch_id", batch.ID))

	slog.InfoContext(ctx, "starting number acquisition", "numbers", len(req.Candidates))

	batch.Outcomes = s.acquirer.Acquire(ctx, req.Candidates)
	acquiredAt := s.now().UTC()

	// detached so that a cancelled request still records what was bought
	bookkeeping := context.WithoutCancel(ctx)
	s.store(bookkeeping, req, batch, acquiredAt)
	s.publish(bookkeeping, batch, acquiredAt)

	slog.InfoContext(ctx, "number acquisition completed",
		"acquired", batch.Acquired(),
		"failed", batch.Failed(),
	)

	return batch, nil
}

func validateAcquisition(req model.AcquisitionRequest) error {
	if len(req.Candidates) == 0 {
		return errors.NewValidation("at least one number is required")
	}
	if len(req.Candidates) > constants.MaxAcquisitionBatch {
		return errors.NewValidation(fmt.Sprintf("at most %d numbers can be acquired at once", constants.MaxAcquisitionBatch))
	}
	seen := make(map[string]struct{}, len(req.Candidates))
	for _, c := range req.Candidates {
		if !model.IsPhoneNumber(c.PhoneNumber) {
			return errors.NewValidation(fmt.Sprintf("invalid phone number %q", c.PhoneNumber))
		}
		if _, dup := seen[c.PhoneNumber]; dup {
			return errors.NewValidation(fmt.Sprintf("phone number %s is listed twice", c.PhoneNumber))
		}
		seen[c.PhoneNumber] = struct{}{}
	}
	return nil
}

func (s *NumberAcquisition) store(ctx context.Context, req model.AcquisitionRequest, batch *model.AcquisitionBatch, acquiredAt time.Time) {
	records := make([]model.AcquisitionRecord, 0, batch.Acquired())
	for i, outcome := range batch.Outcomes {
		if outcome.Status != model.AcquisitionStatusAcquired {
			continue
		}
		records = append(records, model.AcquisitionRecord{
			PhoneNumber:  outcome.PhoneNumber,
			ExternalID:   outcome.ExternalID,
			Country:      req.Country,
			NumberType:   req.Type,
			MonthlyPrice: req.Candidates[i].MonthlyPrice,
			BatchID:      batch.ID,
			AcquiredAt:   acquiredAt,
		})
	}
	if len(records) == 0 {
		return
	}
	if err := s.inventory.Save(ctx, records); err != nil {
		slog.ErrorContext(ctx, "failed to record acquired numbers in inventory",
			"error", err,
			"count", len(records),
		)
	}
}

func (s *NumberAcquisition) publish(ctx context.Context, batch *model.AcquisitionBatch, occurredAt time.Time) {
	if s.publisher == nil {
		return
	}
	for _, outcome := range batch.Outcomes {
		event := model.AcquisitionEvent{
			BatchID:     batch.ID,
			PhoneNumber: outcome.PhoneNumber,
			Status:      outcome.Status,
			ExternalID:  outcome.ExternalID,
			Reason:      outcome.Reason,
			OccurredAt:  occurredAt,
		}
		if err := s.publisher.PublishAcquisition(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish acquisition event",
				"error", err,
				"phone_number", outcome.PhoneNumber,
			)
		}
	}
}

// ListAcquired returns acquired numbers, newest first. A zero limit means the
// default page size.
func (s *NumberAcquisition) ListAcquired(ctx context.Context, limit, offset int) ([]model.AcquisitionRecord, error) {
	if limit == 0 {
		limit = constants.DefaultPageSize
	}
	if limit < 0 || limit > constants.MaxListLimit {
		return nil, errors.NewValidation(fmt.Sprintf("limit must be between 1 and %d", constants.MaxListLimit))
	}
	if offset < 0 {
		return nil, errors.NewValidation("offset must not be negative")
	}

	records, err := s.inventory.List(ctx, limit, offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list acquired numbers", "error", err)
		return nil, err
	}
	return records, nil
}

// IsReady checks the provider and the inventory
func (s *NumberAcquisition) IsReady(ctx context.Context) error {
	if err := s.provider.IsReady(ctx); err != nil {
		return fmt.Errorf("number provider not ready: %w", err)
	}
	if err := s.inventory.IsReady(ctx); err != nil {
		return fmt.Errorf("inventory not ready: %w", err)
	}
	return nil
}

// NewNumberAcquisition creates a NumberAcquisition. publisher may be nil; purchases
// are spaced by acquireDelay.
func NewNumberAcquisition(provider port.NumberProvider, inventory port.InventoryRepository, publisher port.EventPublisher, acquireDelay time.Duration) *NumberAcquisition {
	return &NumberAcquisition{
		provider:  provider,
		inventory: inventory,
		publisher: publisher,
		acquirer:  usecase.NewBatchAcquirer(provider, NewPacer(acquireDelay)),
		now:       time.Now,
	}
}
