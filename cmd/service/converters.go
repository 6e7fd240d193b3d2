// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/export"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

// searchRequestToModel converts the request body to a domain search request
func searchRequestToModel(dto SearchRequestDTO) (model.SearchRequest, error) {
	numberType, ok := model.ParseNumberType(dto.Type)
	if !ok {
		return model.SearchRequest{}, errors.NewValidation(fmt.Sprintf("unknown number type %q", dto.Type))
	}

	caps, err := parseCapabilities(dto.Capabilities)
	if err != nil {
		return model.SearchRequest{}, err
	}

	return model.SearchRequest{
		Criteria: model.SearchCriteria{
			Country:      dto.Country,
			Type:         numberType,
			Capabilities: caps,
			Pattern:      dto.Pattern,
			Locality:     dto.Locality,
		},
		SubKeys: dto.AreaCodes,
	}, nil
}

func parseCapabilities(names []string) (model.Capabilities, error) {
	var caps model.Capabilities
	for _, name := range names {
		flag, ok := model.ParseCapability(name)
		if !ok {
			return 0, errors.NewValidation(fmt.Sprintf("unknown capability %q", name))
		}
		caps = caps.With(flag)
	}
	return caps, nil
}

// searchResultToResponse converts candidates and run statistics to the response body
func searchResultToResponse(candidates []model.Candidate, batches int, reason model.StopReason, duration time.Duration) *SearchResponseDTO {
	return &SearchResponseDTO{
		Numbers:    export.NewRecords(candidates),
		Total:      len(candidates),
		Batches:    batches,
		StopReason: string(reason),
		DurationMS: duration.Milliseconds(),
	}
}

// acquireRequestToModel converts the request body to a domain acquisition request
func acquireRequestToModel(dto AcquireRequestDTO) (model.AcquisitionRequest, error) {
	req := model.AcquisitionRequest{
		Country: strings.ToUpper(strings.TrimSpace(dto.Country)),
	}
	if dto.Type != "" {
		numberType, ok := model.ParseNumberType(dto.Type)
		if !ok {
			return req, errors.NewValidation(fmt.Sprintf("unknown number type %q", dto.Type))
		}
		req.Type = numberType
	}

	req.Candidates = make([]model.Candidate, 0, len(dto.Numbers))
	for _, n := range dto.Numbers {
		candidate := model.Candidate{PhoneNumber: strings.TrimSpace(n.Number)}
		if n.MonthlyPrice != nil {
			price, err := decimal.NewFromString(*n.MonthlyPrice)
			if err != nil {
				return req, errors.NewValidation(fmt.Sprintf("invalid monthly price %q for %s", *n.MonthlyPrice, n.Number))
			}
			candidate.MonthlyPrice = decimal.NewNullDecimal(price)
		}
		req.Candidates = append(req.Candidates, candidate)
	}
	return req, nil
}

// batchToResponse converts a finished batch to the response body
func batchToResponse(batch *model.AcquisitionBatch) *AcquireResponseDTO {
	res := &AcquireResponseDTO{
		BatchID:  batch.ID,
		Outcomes: make([]AcquisitionOutcomeDTO, 0, len(batch.Outcomes)),
		Acquired: batch.Acquired(),
		Failed:   batch.Failed(),
	}
	for _, o := range batch.Outcomes {
		res.Outcomes = append(res.Outcomes, AcquisitionOutcomeDTO{
			Number:     o.PhoneNumber,
			Status:     string(o.Status),
			ExternalID: o.ExternalID,
			Reason:     o.Reason,
		})
	}
	return res
}

// recordsToResponse converts inventory records to the response body
func recordsToResponse(records []model.AcquisitionRecord, limit, offset int) *AcquiredListDTO {
	res := &AcquiredListDTO{
		Numbers: make([]AcquiredNumberDTO, 0, len(records)),
		Limit:   limit,
		Offset:  offset,
	}
	for _, r := range records {
		item := AcquiredNumberDTO{
			Number:     r.PhoneNumber,
			ExternalID: r.ExternalID,
			Country:    r.Country,
			Type:       string(r.NumberType),
			BatchID:    r.BatchID,
			AcquiredAt: r.AcquiredAt.UTC().Format(time.RFC3339),
		}
		if r.MonthlyPrice.Valid {
			price := r.MonthlyPrice.Decimal.StringFixed(2)
			item.MonthlyPrice = &price
		}
		res.Numbers = append(res.Numbers, item)
	}
	return res
}
