// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import "github.com/numbersmith/number-inventory-service/internal/export"

// SearchRequestDTO is the body of POST /v1/numbers/search
type SearchRequestDTO struct {
	Country      string   `json:"country" validate:"required,len=2,alpha"`
	Type         string   `json:"type" validate:"required"`
	Capabilities []string `json:"capabilities,omitempty" validate:"omitempty,max=3,dive,oneof=voice sms mms VOICE SMS MMS"`
	Pattern      string   `json:"pattern,omitempty" validate:"omitempty,max=16"`
	Locality     string   `json:"locality,omitempty" validate:"omitempty,max=64"`
	AreaCodes    []string `json:"area_codes,omitempty" validate:"omitempty,max=50,dive,numeric,min=2,max=5"`
}

// SearchResponseDTO is the result of a search
type SearchResponseDTO struct {
	Numbers    []export.Record `json:"numbers"`
	Total      int             `json:"total"`
	Batches    int             `json:"batches"`
	StopReason string          `json:"stop_reason,omitempty"`
	DurationMS int64           `json:"duration_ms"`
}

// AcquireNumberDTO is one number to purchase
type AcquireNumberDTO struct {
	Number       string  `json:"number" validate:"required"`
	MonthlyPrice *string `json:"monthly_price,omitempty" validate:"omitempty,numeric"`
}

// AcquireRequestDTO is the body of POST /v1/numbers/acquire
type AcquireRequestDTO struct {
	Numbers []AcquireNumberDTO `json:"numbers" validate:"required,min=1,dive"`
	Country string             `json:"country,omitempty" validate:"omitempty,len=2,alpha"`
	Type    string             `json:"type,omitempty"`
}

// AcquisitionOutcomeDTO is the result for one number
type AcquisitionOutcomeDTO struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	ExternalID string `json:"external_id,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// AcquireResponseDTO is the result of a batch purchase
type AcquireResponseDTO struct {
	BatchID  string                  `json:"batch_id"`
	Outcomes []AcquisitionOutcomeDTO `json:"outcomes"`
	Acquired int                     `json:"acquired"`
	Failed   int                     `json:"failed"`
}

// AcquiredNumberDTO is one inventory entry
type AcquiredNumberDTO struct {
	Number       string  `json:"number"`
	ExternalID   string  `json:"external_id"`
	Country      string  `json:"country,omitempty"`
	Type         string  `json:"type,omitempty"`
	MonthlyPrice *string `json:"monthly_price"`
	BatchID      string  `json:"batch_id"`
	AcquiredAt   string  `json:"acquired_at"`
}

// AcquiredListDTO is a page of the inventory
type AcquiredListDTO struct {
	Numbers []AcquiredNumberDTO `json:"numbers"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
}

// ErrorResponseDTO is the body of every error response. Partial carries the
// numbers found before a search failed.
type ErrorResponseDTO struct {
	Error   string             `json:"error"`
	Partial *SearchResponseDTO `json:"partial,omitempty"`
}
