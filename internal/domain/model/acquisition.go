// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AcquisitionStatus is the result of one purchase attempt
type AcquisitionStatus string

const (
	AcquisitionStatusAcquired AcquisitionStatus = "acquired"
	AcquisitionStatusFailed   AcquisitionStatus = "failed"
)

// AcquisitionOutcome is the per-number result of a batch purchase
type AcquisitionOutcome struct {
	PhoneNumber string
	Status      AcquisitionStatus
	ExternalID  string
	Reason      string
}

// Acquired builds a successful outcome
func Acquired(phoneNumber, externalID string) AcquisitionOutcome {
	return AcquisitionOutcome{
		PhoneNumber: phoneNumber,
		Status:      AcquisitionStatusAcquired,
		ExternalID:  externalID,
	}
}

// Failed builds a failed outcome
func Failed(phoneNumber, reason string) AcquisitionOutcome {
	return AcquisitionOutcome{
		PhoneNumber: phoneNumber,
		Status:      AcquisitionStatusFailed,
		Reason:      reason,
	}
}

// AcquisitionBatch groups the outcomes of one acquire request
type AcquisitionBatch struct {
	ID       string
	Outcomes []AcquisitionOutcome
}

// Acquired counts successful outcomes
func (b AcquisitionBatch) Acquired() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Status == AcquisitionStatusAcquired {
			n++
		}
	}
	return n
}

// Failed counts failed outcomes
func (b AcquisitionBatch) Failed() int {
	return len(b.Outcomes) - b.Acquired()
}

// AcquisitionRecord is a purchased number as stored in the inventory
type AcquisitionRecord struct {
	PhoneNumber  string
	ExternalID   string
	Country      string
	NumberType   NumberType
	MonthlyPrice decimal.NullDecimal
	BatchID      string
	AcquiredAt   time.Time
}

// AcquisitionEvent is published once per outcome
type AcquisitionEvent struct {
	BatchID     string            `json:"batch_id"`
	PhoneNumber string            `json:"phone_number"`
	Status      AcquisitionStatus `json:"status"`
	ExternalID  string            `json:"external_id,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// AcquisitionRequest is a batch of numbers to purchase.
// Country and Type are recorded in the inventory and may be empty.
type AcquisitionRequest struct {
	Candidates []Candidate
	Country    string
	Type       NumberType
}
