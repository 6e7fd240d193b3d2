// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "time"

// StopReason explains why a search finished
type StopReason string

const (
	StopReasonMaxUnique   StopReason = "max_unique"
	StopReasonEmptyStreak StopReason = "empty_streak"
	StopReasonExhausted   StopReason = "exhausted"
	StopReasonCancelled   StopReason = "cancelled"
	StopReasonDeadline    StopReason = "deadline"
)

// SearchRequest is a search plus the optional area codes to walk
type SearchRequest struct {
	Criteria SearchCriteria
	// SubKeys are area codes searched one after another over a shared session.
	SubKeys []string
}

// SearchResult is the outcome of a completed search
type SearchResult struct {
	Candidates []Candidate
	Batches    int
	StopReason StopReason
	Duration   time.Duration
}
