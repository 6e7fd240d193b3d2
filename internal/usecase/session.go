// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/pkg/constants"
)

// BatchResult reports what one AddBatch call admitted
type BatchResult struct {
	NewUnique int
	Total     int
}

// SearchSession accumulates unique candidates for one search.
// It has a single writer and is not safe for concurrent use.
type SearchSession struct {
	criteria model.SearchCriteria
	excluded map[string]struct{}

	seen                    map[string]struct{}
	candidates              []model.Candidate
	batchesProcessed        int
	consecutiveEmptyBatches int
	skippedExcluded         int
}

// AddBatch normalizes records and admits the ones not seen before,
// up to the unique cap.
func (s *SearchSession) AddBatch(records []model.RawRecord) BatchResult {
	newUnique := 0
	for _, raw := range records {
		if len(s.candidates) >= constants.MaxUniqueCandidates {
			break
		}
		candidate, ok := Normalize(raw, s.criteria)
		if !ok {
			continue
		}
		key := candidate.Key()
		if _, dup := s.seen[key]; dup {
			continue
		}
		if _, skip := s.excluded[key]; skip {
			s.skippedExcluded++
			continue
		}
		s.seen[key] = struct{}{}
		s.candidates = append(s.candidates, candidate)
		newUnique++
	}

	s.batchesProcessed++
	if newUnique > 0 {
		s.consecutiveEmptyBatches = 0
	} else {
		s.consecutiveEmptyBatches++
	}

	return BatchResult{NewUnique: newUnique, Total: len(s.candidates)}
}

// ShouldStop reports whether the cap or the empty streak limit was reached
func (s *SearchSession) ShouldStop() bool {
	return s.capReached() || s.consecutiveEmptyBatches >= constants.MaxEmptyStreak
}

// StopReason describes why ShouldStop is true
func (s *SearchSession) StopReason() model.StopReason {
	if s.capReached() {
		return model.StopReasonMaxUnique
	}
	return model.StopReasonEmptyStreak
}

func (s *SearchSession) capReached() bool {
	return len(s.candidates) >= constants.MaxUniqueCandidates
}

// ResetEmptyStreak clears the empty streak between area codes
func (s *SearchSession) ResetEmptyStreak() {
	s.consecutiveEmptyBatches = 0
}

// Snapshot returns the candidates in discovery order
func (s *SearchSession) Snapshot() []model.Candidate {
	out := make([]model.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Len returns the number of admitted candidates
func (s *SearchSession) Len() int {
	return len(s.candidates)
}

// BatchesProcessed returns how many batches were added
func (s *SearchSession) BatchesProcessed() int {
	return s.batchesProcessed
}

// ConsecutiveEmptyBatches returns the current empty streak
func (s *SearchSession) ConsecutiveEmptyBatches() int {
	return s.consecutiveEmptyBatches
}

// SkippedExcluded returns how many records matched the exclusion set
func (s *SearchSession) SkippedExcluded() int {
	return s.skippedExcluded
}

// NewSearchSession creates an empty session.
// Numbers in excluded are never admitted and never counted as seen.
func NewSearchSession(criteria model.SearchCriteria, excluded map[string]struct{}) *SearchSession {
	return &SearchSession{
		criteria: criteria,
		excluded: excluded,
		seen:     make(map[string]struct{}),
	}
}
