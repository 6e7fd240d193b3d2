// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/internal/infrastructure/regions"
	"github.com/numbersmith/number-inventory-service/internal/metrics"
	"github.com/numbersmith/number-inventory-service/internal/usecase"
	"github.com/numbersmith/number-inventory-service/pkg/constants"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

// SearchOptions tunes every search run by a NumberSearch
type SearchOptions struct {
	PageSize     int
	RequestDelay time.Duration
	MaxDuration  time.Duration
	Backoff      usecase.BackoffPolicy
}

// DefaultSearchOptions returns the built-in tuning
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		PageSize:     constants.DefaultPageSize,
		RequestDelay: constants.DefaultRequestDelay,
		MaxDuration:  constants.DefaultMaxSearchDuration,
		Backoff:      usecase.DefaultBackoffPolicy(),
	}
}

// NumberSearch handles number discovery
// It depends on abstractions (interfaces) rather than concrete implementations
type NumberSearch struct {
	provider port.NumberProvider
	seen     port.SeenStore
	pacer    usecase.Pacer
	options  SearchOptions
	extra    []usecase.CoordinatorOption
}

// Search validates the request, resolves region sub-keys and runs one search.
// The seen store is advisory: failures to read or write it are logged and the
// search goes on. Numbers found by a failed search are still remembered.
func (s *NumberSearch) Search(ctx context.Context, req model.SearchRequest, progress usecase.ProgressSink) (*model.SearchResult, error) {
	req, err := s.prepare(ctx, req)
	if err != nil {
		slog.With("error", err).ErrorContext(ctx, "search criteria validation failed")
		return nil, err
	}

	slog.DebugContext(ctx, "starting number search",
		"country", req.Criteria.Country,
		"type", req.Criteria.Type,
		"pattern", req.Criteria.Pattern,
		"locality", req.Criteria.Locality,
		"capabilities", req.Criteria.Capabilities.String(),
		"sub_keys", len(req.SubKeys),
	)

	opts := []usecase.CoordinatorOption{
		usecase.WithPageSize(s.options.PageSize),
		usecase.WithMaxDuration(s.options.MaxDuration),
		usecase.WithBackoffPolicy(s.options.Backoff),
		usecase.WithExcluded(s.loadSeen(ctx)),
	}
	if s.pacer != nil {
		opts = append(opts, usecase.WithPacer(s.pacer))
	}
	if progress != nil {
		opts = append(opts, usecase.WithProgress(progress))
	}
	opts = append(opts, s.extra...)

	result, err := usecase.NewSearchCoordinator(s.provider, opts...).Run(ctx, req)
	if err != nil {
		var failed *usecase.SearchFailed
		if stderrors.As(err, &failed) {
			metrics.SearchCompleted("failed")
			s.remember(ctx, failed.Partial)
			slog.ErrorContext(ctx, "number search failed",
				"error", failed.Err,
				"partial", len(failed.Partial),
				"batches", failed.Batches,
			)
			return nil, err
		}
		metrics.SearchCompleted("error")
		slog.ErrorContext(ctx, "number search operation failed", "error", err)
		return nil, err
	}

	metrics.SearchCompleted(string(result.StopReason))
	s.remember(ctx, result.Candidates)

	slog.InfoContext(ctx, "number search completed",
		"stop_reason", result.StopReason,
		"total", len(result.Candidates),
		"batches", result.Batches,
		"duration", result.Duration,
	)

	return result, nil
}

// prepare normalizes and validates the request. A locality naming a known region
// with no explicit area codes expands into that region's area codes.
func (s *NumberSearch) prepare(ctx context.Context, req model.SearchRequest) (model.SearchRequest, error) {
	req.Criteria = req.Criteria.Normalized()
	if err := req.Criteria.Validate(usecase.IsSupported); err != nil {
		return req, err
	}

	if len(req.SubKeys) == 0 && req.Criteria.AreaCode == "" && req.Criteria.Locality != "" {
		if codes, ok := regions.AreaCodes(req.Criteria.Country, req.Criteria.Locality); ok {
			slog.DebugContext(ctx, "expanding region into area codes",
				"region", req.Criteria.Locality,
				"area_codes", codes,
			)
			req.SubKeys = codes
			req.Criteria.Locality = ""
		}
	}

	keys := make([]string, 0, len(req.SubKeys))
	seen := make(map[string]struct{}, len(req.SubKeys))
	for _, key := range req.SubKeys {
		if err := req.Criteria.WithAreaCode(key).Validate(nil); err != nil {
			return req, err
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	req.SubKeys = keys

	return req, nil
}

func (s *NumberSearch) loadSeen(ctx context.Context) map[string]struct{} {
	if s.seen == nil {
		return nil
	}
	numbers, err := s.seen.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to load seen numbers, searching without exclusions", "error", err)
		return nil
	}
	return numbers
}

func (s *NumberSearch) remember(ctx context.Context, candidates []model.Candidate) {
	if s.seen == nil || len(candidates) == 0 {
		return
	}
	numbers := make([]string, 0, len(candidates))
	for _, c := range candidates {
		numbers = append(numbers, c.PhoneNumber)
	}
	if err := s.seen.Save(ctx, numbers); err != nil {
		slog.WarnContext(ctx, "failed to save seen numbers", "error", err, "count", len(numbers))
	}
}

// IsReady checks the number provider
func (s *NumberSearch) IsReady(ctx context.Context) error {
	return s.provider.IsReady(ctx)
}

// SearchOption configures a NumberSearch
type SearchOption func(*NumberSearch)

// WithSeenStore enables cross-run exclusion of already seen numbers
func WithSeenStore(store port.SeenStore) SearchOption {
	return func(s *NumberSearch) {
		s.seen = store
	}
}

// WithSearchOptions replaces the default tuning
func WithSearchOptions(o SearchOptions) SearchOption {
	return func(s *NumberSearch) {
		s.options = o
	}
}

// WithCoordinatorOptions appends options applied to every coordinator
func WithCoordinatorOptions(opts ...usecase.CoordinatorOption) SearchOption {
	return func(s *NumberSearch) {
		s.extra = append(s.extra, opts...)
	}
}

// NewPacer returns a limiter allowing one request per delay, or nil when delay
// is not positive
func NewPacer(delay time.Duration) usecase.Pacer {
	if delay <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// NewNumberSearch creates a NumberSearch. All searches share one pacer so
// concurrent requests together respect the provider's request rate.
func NewNumberSearch(provider port.NumberProvider, opts ...SearchOption) (*NumberSearch, error) {
	if provider == nil {
		return nil, errors.NewUnexpected("number provider is required")
	}
	s := &NumberSearch{
		provider: provider,
		options:  DefaultSearchOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.options.PageSize <= 0 {
		return nil, errors.NewUnexpected(fmt.Sprintf("page size must be positive, got %d", s.options.PageSize))
	}
	s.pacer = NewPacer(s.options.RequestDelay)
	return s, nil
}
