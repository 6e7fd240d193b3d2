// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/numbersmith/number-inventory-service/internal/domain/model"
	"github.com/numbersmith/number-inventory-service/internal/domain/port"
	"github.com/numbersmith/number-inventory-service/internal/metrics"
	"github.com/numbersmith/number-inventory-service/pkg/constants"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/numbersmith/number-inventory-service/pkg/log"
)

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacer spaces out provider requests. *rate.Limiter satisfies it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// ProgressSink receives the running totals after every processed batch
type ProgressSink interface {
	Notify(total, batches int)
}

// ProgressFunc adapts a function to ProgressSink
type ProgressFunc func(total, batches int)

// Notify calls f
func (f ProgressFunc) Notify(total, batches int) {
	f(total, batches)
}

type noProgress struct{}

func (noProgress) Notify(int, int) {}

// SearchFailed is returned when transient provider errors outlast the retries.
// Partial holds everything found before the failure.
type SearchFailed struct {
	Partial []model.Candidate
	Batches int
	Err     error
}

func (e *SearchFailed) Error() string {
	return fmt.Sprintf("search failed after %d batches with %d numbers found: %v", e.Batches, len(e.Partial), e.Err)
}

func (e *SearchFailed) Unwrap() error {
	return e.Err
}

// SearchCoordinator drives the page loop for one search
type SearchCoordinator struct {
	provider    port.NumberProvider
	sleep       Sleeper
	pacer       Pacer
	now         func() time.Time
	progress    ProgressSink
	policy      BackoffPolicy
	pageSize    int
	maxDuration time.Duration
	excluded    map[string]struct{}
}

// CoordinatorOption configures a SearchCoordinator
type CoordinatorOption func(*SearchCoordinator)

// WithSleeper replaces the backoff sleep
func WithSleeper(s Sleeper) CoordinatorOption {
	return func(c *SearchCoordinator) { c.sleep = s }
}

// WithPacer sets the wait applied before every provider request
func WithPacer(p Pacer) CoordinatorOption {
	return func(c *SearchCoordinator) { c.pacer = p }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *SearchCoordinator) { c.now = now }
}

// WithProgress sets the sink notified after every batch
func WithProgress(sink ProgressSink) CoordinatorOption {
	return func(c *SearchCoordinator) {
		if sink != nil {
			c.progress = sink
		}
	}
}

// WithBackoffPolicy replaces the default retry policy
func WithBackoffPolicy(p BackoffPolicy) CoordinatorOption {
	return func(c *SearchCoordinator) { c.policy = p }
}

// WithPageSize sets the page size asked from the provider
func WithPageSize(n int) CoordinatorOption {
	return func(c *SearchCoordinator) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithMaxDuration bounds the wall-clock time of a run; zero disables it
func WithMaxDuration(d time.Duration) CoordinatorOption {
	return func(c *SearchCoordinator) { c.maxDuration = d }
}

// WithExcluded skips numbers reported by earlier runs
func WithExcluded(numbers map[string]struct{}) CoordinatorOption {
	return func(c *SearchCoordinator) { c.excluded = numbers }
}

type runState struct {
	parent  context.Context
	ctx     context.Context
	start   time.Time
	session *SearchSession
}

// Run searches until a stop condition fires.
// Cancellation and the duration ceiling end the run with the numbers found so
// far and a nil error. Permanent provider errors are returned as is; transient
// errors that outlast the retries are returned as *SearchFailed.
func (c *SearchCoordinator) Run(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	st := &runState{
		parent:  ctx,
		ctx:     ctx,
		start:   c.now(),
		session: NewSearchSession(req.Criteria, c.excluded),
	}
	if c.maxDuration > 0 {
		var cancel context.CancelFunc
		st.ctx, cancel = context.WithTimeout(ctx, c.maxDuration)
		defer cancel()
	}

	keys := req.SubKeys
	if len(keys) == 0 {
		keys = []string{""}
	}

	var reason model.StopReason
	for i, key := range keys {
		criteria := req.Criteria
		if key != "" {
			criteria = criteria.WithAreaCode(key)
		}
		if i > 0 {
			st.session.ResetEmptyStreak()
		}

		keyCtx := ctx
		if key != "" {
			keyCtx = log.AppendCtx(ctx, slog.String("area_code", key))
		}

		var err error
		reason, err = c.runKey(keyCtx, st, criteria)
		if err != nil {
			return nil, err
		}
		if reason != model.StopReasonExhausted && reason != model.StopReasonEmptyStreak {
			break
		}
	}

	result := &model.SearchResult{
		Candidates: st.session.Snapshot(),
		Batches:    st.session.BatchesProcessed(),
		StopReason: reason,
		Duration:   c.now().Sub(st.start),
	}

	slog.DebugContext(ctx, "search finished",
		"stop_reason", result.StopReason,
		"total", len(result.Candidates),
		"batches", result.Batches,
		"excluded", st.session.SkippedExcluded(),
	)

	return result, nil
}

// runKey runs the page loop for one set of criteria
func (c *SearchCoordinator) runKey(logCtx context.Context, st *runState, criteria model.SearchCriteria) (model.StopReason, error) {
	backoff := NewBackoff(c.policy)
	var token *string

	for {
		if reason, stop := c.interrupted(st); stop {
			return reason, nil
		}
		if c.pacer != nil {
			if err := c.pacer.Wait(st.ctx); err != nil {
				return c.interruptReason(st), nil
			}
		}

		page, err := c.provider.SearchPage(st.ctx, model.PageRequest{
			Criteria:  criteria,
			PageToken: token,
			PageSize:  c.pageSize,
		})
		if err != nil {
			if reason, stop := c.interrupted(st); stop {
				return reason, nil
			}
			if !errors.IsTransient(err) {
				slog.ErrorContext(logCtx, "provider rejected search request", "error", err)
				return "", err
			}

			delay, ok := backoff.Next(err)
			if !ok {
				slog.ErrorContext(logCtx, "provider retries exhausted",
					"error", err,
					"retries", backoff.Retries(),
				)
				return "", &SearchFailed{
					Partial: st.session.Snapshot(),
					Batches: st.session.BatchesProcessed(),
					Err:     err,
				}
			}

			kind := "unavailable"
			if _, rl := errors.IsRateLimited(err); rl {
				kind = "rate_limited"
			}
			metrics.Backoff(kind, delay)
			slog.WarnContext(logCtx, "transient provider error, backing off",
				"error", err,
				"kind", kind,
				"delay", delay,
				"retry", backoff.Retries(),
			)

			if err := c.sleep(st.ctx, delay); err != nil {
				return c.interruptReason(st), nil
			}
			continue
		}

		backoff.Reset()
		res := st.session.AddBatch(page.Records)
		metrics.BatchProcessed(res.NewUnique)
		c.progress.Notify(res.Total, st.session.BatchesProcessed())

		slog.DebugContext(logCtx, "batch processed",
			"records", len(page.Records),
			"new_unique", res.NewUnique,
			"total", res.Total,
			"empty_streak", st.session.ConsecutiveEmptyBatches(),
		)

		if st.session.ShouldStop() {
			return st.session.StopReason(), nil
		}
		if page.NextPageToken == nil || *page.NextPageToken == "" {
			return model.StopReasonExhausted, nil
		}
		token = page.NextPageToken
	}
}

// interrupted reports whether the run was cancelled or ran out of time
func (c *SearchCoordinator) interrupted(st *runState) (model.StopReason, bool) {
	if st.parent.Err() != nil {
		return model.StopReasonCancelled, true
	}
	if st.ctx.Err() != nil {
		return model.StopReasonDeadline, true
	}
	if c.maxDuration > 0 && c.now().Sub(st.start) >= c.maxDuration {
		return model.StopReasonDeadline, true
	}
	return "", false
}

// interruptReason classifies a failed wait. A wait can fail before the
// context is done when it would overrun the deadline.
func (c *SearchCoordinator) interruptReason(st *runState) model.StopReason {
	if reason, stop := c.interrupted(st); stop {
		return reason
	}
	return model.StopReasonDeadline
}

// NewSearchCoordinator creates a coordinator over provider
func NewSearchCoordinator(provider port.NumberProvider, opts ...CoordinatorOption) *SearchCoordinator {
	c := &SearchCoordinator{
		provider:    provider,
		sleep:       SleepContext,
		now:         time.Now,
		progress:    noProgress{},
		policy:      DefaultBackoffPolicy(),
		pageSize:    constants.DefaultPageSize,
		maxDuration: constants.DefaultMaxSearchDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
