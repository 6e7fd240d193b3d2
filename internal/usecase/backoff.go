// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package usecase

import (
	"time"

	"github.com/numbersmith/number-inventory-service/pkg/constants"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
)

// BackoffPolicy bounds the waits after transient provider errors
type BackoffPolicy struct {
	Base         time.Duration
	MaxDelay     time.Duration
	NetworkDelay time.Duration
	MaxRetries   int
}

// DefaultBackoffPolicy returns the policy used when nothing is configured
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		Base:         constants.DefaultBackoffBase,
		MaxDelay:     constants.DefaultBackoffMaxDelay,
		NetworkDelay: constants.DefaultNetworkRetryDelay,
		MaxRetries:   constants.DefaultMaxRetries,
	}
}

// Backoff counts retries for one page request
type Backoff struct {
	policy  BackoffPolicy
	retries int
}

// Next returns how long to wait before retrying after err.
// It returns false when err is not transient or the retries are used up.
func (b *Backoff) Next(err error) (time.Duration, bool) {
	if b.retries >= b.policy.MaxRetries {
		return 0, false
	}

	var delay time.Duration
	if rl, ok := errors.IsRateLimited(err); ok {
		delay = b.exponential()
		if rl.RetryAfter > delay {
			delay = rl.RetryAfter
		}
		if b.policy.MaxDelay > 0 && delay > b.policy.MaxDelay {
			delay = b.policy.MaxDelay
		}
	} else if errors.IsTransient(err) {
		delay = b.policy.NetworkDelay
	} else {
		return 0, false
	}

	b.retries++
	return delay, true
}

func (b *Backoff) exponential() time.Duration {
	if b.retries >= 32 {
		return b.policy.MaxDelay
	}
	delay := b.policy.Base << b.retries
	if delay < b.policy.Base {
		return b.policy.MaxDelay
	}
	return delay
}

// Reset clears the retry counter after a successful request
func (b *Backoff) Reset() {
	b.retries = 0
}

// Retries returns the number of retries granted since the last Reset
func (b *Backoff) Retries() int {
	return b.retries
}

// NewBackoff creates a Backoff for the given policy
func NewBackoff(policy BackoffPolicy) *Backoff {
	return &Backoff{policy: policy}
}
