// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"time"
)

// Unexpected represents an unexpected error in the application.
type Unexpected struct {
	base
}

// Error returns the error message for Unexpected.
func (u Unexpected) Error() string {
	return u.error()
}

// Unwrap returns the underlying cause.
func (u Unexpected) Unwrap() error {
	return u.unwrap()
}

// NewUnexpected creates a new Unexpected error with the provided message.
func NewUnexpected(message string, err ...error) Unexpected {
	return Unexpected{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// ServiceUnavailable represents a service unavailability error in the application.
// Network failures and provider 5xx responses are reported with it.
type ServiceUnavailable struct {
	base
}

// Error returns the error message for ServiceUnavailable.
func (su ServiceUnavailable) Error() string {
	return su.error()
}

// Unwrap returns the underlying cause.
func (su ServiceUnavailable) Unwrap() error {
	return su.unwrap()
}

// NewServiceUnavailable creates a new ServiceUnavailable error with the provided message.
func NewServiceUnavailable(message string, err ...error) ServiceUnavailable {
	return ServiceUnavailable{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
	}
}

// RateLimited represents an explicit rate-limit signal from an upstream provider.
type RateLimited struct {
	base
	// RetryAfter is the wait requested by the provider, zero when not given
	RetryAfter time.Duration
}

// Error returns the error message for RateLimited.
func (rl RateLimited) Error() string {
	return rl.error()
}

// Unwrap returns the underlying cause.
func (rl RateLimited) Unwrap() error {
	return rl.unwrap()
}

// NewRateLimited creates a new RateLimited error with the provided message.
func NewRateLimited(message string, retryAfter time.Duration, err ...error) RateLimited {
	return RateLimited{
		base: base{
			message: message,
			err:     errors.Join(err...),
		},
		RetryAfter: retryAfter,
	}
}
