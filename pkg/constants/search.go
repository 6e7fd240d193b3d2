// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import "time"

const (
	// DefaultPageSize is the number of records requested from the provider per page
	DefaultPageSize = 50

	// MaxUniqueCandidates caps the number of distinct numbers a single search retains
	MaxUniqueCandidates = 500

	// MaxEmptyStreak is the number of consecutive batches without new numbers after
	// which a search stops
	MaxEmptyStreak = 3

	// DefaultRequestDelay is the pause between two consecutive page requests
	DefaultRequestDelay = 750 * time.Millisecond

	// DefaultAcquireDelay is the pause between two consecutive purchase calls
	DefaultAcquireDelay = 500 * time.Millisecond

	// DefaultBackoffBase is the first delay applied after a rate-limit response
	DefaultBackoffBase = 1 * time.Second

	// DefaultBackoffMaxDelay bounds the exponential rate-limit backoff
	DefaultBackoffMaxDelay = 30 * time.Second

	// DefaultNetworkRetryDelay is the flat delay applied after a network failure
	DefaultNetworkRetryDelay = 2 * time.Second

	// DefaultMaxRetries is the number of retries allowed for a single page request
	DefaultMaxRetries = 3

	// DefaultMaxSearchDuration is the wall-clock ceiling of a single search
	DefaultMaxSearchDuration = 5 * time.Minute

	// MaxAcquisitionBatch is the largest number of purchases a single request may ask for
	MaxAcquisitionBatch = 100

	// MaxListLimit bounds one page of the acquired-number listing
	MaxListLimit = 500

	// NonceSize is the secretbox nonce length used by page tokens
	NonceSize = 24
)
