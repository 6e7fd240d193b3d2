// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// IsTransient reports whether err carries a kind that is worth retrying:
// a rate-limit signal or an unavailable upstream.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var rateLimited RateLimited
	if errors.As(err, &rateLimited) {
		return true
	}

	var unavailable ServiceUnavailable
	return errors.As(err, &unavailable)
}

// IsRateLimited reports whether err is an explicit rate-limit signal and
// returns it.
func IsRateLimited(err error) (RateLimited, bool) {
	var rateLimited RateLimited
	ok := errors.As(err, &rateLimited)
	return rateLimited, ok
}
