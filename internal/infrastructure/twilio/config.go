// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package twilio

import (
	"fmt"
	"strings"
	"time"
)

var defaultBaseURL = "https://api.twilio.com"

// Config holds the configuration for the provider API client
type Config struct {
	// AccountSID identifies the account and is the basic auth user name
	AccountSID string

	// AuthToken is the basic auth password
	AuthToken string

	// BaseURL is the API root (default: https://api.twilio.com)
	BaseURL string

	// Timeout is the HTTP client timeout for API requests
	Timeout time.Duration

	// MaxRetries applies to readiness probes only; search and purchase
	// requests are sent once
	MaxRetries int

	// RetryDelay is the delay between readiness retry attempts
	RetryDelay time.Duration
}

// NewConfig creates a new provider configuration with the provided parameters
func NewConfig(accountSID, authToken, baseURL string, timeout time.Duration, maxRetries int, retryDelay time.Duration) (Config, error) {
	if accountSID == "" {
		return Config{}, fmt.Errorf("account SID is required for the provider configuration")
	}
	if authToken == "" {
		return Config{}, fmt.Errorf("auth token is required for the provider configuration")
	}

	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return Config{
		AccountSID: accountSID,
		AuthToken:  authToken,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Timeout:    timeout,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
	}, nil
}
