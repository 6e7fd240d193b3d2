// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
)

// Authenticator resolves a bearer token into the calling principal
type Authenticator interface {
	// ParsePrincipal validates the token and returns the principal it carries
	ParsePrincipal(ctx context.Context, token string) (string, error)
}
