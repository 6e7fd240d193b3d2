// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package global

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sync"
)

var (
	pageTokenSecret       [32]byte
	pageTokenSecretValue  string
	doOncePageTokenSecret sync.Once
	pageTokenSecretMu     sync.Mutex
)

// SetPageTokenSecret configures the secret used for encoding and decoding page
// tokens. It must be called before the first PageTokenSecret call to take effect.
func SetPageTokenSecret(secret string) {
	pageTokenSecretMu.Lock()
	defer pageTokenSecretMu.Unlock()
	pageTokenSecretValue = secret
}

// PageTokenSecret retrieves the secret used for encoding and decoding page tokens.
// Without a configured secret a random per-process key is generated, so tokens
// do not survive restarts.
func PageTokenSecret(ctx context.Context) *[32]byte {

	doOncePageTokenSecret.Do(func() {
		pageTokenSecretMu.Lock()
		defer pageTokenSecretMu.Unlock()

		if pageTokenSecretValue == "" {
			slog.WarnContext(ctx, "page token secret is not set, generating an ephemeral one")
			if _, err := rand.Read(pageTokenSecret[:]); err != nil {
				panic("failed to generate page token secret: " + err.Error())
			}
			return
		}
		copy(pageTokenSecret[:], []byte(pageTokenSecretValue))
	})

	return &pageTokenSecret
}
