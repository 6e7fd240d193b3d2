// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paging

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/numbersmith/number-inventory-service/pkg/constants"
	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

// DecodePageToken takes a base64-encoded, secretbox-encrypted token and unmarshals
// the cursor it carries into target.
// Returns an error if decoding, decryption, or unmarshaling fails.
func DecodePageToken(ctx context.Context, encoded string, secretKey *[32]byte, target any) error {

	slog.DebugContext(ctx, "decoding page token",
		"encoded_token", encoded,
	)

	encrypted, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return errors.NewValidation("invalid encoded page token", err)
	}

	if len(encrypted) < constants.NonceSize+secretbox.Overhead {
		return errors.NewValidation(
			"invalid page token length",
			fmt.Errorf("expected at least %d bytes, got %d", constants.NonceSize+secretbox.Overhead, len(encrypted)),
		)
	}

	var decryptNonce [constants.NonceSize]byte
	copy(decryptNonce[:], encrypted[:constants.NonceSize])
	decrypted, ok := secretbox.Open(nil, encrypted[constants.NonceSize:], &decryptNonce, secretKey)
	if !ok {
		return errors.NewValidation("failed to decrypt page token")
	}

	if err := json.Unmarshal(decrypted, target); err != nil {
		return errors.NewValidation("failed to unmarshal page cursor", err)
	}

	return nil
}

// EncodePageToken takes a JSON-serializable cursor, encrypts it with secretbox,
// and returns an opaque base64 token.
func EncodePageToken(cursor any, secretKey *[32]byte) (string, error) {
	encodedCursor, err := json.Marshal(cursor)
	if err != nil {
		return "", errors.NewUnexpected("failed to marshal page cursor", err)
	}

	var nonce [constants.NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", errors.NewUnexpected("failed to generate nonce for page token", err)
	}

	encrypted := secretbox.Seal(nonce[:], encodedCursor, &nonce, secretKey)

	return base64.RawURLEncoding.EncodeToString(encrypted), nil
}
