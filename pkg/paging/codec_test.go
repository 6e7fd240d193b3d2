// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package paging

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/numbersmith/number-inventory-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCursor struct {
	AreaCode string `json:"area_code"`
	Offset   int    `json:"offset"`
}

func testKey(seed string) *[32]byte {
	key := [32]byte{}
	copy(key[:], []byte(seed))
	return &key
}

func TestEncodeDecodePageToken(t *testing.T) {
	key := testKey("12345678901234567890123456789012")
	ctx := context.Background()

	token, err := EncodePageToken(testCursor{AreaCode: "415", Offset: 150}, key)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "415", "cursor must not be readable in the token")

	var decoded testCursor
	require.NoError(t, DecodePageToken(ctx, token, key, &decoded))
	assert.Equal(t, testCursor{AreaCode: "415", Offset: 150}, decoded)
}

func TestEncodePageTokenUsesFreshNonce(t *testing.T) {
	key := testKey("12345678901234567890123456789012")

	first, err := EncodePageToken(10, key)
	require.NoError(t, err)
	second, err := EncodePageToken(10, key)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestEncodePageTokenUnmarshalable(t *testing.T) {
	_, err := EncodePageToken(make(chan int), testKey("k"))
	require.Error(t, err)
	assert.IsType(t, errors.Unexpected{}, err)
}

func TestDecodePageTokenErrors(t *testing.T) {
	ctx := context.Background()
	key := testKey("12345678901234567890123456789012")

	validToken, err := EncodePageToken(42, key)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		key   *[32]byte
	}{
		{
			name:  "invalid base64",
			token: "not base64!!",
			key:   key,
		},
		{
			name:  "too short",
			token: base64.RawURLEncoding.EncodeToString([]byte("short")),
			key:   key,
		},
		{
			name:  "wrong key",
			token: validToken,
			key:   testKey("another-secret-another-secret-00"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var offset int
			err := DecodePageToken(ctx, tc.token, tc.key, &offset)
			require.Error(t, err)
			assert.IsType(t, errors.Validation{}, err)
		})
	}
}

func TestDecodePageTokenWrongTarget(t *testing.T) {
	key := testKey("12345678901234567890123456789012")
	token, err := EncodePageToken("not-a-number", key)
	require.NoError(t, err)

	var offset int
	err = DecodePageToken(context.Background(), token, key, &offset)
	require.Error(t, err)
	assert.IsType(t, errors.Validation{}, err)
}
