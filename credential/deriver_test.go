// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package credential

import (
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestSalt(t *testing.T) {
	require := require.New(t)
	for _, test := range []struct {
		name string
		salt string
	}{
		{"alice.os", "alice.os"},
		{"abcdefgh", "abcdefgh"},
		{"verylongname.os", "verylongname.os"},
		{"abcdefg", "abcdefgabcdefgabcdefg"},
		{"ab", "ababababab"},
		{"a", "aaaaaaaaa"},
	} {
		salt, err := Salt(test.name)
		require.NoError(err)
		require.Equal([]byte(test.salt), salt, test.name)
	}
	_, err := Salt("")
	require.Equal(ErrDerivation, errors.Cause(err))
}

func TestDeriveHash(t *testing.T) {
	require := require.New(t)
	// Argon2id known-answer vectors, t=2 m=19456KiB p=1
	for _, test := range []struct {
		name     string
		password string
		want     string
	}{
		{"alice.os", "zonemap-test-password", "ade4d3d6b863c7ba84a839a91872589fb99f8e90d620d5db3c6673379922610e"},
		{"ab", "zonemap-test-password", "4a2aba185519b3fbcf2bd2fbe6d192eab35ee5b5c0b2b63a42d9afd91cff84e4"},
		{"abcdefg", "zonemap-test-password", "edef6261e8f49d4f0c3460d2f5ca5ce0a8966922e4e80147f3026ada51b45fe5"},
	} {
		h, err := DeriveHash(test.name, test.password)
		require.NoError(err)
		require.Equal(test.want, hex.EncodeToString(h[:]), test.name)
	}

	_, err := DeriveHash("", "zonemap-test-password")
	require.Equal(ErrDerivation, errors.Cause(err))
}

func TestDeriveHashSaltExpansion(t *testing.T) {
	require := require.New(t)
	// a short name derives with its repeated salt, nothing else changes
	short, err := DeriveHash("ab", "pw")
	require.NoError(err)
	expanded := argon2.IDKey([]byte("pw"), []byte("ababababab"), _argonTime, _argonMemory, _argonThreads, _hashLength)
	require.Equal(expanded, short[:])
}

func TestDeriveHashDistinct(t *testing.T) {
	require := require.New(t)
	first, err := DeriveHash("alice.os", "pw")
	require.NoError(err)
	again, err := DeriveHash("alice.os", "pw")
	require.NoError(err)
	require.Equal(first, again)

	otherName, err := DeriveHash("bob.os", "pw")
	require.NoError(err)
	require.NotEqual(first, otherName)

	otherPassword, err := DeriveHash("alice.os", "pw2")
	require.NoError(err)
	require.NotEqual(first, otherPassword)
}
