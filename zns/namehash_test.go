// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package zns

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamehash(t *testing.T) {
	require := require.New(t)
	// independently computed vectors, including the two canonical ENS ones
	// (same fold, so they must agree)
	for name, want := range map[string]string{
		"":             "0000000000000000000000000000000000000000000000000000000000000000",
		"os":           "deeac81ae11b64e7cab86d089c306e5d223552a630f02633ce170d2786ff1bbd",
		"alice.os":     "fc921cbdfda30a7b21ad8f5c9ad542cbb5f6f3d0f8c2831fcd0325d1dbbdce8b",
		"sub.alice.os": "6992d5ce4eda59c7a8c92b289293843a217b0bdbbec0a06b131dc4459e8d1a7c",
		"eth":          "93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae",
		"foo.eth":      "de9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f",
	} {
		node, err := Namehash(name)
		require.NoError(err, name)
		require.Equal(want, hex.EncodeToString(node[:]), name)
	}
}

func TestNamehashDeterministic(t *testing.T) {
	require := require.New(t)
	a, err := Namehash("router-one.os")
	require.NoError(err)
	b, err := Namehash("router-one.os")
	require.NoError(err)
	require.Equal(a, b)
	c, err := Namehash("router-two.os")
	require.NoError(err)
	require.NotEqual(a, c)
}

func TestChildComposesNamehash(t *testing.T) {
	require := require.New(t)
	zone, err := Namehash("os")
	require.NoError(err)
	child, err := Child(zone, "alice")
	require.NoError(err)
	full, err := Namehash("alice.os")
	require.NoError(err)
	require.Equal(full, child)

	lh := LabelHash("alice")
	require.Equal("9c0257114eb9399a2985f8e75dad7600c5d89fe3824ffa99ec1c3eb8bf3b0501",
		hex.EncodeToString(lh[:]))
}

func TestValidateLabel(t *testing.T) {
	require := require.New(t)
	require.NoError(ValidateLabel("alice"))
	require.NoError(ValidateLabel("router-one"))
	require.NoError(ValidateLabel("42"))
	require.NoError(ValidateLabel(strings.Repeat("a", 63)))

	require.ErrorIs(ValidateLabel(""), ErrInvalidLabel)
	require.ErrorIs(ValidateLabel(strings.Repeat("a", 64)), ErrInvalidLabel)
	require.ErrorIs(ValidateLabel("Alice"), ErrInvalidLabel)
	require.ErrorIs(ValidateLabel("under_score"), ErrInvalidLabel)
	require.ErrorIs(ValidateLabel("-alice"), ErrInvalidLabel)
	require.ErrorIs(ValidateLabel("alice-"), ErrInvalidLabel)
	require.ErrorIs(ValidateLabel("蓝色"), ErrInvalidEncoding)
}

func TestNamehashRejectsMalformedNames(t *testing.T) {
	require := require.New(t)
	for _, name := range []string{"a..b", ".os", "os.", "Alice.os", "蓝色.os"} {
		_, err := Namehash(name)
		require.Error(err, name)
	}
}

func TestNormalize(t *testing.T) {
	require := require.New(t)
	for _, in := range []string{"alice.os", "ALICE.os", "AlIcE.oS"} {
		got, err := Normalize(in)
		require.NoError(err, in)
		require.Equal("alice.os", got, in)
	}
	// normalization is canonicalization: equal canonical forms, equal nodes
	n1, err := Normalize("ALICE.os")
	require.NoError(err)
	h1, err := Namehash(n1)
	require.NoError(err)
	h2, err := Namehash("alice.os")
	require.NoError(err)
	require.Equal(h2, h1)

	_, err = Normalize("蓝色.os")
	require.ErrorIs(err, ErrInvalidEncoding)
	_, err = Normalize("a..b")
	require.Error(err)
}
