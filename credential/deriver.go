// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package credential derives the login credential of an entry from its name
// and password, and renders the typed messages the owner signs to bind that
// credential on a node.
package credential

import (
	"bytes"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Fixed protocol-wide: every client must derive the
// same hash from the same name and password, so these can never change
// without a credential reset.
const (
	_argonTime    uint32 = 2
	_argonMemory  uint32 = 19456 // KiB
	_argonThreads uint8  = 1
	_hashLength   uint32 = 32

	_minSaltLength = 8
)

// ErrDerivation indicates the credential hash could not be derived
var ErrDerivation = errors.New("failed to derive the credential hash")

// Salt expands a name into the derivation salt: the name itself when it is
// long enough, otherwise the name repeated past the minimum length plus one
// more round.
func Salt(name string) ([]byte, error) {
	if len(name) == 0 {
		return nil, errors.Wrap(ErrDerivation, "empty name")
	}
	if len(name) >= _minSaltLength {
		return []byte(name), nil
	}
	count := (_minSaltLength+len(name)-1)/len(name) + 1
	return bytes.Repeat([]byte(name), count), nil
}

// DeriveHash derives the 32-byte credential hash of password bound to name
func DeriveHash(name, password string) (h hash.Hash256, err error) {
	defer func() {
		if r := recover(); r != nil {
			h, err = hash.ZeroHash256, errors.Wrapf(ErrDerivation, "%v", r)
		}
	}()
	salt, err := Salt(name)
	if err != nil {
		return hash.ZeroHash256, err
	}
	sum := argon2.IDKey([]byte(password), salt, _argonTime, _argonMemory, _argonThreads, _hashLength)
	return hash.BytesToHash256(sum), nil
}
