// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package wallet holds the signing keys that own Zonemap names and their
// token-bound accounts.
package wallet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
)

// ErrSigningRejected indicates the signer declined to produce a signature.
// It is a user decision, not a transport or contract failure, and callers
// branch on it via errors.Cause().
var ErrSigningRejected = errors.New("signing request rejected")

type (
	// Signer signs hashes and transactions on behalf of one address
	Signer interface {
		// Address returns the signing address
		Address() common.Address
		// SignHash signs a 32-byte digest and returns the 65-byte [R || S || V] signature with V in {0, 1}
		SignHash(hash.Hash256) ([]byte, error)
		// SignTx signs a transaction for the given chain ID
		SignTx(*types.Transaction, *big.Int) (*types.Transaction, error)
	}

	// Confirmer is consulted before a transaction is signed. Returning an
	// error aborts the signature and surfaces as ErrSigningRejected.
	Confirmer func(*types.Transaction) error
)
