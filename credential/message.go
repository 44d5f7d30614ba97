// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package credential

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"

	"github.com/zonemapproject/zonemap-core/wallet"
)

const (
	_domainName    = "Zonemap"
	_domainVersion = "1"
	_primaryType   = "Boot"
)

// _bootTypes is the EIP-712 type set of the boot binding. The snake_case
// field names are part of the signed payload and must not be renamed.
var _bootTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	_primaryType: {
		{Name: "username", Type: "string"},
		{Name: "password_hash", Type: "bytes32"},
		{Name: "timestamp", Type: "uint256"},
		{Name: "direct", Type: "bool"},
		{Name: "reset", Type: "bool"},
		{Name: "chain_id", Type: "uint256"},
	},
}

// BootMessage binds a derived credential to an entry. Signed with Reset at
// boot, without it at login: the digest differs, so a login signature can
// never authorize a credential reset.
type BootMessage struct {
	// Username is the full dotted name of the entry
	Username string
	// PasswordHash is the Argon2id credential hash
	PasswordHash hash.Hash256
	// Timestamp is the unix time of the request
	Timestamp int64
	// Direct mirrors the entry's networking mode
	Direct bool
	// Reset authorizes replacing any existing credential
	Reset bool
	// ChainID is the chain the binding lives on
	ChainID uint64
}

// TypedData renders the message for an EIP-712 capable signer
func (m *BootMessage) TypedData(registry common.Address) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       _bootTypes,
		PrimaryType: _primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              _domainName,
			Version:           _domainVersion,
			ChainId:           math.NewHexOrDecimal256(int64(m.ChainID)),
			VerifyingContract: registry.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"username":      m.Username,
			"password_hash": hexutil.Encode(m.PasswordHash[:]),
			"timestamp":     math.NewHexOrDecimal256(m.Timestamp),
			"direct":        m.Direct,
			"reset":         m.Reset,
			"chain_id":      (*math.HexOrDecimal256)(new(big.Int).SetUint64(m.ChainID)),
		},
	}
}

// Digest computes the EIP-712 signing digest of the message
func (m *BootMessage) Digest(registry common.Address) (hash.Hash256, error) {
	typedData := m.TypedData(registry)
	domainSep, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return hash.ZeroHash256, errors.Wrap(err, "failed to hash the domain")
	}
	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return hash.ZeroHash256, errors.Wrap(err, "failed to hash the message")
	}
	raw := crypto.Keccak256([]byte("\x19\x01"), domainSep, structHash)
	return hash.BytesToHash256(raw), nil
}

// Sign signs the digest and returns a 65-byte signature with V in {27, 28}
func (m *BootMessage) Sign(signer wallet.Signer, registry common.Address) ([]byte, error) {
	digest, err := m.Digest(registry)
	if err != nil {
		return nil, err
	}
	sig, err := signer.SignHash(digest)
	if err != nil {
		return nil, err
	}
	if len(sig) == 65 && sig[64] < 27 {
		sig[64] += 27
	}
	return sig, nil
}
