// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package wallet

import (
	"crypto/ecdsa"
	"math/big"

	hdwallet "github.com/ethereum-optimism/go-ethereum-hdwallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ecrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// DefaultDerivationPath is the BIP-44 path of the first external address
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

// ErrInvalidMnemonic indicates the mnemonic fails the BIP-39 checksum
var ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

// keySigner signs with an in-memory secp256k1 private key
type keySigner struct {
	key     crypto.PrivateKey
	confirm Confirmer
}

// Option sets an option on the key signer
type Option func(*keySigner)

// WithConfirmer installs a confirmation hook that can veto transactions
func WithConfirmer(confirm Confirmer) Option {
	return func(k *keySigner) {
		k.confirm = confirm
	}
}

// NewKeySigner wraps a private key into a Signer
func NewKeySigner(key crypto.PrivateKey, opts ...Option) Signer {
	k := &keySigner{key: key}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// NewKeySignerFromHex parses a hex-encoded private key into a Signer
func NewKeySignerFromHex(hexKey string, opts ...Option) (Signer, error) {
	key, err := crypto.HexStringToPrivateKey(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}
	return NewKeySigner(key, opts...), nil
}

// NewKeySignerFromMnemonic derives a Signer from a BIP-39 mnemonic at the
// given derivation path (DefaultDerivationPath when empty)
func NewKeySignerFromMnemonic(mnemonic, derivationPath string, opts ...Option) (Signer, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create wallet from mnemonic")
	}
	if derivationPath == "" {
		derivationPath = DefaultDerivationPath
	}
	path, err := hdwallet.ParseDerivationPath(derivationPath)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid derivation path %s", derivationPath)
	}
	account, err := wallet.Derive(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive account")
	}
	private, err := wallet.PrivateKey(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get private key")
	}
	key, err := crypto.BytesToPrivateKey(ecrypto.FromECDSA(private))
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert private key")
	}
	return NewKeySigner(key, opts...), nil
}

// NewRandomSigner generates a fresh key and wraps it into a Signer
func NewRandomSigner(opts ...Option) (Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate private key")
	}
	return NewKeySigner(key, opts...), nil
}

// NewMnemonic generates a fresh 128-bit BIP-39 mnemonic phrase
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func (k *keySigner) Address() common.Address {
	return common.BytesToAddress(k.key.PublicKey().Hash())
}

func (k *keySigner) SignHash(h hash.Hash256) ([]byte, error) {
	sig, err := k.key.Sign(h[:])
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign hash")
	}
	return sig, nil
}

func (k *keySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if k.confirm != nil {
		if err := k.confirm(tx); err != nil {
			return nil, errors.Wrap(ErrSigningRejected, err.Error())
		}
	}
	sk, ok := k.key.EcdsaPrivateKey().(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not secp256k1")
	}
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), sk)
}

// Key exposes the underlying private key for keystore export
func Key(s Signer) (crypto.PrivateKey, bool) {
	k, ok := s.(*keySigner)
	if !ok {
		return nil, false
	}
	return k.key, true
}
