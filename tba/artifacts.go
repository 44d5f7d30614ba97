// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package tba

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// The blobs below are deployed bytecode reproduced byte for byte. Address
// prediction breaks silently if any of them drifts from what is on chain, so
// each one is pinned to a keccak256 fingerprint and checked at load time.

var (
	// _proxyCreationCode is the compiled creation code of the zone-entry
	// proxy. Its constructor stores the zonemap address (the single ABI-encoded
	// constructor argument) and deploys a delegate stub pointing at the entry
	// template.
	_proxyCreationCode = common.FromHex(
		"0x6020803803600039600051600055602d8060196000396000f3" +
			"363d3d373d3d3d363d73898d39caaae3c530dd2cd1e852369b211c0f2248" +
			"5af43d82803e903d91602b57fd5bf3")
	_proxyCreationCodeDigest = common.HexToHash("0xcbb51e8b15ccd094f98d77b58c8b9d4863de98ff6a96901b9b98c072a079adf5")

	// _accountCreationHeader is the constructor prologue plus runtime prefix of
	// the account creation code; the implementation address is spliced in
	// right after it.
	_accountCreationHeader       = common.FromHex("0x3d60ad80600a3d3981f3363d3d373d3d3d363d73")
	_accountCreationHeaderDigest = common.HexToHash("0x836adec1fae8cb2fe2fc9b187068d52c49d3f7b5116f9fb1b00c7488ba5e7190")

	// _accountCreationFooter closes the account creation code before the
	// ABI-encoded (salt, chainId, tokenContract, tokenId) tail.
	_accountCreationFooter       = common.FromHex("0x5af43d82803e903d91602b57fd5bf3")
	_accountCreationFooterDigest = common.HexToHash("0x11a195f66c9175f46895bae2006d40848a680c7068b9fc4af248ff9a54a47e45")
)

// DefaultAccountRegistry is the canonical account registry singleton; it is
// deployed at the same address on every supported chain.
var DefaultAccountRegistry = common.HexToAddress("0x000000006551c19487814612e58FE06813775758")

func init() {
	if err := VerifyArtifacts(); err != nil {
		panic(err)
	}
}

// VerifyArtifacts recomputes the fingerprint of every pinned bytecode blob.
func VerifyArtifacts() error {
	for _, a := range []struct {
		name   string
		blob   []byte
		digest common.Hash
	}{
		{"proxy creation code", _proxyCreationCode, _proxyCreationCodeDigest},
		{"account creation header", _accountCreationHeader, _accountCreationHeaderDigest},
		{"account creation footer", _accountCreationFooter, _accountCreationFooterDigest},
	} {
		if err := verifyArtifact(a.name, a.blob, a.digest); err != nil {
			return err
		}
	}
	return nil
}

func verifyArtifact(name string, blob []byte, digest common.Hash) error {
	if crypto.Keccak256Hash(blob) != digest {
		return errors.Errorf("bytecode artifact %q does not match its pinned fingerprint", name)
	}
	return nil
}
