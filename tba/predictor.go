// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package tba predicts the token-bound account attached to a zonemap node
// before anything is deployed.
//
// The derivation is two CREATE2 stages against the account registry, both
// salted with the node: first the zone-entry proxy (creation code plus the
// zonemap address as constructor argument), then the account whose creation
// code embeds that proxy as the implementation pointer together with the
// ABI-encoded (salt, chainId, tokenContract, tokenId) tail. The
// implementation contract chosen at mint time never enters the hash; the
// proxy resolves it through the registry, which is what keeps the prediction
// stable across upgrades.
package tba

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/hash"
)

// Predictor derives counterfactual addresses for one (zonemap, account
// registry, chain) deployment.
type Predictor struct {
	zonemap         common.Address
	accountRegistry common.Address
	chainID         uint64
}

// NewPredictor creates a Predictor bound to a deployment.
func NewPredictor(zonemap, accountRegistry common.Address, chainID uint64) *Predictor {
	return &Predictor{
		zonemap:         zonemap,
		accountRegistry: accountRegistry,
		chainID:         chainID,
	}
}

// ProxyAddress returns the zone-entry proxy the registry will deploy for node.
func (p *Predictor) ProxyAddress(node hash.Hash256) common.Address {
	return crypto.CreateAddress2(p.accountRegistry, node, p.proxyInitCodeHash())
}

// AccountAddress returns the token-bound account the registry will deploy for
// node. Every name flow that displays or verifies an address funnels through
// here.
func (p *Predictor) AccountAddress(node hash.Hash256) common.Address {
	initCode := p.accountInitCode(p.ProxyAddress(node), node)
	return crypto.CreateAddress2(p.accountRegistry, node, crypto.Keccak256(initCode))
}

func (p *Predictor) proxyInitCodeHash() []byte {
	return crypto.Keccak256(_proxyCreationCode, common.LeftPadBytes(p.zonemap.Bytes(), 32))
}

func (p *Predictor) accountInitCode(proxy common.Address, node hash.Hash256) []byte {
	code := make([]byte, 0, len(_accountCreationHeader)+common.AddressLength+len(_accountCreationFooter)+4*common.HashLength)
	code = append(code, _accountCreationHeader...)
	code = append(code, proxy.Bytes()...)
	code = append(code, _accountCreationFooter...)
	// abi.encode(salt, chainId, tokenContract, tokenId); the token id is the
	// node reinterpreted as a uint256
	code = append(code, node[:]...)
	code = append(code, new(uint256.Int).SetUint64(p.chainID).PaddedBytes(32)...)
	code = append(code, common.LeftPadBytes(p.zonemap.Bytes(), 32)...)
	code = append(code, new(uint256.Int).SetBytes32(node[:]).PaddedBytes(32)...)
	return code
}
