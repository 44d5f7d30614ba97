// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package zonemap speaks the wire format of the on-chain namespace: calldata
// for the zonemap registry, the zone registrar, token-bound accounts and the
// multicall singleton, plus the commitment and note encodings layered on top.
package zonemap

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"

	"github.com/zonemapproject/zonemap-core/pkg/log"
)

const (
	// _zonemapJSONABI covers the registry surface the client drives: record
	// reads, note writes and sub-entry mints executed through a parent TBA.
	_zonemapJSONABI = `[
		{"type":"function","name":"get","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"tba","type":"address"},{"name":"owner","type":"address"},{"name":"data","type":"bytes"}]},
		{"type":"function","name":"note","stateMutability":"nonpayable","inputs":[{"name":"note","type":"bytes"},{"name":"data","type":"bytes"}],"outputs":[{"name":"labelhash","type":"bytes32"}]},
		{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"who","type":"address"},{"name":"label","type":"bytes"},{"name":"initCalls","type":"bytes"},{"name":"implementation","type":"address"}],"outputs":[{"name":"tba","type":"address"}]}
	]`

	// _registrarJSONABI is the zone registrar selling names under a top-level
	// zone through commit and reveal.
	_registrarJSONABI = `[
		{"type":"function","name":"commit","stateMutability":"nonpayable","inputs":[{"name":"commitment","type":"bytes32"}],"outputs":[]},
		{"type":"function","name":"mint","stateMutability":"payable","inputs":[{"name":"who","type":"address"},{"name":"label","type":"bytes"},{"name":"initCalls","type":"bytes"},{"name":"erc721Data","type":"bytes"},{"name":"implementation","type":"address"}],"outputs":[{"name":"tba","type":"address"}]}
	]`

	_accountJSONABI = `[
		{"type":"function","name":"execute","stateMutability":"payable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"},{"name":"operation","type":"uint8"}],"outputs":[{"name":"result","type":"bytes"}]}
	]`

	_multicallJSONABI = `[
		{"type":"function","name":"aggregate","stateMutability":"payable","inputs":[{"name":"calls","type":"tuple[]","components":[{"name":"target","type":"address"},{"name":"callData","type":"bytes"}]}],"outputs":[{"name":"blockNumber","type":"uint256"},{"name":"returnData","type":"bytes[]"}]}
	]`
)

var (
	_zonemapABI   abi.ABI
	_registrarABI abi.ABI
	_accountABI   abi.ABI
	_multicallABI abi.ABI
	_routersArgs  abi.Arguments
)

func init() {
	for name, def := range map[string]struct {
		json string
		dst  *abi.ABI
	}{
		"zonemap":   {_zonemapJSONABI, &_zonemapABI},
		"registrar": {_registrarJSONABI, &_registrarABI},
		"account":   {_accountJSONABI, &_accountABI},
		"multicall": {_multicallJSONABI, &_multicallABI},
	} {
		parsed, err := abi.JSON(strings.NewReader(def.json))
		if err != nil {
			log.L().Panic("cannot parse abi JSON data", zap.String("contract", name), zap.Error(err))
		}
		*def.dst = parsed
	}
	routers, err := abi.NewType("bytes32[]", "", nil)
	if err != nil {
		log.L().Panic("cannot construct routers type", zap.Error(err))
	}
	_routersArgs = abi.Arguments{{Type: routers}}
}
