// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package zonemap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"

	"github.com/zonemapproject/zonemap-core/zns"
)

// Operation codes of the account's execute call.
const (
	CallOperation         uint8 = 0
	DelegateCallOperation uint8 = 1
)

// Call is one leg of a multicall aggregate.
type Call struct {
	Target   common.Address
	CallData []byte
}

// Record is a decoded zonemap entry.
type Record struct {
	TBA   common.Address
	Owner common.Address
	Data  []byte
}

// Exists reports whether the node has been minted.
func (r Record) Exists() bool {
	return r.Owner != (common.Address{})
}

// Commitment binds a pending registration to the claimant: the packed
// keccak256 of the raw label bytes followed by the claimant address. The
// registrar recomputes exactly this at mint time, so changing either input
// requires a fresh commit.
func Commitment(label string, claimant common.Address) hash.Hash256 {
	return hash.BytesToHash256(crypto.Keccak256([]byte(label), claimant.Bytes()))
}

// EncodeCommit packs a registrar commit call.
func EncodeCommit(commitment hash.Hash256) ([]byte, error) {
	return _registrarABI.Pack("commit", [32]byte(commitment))
}

// EncodeRegistrarMint packs the reveal: the registrar mints label to the
// claimant, points the entry at implementation and hands initCalls to the
// fresh account.
func EncodeRegistrarMint(who common.Address, label string, initCalls, erc721Data []byte, implementation common.Address) ([]byte, error) {
	return _registrarABI.Pack("mint", who, []byte(label), initCalls, erc721Data, implementation)
}

// EncodeEntryMint packs a sub-entry mint on the zonemap itself, to be executed
// through the parent entry's account.
func EncodeEntryMint(who common.Address, label string, initCalls []byte, implementation common.Address) ([]byte, error) {
	return _zonemapABI.Pack("mint", who, []byte(label), initCalls, implementation)
}

// EncodeNote packs a note write under the calling entry's node.
func EncodeNote(key string, data []byte) ([]byte, error) {
	if err := ValidateNoteKey(key); err != nil {
		return nil, err
	}
	return _zonemapABI.Pack("note", []byte(key), data)
}

// EncodeExecute packs an account execute call.
func EncodeExecute(to common.Address, value *big.Int, data []byte, operation uint8) ([]byte, error) {
	if value == nil {
		value = new(big.Int)
	}
	return _accountABI.Pack("execute", to, value, data, operation)
}

// EncodeAggregate packs a multicall aggregate over calls.
func EncodeAggregate(calls []Call) ([]byte, error) {
	return _multicallABI.Pack("aggregate", calls)
}

// EncodeGet packs a record read.
func EncodeGet(node hash.Hash256) ([]byte, error) {
	return _zonemapABI.Pack("get", [32]byte(node))
}

// DecodeGetResult unpacks the return data of a record read.
func DecodeGetResult(ret []byte) (Record, error) {
	values, err := _zonemapABI.Unpack("get", ret)
	if err != nil {
		return Record{}, errors.Wrap(err, "failed to unpack get result")
	}
	if len(values) != 3 {
		return Record{}, errors.Errorf("unexpected get result arity %d", len(values))
	}
	rec := Record{}
	var ok bool
	if rec.TBA, ok = values[0].(common.Address); !ok {
		return Record{}, errors.New("unexpected type for record tba")
	}
	if rec.Owner, ok = values[1].(common.Address); !ok {
		return Record{}, errors.New("unexpected type for record owner")
	}
	if rec.Data, ok = values[2].([]byte); !ok {
		return Record{}, errors.New("unexpected type for record data")
	}
	return rec, nil
}

// EncodeGetResult packs a record the way the registry returns it, the
// inverse of DecodeGetResult.
func EncodeGetResult(record Record) ([]byte, error) {
	method, ok := _zonemapABI.Methods["get"]
	if !ok {
		return nil, errors.New("no get method in the zonemap ABI")
	}
	return method.Outputs.Pack(record.TBA, record.Owner, record.Data)
}

// ValidateNoteKey checks a note key: a '~' sigil followed by a canonical
// label.
func ValidateNoteKey(key string) error {
	if len(key) < 2 || key[0] != '~' {
		return errors.Wrapf(zns.ErrInvalidLabel, "note key %q must begin with '~'", key)
	}
	return zns.ValidateLabel(key[1:])
}
