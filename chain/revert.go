// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Custom error selectors of the dotos registrar, keccak of the error signature.
var (
	// SelectorCommitTooNew is CommitTooNew(), the commitment has not matured yet
	SelectorCommitTooNew = [4]byte{0x9e, 0x8d, 0xdd, 0x6d}
	// SelectorCommitExpired is CommitExpired(), the commitment aged out before mint
	SelectorCommitExpired = [4]byte{0xa1, 0x36, 0x44, 0xb8}
	// SelectorNameTaken is NameTaken(), the label was minted by someone else
	SelectorNameTaken = [4]byte{0x9e, 0x4b, 0x26, 0x85}
	// SelectorNotAuthorized is NotAuthorized(), the caller may not mint under this parent
	SelectorNotAuthorized = [4]byte{0xea, 0x8e, 0x4e, 0xb5}
)

var (
	_errorSelector = [4]byte{0x08, 0xc3, 0x79, 0xa0} // Error(string)
	_panicSelector = [4]byte{0x4e, 0x48, 0x7b, 0x71} // Panic(uint256)

	_customErrorNames = map[[4]byte]string{
		SelectorCommitTooNew:  "CommitTooNew()",
		SelectorCommitExpired: "CommitExpired()",
		SelectorNameTaken:     "NameTaken()",
		SelectorNotAuthorized: "NotAuthorized()",
	}
)

// RevertError is a contract execution revert together with its payload. It is
// distinct from transport errors and from wallet.ErrSigningRejected, so that
// callers can branch on the failure class.
type RevertError struct {
	data   []byte
	reason string
}

// DataError is implemented by JSON-RPC errors that carry the revert payload.
// See: https://github.com/ethereum/wiki/wiki/JSON-RPC-Error-Codes-Improvement-Proposal
type DataError interface {
	Error() string
	ErrorData() interface{}
}

// DecodeRevertData decodes a raw revert payload into a RevertError
func DecodeRevertData(data []byte) *RevertError {
	e := &RevertError{data: append([]byte{}, data...)}
	if len(data) == 0 {
		return e
	}
	if len(data) < 4 {
		e.reason = hexutil.Encode(data)
		return e
	}
	var selector [4]byte
	copy(selector[:], data[:4])
	switch selector {
	case _errorSelector:
		if reason, err := abi.UnpackRevert(data); err == nil {
			e.reason = reason
			return e
		}
	case _panicSelector:
		if len(data) >= 36 {
			e.reason = fmt.Sprintf("panic code 0x%x", new(big.Int).SetBytes(data[4:36]))
			return e
		}
	default:
		if name, ok := _customErrorNames[selector]; ok {
			e.reason = name
			return e
		}
	}
	e.reason = hexutil.Encode(data)
	return e
}

// RevertFromError extracts a RevertError from an RPC error if the error
// carries a revert payload
func RevertFromError(err error) (*RevertError, bool) {
	if err == nil {
		return nil, false
	}
	if revert, ok := errors.Cause(err).(*RevertError); ok {
		return revert, true
	}
	var de DataError
	if !errors.As(err, &de) {
		return nil, false
	}
	switch data := de.ErrorData().(type) {
	case string:
		blob, err := hexutil.Decode(data)
		if err != nil {
			return nil, false
		}
		return DecodeRevertData(blob), true
	case []byte:
		return DecodeRevertData(data), true
	default:
		return nil, false
	}
}

func (e *RevertError) Error() string {
	if e.reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.reason
}

// Reason returns the decoded revert reason
func (e *RevertError) Reason() string { return e.reason }

// Data returns the raw revert payload
func (e *RevertError) Data() []byte { return e.data }

// Selector returns the 4-byte error selector of the payload
func (e *RevertError) Selector() ([4]byte, bool) {
	if len(e.data) < 4 {
		return [4]byte{}, false
	}
	var selector [4]byte
	copy(selector[:], e.data[:4])
	return selector, true
}

func revertMatches(err error, selector [4]byte) bool {
	revert, ok := errors.Cause(err).(*RevertError)
	if !ok {
		return false
	}
	got, ok := revert.Selector()
	return ok && got == selector
}

// IsCommitTooNew reports whether err is a CommitTooNew() revert
func IsCommitTooNew(err error) bool { return revertMatches(err, SelectorCommitTooNew) }

// IsCommitExpired reports whether err is a CommitExpired() revert
func IsCommitExpired(err error) bool { return revertMatches(err, SelectorCommitExpired) }

// IsNameTaken reports whether err is a NameTaken() revert
func IsNameTaken(err error) bool { return revertMatches(err, SelectorNameTaken) }

// IsNotAuthorized reports whether err is a NotAuthorized() revert
func IsNotAuthorized(err error) bool { return revertMatches(err, SelectorNotAuthorized) }
