// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package zns implements the name algebra of the zonemap: hierarchical
// dotted names mapped onto 32-byte nodes.
//
// A node is the fold of its labels from right to left:
//
//	node = keccak256(parentNode ++ keccak256(label))
//
// starting from the root node of 32 zero bytes, so `alice.os` hashes `os`
// against the root first and `alice` against the result. Names must arrive
// in canonical form (lowercase ASCII); Normalize produces that form.
package zns

import (
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

// _maxLabelLength caps a single label, matching the on-chain registrar check
const _maxLabelLength = 63

var (
	// Root is the node all zones hang off
	Root = hash.ZeroHash256

	// ErrInvalidLabel indicates a structurally malformed label
	ErrInvalidLabel = errors.New("invalid name label")
	// ErrInvalidEncoding indicates a label that was not normalized to ASCII upstream
	ErrInvalidEncoding = errors.New("name is not normalized ASCII")
)

// Namehash maps a dotted name to its node. The empty name maps to Root.
func Namehash(name string) (hash.Hash256, error) {
	if name == "" {
		return Root, nil
	}
	node := Root
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		var err error
		if node, err = Child(node, labels[i]); err != nil {
			return hash.ZeroHash256, errors.Wrapf(err, "failed to hash name %q", name)
		}
	}
	return node, nil
}

// Child derives the node of a label one level below parent. This is the
// single fold step Namehash repeats, exposed for minting sub-entries under
// an existing node.
func Child(parent hash.Hash256, label string) (hash.Hash256, error) {
	if err := ValidateLabel(label); err != nil {
		return hash.ZeroHash256, err
	}
	lh := LabelHash(label)
	return hash.BytesToHash256(crypto.Keccak256(parent[:], lh[:])), nil
}

// LabelHash returns keccak256 of the raw label bytes.
func LabelHash(label string) hash.Hash256 {
	return hash.BytesToHash256(crypto.Keccak256([]byte(label)))
}

// ValidateLabel checks that label is in canonical form: non-empty, at most 63
// bytes, lowercase ASCII letters, digits and inner hyphens only.
func ValidateLabel(label string) error {
	if label == "" {
		return errors.Wrap(ErrInvalidLabel, "empty label")
	}
	if len(label) > _maxLabelLength {
		return errors.Wrapf(ErrInvalidLabel, "label %q longer than %d bytes", label, _maxLabelLength)
	}
	for i := 0; i < len(label); i++ {
		switch c := label[i]; {
		case c >= utf8.RuneSelf:
			return errors.Wrapf(ErrInvalidEncoding, "non-ASCII byte 0x%x in label", c)
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
		default:
			return errors.Wrapf(ErrInvalidLabel, "byte %q not allowed in label %q", c, label)
		}
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return errors.Wrapf(ErrInvalidLabel, "label %q begins or ends with a hyphen", label)
	}
	return nil
}

// Normalize canonicalizes a dotted name with the UTS-46 lookup mapping (NFC,
// case folding, width folding). Labels that survive only through punycode
// conversion are rejected: the zonemap holds ASCII entries, it does not
// transport IDN.
func Normalize(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	mapped, err := idna.Lookup.ToASCII(norm.NFC.String(name))
	if err != nil {
		return "", errors.Wrapf(ErrInvalidLabel, "cannot normalize %q: %v", name, err)
	}
	for _, label := range strings.Split(mapped, ".") {
		if strings.HasPrefix(label, "xn--") {
			return "", errors.Wrapf(ErrInvalidEncoding, "label %q is not representable in ASCII", label)
		}
		if err := ValidateLabel(label); err != nil {
			return "", err
		}
	}
	return mapped, nil
}
