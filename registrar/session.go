// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package registrar

import (
	"net"
	"time"

	"github.com/ethereum/go-ethereum/common"
	fsm "github.com/iotexproject/go-fsm"

	"github.com/zonemapproject/zonemap-core/zonemap"
)

// RegistrationSession reifies one registration flow. It is persisted after
// every state transition, so an interrupted flow can resume where it
// stopped.
type RegistrationSession struct {
	// Name is the normalized dotted name being registered
	Name string `json:"name"`
	// Label is the leaf label of Name
	Label string `json:"label"`
	// Node is the namehash of Name
	Node common.Hash `json:"node"`
	// Claimant is the address the entry is minted to
	Claimant common.Address `json:"claimant"`
	// Implementation is the entry implementation selected at mint time
	Implementation common.Address `json:"implementation"`
	// Networking is the networking profile written by the init calls
	Networking zonemap.NetworkingConfig `json:"networking"`
	// ERC721Data is the opaque blob handed to the mint callback
	ERC721Data []byte `json:"erc721Data,omitempty"`
	// Commitment is keccak256(label ++ claimant)
	Commitment common.Hash `json:"commitment"`
	// PredictedTBA is the counterfactual token-bound account of Node
	PredictedTBA common.Address `json:"predictedTBA"`
	// Direct marks a flow minted through a parent account, skipping
	// commit and maturity
	Direct bool `json:"direct,omitempty"`
	// ParentTBA is the parent entry's account for a direct flow
	ParentTBA common.Address `json:"parentTBA,omitempty"`
	// CommitTxHash is the hash of the commit transaction
	CommitTxHash common.Hash `json:"commitTxHash,omitempty"`
	// MintTxHash is the hash of the mint transaction
	MintTxHash common.Hash `json:"mintTxHash,omitempty"`
	// CommittedAt is when the commit was confirmed on chain, the maturity
	// wait counts from here
	CommittedAt time.Time `json:"committedAt,omitempty"`
	// State is the FSM state the session was last saved in
	State string `json:"state"`
	// Cause records why the flow failed
	Cause string `json:"cause,omitempty"`
	// UpdatedAt is when the session was last saved
	UpdatedAt time.Time `json:"updatedAt"`
}

// Terminal reports whether the session reached a final state
func (s *RegistrationSession) Terminal() bool {
	return s.State == string(StateDone) || s.State == string(StateFailed)
}

// clone returns a copy so callers never share the registrar's working state
func (s *RegistrationSession) clone() *RegistrationSession {
	cpy := *s
	cpy.ERC721Data = append([]byte(nil), s.ERC721Data...)
	cpy.Networking.NetKey = append([]byte(nil), s.Networking.NetKey...)
	cpy.Networking.IP = append(net.IP(nil), s.Networking.IP...)
	cpy.Networking.Routers = append([]string(nil), s.Networking.Routers...)
	return &cpy
}

func (s *RegistrationSession) setState(state fsm.State) {
	s.State = string(state)
}
