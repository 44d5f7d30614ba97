// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package registrar

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/zonemapproject/zonemap-core/db"
)

// sessions live in one namespace keyed by node
const _sessionNS = "session"

// SessionStore persists registration sessions in a KV store
type SessionStore struct {
	kv db.KVStore
}

// NewSessionStore creates a session store on a KV store
func NewSessionStore(kv db.KVStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// Save writes a session under its node
func (s *SessionStore) Save(session *RegistrationSession) error {
	blob, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session")
	}
	return s.kv.Put(_sessionNS, session.Node.Bytes(), blob)
}

// Load reads the session of a node, db.ErrNotExist when there is none
func (s *SessionStore) Load(node common.Hash) (*RegistrationSession, error) {
	blob, err := s.kv.Get(_sessionNS, node.Bytes())
	if err != nil {
		return nil, err
	}
	session := &RegistrationSession{}
	if err := json.Unmarshal(blob, session); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session")
	}
	return session, nil
}

// Delete removes the session of a node
func (s *SessionStore) Delete(node common.Hash) error {
	return s.kv.Delete(_sessionNS, node.Bytes())
}

// All returns every stored session
func (s *SessionStore) All() ([]*RegistrationSession, error) {
	keys, err := s.kv.Keys(_sessionNS)
	if err != nil {
		if errors.Cause(err) == db.ErrBucketNotExist {
			return nil, nil
		}
		return nil, err
	}
	sessions := make([]*RegistrationSession, 0, len(keys))
	for _, key := range keys {
		session, err := s.Load(common.BytesToHash(key))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}
