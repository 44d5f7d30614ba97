// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package db is the persistence layer behind registration sessions: a thin
// namespaced key-value store.
package db

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/zonemapproject/zonemap-core/pkg/lifecycle"
)

var (
	// ErrBucketNotExist indicates the namespace does not exist in the DB
	ErrBucketNotExist = errors.New("bucket not exist in DB")
	// ErrNotExist indicates the key does not exist in the DB
	ErrNotExist = errors.New("not exist in DB")
	// ErrIO indicates a generic DB I/O error
	ErrIO = errors.New("DB I/O operation error")
)

// KVStore is the interface of a namespaced KV store.
type KVStore interface {
	lifecycle.StartStopper

	// Put inserts or updates a record identified by (namespace, key)
	Put(string, []byte, []byte) error
	// Get gets a record by (namespace, key)
	Get(string, []byte) ([]byte, error)
	// Delete deletes a record by (namespace, key)
	Delete(string, []byte) error
	// Keys lists all keys in a namespace
	Keys(string) ([][]byte, error)
}

// memKVStore is the in-memory implementation of KVStore for testing purposes
type memKVStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemKVStore instantiates an in-memory KV store
func NewMemKVStore() KVStore {
	return &memKVStore{data: make(map[string]map[string][]byte)}
}

func (m *memKVStore) Start(_ context.Context) error { return nil }

func (m *memKVStore) Stop(_ context.Context) error { return nil }

func (m *memKVStore) Put(namespace string, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.data[namespace]
	if !ok {
		bucket = make(map[string][]byte)
		m.data[namespace] = bucket
	}
	bucket[string(key)] = append([]byte{}, value...)
	return nil
}

func (m *memKVStore) Get(namespace string, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket, ok := m.data[namespace]
	if !ok {
		return nil, errors.Wrapf(ErrBucketNotExist, "namespace = %s", namespace)
	}
	value, ok := bucket[string(key)]
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "key = %x", key)
	}
	return append([]byte{}, value...), nil
}

func (m *memKVStore) Delete(namespace string, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bucket, ok := m.data[namespace]; ok {
		delete(bucket, string(key))
	}
	return nil
}

func (m *memKVStore) Keys(namespace string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket, ok := m.data[namespace]
	if !ok {
		return nil, nil
	}
	keys := make([][]byte, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}
