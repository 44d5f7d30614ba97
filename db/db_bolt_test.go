// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/zonemapproject/zonemap-core/testutil"
)

var (
	_bucket1 = "test_ns1"
	_bucket2 = "test_ns2"
	_testK1  = [3][]byte{[]byte("key_1"), []byte("key_2"), []byte("key_3")}
	_testV1  = [3][]byte{[]byte("value_1"), []byte("value_2"), []byte("value_3")}
)

func TestKVStorePutGet(t *testing.T) {
	testKVStorePutGet := func(kv KVStore, t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kv.Start(ctx))
		defer func() {
			require.NoError(kv.Stop(ctx))
		}()

		_, err := kv.Get(_bucket1, _testK1[0])
		require.Error(err)
		require.NoError(kv.Put(_bucket1, _testK1[0], _testV1[0]))
		value, err := kv.Get(_bucket1, _testK1[0])
		require.NoError(err)
		require.Equal(_testV1[0], value)

		// a different namespace does not see the key
		_, err = kv.Get(_bucket2, _testK1[0])
		require.Error(err)

		// overwrite
		require.NoError(kv.Put(_bucket1, _testK1[0], _testV1[1]))
		value, err = kv.Get(_bucket1, _testK1[0])
		require.NoError(err)
		require.Equal(_testV1[1], value)

		// delete
		require.NoError(kv.Delete(_bucket1, _testK1[0]))
		_, err = kv.Get(_bucket1, _testK1[0])
		require.Error(err)
		require.Equal(ErrNotExist, errors.Cause(err))

		// deleting a missing key is a no-op
		require.NoError(kv.Delete(_bucket1, _testK1[2]))
	}

	t.Run("In-memory KV Store", func(t *testing.T) {
		testKVStorePutGet(NewMemKVStore(), t)
	})

	path, err := testutil.PathOfTempFile("boltdb")
	require.NoError(t, err)
	defer testutil.CleanupPath(path)
	cfg := DefaultConfig
	cfg.DbPath = path
	t.Run("Bolt DB", func(t *testing.T) {
		testKVStorePutGet(NewBoltDB(cfg), t)
	})
}

func TestKVStoreKeys(t *testing.T) {
	testKeys := func(kv KVStore, t *testing.T) {
		require := require.New(t)
		ctx := context.Background()

		require.NoError(kv.Start(ctx))
		defer func() {
			require.NoError(kv.Stop(ctx))
		}()

		keys, err := kv.Keys(_bucket1)
		require.NoError(err)
		require.Empty(keys)

		for i := range _testK1 {
			require.NoError(kv.Put(_bucket1, _testK1[i], _testV1[i]))
		}
		keys, err = kv.Keys(_bucket1)
		require.NoError(err)
		require.Len(keys, 3)
		require.ElementsMatch([][]byte{_testK1[0], _testK1[1], _testK1[2]}, keys)

		require.NoError(kv.Delete(_bucket1, _testK1[1]))
		keys, err = kv.Keys(_bucket1)
		require.NoError(err)
		require.Len(keys, 2)
	}

	t.Run("In-memory KV Store", func(t *testing.T) {
		testKeys(NewMemKVStore(), t)
	})

	path, err := testutil.PathOfTempFile("boltdb")
	require.NoError(t, err)
	defer testutil.CleanupPath(path)
	cfg := DefaultConfig
	cfg.DbPath = path
	t.Run("Bolt DB", func(t *testing.T) {
		testKeys(NewBoltDB(cfg), t)
	})
}

func TestBoltDBPersistence(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	path, err := testutil.PathOfTempFile("boltdb")
	require.NoError(err)
	defer testutil.CleanupPath(path)
	cfg := DefaultConfig
	cfg.DbPath = path

	kv := NewBoltDB(cfg)
	require.NoError(kv.Start(ctx))
	require.NoError(kv.Put(_bucket1, _testK1[0], _testV1[0]))
	require.NoError(kv.Stop(ctx))

	// reopen and the record is still there
	kv = NewBoltDB(cfg)
	require.NoError(kv.Start(ctx))
	defer func() {
		require.NoError(kv.Stop(ctx))
	}()
	value, err := kv.Get(_bucket1, _testK1[0])
	require.NoError(err)
	require.Equal(_testV1[0], value)
}
