// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package registrar

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/zonemapproject/zonemap-core/db"
	"github.com/zonemapproject/zonemap-core/testutil"
	"github.com/zonemapproject/zonemap-core/zonemap"
	"github.com/zonemapproject/zonemap-core/zns"
)

func newTestSession(t *testing.T, name string, state string) *RegistrationSession {
	node, err := zns.Namehash(name)
	require.NoError(t, err)
	labels := name[:len(name)-len(".os")]
	return &RegistrationSession{
		Name:           name,
		Label:          labels,
		Node:           common.Hash(node),
		Claimant:       _testClaimant,
		Implementation: _testDeployment.Implementation,
		Networking:     _testNetworking(),
		Commitment:     common.Hash(zonemap.Commitment(labels, _testClaimant)),
		PredictedTBA:   common.HexToAddress("0x1EE62a007Eaf638417e24eFD91f45AE17a44D891"),
		CommitTxHash:   common.HexToHash("0xaa"),
		CommittedAt:    time.Unix(1700000000, 0).UTC(),
		State:          state,
		UpdatedAt:      time.Unix(1700000100, 0).UTC(),
	}
}

func TestSessionStore(t *testing.T) {
	require := require.New(t)
	testFn := func(kv db.KVStore, t *testing.T) {
		require.NoError(kv.Start(context.Background()))
		defer func() {
			require.NoError(kv.Stop(context.Background()))
		}()
		store := NewSessionStore(kv)

		// nothing stored yet
		sessions, err := store.All()
		require.NoError(err)
		require.Empty(sessions)
		_, err = store.Load(common.HexToHash("0x01"))
		require.Equal(db.ErrNotExist, errors.Cause(err))

		session := newTestSession(t, "alice.os", string(StateAwaitingMaturity))
		require.NoError(store.Save(session))
		loaded, err := store.Load(session.Node)
		require.NoError(err)
		require.Equal(session.Name, loaded.Name)
		require.Equal(session.Commitment, loaded.Commitment)
		require.Equal(session.PredictedTBA, loaded.PredictedTBA)
		require.Equal(session.Networking.NetKey, loaded.Networking.NetKey)
		require.Equal(session.Networking.Routers, loaded.Networking.Routers)
		require.True(session.CommittedAt.Equal(loaded.CommittedAt))
		require.False(loaded.Terminal())

		// overwrite moves the state forward
		session.State = string(StateDone)
		session.MintTxHash = common.HexToHash("0xbb")
		require.NoError(store.Save(session))
		loaded, err = store.Load(session.Node)
		require.NoError(err)
		require.Equal(string(StateDone), loaded.State)
		require.True(loaded.Terminal())

		other := newTestSession(t, "bob.os", string(StateCommitting))
		require.NoError(store.Save(other))
		sessions, err = store.All()
		require.NoError(err)
		require.Len(sessions, 2)

		require.NoError(store.Delete(session.Node))
		_, err = store.Load(session.Node)
		require.Equal(db.ErrNotExist, errors.Cause(err))
		sessions, err = store.All()
		require.NoError(err)
		require.Len(sessions, 1)
		require.Equal("bob.os", sessions[0].Name)
	}

	t.Run("in-memory", func(t *testing.T) {
		testFn(db.NewMemKVStore(), t)
	})
	t.Run("boltdb", func(t *testing.T) {
		path, err := testutil.PathOfTempFile("sessionstore")
		require.NoError(err)
		defer testutil.CleanupPath(path)
		cfg := db.DefaultConfig
		cfg.DbPath = path
		testFn(db.NewBoltDB(cfg), t)
	})
}

func TestSessionClone(t *testing.T) {
	require := require.New(t)
	session := newTestSession(t, "alice.os", string(StateMinting))
	session.Networking.Direct = true
	session.Networking.Routers = nil
	session.Networking.IP = net.ParseIP("203.0.113.7").To4()
	session.Networking.WSPort = 9090
	session.ERC721Data = []byte{0x01, 0x02}

	dup := session.clone()
	require.Equal(session.Name, dup.Name)
	require.Equal(session.Networking.IP, dup.Networking.IP)
	require.Equal(session.ERC721Data, dup.ERC721Data)

	// the clone owns its slices
	dup.ERC721Data[0] = 0xff
	dup.Networking.IP[0] = 0xff
	dup.Networking.NetKey[0] = 0xff
	require.Equal(byte(0x01), session.ERC721Data[0])
	require.Equal(byte(203), session.Networking.IP[0])
	require.Equal(byte(0x11), session.Networking.NetKey[0])
}
