// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package zonemap

import (
	"bytes"
	"encoding/hex"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zonemapproject/zonemap-core/zns"
)

func TestNetworkingValidate(t *testing.T) {
	require := require.New(t)
	key := make([]byte, 32)

	direct := NetworkingConfig{Direct: true, NetKey: key, IP: net.ParseIP("203.0.113.7"), WSPort: 9090}
	require.NoError(direct.Validate())

	indirect := NetworkingConfig{NetKey: key, Routers: []string{"router-one.os"}}
	require.NoError(indirect.Validate())

	for _, bad := range []NetworkingConfig{
		{Direct: true, NetKey: key[:31], IP: net.ParseIP("203.0.113.7"), WSPort: 9090},
		{Direct: true, NetKey: key, WSPort: 9090},
		{Direct: true, NetKey: key, IP: net.ParseIP("2001:db8::1"), WSPort: 9090},
		{Direct: true, NetKey: key, IP: net.ParseIP("203.0.113.7")},
		{Direct: true, NetKey: key, IP: net.ParseIP("203.0.113.7"), WSPort: 9090, Routers: []string{"router-one.os"}},
		{NetKey: key},
		{NetKey: key, Routers: []string{"router-one.os"}, WSPort: 9090},
	} {
		require.Error(bad.Validate())
	}
}

func TestInitCalls(t *testing.T) {
	require := require.New(t)
	key := bytes.Repeat([]byte{0x42}, 32)

	t.Run("direct", func(t *testing.T) {
		cfg := NetworkingConfig{Direct: true, NetKey: key, IP: net.ParseIP("203.0.113.7"), WSPort: 9090, TCPPort: 9091}
		calls, err := cfg.InitCalls(_testRegistry)
		require.NoError(err)
		require.Equal("252dba42", hex.EncodeToString(calls[:4]))
		for _, note := range []string{NetKeyNote, IPNote, WSPortNote, TCPPortNote} {
			require.True(bytes.Contains(calls, []byte(note)), note)
		}
		require.False(bytes.Contains(calls, []byte(RoutersNote)))
	})

	t.Run("indirect", func(t *testing.T) {
		cfg := NetworkingConfig{NetKey: key, Routers: []string{"router-one.os", "router-two.os"}}
		calls, err := cfg.InitCalls(_testRegistry)
		require.NoError(err)
		require.True(bytes.Contains(calls, []byte(RoutersNote)))
		require.False(bytes.Contains(calls, []byte(IPNote)))
	})

	t.Run("invalid config does not encode", func(t *testing.T) {
		cfg := NetworkingConfig{NetKey: key}
		_, err := cfg.InitCalls(_testRegistry)
		require.Error(err)
	})
}

func TestRoutersRoundTrip(t *testing.T) {
	require := require.New(t)
	data, err := EncodeRouters([]string{"router-one.os", "router-two.os"})
	require.NoError(err)

	nodes, err := DecodeRouters(data)
	require.NoError(err)
	require.Len(nodes, 2)
	one, err := zns.Namehash("router-one.os")
	require.NoError(err)
	two, err := zns.Namehash("router-two.os")
	require.NoError(err)
	require.Equal(one, nodes[0])
	require.Equal(two, nodes[1])

	_, err = EncodeRouters([]string{"Bad..Name"})
	require.Error(err)
}
