// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package register

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	_netKey = ""
	_direct = false
	_ip = ""
	_wsPort = 0
	_tcpPort = 0
	_routers = nil
	_implementation = ""
	_dryRun = false
}

func TestNetworkingFromFlags(t *testing.T) {
	require := require.New(t)
	key := strings.Repeat("ab", 32)

	t.Run("net key is required", func(t *testing.T) {
		resetFlags()
		_, err := networkingFromFlags()
		require.Error(err)
		require.Contains(err.Error(), "--net-key")
	})

	t.Run("direct entry", func(t *testing.T) {
		resetFlags()
		_netKey = key
		_direct = true
		_ip = "203.0.113.7"
		_wsPort = 4431
		_tcpPort = 4432
		networking, err := networkingFromFlags()
		require.NoError(err)
		require.True(networking.Direct)
		require.Equal("203.0.113.7", networking.IP.String())
		require.Equal(uint16(4431), networking.WSPort)
	})

	t.Run("0x prefix is accepted", func(t *testing.T) {
		resetFlags()
		_netKey = "0x" + key
		_routers = []string{"router.os"}
		networking, err := networkingFromFlags()
		require.NoError(err)
		require.Len(networking.NetKey, 32)
	})

	t.Run("direct entry needs an address", func(t *testing.T) {
		resetFlags()
		_netKey = key
		_direct = true
		_, err := networkingFromFlags()
		require.Error(err)
	})

	t.Run("indirect entry needs routers", func(t *testing.T) {
		resetFlags()
		_netKey = key
		_, err := networkingFromFlags()
		require.Error(err)
	})

	t.Run("short key is rejected", func(t *testing.T) {
		resetFlags()
		_netKey = "abcd"
		_routers = []string{"router.os"}
		_, err := networkingFromFlags()
		require.Error(err)
	})
}

func TestBuildRequest(t *testing.T) {
	require := require.New(t)

	resetFlags()
	_netKey = strings.Repeat("cd", 32)
	_routers = []string{"router.os"}
	_implementation = "0xbbd35340337094AEC3cd58D58f0953276ad24419"
	req, err := buildRequest("Alice.os")
	require.NoError(err)
	require.Equal("Alice.os", req.Name)
	require.Equal(common.HexToAddress("0xbbd35340337094AEC3cd58D58f0953276ad24419"), req.Implementation)

	_implementation = "not-an-address"
	_, err = buildRequest("alice.os")
	require.Error(err)
}
