// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package zonemap

import (
	"net"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"

	"github.com/zonemapproject/zonemap-core/pkg/util/byteutil"
	"github.com/zonemapproject/zonemap-core/zns"
)

// Note keys every live entry publishes. Peers resolve each other through
// these records, so the wire shapes are part of the protocol: the networking
// key is a raw 32-byte ed25519 public key, the IP is 4 bytes, ports are
// 2-byte big-endian, and routers are an ABI-encoded bytes32[] of router
// nodes.
const (
	NetKeyNote  = "~net-key"
	IPNote      = "~ip"
	WSPortNote  = "~ws-port"
	TCPPortNote = "~tcp-port"
	RoutersNote = "~routers"
)

const _netKeyLength = 32

// NetworkingConfig describes how a fresh entry will be reachable: directly
// at a published IP and port, or indirectly through router entries.
type NetworkingConfig struct {
	Direct  bool     `json:"direct" yaml:"direct"`
	NetKey  []byte   `json:"netKey" yaml:"netKey"`
	IP      net.IP   `json:"ip,omitempty" yaml:"ip,omitempty"`
	WSPort  uint16   `json:"wsPort,omitempty" yaml:"wsPort,omitempty"`
	TCPPort uint16   `json:"tcpPort,omitempty" yaml:"tcpPort,omitempty"`
	Routers []string `json:"routers,omitempty" yaml:"routers,omitempty"`
}

// Validate checks internal consistency before anything is encoded on chain.
func (c *NetworkingConfig) Validate() error {
	if len(c.NetKey) != _netKeyLength {
		return errors.Errorf("networking key must be %d bytes, got %d", _netKeyLength, len(c.NetKey))
	}
	if c.Direct {
		if len(c.Routers) > 0 {
			return errors.New("a direct entry does not publish routers")
		}
		if c.IP.To4() == nil {
			return errors.New("a direct entry needs a public IPv4 address")
		}
		if c.WSPort == 0 {
			return errors.New("a direct entry needs a websocket port")
		}
		return nil
	}
	if len(c.Routers) == 0 {
		return errors.New("an indirect entry needs at least one router")
	}
	if c.IP != nil || c.WSPort != 0 || c.TCPPort != 0 {
		return errors.New("an indirect entry does not publish an address")
	}
	return nil
}

// InitCalls encodes the note writes a fresh entry performs right after
// minting: a multicall aggregate the new account runs against the registry,
// so every note lands under the entry's own node.
func (c *NetworkingConfig) InitCalls(registry common.Address) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	calls := make([]Call, 0, 4)
	appendNote := func(key string, data []byte) error {
		callData, err := EncodeNote(key, data)
		if err != nil {
			return err
		}
		calls = append(calls, Call{Target: registry, CallData: callData})
		return nil
	}
	if err := appendNote(NetKeyNote, c.NetKey); err != nil {
		return nil, err
	}
	if c.Direct {
		if err := appendNote(IPNote, c.IP.To4()); err != nil {
			return nil, err
		}
		if err := appendNote(WSPortNote, byteutil.Uint16ToBytesBigEndian(c.WSPort)); err != nil {
			return nil, err
		}
		if c.TCPPort != 0 {
			if err := appendNote(TCPPortNote, byteutil.Uint16ToBytesBigEndian(c.TCPPort)); err != nil {
				return nil, err
			}
		}
	} else {
		routers, err := EncodeRouters(c.Routers)
		if err != nil {
			return nil, err
		}
		if err := appendNote(RoutersNote, routers); err != nil {
			return nil, err
		}
	}
	return EncodeAggregate(calls)
}

// EncodeRouters encodes router names into the ~routers note payload.
func EncodeRouters(routers []string) ([]byte, error) {
	nodes := make([][32]byte, 0, len(routers))
	for _, router := range routers {
		node, err := zns.Namehash(router)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid router name %q", router)
		}
		nodes = append(nodes, node)
	}
	return _routersArgs.Pack(nodes)
}

// DecodeRouters decodes a ~routers note payload back into router nodes.
func DecodeRouters(data []byte) ([]hash.Hash256, error) {
	values, err := _routersArgs.Unpack(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpack routers note")
	}
	raw, ok := values[0].([][32]byte)
	if !ok {
		return nil, errors.New("unexpected routers payload type")
	}
	nodes := make([]hash.Hash256, len(raw))
	for i := range raw {
		nodes[i] = raw[i]
	}
	return nodes, nil
}
