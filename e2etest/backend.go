// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package e2etest runs registration flows against a simulated deployment:
// an in-memory chain backend that executes the registry, the zone registrar
// and token-bound account calls the way the contracts would.
package e2etest

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/facebookgo/clock"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"

	"github.com/zonemapproject/zonemap-core/chain"
	"github.com/zonemapproject/zonemap-core/registrar"
	"github.com/zonemapproject/zonemap-core/tba"
	"github.com/zonemapproject/zonemap-core/zns"
	"github.com/zonemapproject/zonemap-core/zonemap"
)

// contract surfaces the simulation executes, same shapes the client packs
const (
	_simRegistryABI = `[
		{"type":"function","name":"get","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"tba","type":"address"},{"name":"owner","type":"address"},{"name":"data","type":"bytes"}]},
		{"type":"function","name":"note","stateMutability":"nonpayable","inputs":[{"name":"note","type":"bytes"},{"name":"data","type":"bytes"}],"outputs":[{"name":"labelhash","type":"bytes32"}]},
		{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"who","type":"address"},{"name":"label","type":"bytes"},{"name":"initCalls","type":"bytes"},{"name":"implementation","type":"address"}],"outputs":[{"name":"tba","type":"address"}]}
	]`
	_simRegistrarABI = `[
		{"type":"function","name":"commit","stateMutability":"nonpayable","inputs":[{"name":"commitment","type":"bytes32"}],"outputs":[]},
		{"type":"function","name":"mint","stateMutability":"payable","inputs":[{"name":"who","type":"address"},{"name":"label","type":"bytes"},{"name":"initCalls","type":"bytes"},{"name":"erc721Data","type":"bytes"},{"name":"implementation","type":"address"}],"outputs":[{"name":"tba","type":"address"}]}
	]`
	_simAccountABI = `[
		{"type":"function","name":"execute","stateMutability":"payable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"},{"name":"data","type":"bytes"},{"name":"operation","type":"uint8"}],"outputs":[{"name":"result","type":"bytes"}]}
	]`
	_simMulticallABI = `[
		{"type":"function","name":"aggregate","stateMutability":"payable","inputs":[{"name":"calls","type":"tuple[]","components":[{"name":"target","type":"address"},{"name":"callData","type":"bytes"}]}],"outputs":[{"name":"blockNumber","type":"uint256"},{"name":"returnData","type":"bytes[]"}]}
	]`
)

// revertError is the rpc-shaped error a node returns on a reverted call
type revertError struct {
	data []byte
}

func (e *revertError) Error() string { return "execution reverted" }

// ErrorData returns the revert payload the way go-ethereum's rpc package does
func (e *revertError) ErrorData() interface{} { return hexutil.Encode(e.data) }

func customRevert(selector [4]byte) *revertError {
	return &revertError{data: selector[:]}
}

type simRecord struct {
	tba   common.Address
	owner common.Address
	data  []byte
}

// simBackend is an in-memory stand-in for a chain running the zonemap
// deployment. Transactions execute synchronously on send, commitment age is
// measured on the injected clock so tests control maturity.
type simBackend struct {
	mutex      sync.Mutex
	clock      clock.Clock
	chainID    *big.Int
	deployment registrar.Deployment
	zone       string
	minAge     time.Duration
	predictor  *tba.Predictor

	registryABI  abi.ABI
	registrarABI abi.ABI
	accountABI   abi.ABI
	multicall    abi.ABI

	commits  map[common.Hash]time.Time
	records  map[common.Hash]*simRecord
	tbaIndex map[common.Address]common.Hash
	notes    map[common.Hash]map[string][]byte
	nonces   map[common.Address]uint64
	receipts map[common.Hash]*types.Receipt
	height   uint64
}

var _ chain.Backend = (*simBackend)(nil)

func newSimBackend(c clock.Clock, chainID uint64, deployment registrar.Deployment, zone string, minAge time.Duration) (*simBackend, error) {
	s := &simBackend{
		clock:      c,
		chainID:    new(big.Int).SetUint64(chainID),
		deployment: deployment,
		zone:       zone,
		minAge:     minAge,
		predictor:  tba.NewPredictor(deployment.Registry, deployment.AccountRegistry, chainID),
		commits:    make(map[common.Hash]time.Time),
		records:    make(map[common.Hash]*simRecord),
		tbaIndex:   make(map[common.Address]common.Hash),
		notes:      make(map[common.Hash]map[string][]byte),
		nonces:     make(map[common.Address]uint64),
		receipts:   make(map[common.Hash]*types.Receipt),
	}
	for _, def := range []struct {
		json string
		dst  *abi.ABI
	}{
		{_simRegistryABI, &s.registryABI},
		{_simRegistrarABI, &s.registrarABI},
		{_simAccountABI, &s.accountABI},
		{_simMulticallABI, &s.multicall},
	} {
		parsed, err := abi.JSON(strings.NewReader(def.json))
		if err != nil {
			return nil, err
		}
		*def.dst = parsed
	}
	return s, nil
}

// seed plants an existing entry, owner included, as if it had been minted
// in an earlier life
func (s *simBackend) seed(name string, owner common.Address) (common.Address, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	node, err := zns.Namehash(name)
	if err != nil {
		return common.Address{}, err
	}
	return s.mintEntry(common.Hash(node), owner, nil)
}

func (s *simBackend) noteOf(name, key string) []byte {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	node, err := zns.Namehash(name)
	if err != nil {
		return nil
	}
	return s.notes[common.Hash(node)][key]
}

func (s *simBackend) commitCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.commits)
}

// ChainID implements chain.Backend
func (s *simBackend) ChainID(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(s.chainID), nil
}

// PendingNonceAt implements chain.Backend
func (s *simBackend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.nonces[account], nil
}

// SuggestGasPrice implements chain.Backend
func (s *simBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

// EstimateGas implements chain.Backend. The estimate does not execute, so a
// call that will revert still gets a transaction and fails at its receipt,
// the way a mint losing a race does on a real chain.
func (s *simBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

// SendTransaction implements chain.Backend, mining the transaction at once
func (s *simBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	sender, err := types.Sender(types.LatestSignerForChainID(s.chainID), tx)
	if err != nil {
		return errors.Wrap(err, "cannot recover sender")
	}
	if tx.To() == nil {
		return errors.New("contract creation is not part of the simulation")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.nonces[sender]++
	s.height++
	status := types.ReceiptStatusSuccessful
	restore := s.snapshot()
	if _, err := s.execute(sender, *tx.To(), tx.Data()); err != nil {
		restore()
		status = types.ReceiptStatusFailed
	}
	s.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(s.height),
		GasUsed:     21_000,
	}
	return nil
}

// TransactionReceipt implements chain.Backend
func (s *simBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	receipt, ok := s.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

// CallContract implements chain.Backend. The call runs against a copy of
// contract state, so a replayed mint never persists anything.
func (s *simBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if msg.To == nil {
		return nil, errors.New("missing call target")
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	restore := s.snapshot()
	defer restore()
	return s.execute(msg.From, *msg.To, msg.Data)
}

// snapshot copies contract state and returns the restore
func (s *simBackend) snapshot() func() {
	commits := make(map[common.Hash]time.Time, len(s.commits))
	for k, v := range s.commits {
		commits[k] = v
	}
	records := make(map[common.Hash]*simRecord, len(s.records))
	for k, v := range s.records {
		clone := *v
		clone.data = append([]byte(nil), v.data...)
		records[k] = &clone
	}
	tbaIndex := make(map[common.Address]common.Hash, len(s.tbaIndex))
	for k, v := range s.tbaIndex {
		tbaIndex[k] = v
	}
	notes := make(map[common.Hash]map[string][]byte, len(s.notes))
	for k, v := range s.notes {
		inner := make(map[string][]byte, len(v))
		for key, blob := range v {
			inner[key] = append([]byte(nil), blob...)
		}
		notes[k] = inner
	}
	return func() {
		s.commits = commits
		s.records = records
		s.tbaIndex = tbaIndex
		s.notes = notes
	}
}

// execute dispatches a call the way the chain would route it
func (s *simBackend) execute(caller, to common.Address, data []byte) ([]byte, error) {
	switch {
	case to == s.deployment.ZoneRegistrar:
		return s.executeRegistrar(data)
	case to == s.deployment.Registry:
		return s.executeRegistry(caller, data)
	default:
		if _, ok := s.tbaIndex[to]; ok {
			return s.executeAccount(caller, to, data)
		}
		return nil, errors.Errorf("no contract at %s", to.Hex())
	}
}

func (s *simBackend) executeRegistrar(data []byte) ([]byte, error) {
	method, args, err := s.unpack(s.registrarABI, data)
	if err != nil {
		return nil, err
	}
	switch method {
	case "commit":
		commitment := args[0].([32]byte)
		s.commits[common.Hash(commitment)] = s.clock.Now()
		return nil, nil
	case "mint":
		var (
			who       = args[0].(common.Address)
			label     = string(args[1].([]byte))
			initCalls = args[2].([]byte)
		)
		commitment := common.Hash(zonemap.Commitment(label, who))
		committedAt, ok := s.commits[commitment]
		if !ok {
			return nil, customRevert(chain.SelectorCommitExpired)
		}
		if s.clock.Now().Sub(committedAt) < s.minAge {
			return nil, customRevert(chain.SelectorCommitTooNew)
		}
		node, err := zns.Namehash(label + "." + s.zone)
		if err != nil {
			return nil, errors.Wrap(err, "invalid label")
		}
		if _, taken := s.records[common.Hash(node)]; taken {
			return nil, customRevert(chain.SelectorNameTaken)
		}
		tbaAddr, err := s.mintEntry(common.Hash(node), who, initCalls)
		if err != nil {
			return nil, err
		}
		delete(s.commits, commitment)
		return s.registrarABI.Methods["mint"].Outputs.Pack(tbaAddr)
	default:
		return nil, errors.Errorf("registrar has no method %s", method)
	}
}

func (s *simBackend) executeRegistry(caller common.Address, data []byte) ([]byte, error) {
	method, args, err := s.unpack(s.registryABI, data)
	if err != nil {
		return nil, err
	}
	switch method {
	case "get":
		node := common.Hash(args[0].([32]byte))
		record, ok := s.records[node]
		if !ok {
			record = &simRecord{}
		}
		return s.registryABI.Methods["get"].Outputs.Pack(record.tba, record.owner, record.data)
	case "note":
		// only a minted entry writes notes, keyed under its own node
		node, ok := s.tbaIndex[caller]
		if !ok {
			return nil, customRevert(chain.SelectorNotAuthorized)
		}
		key := string(args[0].([]byte))
		payload := args[1].([]byte)
		if s.notes[node] == nil {
			s.notes[node] = make(map[string][]byte)
		}
		s.notes[node][key] = append([]byte(nil), payload...)
		labelhash := zns.LabelHash(key)
		return s.registryABI.Methods["note"].Outputs.Pack([32]byte(labelhash))
	case "mint":
		// a sub-entry mint: the caller must be the parent's account
		parentNode, ok := s.tbaIndex[caller]
		if !ok {
			return nil, customRevert(chain.SelectorNotAuthorized)
		}
		var (
			who       = args[0].(common.Address)
			label     = string(args[1].([]byte))
			initCalls = args[2].([]byte)
		)
		childNode, err := zns.Child(hash.Hash256(parentNode), label)
		if err != nil {
			return nil, errors.Wrap(err, "invalid label")
		}
		if _, taken := s.records[common.Hash(childNode)]; taken {
			return nil, customRevert(chain.SelectorNameTaken)
		}
		tbaAddr, err := s.mintEntry(common.Hash(childNode), who, initCalls)
		if err != nil {
			return nil, err
		}
		return s.registryABI.Methods["mint"].Outputs.Pack(tbaAddr)
	default:
		return nil, errors.Errorf("registry has no method %s", method)
	}
}

func (s *simBackend) executeAccount(caller, account common.Address, data []byte) ([]byte, error) {
	node := s.tbaIndex[account]
	record := s.records[node]
	if record == nil || record.owner != caller {
		return nil, customRevert(chain.SelectorNotAuthorized)
	}
	method, args, err := s.unpack(s.accountABI, data)
	if err != nil {
		return nil, err
	}
	if method != "execute" {
		return nil, errors.Errorf("account has no method %s", method)
	}
	inner := args[2].([]byte)
	ret, err := s.execute(account, args[0].(common.Address), inner)
	if err != nil {
		return nil, err
	}
	return s.accountABI.Methods["execute"].Outputs.Pack(ret)
}

// mintEntry creates the record, registers its deterministic account address
// and runs the init calls as the fresh account
func (s *simBackend) mintEntry(node common.Hash, owner common.Address, initCalls []byte) (common.Address, error) {
	tbaAddr := s.predictor.AccountAddress(hash.Hash256(node))
	s.records[node] = &simRecord{tba: tbaAddr, owner: owner}
	s.tbaIndex[tbaAddr] = node
	if len(initCalls) == 0 {
		return tbaAddr, nil
	}
	method, args, err := s.unpack(s.multicall, initCalls)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "invalid init calls")
	}
	if method != "aggregate" {
		return common.Address{}, errors.Errorf("init calls must aggregate, got %s", method)
	}
	legs := args[0].([]struct {
		Target   common.Address `json:"target"`
		CallData []byte         `json:"callData"`
	})
	for _, leg := range legs {
		if _, err := s.execute(tbaAddr, leg.Target, leg.CallData); err != nil {
			return common.Address{}, errors.Wrap(err, "init call failed")
		}
	}
	return tbaAddr, nil
}

func (s *simBackend) unpack(contract abi.ABI, data []byte) (string, []interface{}, error) {
	if len(data) < 4 {
		return "", nil, errors.New("calldata too short")
	}
	method, err := contract.MethodById(data[:4])
	if err != nil {
		return "", nil, err
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot unpack %s", method.Name)
	}
	return method.Name, args, nil
}
