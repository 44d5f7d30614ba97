// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package registrar

import (
	"bytes"
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zonemapproject/zonemap-core/chain"
	"github.com/zonemapproject/zonemap-core/db"
	"github.com/zonemapproject/zonemap-core/tba"
	"github.com/zonemapproject/zonemap-core/test/mock/mock_registrar"
	"github.com/zonemapproject/zonemap-core/testutil"
	"github.com/zonemapproject/zonemap-core/wallet"
	"github.com/zonemapproject/zonemap-core/zonemap"
	"github.com/zonemapproject/zonemap-core/zns"
)

var (
	_testDeployment = Deployment{
		Registry:        common.HexToAddress("0x000000008283554517c52ea4F37507Bd43625970"),
		ZoneRegistrar:   common.HexToAddress("0x000000006f6cDA371fbe976d85267e677F9682f9"),
		AccountRegistry: common.HexToAddress("0x000000006551c19487814612e58FE06813775758"),
		Implementation:  common.HexToAddress("0xbbd35340337094AEC3cd58D58f0953276ad24419"),
	}
	_testSignerKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	_testClaimant  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

func _testNetworking() zonemap.NetworkingConfig {
	return zonemap.NetworkingConfig{
		NetKey:  bytes.Repeat([]byte{0x11}, 32),
		Routers: []string{"router-one.os"},
	}
}

func newTestRegistrar(t *testing.T, ctrl *gomock.Controller, c clock.Clock, kv db.KVStore) (*Registrar, *mock_registrar.MockChainClient) {
	client := mock_registrar.NewMockChainClient(ctrl)
	client.EXPECT().ChainID().Return(uint64(8453)).AnyTimes()
	signer, err := wallet.NewKeySignerFromHex(_testSignerKey)
	require.NoError(t, err)
	client.EXPECT().Signer().Return(signer).AnyTimes()
	r, err := NewRegistrar(DefaultConfig, _testDeployment, client, kv, c)
	require.NoError(t, err)
	return r, client
}

// registryRet packs a get return with the account the predictor expects for
// name, owned by owner
func registryRet(t *testing.T, name string, owner common.Address) ([]byte, []byte, common.Address) {
	node, err := zns.Namehash(name)
	require.NoError(t, err)
	getData, err := zonemap.EncodeGet(node)
	require.NoError(t, err)
	predicted := tba.NewPredictor(_testDeployment.Registry, _testDeployment.AccountRegistry, 8453).AccountAddress(node)
	ret, err := zonemap.EncodeGetResult(zonemap.Record{TBA: predicted, Owner: owner})
	require.NoError(t, err)
	return getData, ret, predicted
}

func legacyTx(nonce uint64, to common.Address, data []byte) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      200000,
		GasPrice: big.NewInt(1),
		Data:     data,
	})
}

func TestRegistrarCommitReveal(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClock := clock.NewMock()
	r, client := newTestRegistrar(t, ctrl, mockClock, db.NewMemKVStore())

	networking := _testNetworking()
	initCalls, err := networking.InitCalls(_testDeployment.Registry)
	require.NoError(err)
	commitData, err := zonemap.EncodeCommit(zonemap.Commitment("alice", _testClaimant))
	require.NoError(err)
	mintData, err := zonemap.EncodeRegistrarMint(_testClaimant, "alice", initCalls, nil, _testDeployment.Implementation)
	require.NoError(err)
	getData, getRet, predicted := registryRet(t, "alice.os", _testClaimant)

	commitTx := legacyTx(0, _testDeployment.ZoneRegistrar, commitData)
	mintTx := legacyTx(1, _testDeployment.ZoneRegistrar, mintData)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), commitData).Return(commitTx, nil)
	client.EXPECT().WaitMined(gomock.Any(), commitTx).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      commitTx.Hash(),
		BlockNumber: big.NewInt(100),
	}, nil)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), mintData).Return(mintTx, nil)
	client.EXPECT().WaitMined(gomock.Any(), mintTx).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      mintTx.Hash(),
		BlockNumber: big.NewInt(108),
	}, nil)
	client.EXPECT().Read(gomock.Any(), _testDeployment.Registry, getData).Return(getRet, nil)

	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()

	session, err := r.Submit(&SubmitRequest{Name: "Alice.OS", Networking: networking})
	require.NoError(err)
	require.Equal("alice.os", session.Name)
	require.Equal("alice", session.Label)
	require.Equal(common.Hash(zonemap.Commitment("alice", _testClaimant)), session.Commitment)
	require.Equal(predicted, session.PredictedTBA)
	require.False(session.Direct)

	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateAwaitingMaturity, nil
	}))
	// one second short of the buffer the mint must not go out
	mockClock.Add(DefaultConfig.MaturityBuffer - time.Second)
	time.Sleep(100 * time.Millisecond)
	require.Equal(StateAwaitingMaturity, r.CurrentState())
	mockClock.Add(time.Second)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateDone, nil
	}))

	final := r.Session()
	require.Equal(string(StateDone), final.State)
	require.Equal(commitTx.Hash(), final.CommitTxHash)
	require.Equal(mintTx.Hash(), final.MintTxHash)
	require.Empty(final.Cause)
}

func TestRegistrarDirect(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClock := clock.NewMock()
	r, client := newTestRegistrar(t, ctrl, mockClock, db.NewMemKVStore())

	networking := _testNetworking()
	initCalls, err := networking.InitCalls(_testDeployment.Registry)
	require.NoError(err)
	entryMint, err := zonemap.EncodeEntryMint(_testClaimant, "sub", initCalls, _testDeployment.Implementation)
	require.NoError(err)
	execData, err := zonemap.EncodeExecute(_testDeployment.Registry, nil, entryMint, zonemap.CallOperation)
	require.NoError(err)
	parentTBA := common.HexToAddress("0x1EE62a007Eaf638417e24eFD91f45AE17a44D891")
	parentNode, err := zns.Namehash("alice.os")
	require.NoError(err)
	parentGet, err := zonemap.EncodeGet(parentNode)
	require.NoError(err)
	parentRet, err := zonemap.EncodeGetResult(zonemap.Record{TBA: parentTBA, Owner: _testClaimant})
	require.NoError(err)
	getData, getRet, _ := registryRet(t, "sub.alice.os", parentTBA)

	mintTx := legacyTx(0, parentTBA, execData)
	client.EXPECT().Read(gomock.Any(), _testDeployment.Registry, parentGet).Return(parentRet, nil)
	client.EXPECT().SendCall(gomock.Any(), parentTBA, gomock.Nil(), execData).Return(mintTx, nil)
	client.EXPECT().WaitMined(gomock.Any(), mintTx).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      mintTx.Hash(),
		BlockNumber: big.NewInt(42),
	}, nil)
	client.EXPECT().Read(gomock.Any(), _testDeployment.Registry, getData).Return(getRet, nil)

	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()

	session, err := r.SubmitAuthorized(context.Background(), &SubmitRequest{Name: "sub.alice.os", Networking: networking})
	require.NoError(err)
	require.True(session.Direct)
	require.Equal(parentTBA, session.ParentTBA)

	// no commit, no maturity wait, the mock clock never moves
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateDone, nil
	}))
	final := r.Session()
	require.Equal(common.Hash{}, final.CommitTxHash)
	require.Equal(mintTx.Hash(), final.MintTxHash)
}

func TestRegistrarDirectParentMissing(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, client := newTestRegistrar(t, ctrl, clock.NewMock(), db.NewMemKVStore())

	parentNode, err := zns.Namehash("alice.os")
	require.NoError(err)
	parentGet, err := zonemap.EncodeGet(parentNode)
	require.NoError(err)
	vacant, err := zonemap.EncodeGetResult(zonemap.Record{})
	require.NoError(err)
	client.EXPECT().Read(gomock.Any(), _testDeployment.Registry, parentGet).Return(vacant, nil)

	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()

	_, err = r.SubmitAuthorized(context.Background(), &SubmitRequest{Name: "sub.alice.os", Networking: _testNetworking()})
	require.Equal(ErrParentNotFound, errors.Cause(err))
	require.Equal(StateIdle, r.CurrentState())
}

func TestRegistrarRevertSurfaced(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClock := clock.NewMock()
	r, client := newTestRegistrar(t, ctrl, mockClock, db.NewMemKVStore())

	networking := _testNetworking()
	initCalls, err := networking.InitCalls(_testDeployment.Registry)
	require.NoError(err)
	commitData, err := zonemap.EncodeCommit(zonemap.Commitment("alice", _testClaimant))
	require.NoError(err)
	mintData, err := zonemap.EncodeRegistrarMint(_testClaimant, "alice", initCalls, nil, _testDeployment.Implementation)
	require.NoError(err)

	commitTx := legacyTx(0, _testDeployment.ZoneRegistrar, commitData)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), commitData).Return(commitTx, nil)
	client.EXPECT().WaitMined(gomock.Any(), commitTx).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      commitTx.Hash(),
		BlockNumber: big.NewInt(100),
	}, nil)
	// the chain disagrees with the local timer, the revert is surfaced as is
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), mintData).
		Return(nil, chain.DecodeRevertData(chain.SelectorCommitTooNew[:]))

	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()

	_, err = r.Submit(&SubmitRequest{Name: "alice.os", Networking: networking})
	require.NoError(err)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateAwaitingMaturity, nil
	}))
	mockClock.Add(DefaultConfig.MaturityBuffer)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateFailed, nil
	}))
	require.Contains(r.Session().Cause, "CommitTooNew()")

	// a failed flow does not wedge the registrar
	commitTx2 := legacyTx(1, _testDeployment.ZoneRegistrar, commitData)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), commitData).Return(commitTx2, nil)
	client.EXPECT().WaitMined(gomock.Any(), commitTx2).DoAndReturn(
		func(ctx context.Context, _ *types.Transaction) (*types.Receipt, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	_, err = r.Submit(&SubmitRequest{Name: "alice.os", Networking: networking})
	require.NoError(err)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateCommitting, nil
	}))
}

func TestRegistrarSigningRejected(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, client := newTestRegistrar(t, ctrl, clock.NewMock(), db.NewMemKVStore())

	commitData, err := zonemap.EncodeCommit(zonemap.Commitment("alice", _testClaimant))
	require.NoError(err)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), commitData).
		Return(nil, errors.Wrap(wallet.ErrSigningRejected, "user denied the request"))

	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()

	_, err = r.Submit(&SubmitRequest{Name: "alice.os", Networking: _testNetworking()})
	require.NoError(err)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateFailed, nil
	}))
	cause := r.Session().Cause
	require.Contains(cause, wallet.ErrSigningRejected.Error())
	// a denial is not an on-chain revert
	require.NotContains(cause, "execution reverted")
}

func TestRegistrarPredictionMismatch(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClock := clock.NewMock()
	r, client := newTestRegistrar(t, ctrl, mockClock, db.NewMemKVStore())

	networking := _testNetworking()
	initCalls, err := networking.InitCalls(_testDeployment.Registry)
	require.NoError(err)
	commitData, err := zonemap.EncodeCommit(zonemap.Commitment("alice", _testClaimant))
	require.NoError(err)
	mintData, err := zonemap.EncodeRegistrarMint(_testClaimant, "alice", initCalls, nil, _testDeployment.Implementation)
	require.NoError(err)
	node, err := zns.Namehash("alice.os")
	require.NoError(err)
	getData, err := zonemap.EncodeGet(node)
	require.NoError(err)
	// minted, but not to the predicted account
	impostor, err := zonemap.EncodeGetResult(zonemap.Record{
		TBA:   common.HexToAddress("0xe97E1F631983d55E476278edB832bC32e130347a"),
		Owner: _testClaimant,
	})
	require.NoError(err)

	commitTx := legacyTx(0, _testDeployment.ZoneRegistrar, commitData)
	mintTx := legacyTx(1, _testDeployment.ZoneRegistrar, mintData)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), commitData).Return(commitTx, nil)
	client.EXPECT().WaitMined(gomock.Any(), commitTx).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      commitTx.Hash(),
		BlockNumber: big.NewInt(100),
	}, nil)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), mintData).Return(mintTx, nil)
	client.EXPECT().WaitMined(gomock.Any(), mintTx).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      mintTx.Hash(),
		BlockNumber: big.NewInt(108),
	}, nil)
	client.EXPECT().Read(gomock.Any(), _testDeployment.Registry, getData).Return(impostor, nil)

	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()

	_, err = r.Submit(&SubmitRequest{Name: "alice.os", Networking: networking})
	require.NoError(err)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateAwaitingMaturity, nil
	}))
	mockClock.Add(DefaultConfig.MaturityBuffer)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateFailed, nil
	}))
	require.Contains(r.Session().Cause, "does not match prediction")
}

func TestRegistrarInFlight(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, client := newTestRegistrar(t, ctrl, clock.NewMock(), db.NewMemKVStore())

	commitData, err := zonemap.EncodeCommit(zonemap.Commitment("alice", _testClaimant))
	require.NoError(err)
	commitTx := legacyTx(0, _testDeployment.ZoneRegistrar, commitData)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), commitData).Return(commitTx, nil)
	client.EXPECT().WaitMined(gomock.Any(), commitTx).DoAndReturn(
		func(ctx context.Context, _ *types.Transaction) (*types.Receipt, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	require.NoError(r.Start(context.Background()))
	_, err = r.Submit(&SubmitRequest{Name: "alice.os", Networking: _testNetworking()})
	require.NoError(err)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateCommitting, nil
	}))

	_, err = r.Submit(&SubmitRequest{Name: "bob.os", Networking: _testNetworking()})
	require.Equal(ErrInFlight, err)
	_, err = r.SubmitAuthorized(context.Background(), &SubmitRequest{Name: "sub.alice.os", Networking: _testNetworking()})
	require.Equal(ErrInFlight, err)

	require.NoError(r.Stop(context.Background()))
}

func TestRegistrarResumeAwaitingMaturity(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClock := clock.NewMock()
	mockClock.Add(time.Hour)

	networking := _testNetworking()
	node, err := zns.Namehash("alice.os")
	require.NoError(err)
	getData, getRet, predicted := registryRet(t, "alice.os", _testClaimant)

	// a flow interrupted ten seconds after its commit confirmed
	kv := db.NewMemKVStore()
	require.NoError(kv.Start(context.Background()))
	store := NewSessionStore(kv)
	require.NoError(store.Save(&RegistrationSession{
		Name:           "alice.os",
		Label:          "alice",
		Node:           common.Hash(node),
		Claimant:       _testClaimant,
		Implementation: _testDeployment.Implementation,
		Networking:     networking,
		Commitment:     common.Hash(zonemap.Commitment("alice", _testClaimant)),
		PredictedTBA:   predicted,
		CommitTxHash:   common.HexToHash("0x11"),
		CommittedAt:    mockClock.Now().Add(-10 * time.Second),
		State:          string(StateAwaitingMaturity),
		UpdatedAt:      mockClock.Now(),
	}))

	r, client := newTestRegistrar(t, ctrl, mockClock, kv)
	initCalls, err := networking.InitCalls(_testDeployment.Registry)
	require.NoError(err)
	mintData, err := zonemap.EncodeRegistrarMint(_testClaimant, "alice", initCalls, nil, _testDeployment.Implementation)
	require.NoError(err)
	mintTx := legacyTx(3, _testDeployment.ZoneRegistrar, mintData)
	client.EXPECT().SendCall(gomock.Any(), _testDeployment.ZoneRegistrar, gomock.Nil(), mintData).Return(mintTx, nil)
	client.EXPECT().WaitMined(gomock.Any(), mintTx).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      mintTx.Hash(),
		BlockNumber: big.NewInt(200),
	}, nil)
	client.EXPECT().Read(gomock.Any(), _testDeployment.Registry, getData).Return(getRet, nil)

	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()
	require.Equal(StateAwaitingMaturity, r.CurrentState())
	require.Equal("alice.os", r.Session().Name)

	// ten seconds already elapsed, only six remain on the timer
	mockClock.Add(5 * time.Second)
	time.Sleep(100 * time.Millisecond)
	require.Equal(StateAwaitingMaturity, r.CurrentState())
	mockClock.Add(time.Second)
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateDone, nil
	}))
	require.Equal(mintTx.Hash(), r.Session().MintTxHash)
}

func TestRegistrarResumeMinting(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockClock := clock.NewMock()
	mockClock.Add(time.Hour)

	node, err := zns.Namehash("alice.os")
	require.NoError(err)
	getData, getRet, predicted := registryRet(t, "alice.os", _testClaimant)
	mintTxHash := common.HexToHash("0x22")

	kv := db.NewMemKVStore()
	require.NoError(kv.Start(context.Background()))
	store := NewSessionStore(kv)
	require.NoError(store.Save(&RegistrationSession{
		Name:           "alice.os",
		Label:          "alice",
		Node:           common.Hash(node),
		Claimant:       _testClaimant,
		Implementation: _testDeployment.Implementation,
		Networking:     _testNetworking(),
		Commitment:     common.Hash(zonemap.Commitment("alice", _testClaimant)),
		PredictedTBA:   predicted,
		CommitTxHash:   common.HexToHash("0x11"),
		MintTxHash:     mintTxHash,
		CommittedAt:    mockClock.Now().Add(-20 * time.Second),
		State:          string(StateMinting),
		UpdatedAt:      mockClock.Now(),
	}))

	r, client := newTestRegistrar(t, ctrl, mockClock, kv)
	// the mint is already on the wire, resume follows the receipt
	client.EXPECT().WaitReceipt(gomock.Any(), mintTxHash).Return(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      mintTxHash,
		BlockNumber: big.NewInt(300),
	}, nil)
	client.EXPECT().Read(gomock.Any(), _testDeployment.Registry, getData).Return(getRet, nil)

	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()
	require.NoError(testutil.WaitUntil(10*time.Millisecond, 2*time.Second, func() (bool, error) {
		return r.CurrentState() == StateDone, nil
	}))
}

func TestBackdoorEvt(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	r, _ := newTestRegistrar(t, ctrl, clock.NewMock(), db.NewMemKVStore())
	require.NoError(r.Start(context.Background()))
	defer func() {
		require.NoError(r.Stop(context.Background()))
	}()
	require.Equal(StateIdle, r.CurrentState())

	for _, state := range registrationStates {
		r.produce(r.newEvent(BackdoorEvent, state), 0)
		require.NoError(testutil.WaitUntil(10*time.Millisecond, 100*time.Millisecond, func() (bool, error) {
			return state == r.CurrentState(), nil
		}))
		r.produce(r.newEvent(BackdoorEvent, StateIdle), 0)
		require.NoError(testutil.WaitUntil(10*time.Millisecond, 100*time.Millisecond, func() (bool, error) {
			return StateIdle == r.CurrentState(), nil
		}))
	}
}
