// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package chain sends and reads Zonemap contract calls over JSON-RPC.
package chain

import (
	"context"
	"math"
	"math/big"
	"sync"

	"github.com/cenkalti/backoff"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/zonemapproject/zonemap-core/pkg/log"
	"github.com/zonemapproject/zonemap-core/pkg/tracer"
	"github.com/zonemapproject/zonemap-core/wallet"
)

var _clientMtc = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "zonemap_chain_client",
		Help: "Chain client stats",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(_clientMtc)
}

var (
	// ErrChainMismatch indicates the endpoint serves a different chain than configured
	ErrChainMismatch = errors.New("endpoint chain ID does not match config")
	// ErrExecutionFailed indicates an on-chain execution failure without a decodable revert
	ErrExecutionFailed = errors.New("transaction execution failed")
)

// Backend is the subset of the JSON-RPC client the chain client relies on.
// It is satisfied by *ethclient.Client.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Client wraps a Backend with nonce tracking, request throttling and
// structured revert decoding
type Client struct {
	mutex      sync.Mutex
	backend    Backend
	signer     wallet.Signer
	cfg        Config
	chainID    *big.Int
	limiter    *rate.Limiter
	nonce      *atomic.Uint64
	nonceValid *atomic.Bool
}

// NewClient creates a chain client on an existing backend
func NewClient(backend Backend, signer wallet.Signer, cfg Config) *Client {
	limit := rate.Limit(math.MaxFloat64)
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		backend:    backend,
		signer:     signer,
		cfg:        cfg,
		chainID:    new(big.Int).SetUint64(cfg.ChainID),
		limiter:    rate.NewLimiter(limit, 1),
		nonce:      atomic.NewUint64(0),
		nonceValid: atomic.NewBool(false),
	}
}

// Dial connects to the configured endpoint and verifies its chain ID
func Dial(ctx context.Context, cfg Config, signer wallet.Signer) (*Client, error) {
	backend, err := ethclient.DialContext(ctx, cfg.Endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial endpoint %s", cfg.Endpoint)
	}
	client := NewClient(backend, signer, cfg)
	if err := client.VerifyChainID(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// Signer returns the signer behind the client
func (c *Client) Signer() wallet.Signer { return c.signer }

// ChainID returns the configured chain ID
func (c *Client) ChainID() uint64 { return c.cfg.ChainID }

// VerifyChainID checks the backend serves the configured chain
func (c *Client) VerifyChainID(ctx context.Context) error {
	remote, err := c.backend.ChainID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get chain ID")
	}
	if remote.Cmp(c.chainID) != 0 {
		return errors.Wrapf(ErrChainMismatch, "endpoint %s, config %s", remote, c.chainID)
	}
	return nil
}

// Read calls a contract without sending a transaction and decodes reverts
func (c *Client) Read(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	ctx, span := tracer.NewSpan(ctx, "chain.Read")
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ret, err := c.backend.CallContract(ctx, ethereum.CallMsg{
		From: c.signer.Address(),
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		if revert, ok := RevertFromError(err); ok {
			return nil, revert
		}
		return nil, errors.Wrap(err, "failed to call contract")
	}
	return ret, nil
}

// SendCall signs and broadcasts a contract call and returns the signed
// transaction without waiting for inclusion
func (c *Client) SendCall(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Transaction, error) {
	ctx, span := tracer.NewSpan(ctx, "chain.SendCall")
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if value == nil {
		value = new(big.Int)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	nonce, err := c.pendingNonce(ctx)
	if err != nil {
		return nil, err
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get gas price")
	}
	msg := ethereum.CallMsg{
		From:  c.signer.Address(),
		To:    &to,
		Value: value,
		Data:  data,
	}
	gasLimit, err := c.backend.EstimateGas(ctx, msg)
	if err != nil {
		// a failing call surfaces its revert payload through the estimate
		if revert, ok := RevertFromError(err); ok {
			_clientMtc.WithLabelValues("reverted").Inc()
			return nil, revert
		}
		return nil, errors.Wrap(err, "failed to estimate gas")
	}
	gasLimit += gasLimit * c.cfg.GasLimitMargin / 100

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := c.signer.SignTx(tx, c.chainID)
	if err != nil {
		if errors.Cause(err) == wallet.ErrSigningRejected {
			_clientMtc.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}
	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		c.nonceValid.Store(false)
		_clientMtc.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "failed to send transaction")
	}
	c.nonce.Store(nonce + 1)
	_clientMtc.WithLabelValues("sent").Inc()
	log.L().Debug("Transaction sent.",
		zap.String("hash", signed.Hash().Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", nonce))
	return signed, nil
}

// WaitReceipt polls for the receipt of a transaction until it is mined or
// the retry budget is exhausted
func (c *Client) WaitReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ctx, span := tracer.NewSpan(ctx, "chain.WaitReceipt")
	defer span.End()

	var receipt *types.Receipt
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.ReceiptPollInterval), c.cfg.ReceiptMaxRetries),
		ctx,
	)
	if err := backoff.Retry(func() error {
		r, err := c.backend.TransactionReceipt(ctx, txHash)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	}, bo); err != nil {
		return nil, errors.Wrapf(err, "failed to get receipt of transaction %s", txHash.Hex())
	}
	return receipt, nil
}

// WaitMined waits for a sent transaction to be mined. A failed receipt is
// replayed at its block to recover the revert payload.
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := c.WaitReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		_clientMtc.WithLabelValues("reverted").Inc()
		return receipt, c.reasonOfFailure(ctx, tx, receipt)
	}
	_clientMtc.WithLabelValues("success").Inc()
	return receipt, nil
}

// Execute sends a contract call and waits for its receipt
func (c *Client) Execute(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	ctx, span := tracer.NewSpan(ctx, "chain.Execute")
	defer span.End()

	signed, err := c.SendCall(ctx, to, value, data)
	if err != nil {
		return nil, err
	}
	return c.WaitMined(ctx, signed)
}

// reasonOfFailure replays a failed call at its block to extract the revert
func (c *Client) reasonOfFailure(ctx context.Context, tx *types.Transaction, receipt *types.Receipt) error {
	msg := ethereum.CallMsg{
		From:     c.signer.Address(),
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}
	ret, err := c.backend.CallContract(ctx, msg, receipt.BlockNumber)
	if err != nil {
		if revert, ok := RevertFromError(err); ok {
			return revert
		}
		return errors.Wrap(ErrExecutionFailed, err.Error())
	}
	if len(ret) > 0 {
		return DecodeRevertData(ret)
	}
	return errors.Wrapf(ErrExecutionFailed, "transaction %s", tx.Hash().Hex())
}

func (c *Client) pendingNonce(ctx context.Context) (uint64, error) {
	if c.nonceValid.Load() {
		return c.nonce.Load(), nil
	}
	nonce, err := c.backend.PendingNonceAt(ctx, c.signer.Address())
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}
	c.nonce.Store(nonce)
	c.nonceValid.Store(true)
	return nonce, nil
}
