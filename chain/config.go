// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package chain

import "time"

// Config is the config of the chain client
type Config struct {
	// Endpoint is the JSON-RPC endpoint of the chain
	Endpoint string `yaml:"endpoint"`
	// ChainID is the expected chain ID, send is refused on mismatch
	ChainID uint64 `yaml:"chainID"`
	// ReceiptPollInterval is the interval between receipt polls
	ReceiptPollInterval time.Duration `yaml:"receiptPollInterval"`
	// ReceiptMaxRetries is the number of receipt polls before giving up
	ReceiptMaxRetries uint64 `yaml:"receiptMaxRetries"`
	// RequestsPerSecond throttles outbound RPC requests, 0 means no limit
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	// GasLimitMargin is the percentage added on top of the gas estimate
	GasLimitMargin uint64 `yaml:"gasLimitMargin"`
}

// DefaultConfig is the default config of the chain client
var DefaultConfig = Config{
	Endpoint:            "https://mainnet.base.org",
	ChainID:             8453,
	ReceiptPollInterval: 2 * time.Second,
	ReceiptMaxRetries:   150,
	RequestsPerSecond:   10,
	GasLimitMargin:      20,
}
