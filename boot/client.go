// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package boot drives a local zonemap node through its boot surface:
// submitting the signed credential binding and importing keyfiles.
package boot

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/zonemapproject/zonemap-core/credential"
)

// Config is the boot client config
type Config struct {
	// Endpoint is the node's local HTTP endpoint
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// Timeout bounds each request
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultConfig is the default config
var DefaultConfig = Config{
	Endpoint: "http://127.0.0.1:8080",
	Timeout:  30 * time.Second,
}

// BootRequest mirrors the node's boot body. Field names are the node's wire
// shape, not ours to change.
type BootRequest struct {
	PasswordHash string `json:"password_hash"`
	Reset        bool   `json:"reset"`
	Username     string `json:"username"`
	Direct       bool   `json:"direct"`
	Owner        string `json:"owner"`
	Timestamp    int64  `json:"timestamp"`
	Signature    string `json:"signature"`
	ChainID      uint64 `json:"chain_id"`
}

// ImportRequest mirrors the node's keyfile import body
type ImportRequest struct {
	Keyfile      []byte `json:"keyfile"`
	PasswordHash string `json:"password_hash"`
}

// NewBootRequest renders a signed boot message into the node's wire shape
func NewBootRequest(msg *credential.BootMessage, owner common.Address, signature []byte) *BootRequest {
	return &BootRequest{
		PasswordHash: hexutil.Encode(msg.PasswordHash[:]),
		Reset:        msg.Reset,
		Username:     msg.Username,
		Direct:       msg.Direct,
		Owner:        owner.Hex(),
		Timestamp:    msg.Timestamp,
		Signature:    hexutil.Encode(signature),
		ChainID:      msg.ChainID,
	}
}

// ServerError carries a rejection from the node, distinct from transport
// failures
type ServerError struct {
	// Status is the HTTP status code
	Status int
	// Body is the raw response body
	Body string
}

// Error returns the node's message when the body carries one
func (e *ServerError) Error() string {
	if msg := gjson.Get(e.Body, "message").String(); msg != "" {
		return fmt.Sprintf("node rejected the request: %s (status %d)", msg, e.Status)
	}
	return fmt.Sprintf("node rejected the request with status %d", e.Status)
}

// Client is a boot surface client
type Client struct {
	http *resty.Client
}

// NewClient creates a client on a node endpoint
func NewClient(cfg Config) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(cfg.Endpoint).
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// Boot submits the signed binding and returns the node's keyfile
func (c *Client) Boot(ctx context.Context, req *BootRequest) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post("/boot")
	if err != nil {
		return nil, errors.Wrap(err, "failed to reach the node")
	}
	if resp.IsError() {
		return nil, &ServerError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}

// ImportKeyfile logs in with an existing keyfile
func (c *Client) ImportKeyfile(ctx context.Context, keyfile []byte, passwordHash string) error {
	req := &ImportRequest{Keyfile: keyfile, PasswordHash: passwordHash}
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post("/import-keyfile")
	if err != nil {
		return errors.Wrap(err, "failed to reach the node")
	}
	if resp.IsError() {
		return &ServerError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
