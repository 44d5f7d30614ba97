// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	require := require.New(t)
	cfg, err := New(nil)
	require.NoError(err)
	require.Equal(Default, cfg)
}

func TestNewConfigWithWrongConfigPath(t *testing.T) {
	require := require.New(t)
	_, err := New([]string{"wrong_path"})
	require.Error(err)
	require.Contains(err.Error(), "wrong_path")
}

func TestNewConfigWithOverride(t *testing.T) {
	require := require.New(t)
	cfgStr := `
chain:
    endpoint: http://localhost:8545
    chainID: 31337
registrar:
    maturityBuffer: 20s
deployment:
    registry: "0x000000008283554517c52ea4f37507bd43625970"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(path, []byte(cfgStr), 0666))

	cfg, err := New([]string{path})
	require.NoError(err)
	require.Equal("http://localhost:8545", cfg.Chain.Endpoint)
	require.Equal(uint64(31337), cfg.Chain.ChainID)
	require.Equal(20*time.Second, cfg.Registrar.MaturityBuffer)
	// untouched fields keep their defaults
	require.Equal(Default.Registrar.EventChanSize, cfg.Registrar.EventChanSize)
	require.Equal(Default.Deployment.ZoneRegistrar, cfg.Deployment.ZoneRegistrar)
}

func TestNewConfigWithEnvExpansion(t *testing.T) {
	require := require.New(t)
	cfgStr := `
boot:
    endpoint: ${ZONEMAP_TEST_BOOT_ENDPOINT:http://fallback:8080}
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(path, []byte(cfgStr), 0666))

	cfg, err := New([]string{path})
	require.NoError(err)
	require.Equal("http://fallback:8080", cfg.Boot.Endpoint)

	require.NoError(os.Setenv("ZONEMAP_TEST_BOOT_ENDPOINT", "http://node:8080"))
	defer func() {
		require.NoError(os.Unsetenv("ZONEMAP_TEST_BOOT_ENDPOINT"))
	}()
	cfg, err = New([]string{path})
	require.NoError(err)
	require.Equal("http://node:8080", cfg.Boot.Endpoint)
}

func TestProfile(t *testing.T) {
	require := require.New(t)
	mainnet, err := Profile(MainnetProfile)
	require.NoError(err)
	require.Equal(Default, mainnet)

	testnet, err := Profile(TestnetProfile)
	require.NoError(err)
	require.Equal(uint64(84532), testnet.Chain.ChainID)
	require.Equal("https://sepolia.base.org", testnet.Chain.Endpoint)
	require.Equal(Default.Deployment, testnet.Deployment)

	// profiles are deep copies, mutations must not leak into the builtins
	mainnet.Deployment.Registry = "0x0"
	mainnet.SubLogs["chain"] = Default.Log
	require.NotEqual(mainnet.Deployment.Registry, Default.Deployment.Registry)
	require.Empty(Default.SubLogs)

	_, err = Profile("devnet")
	require.Equal(ErrInvalidCfg, errors.Cause(err))
}

func TestValidateDeployment(t *testing.T) {
	require := require.New(t)
	require.NoError(ValidateDeployment(Default))

	// case-insensitive hex is accepted without a checksum
	cfg := Default
	cfg.Deployment.Registry = strings.ToLower(Default.Deployment.Registry)
	require.NoError(ValidateDeployment(cfg))
	cfg.Deployment.Registry = "0x" + strings.ToUpper(Default.Deployment.Registry[2:])
	require.NoError(ValidateDeployment(cfg))

	// a mixed-case address must carry a valid EIP-55 checksum
	cfg.Deployment.Registry = "0x000000008283554517c52ea4f37507Bd43625970"
	err := ValidateDeployment(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))
	require.Contains(err.Error(), "bad EIP-55 checksum")

	cfg.Deployment.Registry = "not-an-address"
	err = ValidateDeployment(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))
	require.Contains(err.Error(), "not a hex address")

	cfg.Deployment.Registry = ""
	require.Error(ValidateDeployment(cfg))
}

func TestDeploymentAddresses(t *testing.T) {
	require := require.New(t)
	deployment := Default.DeploymentAddresses()
	require.Equal(common.HexToAddress("0x000000008283554517c52ea4F37507Bd43625970"), deployment.Registry)
	require.Equal(common.HexToAddress("0x000000006f6cDA371fbe976d85267e677F9682f9"), deployment.ZoneRegistrar)
	require.Equal(common.HexToAddress("0x000000006551c19487814612e58FE06813775758"), deployment.AccountRegistry)
	require.Equal(common.HexToAddress("0xbbd35340337094AEC3cd58D58f0953276ad24419"), deployment.Implementation)
}

func TestValidateChain(t *testing.T) {
	require := require.New(t)
	cfg := Default
	cfg.Chain.Endpoint = ""
	err := ValidateChain(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))
	require.Contains(err.Error(), "chain endpoint should not be empty")

	cfg = Default
	cfg.Chain.ChainID = 0
	err = ValidateChain(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))

	cfg = Default
	cfg.Chain.ReceiptPollInterval = 0
	err = ValidateChain(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))
}

func TestValidateRegistrar(t *testing.T) {
	require := require.New(t)
	cfg := Default
	cfg.Registrar.MaturityBuffer = 0
	err := ValidateRegistrar(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))
	require.Contains(err.Error(), "maturity buffer should be greater than 0")

	cfg = Default
	cfg.Registrar.EventChanSize = 0
	err = ValidateRegistrar(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))
}

func TestValidateBoot(t *testing.T) {
	require := require.New(t)
	cfg := Default
	cfg.Boot.Endpoint = ""
	err := ValidateBoot(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))

	cfg = Default
	cfg.Boot.Timeout = 0
	err = ValidateBoot(cfg)
	require.Equal(ErrInvalidCfg, errors.Cause(err))
	require.Contains(err.Error(), "boot timeout should be greater than 0")
}

func TestNewConfigRejectsInvalidOverride(t *testing.T) {
	require := require.New(t)
	cfgStr := `
registrar:
    maturityBuffer: 0s
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(path, []byte(cfgStr), 0666))

	_, err := New([]string{path})
	require.Equal(ErrInvalidCfg, errors.Cause(err))

	// the same file passes when validation is bypassed
	cfg, err := New([]string{path}, DoNotValidate)
	require.NoError(err)
	require.Equal(time.Duration(0), cfg.Registrar.MaturityBuffer)
}
