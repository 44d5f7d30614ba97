// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	uconfig "go.uber.org/config"
	"go.uber.org/zap"

	"github.com/zonemapproject/zonemap-core/boot"
	"github.com/zonemapproject/zonemap-core/chain"
	"github.com/zonemapproject/zonemap-core/db"
	"github.com/zonemapproject/zonemap-core/pkg/log"
	"github.com/zonemapproject/zonemap-core/pkg/tracer"
	"github.com/zonemapproject/zonemap-core/registrar"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

const (
	// MainnetProfile is the canonical deployment on Base
	MainnetProfile = "mainnet"
	// TestnetProfile is the deployment on the Base Sepolia test network
	TestnetProfile = "testnet"
)

var (
	// Default is the default config, the mainnet deployment
	Default = Config{
		Chain: chain.DefaultConfig,
		Deployment: Deployment{
			Registry:        "0x000000008283554517c52ea4F37507Bd43625970",
			ZoneRegistrar:   "0x000000006f6cDA371fbe976d85267e677F9682f9",
			AccountRegistry: "0x000000006551c19487814612e58FE06813775758",
			Implementation:  "0xbbd35340337094AEC3cd58D58f0953276ad24419",
		},
		Registrar: registrar.DefaultConfig,
		DB: db.Config{
			DbPath:     "/var/data/zonemap/session.db",
			NumRetries: 3,
		},
		Boot:    boot.DefaultConfig,
		SubLogs: make(map[string]log.GlobalConfig),
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateChain,
		ValidateDeployment,
		ValidateRegistrar,
		ValidateBoot,
	}

	_profiles map[string]Config
)

func init() {
	// deterministic deployments land at the same address on every chain,
	// so the testnet profile only rebases the endpoint and chain id
	testnet := deepcopy.Copy(Default).(Config)
	testnet.Chain.Endpoint = "https://sepolia.base.org"
	testnet.Chain.ChainID = 84532
	_profiles = map[string]Config{
		MainnetProfile: Default,
		TestnetProfile: testnet,
	}
}

type (
	// Deployment lists the deployed contract addresses as EIP-55 hex strings
	Deployment struct {
		// Registry is the zonemap registry contract
		Registry string `yaml:"registry"`
		// ZoneRegistrar is the commit/reveal registrar minting top-zone entries
		ZoneRegistrar string `yaml:"zoneRegistrar"`
		// AccountRegistry is the ERC-6551 registry deploying token bound accounts
		AccountRegistry string `yaml:"accountRegistry"`
		// Implementation is the default token bound account implementation
		Implementation string `yaml:"implementation"`
	}

	// Config is the root config struct, each package's config should be put as its sub struct
	Config struct {
		Chain      chain.Config                `yaml:"chain"`
		Deployment Deployment                  `yaml:"deployment"`
		Registrar  registrar.Config            `yaml:"registrar"`
		DB         db.Config                   `yaml:"db"`
		Boot       boot.Config                 `yaml:"boot"`
		Log        log.GlobalConfig            `yaml:"log"`
		SubLogs    map[string]log.GlobalConfig `yaml:"subLogs"`
		Tracer     tracer.Config               `yaml:"tracer"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If config paths are given, it will read from
// the files and override the default configs. By default, it will apply all validation functions. To bypass validation,
// use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// Profile returns a deep copy of the builtin config of the named network
func Profile(name string) (Config, error) {
	base, ok := _profiles[strings.ToLower(name)]
	if !ok {
		return Config{}, errors.Wrapf(ErrInvalidCfg, "unknown network profile %s", name)
	}
	return deepcopy.Copy(base).(Config), nil
}

// Addresses parses the deployment into on-chain addresses
func (d Deployment) Addresses() (registrar.Deployment, error) {
	registry, err := parseAddress("deployment.registry", d.Registry)
	if err != nil {
		return registrar.Deployment{}, err
	}
	zoneRegistrar, err := parseAddress("deployment.zoneRegistrar", d.ZoneRegistrar)
	if err != nil {
		return registrar.Deployment{}, err
	}
	accountRegistry, err := parseAddress("deployment.accountRegistry", d.AccountRegistry)
	if err != nil {
		return registrar.Deployment{}, err
	}
	implementation, err := parseAddress("deployment.implementation", d.Implementation)
	if err != nil {
		return registrar.Deployment{}, err
	}
	return registrar.Deployment{
		Registry:        registry,
		ZoneRegistrar:   zoneRegistrar,
		AccountRegistry: accountRegistry,
		Implementation:  implementation,
	}, nil
}

// DeploymentAddresses returns the configured deployment parsed into addresses
func (cfg Config) DeploymentAddresses() registrar.Deployment {
	deployment, err := cfg.Deployment.Addresses()
	if err != nil {
		log.L().Panic(
			"Error when parsing deployment addresses",
			zap.Error(err),
		)
	}
	return deployment
}

// parseAddress accepts case-insensitive hex, but a mixed-case address must
// carry a valid EIP-55 checksum
func parseAddress(field, str string) (common.Address, error) {
	if !common.IsHexAddress(str) {
		return common.Address{}, errors.Wrapf(ErrInvalidCfg, "%s is not a hex address: %s", field, str)
	}
	stripped := strings.TrimPrefix(str, "0x")
	if stripped != strings.ToLower(stripped) && stripped != strings.ToUpper(stripped) {
		mixed, err := common.NewMixedcaseAddressFromString(str)
		if err != nil || !mixed.ValidChecksum() {
			return common.Address{}, errors.Wrapf(ErrInvalidCfg, "%s has a bad EIP-55 checksum: %s", field, str)
		}
	}
	return common.HexToAddress(str), nil
}

// ValidateChain validates the chain client configs
func ValidateChain(cfg Config) error {
	if cfg.Chain.Endpoint == "" {
		return errors.Wrap(ErrInvalidCfg, "chain endpoint should not be empty")
	}
	if cfg.Chain.ChainID == 0 {
		return errors.Wrap(ErrInvalidCfg, "chain ID should be greater than 0")
	}
	if cfg.Chain.ReceiptPollInterval <= 0 {
		return errors.Wrap(ErrInvalidCfg, "receipt poll interval should be greater than 0")
	}
	return nil
}

// ValidateDeployment validates the deployed contract addresses
func ValidateDeployment(cfg Config) error {
	_, err := cfg.Deployment.Addresses()
	return err
}

// ValidateRegistrar validates the registration FSM configs
func ValidateRegistrar(cfg Config) error {
	if cfg.Registrar.MaturityBuffer <= 0 {
		return errors.Wrap(ErrInvalidCfg, "maturity buffer should be greater than 0")
	}
	if cfg.Registrar.EventChanSize <= 0 {
		return errors.Wrap(ErrInvalidCfg, "registrar event chan size should be greater than 0")
	}
	return nil
}

// ValidateBoot validates the boot client configs
func ValidateBoot(cfg Config) error {
	if cfg.Boot.Endpoint == "" {
		return errors.Wrap(ErrInvalidCfg, "boot endpoint should not be empty")
	}
	if cfg.Boot.Timeout <= 0 {
		return errors.Wrap(ErrInvalidCfg, "boot timeout should be greater than 0")
	}
	return nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
