// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	coreconfig "github.com/zonemapproject/zonemap-core/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
)

// Regexp patterns
const (
	_ipPattern       = `((25[0-5]|2[0-4]\d|[01]?\d\d?)\.){3}(25[0-5]|2[0-4]\d|[01]?\d\d?)`
	_domainPattern   = `[a-zA-Z0-9][a-zA-Z0-9_-]{0,62}(\.[a-zA-Z0-9][a-zA-Z0-9_-]{0,62})*(\.[a-zA-Z][a-zA-Z0-9]{0,10}){1}`
	_localPattern    = "localhost"
	_endpointPattern = `(https?://)?(` + _ipPattern + `|(` + _domainPattern + `)|(` + _localPattern + `))(:\d{1,5})?(/[-a-zA-Z0-9@:%_\+.~#?&/=]*)?`

	_defaultNetwork = coreconfig.MainnetProfile
)

var (
	supportedLanguage = []string{"English", "中文"}
	_validArgs        = []string{"endpoint", "bootEndpoint", "wallet", "network", "defaultacc", "language"}
	_validGetArgs     = []string{"endpoint", "bootEndpoint", "wallet", "network", "defaultacc", "language", "all"}
	_endpointCompile  = regexp.MustCompile("^" + _endpointPattern + "$")
)

// configGetCmd represents the config get command
var configGetCmd = &cobra.Command{
	Use:       "get VARIABLE",
	Short:     "Get config fields from zmctl",
	Long:      "Get config fields from zmctl\nValid Variables: [" + strings.Join(_validGetArgs, ", ") + "]",
	ValidArgs: _validGetArgs,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("accepts 1 arg(s), received %d\n"+
				"Valid arg(s): %s", len(args), _validGetArgs)
		}
		return cobra.OnlyValidArgs(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := Get(args[0])
		return output.PrintError(err)
	},
}

// configSetCmd represents the config set command
var configSetCmd = &cobra.Command{
	Use:       "set VARIABLE VALUE",
	Short:     "Set config fields for zmctl",
	Long:      "Set config fields for zmctl\nValid Variables: [" + strings.Join(_validArgs, ", ") + "]",
	ValidArgs: _validArgs,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("accepts 2 arg(s), received %d\n"+
				"Valid arg(s): %s", len(args), _validArgs)
		}
		return cobra.OnlyValidArgs(cmd, args[:1])
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := set(args)
		return output.PrintError(err)
	},
}

// configResetCmd represents the config reset command
var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset config to default",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := reset()
		return output.PrintError(err)
	},
}

func (m *Context) String() string {
	if output.Format == "" {
		message := output.JSONString(m)
		return message
	}
	return output.FormatString(output.Result, m)
}

func (m *Config) String() string {
	if output.Format == "" {
		message := output.JSONString(m)
		return message
	}
	return output.FormatString(output.Result, m)
}

// Get gets config variable
func Get(arg string) error {
	switch arg {
	default:
		return output.NewError(output.ConfigError, ErrConfigNotMatch.Error(), nil)
	case "endpoint":
		if ReadConfig.Endpoint == "" {
			return output.NewError(output.ConfigError, ErrEmptyEndpoint.Error(), nil)
		}
		output.PrintResult(ReadConfig.Endpoint)
		return nil
	case "bootEndpoint":
		if ReadConfig.BootEndpoint == "" {
			return output.NewError(output.ConfigError, ErrEmptyEndpoint.Error(), nil)
		}
		output.PrintResult(ReadConfig.BootEndpoint)
		return nil
	case "wallet":
		output.PrintResult(ReadConfig.Wallet)
		return nil
	case "network":
		output.PrintResult(ReadConfig.Network)
		return nil
	case "defaultacc":
		if ReadConfig.DefaultAccount.AddressOrAlias == "" {
			return output.NewError(output.ConfigError, "default account did not set", nil)
		}
		fmt.Println(ReadConfig.DefaultAccount.String())
		return nil
	case "language":
		output.PrintResult(ReadConfig.Language)
		return nil
	case "all":
		fmt.Println(ReadConfig.String())
		return nil
	}
}

// GetContextAddressOrAlias gets current context
func GetContextAddressOrAlias() (string, error) {
	defaultAccount := ReadConfig.DefaultAccount
	if strings.EqualFold(defaultAccount.AddressOrAlias, "") {
		return "", output.NewError(output.ConfigError,
			`use "zmctl config set defaultacc ADDRESS" to config default account first`, nil)
	}
	return defaultAccount.AddressOrAlias, nil
}

// isValidEndpoint makes sure the endpoint matches the endpoint match pattern
func isValidEndpoint(endpoint string) bool {
	return _endpointCompile.MatchString(endpoint)
}

// isValidNetwork checks the network is a builtin profile
func isValidNetwork(arg string) bool {
	_, err := coreconfig.Profile(arg)
	return err == nil
}

// isSupportedLanguage checks if the language is a supported option and returns index when supported
func isSupportedLanguage(arg string) Language {
	if index, err := strconv.Atoi(arg); err == nil && index >= 0 && index < len(supportedLanguage) {
		return Language(index)
	}
	for i, lang := range supportedLanguage {
		if strings.EqualFold(arg, lang) {
			return Language(i)
		}
	}
	return Language(-1)
}

// writeConfig writes to config file
func writeConfig() error {
	out, err := yaml.Marshal(&ReadConfig)
	if err != nil {
		return output.NewError(output.SerializationError, "failed to marshal config", err)
	}
	if err := os.WriteFile(DefaultConfigFile, out, 0600); err != nil {
		return output.NewError(output.WriteFileError,
			fmt.Sprintf("failed to write to config file %s", DefaultConfigFile), err)
	}
	return nil
}

// set sets config variable
func set(args []string) error {
	switch args[0] {
	default:
		return output.NewError(output.ConfigError, ErrConfigNotMatch.Error(), nil)
	case "endpoint":
		if !isValidEndpoint(args[1]) {
			return output.NewError(output.ConfigError, fmt.Sprintf("endpoint %s is not valid", args[1]), nil)
		}
		ReadConfig.Endpoint = args[1]
	case "bootEndpoint":
		if !isValidEndpoint(args[1]) {
			return output.NewError(output.ConfigError, fmt.Sprintf("endpoint %s is not valid", args[1]), nil)
		}
		ReadConfig.BootEndpoint = args[1]
	case "wallet":
		ReadConfig.Wallet = args[1]
	case "network":
		lowArg := strings.ToLower(args[1])
		if !isValidNetwork(lowArg) {
			return output.NewError(output.ConfigError,
				fmt.Sprintf("network %s is not valid\nValid networks: [%s, %s]",
					args[1], coreconfig.MainnetProfile, coreconfig.TestnetProfile), nil)
		}
		ReadConfig.Network = lowArg
	case "defaultacc":
		if !common.IsHexAddress(args[1]) {
			return output.NewError(output.ValidationError, "failed to validate address", nil)
		}
		ReadConfig.DefaultAccount.AddressOrAlias = args[1]
	case "language":
		language := isSupportedLanguage(args[1])
		if language == -1 {
			return output.NewError(output.ConfigError,
				fmt.Sprintf("Language %s is not supported\nSupported languages: %s",
					args[1], supportedLanguage), nil)
		}
		ReadConfig.Language = supportedLanguage[language]
	}
	err := writeConfig()
	if err != nil {
		return err
	}
	output.PrintResult(strings.Title(args[0]) + " is set to " + args[1])
	return nil
}

// reset resets all values of config
func reset() error {
	ReadConfig.Wallet = ConfigDir
	ReadConfig.Network = _defaultNetwork
	ReadConfig.Endpoint = ""
	ReadConfig.BootEndpoint = ""
	ReadConfig.DefaultAccount = *new(Context)
	ReadConfig.Language = "English"

	err := writeConfig()
	if err != nil {
		return err
	}

	output.PrintResult("Config set to default values")
	return nil
}
