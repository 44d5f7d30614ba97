// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package util

import (
	"bytes"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh/terminal"

	coreconfig "github.com/zonemapproject/zonemap-core/config"
	"github.com/zonemapproject/zonemap-core/pkg/log"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
)

// ExecuteCmd executes cmd with args, and return system output, e.g., help info, and error
func ExecuteCmd(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// CoreConfig resolves the configured network profile and applies the
// endpoint overrides from the zmctl config
func CoreConfig() (coreconfig.Config, error) {
	network := config.ReadConfig.Network
	if network == "" {
		network = coreconfig.MainnetProfile
	}
	cfg, err := coreconfig.Profile(network)
	if err != nil {
		return coreconfig.Config{}, output.NewError(output.ConfigError, "unknown network "+network, err)
	}
	if config.ReadConfig.Endpoint != "" {
		cfg.Chain.Endpoint = config.ReadConfig.Endpoint
	}
	if config.ReadConfig.BootEndpoint != "" {
		cfg.Boot.Endpoint = config.ReadConfig.BootEndpoint
	}
	return cfg, nil
}

// ReadSecretFromStdin used to safely get password input
func ReadSecretFromStdin() (string, error) {
	signalListener := make(chan os.Signal, 1)
	signal.Notify(signalListener, os.Interrupt)
	routineTerminate := make(chan struct{})
	sta, err := terminal.GetState(int(syscall.Stdin))
	if err != nil {
		return "", output.NewError(output.RuntimeError, "", err)
	}
	go func() {
		for {
			select {
			case <-signalListener:
				err = terminal.Restore(int(syscall.Stdin), sta)
				if err != nil {
					log.L().Error("failed restore terminal", zap.Error(err))
					return
				}
				os.Exit(130)
			case <-routineTerminate:
				return
			}
		}
	}()
	bytePass, err := terminal.ReadPassword(int(syscall.Stdin))
	close(routineTerminate)
	if err != nil {
		return "", output.NewError(output.RuntimeError, "failed to read password", nil)
	}
	return string(bytePass), nil
}

// CheckArgs used for check zmctl cmd arg(s)'s num
func CheckArgs(validNum ...int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		for _, n := range validNum {
			if len(args) == n {
				return nil
			}
		}
		nums := strings.Replace(strings.Trim(fmt.Sprint(validNum), "[]"), " ", " or ", -1)
		return fmt.Errorf("accepts "+nums+" arg(s), received %d", len(args))
	}
}

// TrimHexPrefix removes 0x prefix from a string if it has
func TrimHexPrefix(s string) string {
	return strings.TrimPrefix(s, "0x")
}
