// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package cmd assembles the zmctl command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/zmctl/cmd/account"
	"github.com/zonemapproject/zonemap-core/zmctl/cmd/boot"
	"github.com/zonemapproject/zonemap-core/zmctl/cmd/name"
	"github.com/zonemapproject/zonemap-core/zmctl/cmd/register"
	"github.com/zonemapproject/zonemap-core/zmctl/cmd/version"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
)

// Multi-language support
var (
	_zmctlRootCmdShorts = map[config.Language]string{
		config.English: "Command-line interface for the Zonemap namespace",
		config.Chinese: "Zonemap命名空间命令行工具",
	}
	_zmctlRootCmdLongs = map[config.Language]string{
		config.English: `zmctl registers names on the Zonemap namespace, predicts their token-bound accounts and binds credentials to entries.`,
		config.Chinese: `zmctl 用于在Zonemap命名空间注册名称、预测其代币绑定账户并为条目绑定凭证`,
	}
)

// NewZmctl returns the zmctl root command
func NewZmctl() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zmctl",
		Short: config.TranslateInLang(_zmctlRootCmdShorts, config.UILanguage),
		Long:  config.TranslateInLang(_zmctlRootCmdLongs, config.UILanguage),
	}

	rootCmd.AddCommand(config.ConfigCmd)
	rootCmd.AddCommand(account.AccountCmd)
	rootCmd.AddCommand(name.NameCmd)
	rootCmd.AddCommand(register.RegisterCmd)
	rootCmd.AddCommand(boot.BootCmd)
	rootCmd.AddCommand(version.VersionCmd)

	return rootCmd
}
