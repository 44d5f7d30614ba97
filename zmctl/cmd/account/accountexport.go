// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/wallet"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zmctl/util"
)

// Multi-language support
var (
	_exportCmdShorts = map[config.Language]string{
		config.English: "Export the wallet mnemonic, or the private key with --key",
		config.Chinese: "导出钱包助记词，使用--key导出私钥",
	}
	_exportCmdUses = map[config.Language]string{
		config.English: "export",
		config.Chinese: "export 导出",
	}
	_exportKey bool
)

// _accountExportCmd represents the account export command
var _accountExportCmd = &cobra.Command{
	Use:   config.TranslateInLang(_exportCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_exportCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := accountExport()
		return output.PrintError(err)
	},
}

func init() {
	_accountExportCmd.Flags().BoolVar(&_exportKey, "key", false,
		"export the derived private key instead of the mnemonic")
}

func accountExport() error {
	output.PrintQuery("Enter password\n")
	password, err := util.ReadSecretFromStdin()
	if err != nil {
		return output.NewError(output.InputError, "failed to get password", err)
	}
	mnemonic, err := Mnemonic(password)
	if err != nil {
		return err
	}
	if !_exportKey {
		output.PrintResult(mnemonic)
		return nil
	}
	signer, err := wallet.NewKeySignerFromMnemonic(mnemonic, wallet.DefaultDerivationPath)
	if err != nil {
		return output.NewError(output.CryptoError, "failed to derive key from mnemonic", err)
	}
	key, ok := wallet.Key(signer)
	if !ok {
		return output.NewError(output.CryptoError, "signer holds no exportable key", nil)
	}
	defer key.Zero()
	output.PrintResult(key.HexString())
	return nil
}
