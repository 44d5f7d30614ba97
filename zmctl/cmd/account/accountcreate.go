// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/pkg/util/fileutil"
	"github.com/zonemapproject/zonemap-core/wallet"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
)

// Multi-language support
var (
	_createCmdShorts = map[config.Language]string{
		config.English: "Create a new wallet from a fresh mnemonic",
		config.Chinese: "通过新的助记词创建钱包",
	}
	_createCmdUses = map[config.Language]string{
		config.English: "create",
		config.Chinese: "create 创建",
	}
)

// _accountCreateCmd represents the account create command
var _accountCreateCmd = &cobra.Command{
	Use:   config.TranslateInLang(_createCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_createCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := accountCreate()
		return output.PrintError(err)
	},
}

func accountCreate() error {
	if fileutil.FileExists(_walletFile) {
		output.PrintResult("wallet already exists, use delete/import if you want to replace it.")
		return nil
	}

	password, err := newPassword()
	if err != nil {
		return err
	}

	mnemonic, err := wallet.NewMnemonic()
	if err != nil {
		return output.NewError(output.CryptoError, "failed to generate mnemonic", err)
	}
	if err := saveWallet(mnemonic, password); err != nil {
		return err
	}

	signer, err := wallet.NewKeySignerFromMnemonic(mnemonic, wallet.DefaultDerivationPath)
	if err != nil {
		return output.NewError(output.CryptoError, "failed to derive key from mnemonic", err)
	}

	output.PrintResult(fmt.Sprintf("Mnemonic phrase: %s\n"+
		"It is used to recover your wallet in case you forgot the password. "+
		"Write it down and store it in a safe place.\n\n"+
		"Wallet address: %s", mnemonic, signer.Address().Hex()))
	return nil
}
