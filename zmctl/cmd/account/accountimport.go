// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"

	"github.com/zonemapproject/zonemap-core/pkg/util/fileutil"
	"github.com/zonemapproject/zonemap-core/wallet"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
)

// Multi-language support
var (
	_importCmdShorts = map[config.Language]string{
		config.English: "Import a wallet from an existing mnemonic",
		config.Chinese: "通过已有的助记词导入钱包",
	}
	_importCmdUses = map[config.Language]string{
		config.English: "import",
		config.Chinese: "import 导入",
	}
)

// _accountImportCmd represents the account import command
var _accountImportCmd = &cobra.Command{
	Use:   config.TranslateInLang(_importCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_importCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := accountImport()
		return output.PrintError(err)
	},
}

func accountImport() error {
	if fileutil.FileExists(_walletFile) {
		output.PrintResult("wallet already exists, please execute delete before import.")
		return nil
	}

	output.PrintQuery("Enter 12-word mnemonic:\n")
	in := bufio.NewReader(os.Stdin)
	line, err := in.ReadString('\n')
	if err != nil {
		return output.NewError(output.InputError, "failed to read mnemonic", err)
	}
	mnemonic := strings.TrimSpace(line)
	if !bip39.IsMnemonicValid(mnemonic) {
		return output.NewError(output.ValidationError, wallet.ErrInvalidMnemonic.Error(), nil)
	}

	password, err := newPassword()
	if err != nil {
		return err
	}
	if err := saveWallet(mnemonic, password); err != nil {
		return err
	}

	signer, err := wallet.NewKeySignerFromMnemonic(mnemonic, wallet.DefaultDerivationPath)
	if err != nil {
		return output.NewError(output.CryptoError, "failed to derive key from mnemonic", err)
	}
	output.PrintResult(fmt.Sprintf("Wallet address: %s", signer.Address().Hex()))
	return nil
}
