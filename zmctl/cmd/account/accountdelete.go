// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/pkg/util/fileutil"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
)

// Multi-language support
var (
	_deleteCmdShorts = map[config.Language]string{
		config.English: "Delete the wallet",
		config.Chinese: "删除钱包",
	}
	_deleteCmdUses = map[config.Language]string{
		config.English: "delete",
		config.Chinese: "delete 删除",
	}
)

// _accountDeleteCmd represents the account delete command
var _accountDeleteCmd = &cobra.Command{
	Use:   config.TranslateInLang(_deleteCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_deleteCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := accountDelete()
		return output.PrintError(err)
	},
}

func accountDelete() error {
	if !fileutil.FileExists(_walletFile) {
		return output.NewError(output.ReadFileError, ErrNoWallet.Error(), nil)
	}

	var confirm string
	info := "** This is an irreversible action!\n" +
		"Once the wallet is deleted, names claimed by it can only be recovered from the mnemonic!\n" +
		"Type 'YES' to continue, quit for anything else."
	message := output.ConfirmationMessage{Info: info, Options: []string{"yes"}}
	fmt.Println(message.String())
	if _, err := fmt.Scanf("%s", &confirm); err != nil {
		return output.NewError(output.InputError, "failed to read confirmation", err)
	}
	if !strings.EqualFold(confirm, "yes") {
		output.PrintResult("quit")
		return nil
	}

	if err := os.Remove(_walletFile); err != nil {
		return output.NewError(output.WriteFileError, "failed to delete wallet file", err)
	}
	output.PrintResult(fmt.Sprintf("Wallet %s is deleted.", _walletFile))
	return nil
}
