// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package boot binds a derived credential to an entry through the node's
// boot surface: hash the password, sign the typed message with the owner
// key, hand both to the node and keep the keyfile it returns.
package boot

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/boot"
	"github.com/zonemapproject/zonemap-core/credential"
	"github.com/zonemapproject/zonemap-core/zmctl/cmd/account"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zmctl/util"
	"github.com/zonemapproject/zonemap-core/zns"
)

// Multi-language support
var (
	_bootCmdShorts = map[config.Language]string{
		config.English: "Bind a credential to an entry and fetch its keyfile",
		config.Chinese: "将凭证绑定到条目并获取其密钥文件",
	}
	_bootCmdUses = map[config.Language]string{
		config.English: "boot NAME",
		config.Chinese: "boot 名称",
	}
)

// Flags
var (
	_reset       bool
	_bootDirect  bool
	_keyfilePath string
)

// BootCmd represents the boot command
var BootCmd = &cobra.Command{
	Use:   config.TranslateInLang(_bootCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_bootCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := bootEntry(args[0])
		return output.PrintError(err)
	},
}

func init() {
	BootCmd.AddCommand(_bootImportCmd)
	BootCmd.Flags().BoolVar(&_reset, "reset", true,
		"replace any existing credential, --reset=false logs in against the current one")
	BootCmd.Flags().BoolVar(&_bootDirect, "direct", false,
		"the entry publishes a direct networking profile")
	BootCmd.Flags().StringVar(&_keyfilePath, "keyfile", "",
		"where to write the returned keyfile, defaults to NAME.keyfile in the wallet directory")
}

func bootEntry(arg string) error {
	name, err := zns.Normalize(arg)
	if err != nil {
		return output.NewError(output.ValidationError, "invalid name", err)
	}
	cfg, err := util.CoreConfig()
	if err != nil {
		return err
	}
	deployment, err := cfg.Deployment.Addresses()
	if err != nil {
		return err
	}

	output.PrintQuery(fmt.Sprintf("Enter the password of entry %s\n", name))
	password, err := util.ReadSecretFromStdin()
	if err != nil {
		return output.NewError(output.InputError, "failed to get entry password", err)
	}
	passwordHash, err := credential.DeriveHash(name, password)
	if err != nil {
		return output.NewError(output.CryptoError, "failed to derive the credential hash", err)
	}

	output.PrintQuery("Enter wallet password\n")
	walletPassword, err := util.ReadSecretFromStdin()
	if err != nil {
		return output.NewError(output.InputError, "failed to get wallet password", err)
	}
	signer, err := account.Signer(walletPassword)
	if err != nil {
		return err
	}

	msg := &credential.BootMessage{
		Username:     name,
		PasswordHash: passwordHash,
		Timestamp:    time.Now().Unix(),
		Direct:       _bootDirect,
		Reset:        _reset,
		ChainID:      cfg.Chain.ChainID,
	}
	signature, err := msg.Sign(signer, deployment.Registry)
	if err != nil {
		return output.NewError(output.CryptoError, "failed to sign the boot message", err)
	}

	ctx := context.Background()
	keyfile, err := boot.NewClient(cfg.Boot).Boot(ctx, boot.NewBootRequest(msg, signer.Address(), signature))
	if err != nil {
		return output.NewError(output.NetworkError, "boot request failed", err)
	}

	path := _keyfilePath
	if path == "" {
		path = config.ReadConfig.Wallet + "/" + name + ".keyfile"
	}
	if err := os.WriteFile(path, keyfile, 0600); err != nil {
		return output.NewError(output.WriteFileError,
			fmt.Sprintf("failed to write keyfile %s", path), err)
	}
	if _reset {
		output.PrintResult(fmt.Sprintf("Credential of %s is set, keyfile written to %s.", name, path))
	} else {
		output.PrintResult(fmt.Sprintf("Logged in to %s, keyfile written to %s.", name, path))
	}
	return nil
}
