// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package boot

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/boot"
	"github.com/zonemapproject/zonemap-core/credential"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zmctl/util"
	"github.com/zonemapproject/zonemap-core/zns"
)

// Multi-language support
var (
	_importCmdShorts = map[config.Language]string{
		config.English: "Log in to an entry with an existing keyfile",
		config.Chinese: "使用现有的密钥文件登录条目",
	}
	_importCmdUses = map[config.Language]string{
		config.English: "import NAME KEYFILE",
		config.Chinese: "import 名称 密钥文件",
	}
)

// _bootImportCmd represents the boot import command
var _bootImportCmd = &cobra.Command{
	Use:   config.TranslateInLang(_importCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_importCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := bootImport(args[0], args[1])
		return output.PrintError(err)
	},
}

func bootImport(arg, path string) error {
	name, err := zns.Normalize(arg)
	if err != nil {
		return output.NewError(output.ValidationError, "invalid name", err)
	}
	cfg, err := util.CoreConfig()
	if err != nil {
		return err
	}
	keyfile, err := os.ReadFile(path)
	if err != nil {
		return output.NewError(output.ReadFileError,
			fmt.Sprintf("failed to read keyfile %s", path), err)
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

	ctx := context.Background()
	if err := boot.NewClient(cfg.Boot).ImportKeyfile(ctx, keyfile, hexutil.Encode(passwordHash[:])); err != nil {
		return output.NewError(output.NetworkError, "keyfile import failed", err)
	}
	output.PrintResult(fmt.Sprintf("Logged in to %s with keyfile %s.", name, path))
	return nil
}
