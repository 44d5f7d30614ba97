// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package register

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/chain"
	"github.com/zonemapproject/zonemap-core/zmctl/cmd/account"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zmctl/util"
)

// Multi-language support
var (
	_subCmdShorts = map[config.Language]string{
		config.English: "Mint a sub-entry under a name you already control",
		config.Chinese: "在已控制的名称下铸造子条目",
	}
	_subCmdUses = map[config.Language]string{
		config.English: "sub NAME",
		config.Chinese: "sub 名称",
	}
)

// _registerSubCmd represents the register sub command. The parent entry's
// token-bound account executes the mint, so there is no commit and no
// maturity wait.
var _registerSubCmd = &cobra.Command{
	Use:   config.TranslateInLang(_subCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_subCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := registerSub(args[0])
		return output.PrintError(err)
	},
}

func registerSub(arg string) error {
	req, err := buildRequest(arg)
	if err != nil {
		return err
	}
	cfg, err := util.CoreConfig()
	if err != nil {
		return err
	}

	output.PrintQuery("Enter wallet password\n")
	password, err := util.ReadSecretFromStdin()
	if err != nil {
		return output.NewError(output.InputError, "failed to get password", err)
	}
	signer, err := account.Signer(password)
	if err != nil {
		return err
	}

	if _dryRun {
		return printPlan(cfg, req, signer.Address(), true)
	}

	ctx := context.Background()
	client, err := chain.Dial(ctx, cfg.Chain, signer)
	if err != nil {
		return output.NewError(output.NetworkError, "failed to connect to endpoint", err)
	}
	r, stop, err := startRegistrar(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer stop()

	if session := r.Session(); session != nil && !session.Terminal() {
		return output.NewError(output.ChainError, fmt.Sprintf(
			"registration of %s is still in flight, run 'zmctl register %s' to finish it first",
			session.Name, session.Name), nil)
	}

	session, err := r.SubmitAuthorized(ctx, req)
	if err != nil {
		return output.NewError(output.ChainError, "failed to submit the mint", err)
	}
	fmt.Printf("Minting %s through parent account %s\n", session.Name, session.ParentTBA.Hex())
	return watch(r, cfg.Registrar.MaturityBuffer)
}
