// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package name

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zns"
)

// Multi-language support
var (
	_predictCmdShorts = map[config.Language]string{
		config.English: "Predict the proxy and token-bound account addresses of a name",
		config.Chinese: "预测名称的代理和代币绑定账户地址",
	}
	_predictCmdUses = map[config.Language]string{
		config.English: "predict NAME",
		config.Chinese: "predict 名称",
	}
)

// _namePredictCmd represents the name predict command
var _namePredictCmd = &cobra.Command{
	Use:   config.TranslateInLang(_predictCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_predictCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := namePredict(args[0])
		return output.PrintError(err)
	},
}

func namePredict(arg string) error {
	node, err := zns.Namehash(arg)
	if err != nil {
		return output.NewError(output.ValidationError, "invalid name", err)
	}
	p, cfg, err := predictor()
	if err != nil {
		return err
	}

	tb := table.New("FIELD", "VALUE")
	tb.AddRow("name", arg)
	tb.AddRow("chain", cfg.Chain.ChainID)
	tb.AddRow("node", hexutil.Encode(node[:]))
	tb.AddRow("proxy", p.ProxyAddress(node).Hex())
	tb.AddRow("account", p.AccountAddress(node).Hex())
	tb.Print()
	return nil
}
