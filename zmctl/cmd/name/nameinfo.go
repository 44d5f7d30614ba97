// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package name

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/chain"
	"github.com/zonemapproject/zonemap-core/wallet"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zonemap"
	"github.com/zonemapproject/zonemap-core/zns"
)

// Multi-language support
var (
	_infoCmdShorts = map[config.Language]string{
		config.English: "Show the on-chain record of a name",
		config.Chinese: "显示名称的链上记录",
	}
	_infoCmdUses = map[config.Language]string{
		config.English: "info NAME",
		config.Chinese: "info 名称",
	}
)

// _nameInfoCmd represents the name info command
var _nameInfoCmd = &cobra.Command{
	Use:   config.TranslateInLang(_infoCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_infoCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := nameInfo(args[0])
		return output.PrintError(err)
	},
}

func nameInfo(arg string) error {
	node, err := zns.Namehash(arg)
	if err != nil {
		return output.NewError(output.ValidationError, "invalid name", err)
	}
	p, cfg, err := predictor()
	if err != nil {
		return err
	}
	deployment, err := cfg.Deployment.Addresses()
	if err != nil {
		return err
	}

	// reads carry no value, any from address will do
	signer, err := wallet.NewRandomSigner()
	if err != nil {
		return output.NewError(output.CryptoError, "failed to create throwaway signer", err)
	}
	ctx := context.Background()
	client, err := chain.Dial(ctx, cfg.Chain, signer)
	if err != nil {
		return output.NewError(output.NetworkError, "failed to connect to endpoint", err)
	}

	callData, err := zonemap.EncodeGet(node)
	if err != nil {
		return output.NewError(output.SerializationError, "failed to encode the lookup", err)
	}
	ret, err := client.Read(ctx, deployment.Registry, callData)
	if err != nil {
		return output.NewError(output.ChainError, "failed to read the record", err)
	}
	record, err := zonemap.DecodeGetResult(ret)
	if err != nil {
		return output.NewError(output.SerializationError, "failed to decode the record", err)
	}

	tb := table.New("FIELD", "VALUE")
	tb.AddRow("name", arg)
	tb.AddRow("node", hexutil.Encode(node[:]))
	if !record.Exists() {
		tb.AddRow("registered", "no")
		tb.AddRow("predicted account", p.AccountAddress(node).Hex())
		tb.Print()
		return nil
	}
	tb.AddRow("registered", "yes")
	tb.AddRow("owner", record.Owner.Hex())
	tb.AddRow("account", record.TBA.Hex())
	if predicted := p.AccountAddress(node); predicted != record.TBA {
		// custom implementations land elsewhere than the default prediction
		tb.AddRow("predicted account", predicted.Hex())
	}
	if len(record.Data) > 0 {
		tb.AddRow("data", hexutil.Encode(record.Data))
	}
	tb.Print()
	return nil
}
