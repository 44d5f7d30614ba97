// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package name

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
	"github.com/zonemapproject/zonemap-core/zns"
)

// Multi-language support
var (
	_hashCmdShorts = map[config.Language]string{
		config.English: "Compute the node hash of a dotted name",
		config.Chinese: "计算名称的节点哈希",
	}
	_hashCmdUses = map[config.Language]string{
		config.English: "hash NAME",
		config.Chinese: "hash 名称",
	}
)

// _nameHashCmd represents the name hash command
var _nameHashCmd = &cobra.Command{
	Use:   config.TranslateInLang(_hashCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_hashCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := nameHash(args[0])
		return output.PrintError(err)
	},
}

func nameHash(arg string) error {
	node, err := zns.Namehash(arg)
	if err != nil {
		return output.NewError(output.ValidationError, "invalid name", err)
	}
	output.PrintResult(hexutil.Encode(node[:]))
	return nil
}
