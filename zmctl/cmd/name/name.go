// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package name surfaces the pure name math: hashing dotted names and
// predicting where an entry's token-bound account will live, no chain
// connection needed except for info.
package name

import (
	"github.com/spf13/cobra"

	coreconfig "github.com/zonemapproject/zonemap-core/config"
	"github.com/zonemapproject/zonemap-core/tba"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/util"
)

// Multi-language support
var (
	_nameCmdShorts = map[config.Language]string{
		config.English: "Hash names and predict token-bound account addresses",
		config.Chinese: "哈希名称并预测代币绑定账户地址",
	}
	_nameCmdUses = map[config.Language]string{
		config.English: "name",
		config.Chinese: "名称",
	}
)

// NameCmd represents the name command
var NameCmd = &cobra.Command{
	Use:   config.TranslateInLang(_nameCmdUses, config.UILanguage),
	Short: config.TranslateInLang(_nameCmdShorts, config.UILanguage),
}

func init() {
	NameCmd.AddCommand(_nameHashCmd)
	NameCmd.AddCommand(_namePredictCmd)
	NameCmd.AddCommand(_nameInfoCmd)
}

// predictor builds an address predictor for the configured network
func predictor() (*tba.Predictor, coreconfig.Config, error) {
	cfg, err := util.CoreConfig()
	if err != nil {
		return nil, coreconfig.Config{}, err
	}
	deployment, err := cfg.Deployment.Addresses()
	if err != nil {
		return nil, coreconfig.Config{}, err
	}
	return tba.NewPredictor(deployment.Registry, deployment.AccountRegistry, cfg.Chain.ChainID), cfg, nil
}
