// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package version

import (
	"fmt"

	"github.com/spf13/cobra"

	ver "github.com/zonemapproject/zonemap-core/pkg/version"
	"github.com/zonemapproject/zonemap-core/zmctl/config"
	"github.com/zonemapproject/zonemap-core/zmctl/output"
)

// Multi-language support
var (
	_versionCmdShorts = map[config.Language]string{
		config.English: "Print the version of zmctl",
		config.Chinese: "打印zmctl的版本",
	}
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: config.TranslateInLang(_versionCmdShorts, config.UILanguage),
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		err := version()
		return output.PrintError(err)
	},
}

type versionMessage struct {
	PackageVersion  string `json:"packageVersion"`
	PackageCommitID string `json:"packageCommitID"`
	GitStatus       string `json:"gitStatus"`
	GoVersion       string `json:"goVersion"`
	BuildTime       string `json:"buildTime"`
}

func version() error {
	message := versionMessage{
		PackageVersion:  ver.PackageVersion,
		PackageCommitID: ver.PackageCommitID,
		GitStatus:       ver.GitStatus,
		GoVersion:       ver.GoVersion,
		BuildTime:       ver.BuildTime,
	}
	fmt.Println(message.String())
	return nil
}

func (m *versionMessage) String() string {
	return fmt.Sprintf("Version: %s\nGit commit: %s (%s)\nGo: %s\nBuilt: %s",
		m.PackageVersion, m.PackageCommitID, m.GitStatus, m.GoVersion, m.BuildTime)
}
