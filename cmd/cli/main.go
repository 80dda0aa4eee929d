package main

import (
	"os"

	"github.com/bl4ckarch/assetguard/cmd/cli/auth"
	"github.com/bl4ckarch/assetguard/cmd/cli/commands"
	"github.com/bl4ckarch/assetguard/cmd/cli/logs"
	"github.com/bl4ckarch/assetguard/cmd/cli/root"
	"github.com/bl4ckarch/assetguard/cmd/cli/schedules"
	"github.com/bl4ckarch/assetguard/cmd/cli/targets"
	"github.com/bl4ckarch/assetguard/cmd/cli/tools"
)

func main() {
	rootCmd := root.GetRoot()

	auth.Init(rootCmd)
	targets.Init(rootCmd)
	tools.Init(rootCmd)
	commands.Init(rootCmd)
	schedules.Init(rootCmd)
	logs.Init(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
