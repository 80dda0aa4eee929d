package root

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "assetguard",
	Short:         "AssetGuard recon panel CLI",
	Long:          "Command line client for the AssetGuard subdomain recon API.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// GetRoot returns the root command so main can register subcommands on it.
func GetRoot() *cobra.Command {
	return rootCmd
}
