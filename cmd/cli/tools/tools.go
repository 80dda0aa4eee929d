package tools

import (
	"fmt"

	"github.com/bl4ckarch/assetguard/cmd/cli/client"
	"github.com/bl4ckarch/assetguard/cmd/cli/output"
	"github.com/bl4ckarch/assetguard/internal/models"
	"github.com/spf13/cobra"
)

// Init registers tool management commands on the root command.
func Init(rootCmd *cobra.Command) {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage recon tools",
	}

	toolsCmd.AddCommand(
		listCmd(),
		enableCmd(true),
		enableCmd(false),
		setBinaryCmd(),
	)

	rootCmd.AddCommand(toolsCmd)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tools []models.Tool
			if err := client.Do("GET", "/v1/tools", nil, &tools); err != nil {
				return err
			}

			rows := make([][]any, 0, len(tools))
			for _, t := range tools {
				rows = append(rows, []any{t.Name, t.BinaryPath, t.Enabled})
			}
			output.Table([]string{"Name", "Binary Path", "Enabled"}, rows)
			return nil
		},
	}
}

func enableCmd(enable bool) *cobra.Command {
	use, short := "enable [name]", "Enable a tool"
	if !enable {
		use, short = "disable [name]", "Disable a tool"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{"enabled": enable}
			var updated models.Tool
			if err := client.Do("PATCH", "/v1/tools/"+args[0], payload, &updated); err != nil {
				return err
			}
			state := "disabled"
			if updated.Enabled {
				state = "enabled"
			}
			fmt.Printf("%s is now %s\n", updated.Name, state)
			return nil
		},
	}
}

func setBinaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-binary [name] [path]",
		Short: "Set a tool's binary path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{"binary_path": args[1]}
			var updated models.Tool
			if err := client.Do("PATCH", "/v1/tools/"+args[0], payload, &updated); err != nil {
				return err
			}
			fmt.Printf("%s binary set to %s\n", updated.Name, updated.BinaryPath)
			return nil
		},
	}
}
