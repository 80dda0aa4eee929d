package targets

import (
	"fmt"

	"github.com/bl4ckarch/assetguard/cmd/cli/client"
	"github.com/bl4ckarch/assetguard/cmd/cli/output"
	"github.com/bl4ckarch/assetguard/internal/models"
	"github.com/spf13/cobra"
)

// Init registers target management commands on the root command.
func Init(rootCmd *cobra.Command) {
	targetsCmd := &cobra.Command{
		Use:   "targets",
		Short: "Manage recon targets",
	}

	targetsCmd.AddCommand(
		listCmd(),
		addCmd(),
		toggleCmd(),
		deleteCmd(),
	)

	rootCmd.AddCommand(targetsCmd)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var targets []models.Target
			if err := client.Do("GET", "/v1/targets", nil, &targets); err != nil {
				return err
			}

			rows := make([][]any, 0, len(targets))
			for _, t := range targets {
				rows = append(rows, []any{t.Domain, t.ProgramURL, t.Enabled})
			}
			output.Table([]string{"Domain", "Program URL", "Enabled"}, rows)
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	var programURL string
	var disabled bool

	cmd := &cobra.Command{
		Use:   "add [domain]",
		Short: "Add a target domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"domain":      args[0],
				"program_url": programURL,
				"enabled":     !disabled,
			}

			var created models.Target
			if err := client.Do("POST", "/v1/targets", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Added %s\n", created.Domain)
			return nil
		},
	}

	cmd.Flags().StringVar(&programURL, "program-url", "", "bug bounty program URL")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "add the target disabled")

	return cmd
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [domain]",
		Short: "Flip a target's enabled flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var updated models.Target
			if err := client.Do("POST", "/v1/targets/"+args[0]+"/toggle", nil, &updated); err != nil {
				return err
			}
			state := "disabled"
			if updated.Enabled {
				state = "enabled"
			}
			fmt.Printf("%s is now %s\n", updated.Domain, state)
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [domain]",
		Short: "Remove a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/v1/targets/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}
