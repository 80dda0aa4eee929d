package logs

import (
	"fmt"
	"time"

	"github.com/bl4ckarch/assetguard/cmd/cli/client"
	"github.com/bl4ckarch/assetguard/cmd/cli/output"
	"github.com/bl4ckarch/assetguard/internal/models"
	"github.com/spf13/cobra"
)

// Init registers audit log commands on the root command.
func Init(rootCmd *cobra.Command) {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect the audit log",
	}

	logsCmd.AddCommand(
		listCmd(),
		clearCmd(),
	)

	rootCmd.AddCommand(logsCmd)
}

func listCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/v1/logs?limit=%d&offset=%d", limit, offset)

			var entries []models.LogEntry
			if err := client.Do("GET", path, nil, &entries); err != nil {
				return err
			}

			rows := make([][]any, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []any{
					e.Timestamp.Format(time.DateTime),
					e.EventName,
					e.EventDetails,
				})
			}
			output.Table([]string{"Timestamp", "Event", "Details"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "number of entries")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")

	return cmd
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the audit log without --yes")
			}
			if err := client.Do("DELETE", "/v1/logs", nil, nil); err != nil {
				return err
			}
			fmt.Println("Audit log cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
