package schedules

import (
	"fmt"

	"github.com/bl4ckarch/assetguard/cmd/cli/client"
	"github.com/bl4ckarch/assetguard/cmd/cli/output"
	"github.com/bl4ckarch/assetguard/internal/models"
	"github.com/spf13/cobra"
)

// Init registers schedule management commands on the root command.
func Init(rootCmd *cobra.Command) {
	schedulesCmd := &cobra.Command{
		Use:   "schedules",
		Short: "Manage scheduled runs",
	}

	schedulesCmd.AddCommand(
		listCmd(),
		addCmd(),
		deleteCmd(),
	)

	rootCmd.AddCommand(schedulesCmd)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List schedule entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []models.ScheduleEntry
			if err := client.Do("GET", "/v1/schedules", nil, &entries); err != nil {
				return err
			}

			rows := make([][]any, 0, len(entries))
			for _, e := range entries {
				day := e.Day
				if day == "" {
					day = "every day"
				}
				rows = append(rows, []any{e.ID, fmt.Sprintf("%02d:%02d", e.Hour, e.Minute), day, e.CommandID, e.CmdType})
			}
			output.Table([]string{"ID", "Time", "Day", "Command", "Type"}, rows)
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	var hour, minute int
	var commandID int64
	var day string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a schedule entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"hour":       hour,
				"minute":     minute,
				"day":        day,
				"command_id": commandID,
			}

			var created models.ScheduleEntry
			if err := client.Do("POST", "/v1/schedules", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Created schedule %d at %02d:%02d\n", created.ID, created.Hour, created.Minute)
			return nil
		},
	}

	cmd.Flags().IntVar(&hour, "hour", 0, "hour of day, 0-23")
	cmd.Flags().IntVar(&minute, "minute", 0, "minute, 0-59")
	cmd.Flags().StringVar(&day, "day", "", "weekday (monday..sunday), empty for every day")
	cmd.Flags().Int64Var(&commandID, "command", 0, "command template id to run")
	cmd.MarkFlagRequired("command")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a schedule entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/v1/schedules/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Printf("Deleted schedule %s\n", args[0])
			return nil
		},
	}
}
