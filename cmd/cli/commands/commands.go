package commands

import (
	"fmt"
	"strconv"

	"github.com/bl4ckarch/assetguard/cmd/cli/client"
	"github.com/bl4ckarch/assetguard/cmd/cli/output"
	"github.com/bl4ckarch/assetguard/internal/models"
	"github.com/spf13/cobra"
)

// Init registers command-template management commands on the root command.
func Init(rootCmd *cobra.Command) {
	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage command templates",
	}

	commandsCmd.AddCommand(
		listCmd(),
		addCmd(),
		updateCmd(),
		deleteCmd(),
	)

	rootCmd.AddCommand(commandsCmd)
}

func listCmd() *cobra.Command {
	var cmdType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List command templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/commands"
			if cmdType != "" {
				path += "?cmd_type=" + cmdType
			}

			var templates []models.CommandTemplate
			if err := client.Do("GET", path, nil, &templates); err != nil {
				return err
			}

			rows := make([][]any, 0, len(templates))
			for _, t := range templates {
				rows = append(rows, []any{t.ID, t.Tool, t.Template, t.ExpectsFileInput, t.CmdType})
			}
			output.Table([]string{"ID", "Tool", "Template", "File Input", "Type"}, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&cmdType, "type", "", "filter by cmd_type")
	return cmd
}

func addCmd() *cobra.Command {
	var tool, template, cmdType string
	var fileInput bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a command template",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"tool":               tool,
				"template":           template,
				"expects_file_input": fileInput,
				"cmd_type":           cmdType,
			}

			var created models.CommandTemplate
			if err := client.Do("POST", "/v1/commands", payload, &created); err != nil {
				return err
			}
			fmt.Printf("Created command %d for %s\n", created.ID, created.Tool)
			return nil
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "tool name the template belongs to")
	cmd.Flags().StringVar(&template, "template", "", "command template, e.g. 'amass enum -df $domain_file -o $output'")
	cmd.Flags().StringVar(&cmdType, "type", "subdomain_enum", "command category")
	cmd.Flags().BoolVar(&fileInput, "file-input", false, "template consumes the generated domain list")

	return cmd
}

func updateCmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace a command's template text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid command id %q", args[0])
			}

			payload := map[string]any{"template": template}

			var updated models.CommandTemplate
			if err := client.Do("PUT", fmt.Sprintf("/v1/commands/%d", id), payload, &updated); err != nil {
				return err
			}
			fmt.Printf("Updated command %d\n", updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "new command template")
	cmd.MarkFlagRequired("template")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a command template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/v1/commands/"+args[0], nil, nil); err != nil {
				return err
			}
			fmt.Printf("Deleted command %s\n", args[0])
			return nil
		},
	}
}
