package auth

import (
	"fmt"

	"github.com/bl4ckarch/assetguard/cmd/cli/client"
	"github.com/bl4ckarch/assetguard/cmd/cli/config"
	"github.com/spf13/cobra"
)

// Init registers the login command on the root command.
func Init(rootCmd *cobra.Command) {
	rootCmd.AddCommand(loginCmd())
}

func loginCmd() *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the AssetGuard API",
		Long:  "Authenticate as the admin and store a token for subsequent commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			token, err := client.Login(username, password)
			if err != nil {
				return err
			}
			if err := config.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")

	return cmd
}
