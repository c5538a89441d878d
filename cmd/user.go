package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lllkojlhuk/sushikub/config"
	"github.com/lllkojlhuk/sushikub/models"
)

// NewUserCmd creates the user command
func NewUserCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Admin account management commands",
	}

	cmd.AddCommand(
		newCreateAdminCmd(cfg),
		newResetPasswordCmd(cfg),
	)

	return cmd
}

func newCreateAdminCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin [login] [password]",
		Short: "Create an administrator account",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			login := args[0]
			password := args[1]

			withDB(cfg.DataDir, cmd, func() error {
				if err := models.CreateUser(login, password, models.RoleAdmin); err != nil {
					return fmt.Errorf("Failed to create admin '%s': %w", login, err)
				}
				cmd.Printf("Admin account '%s' created successfully\n", login)
				return nil
			})
		},
	}
}

func newResetPasswordCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password [login] [new-password]",
		Short: "Reset an account's password",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			login := args[0]
			newPassword := args[1]

			withDB(cfg.DataDir, cmd, func() error {
				if err := models.ResetUserPassword(login, newPassword); err != nil {
					return fmt.Errorf("Failed to reset password for '%s': %w", login, err)
				}
				cmd.Printf("Password reset successfully for '%s'\n", login)
				return nil
			})
		},
	}
}
