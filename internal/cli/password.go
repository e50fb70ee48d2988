package cli

import (
	"fmt"

	"github.com/AlexZinkM/offline-signer/internal/config"

	"github.com/spf13/cobra"
)

func newPasswordCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage the vault password",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set",
			Short: "Set the vault password (once)",
			Long: `Set the vault password. It can be set only once.

Keys created afterwards are encrypted with it. Keys stored before it was set
remain unencrypted.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				password, err := a.newPassword(cmd)
				if err != nil {
					return err
				}
				defer clear(password)

				if err := a.vault.SetPassword(password); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Vault password set.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "verify",
			Short: "Check a password against the vault password",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				password, err := a.readSecret(cmd, "Vault password: ")
				if err != nil {
					return err
				}
				defer clear(password)

				ok, err := a.vault.VerifyPassword(password)
				if err != nil {
					return err
				}
				if ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Password is correct.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Password is incorrect.")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Report whether a vault password is set",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				set, err := a.vault.PasswordSet()
				if err != nil {
					return err
				}
				if set {
					fmt.Fprintln(cmd.OutOrStdout(), "Vault password is set.")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Vault password is not set.")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the vault password (only while the vault is empty)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.vault.ClearPassword(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Vault password cleared.")
				return nil
			},
		},
	)
	return cmd
}

// newPassword asks twice on a terminal, once for piped input
func (a *app) newPassword(cmd *cobra.Command) ([]byte, error) {
	if a.interactive() {
		return config.PromptNewPassword()
	}
	return a.readSecret(cmd, "")
}
