package commands

import (
	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := sessionFrom(cmd.Context(), env)

			// Local state is cleared even when the server call fails
			if err := store.Logout(cmd.Context()); err != nil {
				env.Printer.Warning("Server did not confirm logout: %v", err)
			}

			env.Printer.Success("Logged out")
			return nil
		},
	}
}
