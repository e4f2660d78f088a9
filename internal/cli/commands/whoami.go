package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smolensk-traffic/portal/internal/apiclient"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := sessionFrom(cmd.Context(), env)

			err := store.Reconcile(cmd.Context())
			switch {
			case err == nil:
			case apiclient.IsRejected(err):
				env.Printer.Warning("Stored session is no longer valid")
			default:
				return fmt.Errorf("failed to check session: %w", err)
			}

			snap := store.Snapshot()
			if !snap.IsAuthenticated {
				env.Printer.Print("Not logged in")
				return nil
			}

			env.Printer.Print("%s (%s)", env.Printer.Bold(snap.CurrentUser.Email), snap.CurrentUser.Role)
			return nil
		},
	}
}
