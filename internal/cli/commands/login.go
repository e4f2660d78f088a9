package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the admin area",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set PORTAL_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set PORTAL_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *Env, email, password string) error {
	if email == "" {
		email = os.Getenv("PORTAL_EMAIL")
	}
	if password == "" {
		password = os.Getenv("PORTAL_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or PORTAL_EMAIL env var)")
	}

	if password == "" {
		if !env.Interactive {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or PORTAL_PASSWORD env var)")
		}
		var err error
		password, err = env.ReadPassword()
		if err != nil {
			return err
		}
	}

	store := sessionFrom(ctx, env)

	env.Printer.Info("Logging in to %s...", env.Config.API.AuthURL)
	if err := store.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	user := store.Snapshot().CurrentUser
	env.Printer.Success("Login successful!")
	env.Printer.Print("  User: %s", user.Email)
	env.Printer.Print("  Role: %s", user.Role)
	if user.Role.CanEdit() {
		env.Printer.Print("  %s", env.Printer.Dim("Content editing is available"))
	}

	return nil
}
