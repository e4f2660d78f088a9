package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/smolensk-traffic/portal/internal/cli/commands"
	"github.com/smolensk-traffic/portal/internal/cli/output"
	"github.com/smolensk-traffic/portal/internal/config"
	"github.com/smolensk-traffic/portal/internal/logger"
	"github.com/smolensk-traffic/portal/internal/session"
	"github.com/smolensk-traffic/portal/internal/tokenstore"
)

// NewRootCmd builds the portal command tree. When env already has a
// Config the root skips loading configuration; tests use this to inject a
// prepared environment.
func NewRootCmd(version string, env *commands.Env) *cobra.Command {
	var colorFlag, logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "Traffic management center portal client",
		Long: `portal talks to the traffic management center backend.

It signs admins and editors in, shows the public content (team, news,
services, projects, statistics), serves the public pages over HTTP and can
run an in-memory backend for local development.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			if env.Config == nil {
				if err := setupEnv(env, colorFlag, logLevel, logFormat); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(session.WithStore(ctx, env.Session))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "Color output: auto, always or never")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json (overrides LOG_FORMAT)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portal version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewWhoamiCmd(env))
	rootCmd.AddCommand(commands.NewHomeCmd(env))
	rootCmd.AddCommand(commands.NewTeamCmd(env))
	rootCmd.AddCommand(commands.NewNewsCmd(env))
	rootCmd.AddCommand(commands.NewServicesCmd(env))
	rootCmd.AddCommand(commands.NewProjectsCmd(env))
	rootCmd.AddCommand(commands.NewTrafficCmd(env))
	rootCmd.AddCommand(commands.NewStatsCmd(env))
	rootCmd.AddCommand(commands.NewServeCmd(env))
	rootCmd.AddCommand(commands.NewDevAPICmd(env))

	return rootCmd
}

func setupEnv(env *commands.Env, colorFlag, logLevel, logFormat string) error {
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	printer := output.NewPrinter(output.ResolveColors(mode, term.IsTerminal(int(os.Stdout.Fd()))))
	*env = *commands.NewEnv(cfg, logger.GetLogger(), printer, tokenstore.NewKeyring(cfg.Keyring.Service))
	return nil
}

// Execute runs the root command
func Execute(ctx context.Context, version string) error {
	if err := NewRootCmd(version, &commands.Env{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
