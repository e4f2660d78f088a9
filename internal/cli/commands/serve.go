package commands

import (
	"github.com/spf13/cobra"

	"github.com/smolensk-traffic/portal/internal/config"
	"github.com/smolensk-traffic/portal/internal/devapi"
	"github.com/smolensk-traffic/portal/internal/web"
)

// NewServeCmd creates the command that runs the web front
func NewServeCmd(env *Env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the public pages over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				env.Config.Web.Addr = addr
			}

			srv, err := web.New(env.Config, env.Info, sessionFrom(cmd.Context(), env), env.Log.With().Str("component", "web").Logger())
			if err != nil {
				return err
			}

			env.Printer.Info("Serving pages on %s (backend %s)", env.Config.Web.Addr, env.Config.API.PublicURL)
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (or set PORTAL_WEB_ADDR)")

	return cmd
}

// NewDevAPICmd creates the command that runs the development API
func NewDevAPICmd(env *Env) *cobra.Command {
	var addr, envelope string

	cmd := &cobra.Command{
		Use:   "devapi",
		Short: "Run an in-memory backend for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				env.Config.DevAPI.Addr = addr
			}
			if envelope != "" {
				env.Config.DevAPI.Envelope = envelope
				if err := config.Validate(env.Config); err != nil {
					return err
				}
			}

			srv, err := devapi.New(env.Config, env.Log.With().Str("component", "devapi").Logger())
			if err != nil {
				return err
			}

			env.Printer.Info("Development API on %s (envelope: %s)", env.Config.DevAPI.Addr, env.Config.DevAPI.Envelope)
			env.Printer.Print("  Admin:  %s", env.Config.DevAPI.AdminEmail)
			env.Printer.Print("  Editor: %s", env.Config.DevAPI.EditorEmail)
			return srv.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (or set DEVAPI_ADDR)")
	cmd.Flags().StringVar(&envelope, "envelope", "", "Response shape: enveloped, bare or mixed")

	return cmd
}
