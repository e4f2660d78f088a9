package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/smolensk-traffic/portal/internal/apiclient"
	"github.com/smolensk-traffic/portal/internal/authsvc"
	"github.com/smolensk-traffic/portal/internal/cli/output"
	"github.com/smolensk-traffic/portal/internal/config"
	"github.com/smolensk-traffic/portal/internal/publicinfo"
	"github.com/smolensk-traffic/portal/internal/session"
	"github.com/smolensk-traffic/portal/internal/tokenstore"
	"github.com/smolensk-traffic/portal/internal/view"
)

// Env carries what every command needs. The root command fills it in
// before any subcommand runs.
type Env struct {
	Config  *config.Config
	Log     zerolog.Logger
	Printer *output.Printer
	Tokens  tokenstore.Store
	Session *session.Store
	Info    *publicinfo.Service

	// Interactive reports whether prompts may be shown on stdin
	Interactive  bool
	ReadPassword func() (string, error)
	SelectTab    func() (view.Tab, error)
}

// NewEnv wires the clients, the session store and the terminal prompts
func NewEnv(cfg *config.Config, log zerolog.Logger, printer *output.Printer, tokens tokenstore.Store) *Env {
	opts := []apiclient.Option{
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(log.With().Str("component", "apiclient").Logger()),
	}

	auth := authsvc.New(apiclient.New(cfg.API.AuthURL, tokens, opts...))
	info := publicinfo.New(
		apiclient.New(cfg.API.PublicURL, tokens, opts...),
		log.With().Str("component", "publicinfo").Logger(),
	)

	return &Env{
		Config:       cfg,
		Log:          log,
		Printer:      printer,
		Tokens:       tokens,
		Session:      session.New(auth, tokens, log.With().Str("component", "session").Logger()),
		Info:         info,
		Interactive:  term.IsTerminal(int(os.Stdin.Fd())),
		ReadPassword: readPassword,
		SelectTab:    promptTab,
	}
}

// sessionFrom returns the store injected into ctx, falling back to env
func sessionFrom(ctx context.Context, env *Env) *session.Store {
	if store, ok := session.FromContext(ctx); ok {
		return store
	}
	return env.Session
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// promptTab shows an interactive prompt for the statistics tab
func promptTab() (view.Tab, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Title | cyan }}",
		Inactive: "  {{ .Title }}",
		Selected: "{{ .Title | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select statistics",
		Items:     view.Tabs,
		Templates: templates,
		Size:      len(view.Tabs),
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("tab selection cancelled: %w", err)
	}
	return view.Tabs[index], nil
}
