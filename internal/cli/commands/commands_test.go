package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolensk-traffic/portal/internal/apiclient"
	"github.com/smolensk-traffic/portal/internal/cli/output"
	"github.com/smolensk-traffic/portal/internal/config"
	"github.com/smolensk-traffic/portal/internal/devapi"
	"github.com/smolensk-traffic/portal/internal/tokenstore"
	"github.com/smolensk-traffic/portal/internal/view"
)

type testEnv struct {
	*Env
	out    *bytes.Buffer
	errOut *bytes.Buffer
	server *httptest.Server
	tokens *tokenstore.Memory
}

func newTestEnv(t *testing.T, envelope devapi.Envelope) *testEnv {
	t.Helper()
	t.Setenv("PORTAL_EMAIL", "")
	t.Setenv("PORTAL_PASSWORD", "")

	cfg := config.Default()
	cfg.DevAPI.Envelope = string(envelope)
	backend, err := devapi.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(func() {
		ts.Close()
		backend.Close()
	})

	cfg.API.AuthURL = ts.URL + "/api/auth"
	cfg.API.PublicURL = ts.URL + "/api"

	var out, errOut bytes.Buffer
	tokens := tokenstore.NewMemory()
	env := NewEnv(cfg, zerolog.Nop(), output.NewPrinterWithWriters(&out, &errOut, false), tokens)
	env.Interactive = false

	return &testEnv{Env: env, out: &out, errOut: &errOut, server: ts, tokens: tokens}
}

func run(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestLogin(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)

	err := run(NewLoginCmd(te.Env), "--email", "admin@example.com", "--password", "admin")
	require.NoError(t, err)

	assert.Contains(t, te.out.String(), "[OK] Login successful!")
	assert.Contains(t, te.out.String(), "Role: admin")
	assert.Contains(t, te.out.String(), "Content editing is available")

	token, err := te.tokens.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, te.Session.Snapshot().IsAuthenticated)
}

func TestLogin_Failures(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)

	err := run(NewLoginCmd(te.Env), "--email", "admin@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.True(t, apiclient.IsRejected(err))
	assert.False(t, te.Session.Snapshot().IsAuthenticated)

	err = run(NewLoginCmd(te.Env), "--password", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")

	err = run(NewLoginCmd(te.Env), "--email", "admin@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-interactive")
}

func TestLogin_PromptsForPassword(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)
	te.Interactive = true
	prompted := false
	te.ReadPassword = func() (string, error) {
		prompted = true
		return "editor", nil
	}

	require.NoError(t, run(NewLoginCmd(te.Env), "--email", "editor@example.com"))
	assert.True(t, prompted)
	assert.Contains(t, te.out.String(), "Role: editor")
}

func TestLogin_EnvCredentials(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)
	t.Setenv("PORTAL_EMAIL", "editor@example.com")
	t.Setenv("PORTAL_PASSWORD", "editor")

	require.NoError(t, run(NewLoginCmd(te.Env)))
	assert.Equal(t, "editor@example.com", te.Session.Snapshot().CurrentUser.Email)
}

func TestLogout(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)
	require.NoError(t, run(NewLoginCmd(te.Env), "--email", "admin@example.com", "--password", "admin"))

	require.NoError(t, run(NewLogoutCmd(te.Env)))
	assert.Contains(t, te.out.String(), "[OK] Logged out")
	assert.False(t, te.Session.Snapshot().IsAuthenticated)
	_, err := te.tokens.Load()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)

	// a second logout has nothing to do and still succeeds
	require.NoError(t, run(NewLogoutCmd(te.Env)))
	assert.Empty(t, te.errOut.String())
}

func TestLogout_ServerUnreachable(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)
	require.NoError(t, run(NewLoginCmd(te.Env), "--email", "admin@example.com", "--password", "admin"))
	te.server.Close()

	require.NoError(t, run(NewLogoutCmd(te.Env)))
	assert.Contains(t, te.errOut.String(), "[WARN] Server did not confirm logout")
	assert.False(t, te.Session.Snapshot().IsAuthenticated)
	_, err := te.tokens.Load()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestWhoami(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)
	require.NoError(t, run(NewWhoamiCmd(te.Env)))
	assert.Contains(t, te.out.String(), "Not logged in")

	// a stored token is picked up by a fresh environment
	require.NoError(t, run(NewLoginCmd(te.Env), "--email", "editor@example.com", "--password", "editor"))
	token, err := te.tokens.Load()
	require.NoError(t, err)

	fresh := NewEnv(te.Config, zerolog.Nop(), te.Printer, te.tokens)
	te.out.Reset()
	require.NoError(t, run(NewWhoamiCmd(fresh)))
	assert.Contains(t, te.out.String(), "editor@example.com (editor)")

	// a revoked token is reported and cleared
	require.NoError(t, run(NewLogoutCmd(te.Env)))
	require.NoError(t, te.tokens.Save(token))
	revoked := NewEnv(te.Config, zerolog.Nop(), te.Printer, te.tokens)
	te.out.Reset()
	require.NoError(t, run(NewWhoamiCmd(revoked)))
	assert.Contains(t, te.errOut.String(), "no longer valid")
	assert.Contains(t, te.out.String(), "Not logged in")
	_, err = te.tokens.Load()
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestWhoami_ServerUnreachable(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)
	require.NoError(t, te.tokens.Save("some-token"))
	te.server.Close()

	err := run(NewWhoamiCmd(te.Env))
	require.Error(t, err)
	assert.True(t, apiclient.IsTransport(err))

	// the token survives a transport failure
	token, err := te.tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "some-token", token)
}

func TestContentCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(*Env) *cobra.Command
		args []string
		want []string
	}{
		{name: "team", cmd: NewTeamCmd, want: []string{"NAME", "Irina Volkova", "Chief engineer"}},
		{name: "news", cmd: NewNewsCmd, want: []string{"Adaptive lights on Gagarin avenue", "01.03.2025"}},
		{name: "services", cmd: NewServicesCmd, want: []string{"Vehicle evacuation", "3 000 ₽"}},
		{name: "projects", cmd: NewProjectsCmd, want: []string{"Smart intersections", "planned"}},
		{name: "traffic", cmd: NewTrafficCmd, want: []string{"Traffic lights by type", "LED", "incandescent", "2023"}},
		{name: "home", cmd: NewHomeCmd, want: []string{"News", "Projects", "Services", "Impound storage"}},
		{name: "stats default tab", cmd: NewStatsCmd, want: []string{"Road accidents", "7 812"}},
		{name: "stats fines", cmd: NewStatsCmd, args: []string{"--tab", "fines"}, want: []string{"Fines collected", "975 000,25 ₽"}},
	}

	for _, envelope := range []devapi.Envelope{devapi.EnvelopeWrapped, devapi.EnvelopeBare, devapi.EnvelopeMixed} {
		te := newTestEnv(t, envelope)
		for _, tt := range tests {
			t.Run(string(envelope)+"/"+tt.name, func(t *testing.T) {
				te.out.Reset()
				require.NoError(t, run(tt.cmd(te.Env), tt.args...))
				for _, want := range tt.want {
					assert.Contains(t, te.out.String(), want)
				}
				assert.NotContains(t, te.errOut.String(), "unrecognized")
			})
		}
	}
}

func TestStats_Tabs(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)

	err := run(NewStatsCmd(te.Env), "--tab", "weather")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown statistics tab")

	te.Interactive = true
	te.SelectTab = func() (view.Tab, error) { return view.TabEvacuation, nil }
	require.NoError(t, run(NewStatsCmd(te.Env)))
	assert.Contains(t, te.out.String(), "Impound lot income")
	assert.Contains(t, te.out.String(), "1 250,5 ₽")
}

func TestContent_ServerUnreachable(t *testing.T) {
	te := newTestEnv(t, devapi.EnvelopeWrapped)
	te.server.Close()

	err := run(NewTeamCmd(te.Env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not reach the server")
	assert.True(t, apiclient.IsTransport(err))
}
