package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"", ColorAuto},
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, ResolveColors(ColorAlways, false))
	assert.False(t, ResolveColors(ColorAuto, true))

	os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "dumb")
	assert.False(t, ResolveColors(ColorAuto, true))

	t.Setenv("TERM", "xterm-256color")
	assert.True(t, ResolveColors(ColorAuto, true))
	assert.False(t, ResolveColors(ColorAuto, false))
	assert.False(t, ResolveColors(ColorNever, true))
}

func TestPrinter_Plain(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinterWithWriters(&out, &errOut, false)

	p.Success("Logged in as %s", "a@b.com")
	p.Info("info")
	p.Print("plain")
	p.Header("News")
	p.Warning("careful")
	p.Error("failed")

	assert.Equal(t, "[OK] Logged in as a@b.com\ninfo\nplain\n\nNews\n----\n", out.String())
	assert.Equal(t, "[WARN] careful\n[ERROR] failed\n", errOut.String())
	assert.Equal(t, "x", p.Bold("x"))
	assert.Equal(t, "x", p.Dim("x"))
}

func TestTable(t *testing.T) {
	var out bytes.Buffer
	table := NewTable(&out, "Name", "Position")
	table.AddRow("Irina Volkova", "Director")
	table.AddRow("Pavel Orlov", "Chief engineer")
	assert.Equal(t, 2, table.Len())

	table.Render()

	s := out.String()
	assert.Contains(t, s, "NAME")
	assert.Contains(t, s, "Irina Volkova")
	assert.Contains(t, s, "Chief engineer")
}
