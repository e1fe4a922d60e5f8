package argparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFallback(t *testing.T) {
	cmd := New("test", WithEnv(NewMapEnv(map[string]string{
		"TEST_PORT":    "8080",
		"TEST_VERBOSE": "yes",
		"TEST_QUIET":   "off",
		"TEST_TAGS":    "a b  c",
	})))
	cmd.Option("--port", Single, Int).Env("TEST_PORT")
	cmd.Option("--verbose", Implicit, Bool).Env("TEST_VERBOSE")
	cmd.Option("--quiet", Implicit, Bool).Env("TEST_QUIET")
	cmd.Option("--tags", AtLeast(1), String).Env("TEST_TAGS")

	require.NoError(t, cmd.ParseArgs(nil).Err)
	assert.Equal(t, 8080, MustGet[int](cmd, "--port"))
	assert.True(t, MustGet[bool](cmd, "--verbose"))
	assert.False(t, cmd.IsSet("--quiet"))
	assert.Equal(t, []string{"a", "b", "c"}, MustGet[[]string](cmd, "--tags"))

	require.NoError(t, cmd.ParseArgs([]string{"--port", "1"}).Err)
	assert.Equal(t, 1, MustGet[int](cmd, "--port"))
	assert.Equal(t, []string{"1"}, cmd.RawTokens("--port"))
}

func TestEnvSatisfiesMandatory(t *testing.T) {
	cmd := New("test", WithEnv(NewMapEnv(map[string]string{"TOKEN": "s3cret"})))
	cmd.Option("--token", Single, String).Mandatory().Env("TOKEN")

	require.NoError(t, cmd.ParseArgs(nil).Err)
	assert.Equal(t, "s3cret", MustGet[string](cmd, "--token"))
}

func TestEnvInvalidValue(t *testing.T) {
	cmd := New("test", WithEnv(NewMapEnv(map[string]string{"TEST_PORT": "http"})))
	cmd.Option("--port", Single, Int).Env("TEST_PORT")

	r := cmd.ParseArgs(nil)
	require.Error(t, r.Err)
	assert.Equal(t, UnparsedParameter, KindOf(r.Err))
	assert.Contains(t, r.Err.Error(), "TEST_PORT")
	assert.Equal(t, "--port", cmd.LastUnparsed().Key())
}

func TestEnvInheritedBySubcommands(t *testing.T) {
	cmd := New("test", WithEnv(NewMapEnv(map[string]string{"REMOTE": "origin"})))
	push := cmd.Command("push", "")
	push.Option("--remote", Single, String).Env("REMOTE")

	r := cmd.ParseArgs([]string{"push"})
	require.NoError(t, r.Err)
	assert.Same(t, push, r.Command)
	assert.Equal(t, "origin", MustGet[string](push, "--remote"))
}

func TestReadEnvFile(t *testing.T) {
	src := `
# comment
// another comment
FOO=bar
URL=http://example.com/?a=b
EMPTY=
`
	ef, err := ReadEnvFile(strings.NewReader(src))
	require.NoError(t, err)

	v, ok := ef.Lookup("FOO")
	assert.True(t, ok)
	assert.Equal(t, "bar", v)
	v, _ = ef.Lookup("URL")
	assert.Equal(t, "http://example.com/?a=b", v)
	v, ok = ef.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = ef.Lookup("MISSING")
	assert.False(t, ok)

	_, err = ReadEnvFile(strings.NewReader("FOO=bar\nnot a pair\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEVEL=3\n"), 0o600))

	ef, err := ParseEnvFile(path)
	require.NoError(t, err)

	cmd := New("test", WithEnv(ef))
	cmd.Option("--level", Single, Int).Env("LEVEL")
	require.NoError(t, cmd.ParseArgs(nil).Err)
	assert.Equal(t, 3, MustGet[int](cmd, "--level"))

	_, err = ParseEnvFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
