package argparse

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSchemaError(t *testing.T, err error) *SchemaError {
	t.Helper()
	require.Error(t, err)
	var se *SchemaError
	require.True(t, errors.As(err, &se), "expected *SchemaError, got %T: %v", err, err)
	return se
}

func TestDeclareOption(t *testing.T) {
	cmd := newTestCommand()
	arg, err := cmd.AddOption("--name, -n,--nick", Single, String)
	require.NoError(t, err)
	assert.Equal(t, "--name", arg.Key())
	assert.Equal(t, []string{"-n", "--nick"}, arg.Aliases())
	assert.False(t, arg.IsMandatory())
	assert.Same(t, arg, cmd.Lookup("-n"))
	assert.Same(t, arg, cmd.Lookup("--nick"))
	assert.Nil(t, cmd.Lookup("nick"))
}

func TestDeclareInvalidNames(t *testing.T) {
	for _, names := range []string{
		"",
		"--a,",
		"--a b",
		"=a",
		"a=",
		"--a=b",
		"-",
		"--",
		"--a,b",
		"a,-b",
		"--a,--a",
	} {
		t.Run(names, func(t *testing.T) {
			_, err := newTestCommand().AddOption(names, Single, String)
			requireSchemaError(t, err)
		})
	}
}

func TestDeclareCollisions(t *testing.T) {
	cases := []struct {
		name  string
		first func(cmd *Command) error
		then  func(cmd *Command) error
	}{
		{
			"option then alias",
			func(cmd *Command) error { _, err := cmd.AddOption("--a", Single, Int); return err },
			func(cmd *Command) error { _, err := cmd.AddOption("--b,--a", Single, Int); return err },
		},
		{
			"alias then option",
			func(cmd *Command) error { _, err := cmd.AddOption("--b,--a", Single, Int); return err },
			func(cmd *Command) error { _, err := cmd.AddOption("--a", Single, Int); return err },
		},
		{
			"positional then option",
			func(cmd *Command) error { _, err := cmd.AddPositional("file", Single, String); return err },
			func(cmd *Command) error { _, err := cmd.AddOption("file", Single, String); return err },
		},
		{
			"option then positional",
			func(cmd *Command) error { _, err := cmd.AddOption("file", Single, String); return err },
			func(cmd *Command) error { _, err := cmd.AddPositional("file", Single, String); return err },
		},
		{
			"command then option",
			func(cmd *Command) error { _, err := cmd.AddCommand("run", ""); return err },
			func(cmd *Command) error { _, err := cmd.AddOption("run", Implicit, Bool); return err },
		},
		{
			"command then command",
			func(cmd *Command) error { _, err := cmd.AddCommand("run", ""); return err },
			func(cmd *Command) error { _, err := cmd.AddCommand("run", ""); return err },
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cmd := newTestCommand()
			require.NoError(t, c.first(cmd))
			requireSchemaError(t, c.then(cmd))
		})
	}
}

func TestDeclareOptionAndCommandCollide(t *testing.T) {
	cmd := newTestCommand()
	cmd.Option("run", Implicit, Bool)
	_, err := cmd.AddCommand("run", "")
	requireSchemaError(t, err)
}

func TestDeclarePositionals(t *testing.T) {
	cmd := newTestCommand()
	_, err := cmd.AddPositional("a,b", Single, String)
	requireSchemaError(t, err)

	_, err = cmd.AddPositional("flag", Implicit, Bool)
	requireSchemaError(t, err)

	cmd.Positional("files", AtLeast(1), String)
	_, err = cmd.AddPositional("out", Single, String)
	se := requireSchemaError(t, err)
	assert.Equal(t, "out", se.Key)
}

func TestDeclareKinds(t *testing.T) {
	cmd := newTestCommand()

	_, err := cmd.AddOption("--custom", Single, Custom)
	requireSchemaError(t, err)

	_, err = cmd.AddOption("--bad", Single, Kind(99))
	requireSchemaError(t, err)

	_, err = cmd.AddOption("--word", Implicit, String)
	requireSchemaError(t, err)

	_, err = cmd.AddOption("--arity", Arity{2, 1}, Int)
	requireSchemaError(t, err)

	_, err = cmd.AddOption("--neg", Arity{-1, 1}, Int)
	requireSchemaError(t, err)
}

func TestDeclareConversionParams(t *testing.T) {
	noop := func(params []Param) (any, error) { return nil, nil }
	cases := []struct {
		arity  Arity
		params int
		ok     bool
	}{
		{Implicit, 0, true},
		{Implicit, 1, false},
		{Single, 1, true},
		{Single, 0, false},
		{Exactly(2), 2, true},
		{Between(1, 3), 3, true},
		{Between(1, 3), 1, false},
		{AtLeast(1), 1, true},
		{AtLeast(2), 2, false},
	}
	for _, c := range cases {
		_, err := newTestCommand().AddOption("--x", c.arity, Custom, Convert(c.params, noop))
		if c.ok {
			assert.NoError(t, err, "%s with %d params", c.arity, c.params)
		} else {
			assert.Error(t, err, "%s with %d params", c.arity, c.params)
		}
	}

	_, err := newTestCommand().AddOption("--x", Single, Custom, Conversion{Params: 1})
	requireSchemaError(t, err)

	_, err = newTestCommand().AddOption("--x", Single, Custom, Convert(1, noop), Convert(1, noop))
	requireSchemaError(t, err)
}

func TestDeclarePanics(t *testing.T) {
	cmd := newTestCommand()
	cmd.Option("--a", Single, Int)
	assert.Panics(t, func() { cmd.Option("--a", Single, Int) })
	assert.Panics(t, func() { cmd.Positional("--a", Single, Int) })
	assert.Panics(t, func() { cmd.Command("--a", "") })
}

func TestCommandAccessors(t *testing.T) {
	cmd := New("git", WithHelp("the stupid content tracker"), WithDescription("longer text"))
	remote := cmd.Command("remote", "manage remotes")
	add := remote.Command("add", "add a remote")
	cmd.Option("--verbose", Implicit, Bool)
	cmd.Positional("path", AtLeast(0), String)

	assert.Equal(t, "git remote add", add.Path())
	assert.Same(t, remote, add.Parent())
	assert.Equal(t, []*Command{remote}, cmd.Commands())
	require.Len(t, cmd.Args(), 2)
	assert.Equal(t, "--verbose", cmd.Args()[0].Key())
	assert.Equal(t, "path", cmd.Args()[1].Key())
	assert.True(t, cmd.Args()[1].IsPositional())
}
