package argparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newHelpTestCommand() *Command {
	cmd := newTestCommand(WithHelp("a test command"), WithDescription("Longer description."))
	cmd.Option("--int,-i", Single, Int).Help("an int").Default(3)
	cmd.Option("--port", Single, Int).Env("TEST_PORT")
	cmd.Option("--mode", Single, String).Choices("fast", "slow")
	cmd.Option("--token", Single, String).Mandatory().Placeholder("TOKEN")
	cmd.Option("--verbose,-v", Implicit, Bool).Help("be loud")
	cmd.Option("--debug", Implicit, Bool).Hidden()
	cmd.Option("--since", Single, Date)
	cmd.Option("--pair", Between(1, 2), String)
	cmd.Positional("file", Single, String).Help("input file")
	cmd.Positional("rest", AtLeast(0), String)
	cmd.Command("run", "run it")
	return cmd
}

func TestHelpString(t *testing.T) {
	help := newHelpTestCommand().HelpString()

	assert.True(t, strings.HasPrefix(help, "a test command\n\nUSAGE:\n"), help)
	assert.Contains(t, help, "    test [OPTIONS] <FILE> [<REST>...] <COMMAND>\n")
	assert.Contains(t, help, "Longer description.")
	assert.Contains(t, help, "ARGUMENTS:")
	assert.Contains(t, help, "<FILE>")
	assert.Contains(t, help, "input file")
	assert.Contains(t, help, "OPTIONS:")
	assert.Contains(t, help, "--int, -i <VALUE>")
	assert.Contains(t, help, "an int  (default: 3)")
	assert.Contains(t, help, "(env: TEST_PORT)")
	assert.Contains(t, help, "(one of: fast, slow)")
	assert.Contains(t, help, "--token <TOKEN>")
	assert.Contains(t, help, "(mandatory)")
	assert.Contains(t, help, "--since <%Y-%m-%dT%H:%M:%S>")
	assert.Contains(t, help, "--pair <VALUE> [<VALUE>]")
	assert.Contains(t, help, "COMMANDS:")
	assert.Contains(t, help, "run it")
	assert.NotContains(t, help, "--debug")
	assert.NotContains(t, help, "--verbose, -v <")
}

func TestHelpSubcommandUsage(t *testing.T) {
	cmd := newHelpTestCommand()
	run := cmd.Commands()[0]
	run.Option("--fast", Implicit, Bool)

	help := run.HelpString()
	assert.Contains(t, help, "    test [OPTIONS] <FILE> [<REST>...] run [OPTIONS]\n")
	assert.NotContains(t, help, "<COMMAND>")
	assert.Contains(t, help, "run it")
}

func TestHelpColumnsAligned(t *testing.T) {
	cmd := newTestCommand()
	cmd.Option("--a", Implicit, Bool).Help("first")
	cmd.Option("--longer-name", Implicit, Bool).Help("second")

	var lines []string
	for _, line := range strings.Split(cmd.HelpString(), "\n") {
		if strings.Contains(line, "first") || strings.Contains(line, "second") {
			lines = append(lines, line)
		}
	}
	if assert.Len(t, lines, 2) {
		assert.Equal(t, strings.Index(lines[0], "first"), strings.Index(lines[1], "second"))
	}
}

func TestValueUsage(t *testing.T) {
	cases := []struct {
		arity Arity
		want  string
	}{
		{Single, "<V>"},
		{Optional, "[<V>]"},
		{Exactly(2), "<V> <V>"},
		{Between(1, 3), "<V> [<V>] [<V>]"},
		{AtLeast(0), "[<V>...]"},
		{AtLeast(2), "<V> <V>..."},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, valueUsage("V", c.arity), c.arity.String())
	}
}
