package argparse

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Command is a registry of argument declarations and child commands. The
// root command is created with New; children are declared with
// AddCommand.
//
// A Command is not safe for concurrent use. Declarations must be complete
// before the first parse, and parse state is overwritten by every parse.
type Command struct {
	name        string
	help        string
	description string
	parent      *Command

	// args indexes every descriptor by canonical key, in declaration order.
	args *orderedmap.OrderedMap[string, *Arg]
	// names maps every option key and alias to its descriptor. Positional
	// names are not matched against tokens and are absent.
	names       map[string]*Arg
	positionals []*Arg
	commands    *orderedmap.OrderedMap[string, *Command]

	env        Env
	logger     *slog.Logger
	action     func(context.Context) error
	finalizers []func() error

	parsed       bool
	lastUnparsed *Arg
}

type CommandOption interface {
	Apply(cmd *Command)
}

type commandOptionFunc func(cmd *Command)

func (of commandOptionFunc) Apply(cmd *Command) {
	of(cmd)
}

func WithHelp(help string) CommandOption {
	return commandOptionFunc(func(cmd *Command) {
		cmd.SetHelp(help)
	})
}

func WithDescription(description string) CommandOption {
	return commandOptionFunc(func(cmd *Command) {
		cmd.SetDescription(description)
	})
}

// WithLogger sets the logger receiving debug records about parsing.
func WithLogger(logger *slog.Logger) CommandOption {
	return commandOptionFunc(func(cmd *Command) {
		cmd.SetLogger(logger)
	})
}

// WithEnv sets the source consulted for environment fallback values.
func WithEnv(env Env) CommandOption {
	return commandOptionFunc(func(cmd *Command) {
		cmd.SetEnv(env)
	})
}

// New creates an empty root command.
func New(name string, opts ...CommandOption) *Command {
	cmd := newCommand(name, nil)
	for _, opt := range opts {
		opt.Apply(cmd)
	}
	return cmd
}

func newCommand(name string, parent *Command) *Command {
	return &Command{
		name:     name,
		parent:   parent,
		args:     orderedmap.New[string, *Arg](),
		names:    map[string]*Arg{},
		commands: orderedmap.New[string, *Command](),
	}
}

func (cmd *Command) Name() string { return cmd.name }

func (cmd *Command) Parent() *Command { return cmd.parent }

// Path returns the names of the command and its ancestors, separated by
// spaces.
func (cmd *Command) Path() string {
	if cmd.parent == nil {
		return cmd.name
	}
	return cmd.parent.Path() + " " + cmd.name
}

func (cmd *Command) SetHelp(help string) *Command {
	cmd.help = help
	return cmd
}

func (cmd *Command) SetDescription(description string) *Command {
	cmd.description = description
	return cmd
}

func (cmd *Command) SetLogger(logger *slog.Logger) *Command {
	cmd.logger = logger
	return cmd
}

func (cmd *Command) SetEnv(env Env) *Command {
	cmd.env = env
	return cmd
}

// SetAction sets the function ParseResult.Run calls when this command is
// the deepest command selected by a parse.
func (cmd *Command) SetAction(action func(ctx context.Context) error) *Command {
	cmd.action = action
	return cmd
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (cmd *Command) log() *slog.Logger {
	for c := cmd; c != nil; c = c.parent {
		if c.logger != nil {
			return c.logger
		}
	}
	return discardLogger
}

func (cmd *Command) lookupEnv() Env {
	for c := cmd; c != nil; c = c.parent {
		if c.env != nil {
			return c.env
		}
	}
	return OSEnv{}
}

// Args returns every descriptor in declaration order.
func (cmd *Command) Args() []*Arg {
	out := make([]*Arg, 0, cmd.args.Len())
	for pair := cmd.args.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Commands returns the child commands in declaration order.
func (cmd *Command) Commands() []*Command {
	out := make([]*Command, 0, cmd.commands.Len())
	for pair := cmd.commands.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Option is like AddOption, but panics with a *SchemaError instead of
// returning an error, for chaining.
func (cmd *Command) Option(names string, arity Arity, kind Kind, conv ...Conversion) *Arg {
	arg, err := cmd.AddOption(names, arity, kind, conv...)
	if err != nil {
		panic(err)
	}
	return arg
}

// AddOption declares an option. names is a comma separated list of keys;
// the first is canonical and the rest are aliases. Either every name starts
// with '-' or none does. Options whose names do not start with '-' are
// mandatory.
//
// At most one Conversion may be given. It replaces the default scanner and
// is required for Custom kinds.
func (cmd *Command) AddOption(names string, arity Arity, kind Kind, conv ...Conversion) (*Arg, error) {
	keys, err := splitNames(names)
	if err != nil {
		return nil, err
	}
	dashed := strings.HasPrefix(keys[0], "-")
	for _, k := range keys[1:] {
		if strings.HasPrefix(k, "-") != dashed {
			return nil, schemaErrorf(keys[0], "alias %q mixes dashed and bare names", k)
		}
	}
	arg := &Arg{
		cmd:       cmd,
		key:       keys[0],
		aliases:   keys[1:],
		arity:     arity,
		kind:      kind,
		mandatory: !dashed,
	}
	if err := cmd.checkArg(arg, keys, conv); err != nil {
		return nil, err
	}
	cmd.args.Set(arg.key, arg)
	for _, k := range keys {
		cmd.names[k] = arg
	}
	return arg, nil
}

// Positional is like AddPositional, but panics with a *SchemaError.
func (cmd *Command) Positional(name string, arity Arity, kind Kind, conv ...Conversion) *Arg {
	arg, err := cmd.AddPositional(name, arity, kind, conv...)
	if err != nil {
		panic(err)
	}
	return arg
}

// AddPositional declares a positional argument. Positional arguments are
// bound in declaration order to tokens that are not keys. Only the last
// positional argument may be variadic.
func (cmd *Command) AddPositional(name string, arity Arity, kind Kind, conv ...Conversion) (*Arg, error) {
	keys, err := splitNames(name)
	if err != nil {
		return nil, err
	}
	if len(keys) != 1 {
		return nil, schemaErrorf(keys[0], "positional arguments cannot have aliases")
	}
	if arity.IsImplicit() {
		return nil, schemaErrorf(keys[0], "positional arguments must take parameters")
	}
	if n := len(cmd.positionals); n > 0 && cmd.positionals[n-1].arity.IsVariadic() {
		return nil, schemaErrorf(keys[0], "declared after variadic positional %s", cmd.positionals[n-1].key)
	}
	arg := &Arg{
		cmd:        cmd,
		key:        keys[0],
		positional: true,
		arity:      arity,
		kind:       kind,
	}
	if err := cmd.checkArg(arg, keys, conv); err != nil {
		return nil, err
	}
	cmd.args.Set(arg.key, arg)
	cmd.positionals = append(cmd.positionals, arg)
	return arg, nil
}

// Command is like AddCommand, but panics with a *SchemaError.
func (cmd *Command) Command(name, help string) *Command {
	sub, err := cmd.AddCommand(name, help)
	if err != nil {
		panic(err)
	}
	return sub
}

// AddCommand declares a child command. A token equal to name hands all
// remaining tokens to the child.
func (cmd *Command) AddCommand(name, help string) (*Command, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := cmd.checkFree(name); err != nil {
		return nil, err
	}
	sub := newCommand(name, cmd)
	sub.help = help
	cmd.commands.Set(name, sub)
	return sub, nil
}

func splitNames(names string) ([]string, error) {
	var keys []string
	for _, k := range strings.Split(names, ",") {
		k = strings.TrimSpace(k)
		if err := checkName(k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func checkName(name string) error {
	if name == "" {
		return schemaErrorf("", "empty name")
	}
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return schemaErrorf(name, "names cannot contain whitespace")
	}
	if strings.Contains(name, "=") {
		return schemaErrorf(name, "names cannot contain '='")
	}
	if strings.Trim(name, "-") == "" {
		return schemaErrorf(name, "names need characters besides '-'")
	}
	return nil
}

// checkFree fails when name is already used by a key, an alias, a
// positional argument or a child command.
func (cmd *Command) checkFree(name string) error {
	if _, ok := cmd.names[name]; ok {
		return schemaErrorf(name, "already declared")
	}
	if _, ok := cmd.args.Get(name); ok {
		return schemaErrorf(name, "already declared")
	}
	if _, ok := cmd.commands.Get(name); ok {
		return schemaErrorf(name, "already declared as a command")
	}
	return nil
}

func (cmd *Command) checkArg(arg *Arg, keys []string, conv []Conversion) error {
	seen := map[string]bool{}
	for _, k := range keys {
		if seen[k] {
			return schemaErrorf(arg.key, "name %q repeated", k)
		}
		seen[k] = true
		if err := cmd.checkFree(k); err != nil {
			return err
		}
	}
	if !arg.arity.valid() {
		return schemaErrorf(arg.key, "invalid arity %d..%d", arg.arity.Min, arg.arity.Max)
	}
	if !arg.kind.Valid() {
		return schemaErrorf(arg.key, "invalid kind %s", arg.kind)
	}
	switch len(conv) {
	case 0:
		if !arg.kind.Scannable() {
			return schemaErrorf(arg.key, "kind %s needs a conversion", arg.kind)
		}
		if arg.arity.IsImplicit() && !arg.kind.Arithmetic() && arg.kind != Bool {
			return schemaErrorf(arg.key, "implicit %s arguments need a conversion", arg.kind)
		}
	case 1:
		c := conv[0]
		if c.Func == nil {
			return schemaErrorf(arg.key, "conversion has no function")
		}
		if want := arg.arity.params(); c.Params != want {
			return schemaErrorf(arg.key, "conversion takes %d parameter(s), arity %s needs %d", c.Params, arg.arity, want)
		}
		arg.conv = &c
	default:
		return schemaErrorf(arg.key, "at most one conversion allowed, got %d", len(conv))
	}
	return nil
}

// Lookup returns the descriptor for a canonical key, alias or positional
// name, or nil.
func (cmd *Command) Lookup(key string) *Arg {
	if arg, ok := cmd.names[key]; ok {
		return arg
	}
	if arg, ok := cmd.args.Get(key); ok {
		return arg
	}
	return nil
}

// IsSet reports whether the argument for key occurred during the last
// parse. Unknown keys are never set.
func (cmd *Command) IsSet(key string) bool {
	arg := cmd.Lookup(key)
	return arg != nil && arg.IsSet()
}

// RawTokens returns the parameter tokens consumed for key during the last
// parse.
func (cmd *Command) RawTokens(key string) []string {
	if arg := cmd.Lookup(key); arg != nil {
		return arg.RawTokens()
	}
	return nil
}

// LastUnparsed returns the descriptor whose conversion or arity check
// failed during the last parse, or nil.
func (cmd *Command) LastUnparsed() *Arg {
	return cmd.lastUnparsed
}

// Parse is a convenience method for calling ParseArgs(os.Args[1:]).
func (cmd *Command) Parse() ParseResult {
	args := os.Args
	if len(args) > 0 {
		args = args[1:]
	}
	return cmd.ParseArgs(args)
}

// ParseLine splits line into tokens with shell quoting rules and parses
// them.
func (cmd *Command) ParseLine(line string) ParseResult {
	args, err := shlex.Split(line)
	if err != nil {
		return ParseResult{Command: cmd, Err: errors.Wrap(err, "failed to split command line")}
	}
	return cmd.ParseArgs(args)
}

// ParseArgs parses args, which must not include the program name. Values
// of every command in the tree from earlier parses are discarded first.
//
// Parsing stops at the first error. Everything bound before the error
// stays observable through the accessors, and LastUnparsed names the
// descriptor that failed to convert, if any.
//
// When a token names a child command, the remaining tokens are parsed by
// the child and ParseResult.Command is the deepest command reached.
func (cmd *Command) ParseArgs(args []string) ParseResult {
	cmd.reset()
	selected, err := cmd.parse(newTokens(args))
	return ParseResult{Err: err, Command: selected}
}

func (cmd *Command) reset() {
	cmd.parsed = false
	cmd.lastUnparsed = nil
	for pair := cmd.args.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.reset()
	}
	for pair := cmd.commands.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.reset()
	}
}

// ParseResult contains the outcome of a parse.
type ParseResult struct {
	Err error
	// Command is the deepest command the parse reached.
	Command *Command
}

// Run calls the action of the parsed command, or returns the parse error.
func (r ParseResult) Run(ctx context.Context) error {
	if r.Err != nil {
		return r.Err
	}
	if r.Command == nil || r.Command.action == nil {
		return errors.New("no action for command")
	}
	return r.Command.action(ctx)
}
