package argparse

import (
	"log/slog"

	"github.com/ef-ds/deque"
	"github.com/pkg/errors"
)

// matcher binds one command's share of the normalized tokens to its
// descriptors.
type matcher struct {
	cmd  *Command
	toks []token
	pos  int
	// stop is the index of the first token naming a child command, or
	// len(toks).
	stop int
	// slots holds the positional descriptors not yet bound, in order.
	slots *deque.Deque
	log   *slog.Logger
}

func newMatcher(cmd *Command, toks []token) *matcher {
	m := &matcher{
		cmd:   cmd,
		toks:  toks,
		slots: deque.New(),
		log:   cmd.log(),
	}
	for _, p := range cmd.positionals {
		m.slots.PushBack(p)
	}
	return m
}

// parse runs the matcher over toks and returns the deepest command reached.
func (cmd *Command) parse(toks []token) (*Command, error) {
	cmd.parsed = true
	m := newMatcher(cmd, toks)
	m.normalize(0)
	for m.pos < len(m.toks) {
		if m.pos == m.stop {
			return m.dispatch()
		}
		t := m.toks[m.pos]
		if arg := m.key(t); arg != nil {
			if err := m.matchKey(arg); err != nil {
				return cmd, m.fail(err)
			}
			continue
		}
		if m.slots.Len() > 0 {
			if err := m.bindPositional(); err != nil {
				return cmd, m.fail(err)
			}
			continue
		}
		return cmd, m.fail(m.unknown(t))
	}
	if err := m.finish(); err != nil {
		return cmd, m.fail(err)
	}
	return cmd, nil
}

func (m *matcher) fail(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Command == "" && m.cmd.parent != nil {
		pe.Command = m.cmd.Path()
	}
	return err
}

// key returns the option named by t, or nil if t is not a key.
func (m *matcher) key(t token) *Arg {
	if t.literal {
		return nil
	}
	arg, ok := m.cmd.names[t.text]
	if !ok {
		return nil
	}
	return arg
}

func (m *matcher) matchKey(arg *Arg) error {
	t := m.toks[m.pos]
	if arg.count > 0 && !arg.repeatable {
		return &ParseError{Kind: Redefinition, Key: arg.key, Text: t.origin}
	}
	m.pos++

	var params []string
	for arg.arity.accepts(len(params)) && m.pos < len(m.toks) {
		next := m.toks[m.pos]
		// mandatory parameters are taken whatever they look like. Optional
		// ones stop at a key or when pending positionals need the tokens,
		// but a command name still goes to the active key.
		optional := len(params) >= arg.arity.Min
		if optional && !next.literal && m.pos != m.stop {
			if m.key(next) != nil || m.freeTokens(m.pos) <= m.reserve() {
				break
			}
		}
		params = append(params, next.text)
		m.pos++
		if m.pos-1 == m.stop {
			// the command name became a value; the tokens after it
			// belong to this command
			m.normalize(m.pos)
		}
	}
	if len(params) < arg.arity.Min {
		m.cmd.lastUnparsed = arg
		return &ParseError{Kind: ArityError, Key: arg.key, Text: t.origin, Arity: arg.arity, Got: len(params)}
	}
	if arg.arity.IsImplicit() && m.pos < len(m.toks) && m.toks[m.pos].literal {
		m.cmd.lastUnparsed = arg
		return &ParseError{Kind: ArityError, Key: arg.key, Text: t.origin, Arity: arg.arity, Got: 1}
	}
	if err := arg.occur(params); err != nil {
		m.cmd.lastUnparsed = arg
		return err
	}
	return nil
}

// bindPositional binds the next positional slot to the run of value tokens
// at the current position. Optional parameters are only taken while enough
// free tokens remain for the minimums of the slots after it.
func (m *matcher) bindPositional() error {
	v, _ := m.slots.PopFront()
	arg := v.(*Arg)
	run := m.valueRun(m.pos)
	spare := m.freeTokens(m.pos) - m.reserve()
	want := arg.arity.Min
	if spare > want {
		want = spare
	}
	if !arg.arity.IsVariadic() && want > arg.arity.Max {
		want = arg.arity.Max
	}
	if want > run {
		want = run
	}
	if want < arg.arity.Min {
		return &ParseError{Kind: NotEnoughPositionals, Key: arg.key, Arity: arg.arity, Got: run}
	}
	if want == 0 {
		return nil
	}
	params := make([]string, 0, want)
	for _, t := range m.toks[m.pos : m.pos+want] {
		params = append(params, t.text)
	}
	m.pos += want
	m.log.Debug("bound positional", "key", arg.key, "params", params)
	if err := arg.occur(params); err != nil {
		m.cmd.lastUnparsed = arg
		return err
	}
	return nil
}

// valueRun counts the consecutive non-key tokens starting at from, up to
// the next child command name.
func (m *matcher) valueRun(from int) int {
	n := 0
	for j := from; j < m.stop && m.key(m.toks[j]) == nil; j++ {
		n++
	}
	return n
}

// freeTokens counts the tokens from index from up to the next child
// command name that positional arguments could still receive: keys, their
// mandatory parameters and literal values are not free.
func (m *matcher) freeTokens(from int) int {
	n := 0
	for j := from; j < m.stop; {
		arg := m.key(m.toks[j])
		if arg == nil {
			if !m.toks[j].literal {
				n++
			}
			j++
			continue
		}
		j++
		for k := 0; k < arg.arity.Min && j < m.stop; k++ {
			j++
		}
		for j < m.stop && m.toks[j].literal {
			j++
		}
	}
	return n
}

// reserve is the number of tokens the pending positional slots need at
// minimum.
func (m *matcher) reserve() int {
	n := 0
	for i := 0; i < m.slots.Len(); i++ {
		v, _ := m.slots.PopFront()
		n += v.(*Arg).arity.Min
		m.slots.PushBack(v)
	}
	return n
}

func (m *matcher) unknown(t token) error {
	if m.cmd.commands.Len() > 0 {
		if name, dist := closest(t.text, commandNames(m.cmd)); dist < suggestionThreshold {
			return &ParseError{Kind: UnknownCommand, Text: t.text, Suggestion: name}
		}
	}
	pe := &ParseError{Kind: UnknownArgument, Text: t.text}
	if name, dist := m.cmd.ClosestKey(t.text); dist >= 0 && dist < suggestionThreshold {
		pe.Suggestion = name
	}
	return pe
}

// dispatch finishes the current command and hands the tokens after the
// child command name to the child.
func (m *matcher) dispatch() (*Command, error) {
	name := m.toks[m.pos].text
	child, ok := m.cmd.commands.Get(name)
	if !ok {
		return m.cmd, m.fail(&ParseError{Kind: UnknownCommand, Text: name})
	}
	if err := m.finish(); err != nil {
		return m.cmd, m.fail(err)
	}
	m.log.Debug("dispatching to command", "command", child.Path())
	rest := append([]token(nil), m.toks[m.pos+1:]...)
	return child.parse(rest)
}

// finish applies environment fallback and verifies that mandatory
// arguments, the required group and positional minimums are satisfied.
func (m *matcher) finish() error {
	if err := m.applyEnv(); err != nil {
		return err
	}
	cmd := m.cmd
	var group []string
	groupSet := false
	for _, arg := range cmd.Args() {
		if arg.positional {
			continue
		}
		if arg.mandatory && !arg.IsSet() {
			return &ParseError{Kind: MissingMandatory, Key: arg.key, Arity: arg.arity}
		}
		if arg.required {
			group = append(group, arg.key)
			groupSet = groupSet || arg.IsSet()
		}
	}
	if len(group) > 0 && !groupSet {
		return &ParseError{Kind: MissingRequired, Missing: group}
	}
	for m.slots.Len() > 0 {
		v, _ := m.slots.PopFront()
		if arg := v.(*Arg); arg.arity.Min > 0 {
			return &ParseError{Kind: NotEnoughPositionals, Key: arg.key, Arity: arg.arity}
		}
	}
	for _, fn := range cmd.finalizers {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
