package argparse

import (
	"strings"
	"unicode/utf8"
)

// token is one element of the argument vector after normalization.
type token struct {
	text string
	// literal tokens were split off a key=value token or a contiguous
	// key+value token. They are always parameters, never keys.
	literal bool
	// origin is the raw token a synthetic token was derived from.
	origin string
}

func newTokens(args []string) []token {
	toks := make([]token, len(args))
	for i, a := range args {
		toks[i] = token{text: a, origin: a}
	}
	return toks
}

func (m *matcher) insert(i int, t token) {
	m.toks = append(m.toks, token{})
	copy(m.toks[i+1:], m.toks[i:])
	m.toks[i] = t
}

// normalize rewrites the tokens from index from onwards: known keys and
// aliases become canonical keys, key=value tokens are split, and
// contiguous key+value tokens (-i123, -vvv) are expanded. Normalization
// stops at the first token naming a child command; m.stop records its
// index.
//
// Tokens consumed as mandatory parameters of a known key are skipped, so
// "-s -i" binds "-i" as the value of a single-parameter "-s".
func (m *matcher) normalize(from int) {
	for i := from; i < len(m.toks); {
		t := m.toks[i]
		if t.literal {
			i++
			continue
		}
		if _, ok := m.cmd.commands.Get(t.text); ok {
			m.stop = i
			return
		}
		if arg, ok := m.cmd.names[t.text]; ok {
			m.toks[i].text = arg.key
			i += 1 + arg.arity.Min
			continue
		}
		if m.splitDelimiter(i) {
			if arg, ok := m.cmd.names[m.toks[i].text]; ok {
				i += 1 + arg.arity.Min
			} else {
				i += 2
			}
			continue
		}
		if m.splitContiguous(i) {
			continue
		}
		i++
	}
	// splits grow toks, so the end is only known here
	m.stop = len(m.toks)
}

// splitDelimiter splits "key=value" into a key token and a literal value
// token. Only known keys and dashed names are split, so positional values
// containing '=' are left alone.
func (m *matcher) splitDelimiter(i int) bool {
	t := m.toks[i]
	idx := strings.Index(t.text, "=")
	if idx <= 0 {
		return false
	}
	key, value := t.text[:idx], t.text[idx+1:]
	arg, known := m.cmd.names[key]
	if !known && !strings.HasPrefix(key, "-") {
		return false
	}
	if known {
		key = arg.key
	}
	m.toks[i] = token{text: key, origin: t.origin}
	m.insert(i+1, token{text: value, literal: true, origin: t.origin})
	return true
}

// splitContiguous expands a token whose one-character key prefix ("-i" for
// dashed tokens, "i" for bare ones) names a known option. Implicit options
// leave the remainder to be read as further keys; single-parameter options
// take the remainder as their value.
func (m *matcher) splitContiguous(i int) bool {
	t := m.toks[i]
	n := 0
	if strings.HasPrefix(t.text, "-") {
		n = 1
	}
	r, size := utf8.DecodeRuneInString(t.text[n:])
	if size == 0 || r == '-' {
		return false
	}
	n += size
	if len(t.text) <= n {
		return false
	}
	prefix, rest := t.text[:n], t.text[n:]
	arg, ok := m.cmd.names[prefix]
	if !ok {
		return false
	}
	switch {
	case arg.arity.IsImplicit():
		if strings.HasPrefix(prefix, "-") {
			rest = "-" + rest
		}
		m.toks[i] = token{text: arg.key, origin: t.origin}
		m.insert(i+1, token{text: rest, origin: t.origin})
	case arg.arity.Min <= 1 && arg.arity.Max == 1:
		m.toks[i] = token{text: arg.key, origin: t.origin}
		m.insert(i+1, token{text: rest, literal: true, origin: t.origin})
	default:
		return false
	}
	m.log.Debug("split contiguous token", "token", t.text, "key", arg.key, "rest", rest)
	return true
}
