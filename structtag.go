package argparse

import (
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// tagName is the struct tag key read by Command.Bind.
const tagName = "arg"

// splitTag splits the inside of a struct tag such as
// `name=out,short=o,help='output file, or - for stdout'` into its entries.
// Single quotes protect commas in values; spaces outside quotes are
// dropped from keys.
func splitTag(inner string) (map[string]string, error) {
	ret := map[string]string{}

	key := strings.Builder{}
	val := strings.Builder{}
	inKey := true
	inQuote := false
	flush := func() {
		if k := key.String(); k != "" {
			ret[k] = val.String()
		}
		key.Reset()
		val.Reset()
		inKey = true
	}
	for _, c := range inner {
		switch {
		case inKey:
			switch c {
			case ',':
				flush()
			case '=':
				inKey = false
			case ' ':
			default:
				key.WriteRune(c)
			}
		case inQuote:
			if c == '\'' {
				inQuote = false
			} else {
				val.WriteRune(c)
			}
		default:
			switch c {
			case ',':
				flush()
			case '\'':
				inQuote = true
			default:
				val.WriteRune(c)
			}
		}
	}
	if inQuote {
		return nil, errors.Errorf("unterminated quote in tag %q", inner)
	}
	flush()
	return ret, nil
}

type fieldTags struct {
	exclude     bool
	name        string
	short       string
	help        string
	placeholder string
	env         string
	def         string
	hasDef      bool
	required    bool
	mandatory   bool
	hidden      bool
	append      bool
	embed       bool
	args        bool
}

func parseFieldTags(tag reflect.StructTag) (fieldTags, error) {
	t := fieldTags{}
	m, err := splitTag(tag.Get(tagName))
	if err != nil {
		return t, err
	}
	pop := func(key string) (string, bool) {
		val, ok := m[key]
		if ok {
			delete(m, key)
		}
		return val, ok
	}

	_, t.exclude = pop("-")
	_, t.required = pop("required")
	_, t.mandatory = pop("mandatory")
	_, t.hidden = pop("hidden")
	_, t.append = pop("append")
	_, t.embed = pop("embed")
	_, t.args = pop("args")
	t.name, _ = pop("name")
	t.placeholder, _ = pop("placeholder")
	t.env, _ = pop("env")
	t.help, _ = pop("help")
	t.def, t.hasDef = pop("default")

	if short, ok := pop("short"); ok {
		if len([]rune(short)) != 1 {
			return t, errors.New("short name must be 1 letter")
		}
		t.short = short
	}

	if len(m) > 0 {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return t, errors.Errorf("unknown tags: %s", strings.Join(keys, ", "))
	}

	return t, nil
}
