package argparse

import (
	"fmt"
	"strings"

	"github.com/isobit/argparse/scan"
	"github.com/pkg/errors"
)

// ErrNotAChoice is wrapped by conversion errors for values outside an
// argument's choice set.
var ErrNotAChoice = errors.New("not one of the allowed choices")

// Arg describes one declared option or positional argument. Args are
// created by Command.AddOption and Command.AddPositional and configured with
// the chainable builder methods below before parsing starts.
//
// Builder methods panic with a *SchemaError when a request contradicts the
// argument's kind or arity, and do nothing when a request merely does not
// apply to the argument (Hidden on a mandatory argument, Required on a
// positional argument, ...).
type Arg struct {
	cmd         *Command
	key         string
	aliases     []string
	positional  bool
	arity       Arity
	kind        Kind
	conv        *Conversion
	help        string
	placeholder string
	required    bool
	mandatory   bool
	hidden      bool
	repeatable  bool
	nonEmpty    bool
	dateFormat  string
	envName     string
	hasDefault  bool
	def         any
	defItems    []any
	choices     []any
	sink        Sink

	count  int
	raw    []string
	hasVal bool
	val    any
	items  []any
}

// Key returns the canonical key: the first declared name.
func (a *Arg) Key() string { return a.key }

// Aliases returns the names declared after the canonical key.
func (a *Arg) Aliases() []string { return a.aliases }

// Names returns the canonical key followed by the aliases.
func (a *Arg) Names() []string {
	return append([]string{a.key}, a.aliases...)
}

func (a *Arg) IsPositional() bool { return a.positional }
func (a *Arg) Arity() Arity       { return a.arity }
func (a *Arg) Kind() Kind         { return a.kind }
func (a *Arg) HelpText() string   { return a.help }
func (a *Arg) IsRequired() bool   { return a.required }
func (a *Arg) IsHidden() bool     { return a.hidden }
func (a *Arg) IsRepeatable() bool { return a.repeatable }
func (a *Arg) EnvName() string    { return a.envName }

// IsMandatory reports whether the argument must always be supplied.
// Positional arguments are mandatory unless their arity allows zero
// parameters.
func (a *Arg) IsMandatory() bool {
	if a.positional {
		return a.arity.Min > 0
	}
	return a.mandatory
}

// PlaceholderText returns the value placeholder used in help output.
func (a *Arg) PlaceholderText() string {
	if a.placeholder != "" {
		return a.placeholder
	}
	if a.positional {
		return strings.ToUpper(a.key)
	}
	return "VALUE"
}

// ChoiceValues returns the allowed values, in declaration order.
func (a *Arg) ChoiceValues() []any { return a.choices }

// DefaultValue returns the declared default, as a typed slice for
// sequence-valued arguments.
func (a *Arg) DefaultValue() (any, bool) {
	if !a.hasDefault {
		return nil, false
	}
	if a.sequence() {
		return a.kind.Slice(a.defItems), true
	}
	return a.def, true
}

// IsSet reports whether the argument occurred at least once during the last
// parse, on the command line or through its environment variable.
func (a *Arg) IsSet() bool { return a.count > 0 }

// Count returns the number of occurrences seen during the last parse.
func (a *Arg) Count() int { return a.count }

// RawTokens returns the parameter tokens consumed for the argument, in the
// order they were consumed.
func (a *Arg) RawTokens() []string { return a.raw }

// Value returns the current value: the parsed value when set, otherwise the
// default, otherwise the zero value of the kind. Sequence-valued arguments
// return a typed slice.
func (a *Arg) Value() any {
	if a.sequence() {
		switch {
		case a.hasVal:
			return a.kind.Slice(a.items)
		case a.hasDefault:
			return a.kind.Slice(a.defItems)
		default:
			return a.kind.Slice(nil)
		}
	}
	switch {
	case a.hasVal:
		return a.val
	case a.hasDefault:
		return a.def
	}
	return a.kind.Zero()
}

// IsSequence reports whether the argument holds a sequence of values.
func (a *Arg) IsSequence() bool { return a.sequence() }

// sequence reports whether the argument accumulates an ordered sequence of
// values rather than holding a single one.
func (a *Arg) sequence() bool {
	if a.arity.IsVariadic() {
		return true
	}
	if a.repeatable && !a.arity.IsImplicit() {
		return true
	}
	return a.conv == nil && a.arity.Max > 1
}

func (a *Arg) reset() {
	a.count = 0
	a.raw = nil
	a.hasVal = false
	a.val = nil
	a.items = nil
}

// Help sets the help text.
func (a *Arg) Help(help string) *Arg {
	a.help = help
	return a
}

// Placeholder sets the value placeholder shown in help output.
func (a *Arg) Placeholder(placeholder string) *Arg {
	a.placeholder = placeholder
	return a
}

// Default sets the value used when the argument is not given. The value must
// have the kind's Go type, or be a slice of it for sequence-valued
// arguments.
func (a *Arg) Default(v any) *Arg {
	if a.sequence() {
		items, ok := a.kind.Items(v)
		if !ok {
			panic(schemaErrorf(a.key, "default %v (%T) is not a sequence of %s", v, v, a.kind))
		}
		a.defItems = items
	} else {
		if !a.kind.Holds(v) {
			panic(schemaErrorf(a.key, "default %v (%T) does not match kind %s", v, v, a.kind))
		}
		a.def = v
	}
	a.hasDefault = true
	return a
}

// DefaultText scans texts with the argument's scanner and uses the result
// as the default. Sequence-valued arguments take one text per element;
// other arguments take exactly one.
func (a *Arg) DefaultText(texts ...string) error {
	viaConv := a.conv != nil && a.conv.Params == 1
	if !viaConv && !a.kind.Scannable() {
		return schemaErrorf(a.key, "kind %s has no scanner for default text", a.kind)
	}
	if !a.sequence() && len(texts) != 1 {
		return schemaErrorf(a.key, "expected a single default value, got %d", len(texts))
	}
	items := make([]any, 0, len(texts))
	for _, text := range texts {
		var v any
		var err error
		if viaConv {
			v, err = a.callConversion([]string{text})
		} else {
			v, err = a.scan(text)
		}
		if err != nil {
			return errors.Wrapf(err, "default for %s", a.key)
		}
		items = append(items, v)
	}
	if a.sequence() {
		a.defItems = items
	} else {
		a.def = items[0]
	}
	a.hasDefault = true
	return nil
}

// Choices restricts the accepted values. Only arithmetic, character and
// string kinds support choices, and every choice must have the kind's Go
// type.
func (a *Arg) Choices(values ...any) *Arg {
	if !a.kind.Arithmetic() && a.kind != String {
		panic(schemaErrorf(a.key, "choices are not supported for kind %s", a.kind))
	}
	for _, v := range values {
		if !a.kind.Holds(v) {
			panic(schemaErrorf(a.key, "choice %v (%T) does not match kind %s", v, v, a.kind))
		}
	}
	a.choices = values
	return a
}

// Required adds the argument to its command's required group: at least one
// member of the group must be given. Ignored for positional and mandatory
// arguments.
func (a *Arg) Required() *Arg {
	if a.positional || a.mandatory {
		return a
	}
	a.required = true
	a.hidden = false
	return a
}

// Mandatory makes an option mandatory: parsing fails unless it is given.
// Ignored for positional arguments, whose arity decides.
func (a *Arg) Mandatory() *Arg {
	if a.positional {
		return a
	}
	a.mandatory = true
	a.required = false
	a.hidden = false
	return a
}

// Hidden omits the argument from help output. Ignored for mandatory,
// required and positional arguments.
func (a *Arg) Hidden() *Arg {
	if a.positional || a.mandatory || a.required {
		return a
	}
	a.hidden = true
	return a
}

// Repeatable allows the argument to occur more than once. Implicit
// arguments are incremented on every occurrence; other arguments collect
// the values of all occurrences. Ignored for positional arguments.
func (a *Arg) Repeatable() *Arg {
	if a.positional {
		return a
	}
	if a.arity.IsVariadic() {
		panic(schemaErrorf(a.key, "variadic arguments cannot be repeatable"))
	}
	if a.sink != nil && !a.arity.IsImplicit() {
		panic(schemaErrorf(a.key, "repeatable arguments collect sequences and cannot have a sink"))
	}
	if a.hasDefault && !a.arity.IsImplicit() && !a.sequence() {
		// the default moves into a one-element sequence
		a.defItems = []any{a.def}
		a.def = nil
	}
	a.repeatable = true
	return a
}

// DateFormat sets the strftime format used to scan Date values.
func (a *Arg) DateFormat(format string) *Arg {
	if a.kind != Date {
		panic(schemaErrorf(a.key, "date format set on kind %s", a.kind))
	}
	if err := scan.ValidDateFormat(format); err != nil {
		panic(schemaErrorf(a.key, "%s", err))
	}
	a.dateFormat = format
	return a
}

// NonEmpty rejects empty string values.
func (a *Arg) NonEmpty() *Arg {
	if a.kind != String {
		panic(schemaErrorf(a.key, "non-empty set on kind %s", a.kind))
	}
	a.nonEmpty = true
	return a
}

// Sink writes every converted value through to s. Only arguments holding a
// single value can have a sink.
func (a *Arg) Sink(s Sink) *Arg {
	if s == nil {
		panic(schemaErrorf(a.key, "nil sink"))
	}
	if a.sequence() {
		panic(schemaErrorf(a.key, "sequence-valued arguments cannot have a sink"))
	}
	if ts, ok := s.(typedSink); ok && !ts.accepts(a.kind) {
		panic(schemaErrorf(a.key, "sink %T cannot hold kind %s", s, a.kind))
	}
	a.sink = s
	return a
}

// Env names an environment variable consulted when the option is not given
// on the command line. Ignored for positional arguments.
func (a *Arg) Env(name string) *Arg {
	if a.positional {
		return a
	}
	if name == "" || strings.ContainsAny(name, " \t\n=") {
		panic(schemaErrorf(a.key, "invalid environment variable name %q", name))
	}
	a.envName = name
	return a
}

func (a *Arg) scan(text string) (any, error) {
	if a.nonEmpty && text == "" {
		return nil, &scan.Error{Text: text, Type: a.kind.String(), Err: scan.ErrEmpty}
	}
	v, err := scan.Value(a.kind, text, a.dateFormat)
	if err != nil {
		return nil, err
	}
	if err := a.checkChoice(text, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (a *Arg) checkChoice(text string, v any) error {
	if len(a.choices) == 0 {
		return nil
	}
	for _, c := range a.choices {
		if c == v {
			return nil
		}
	}
	return &scan.Error{
		Text: text,
		Type: a.kind.String(),
		Err:  errors.Wrapf(ErrNotAChoice, "choices are %s", formatChoices(a.kind, a.choices)),
	}
}

// formatChoices quotes Char choices; Int32 shares their Go type but prints
// as a number.
func formatChoices(kind Kind, choices []any) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		if kind == Char {
			parts[i] = fmt.Sprintf("%q", c)
			continue
		}
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ", ")
}

// occur applies one occurrence of the argument with the given parameters.
func (a *Arg) occur(params []string) error {
	a.raw = append(a.raw, params...)

	var values []any
	switch {
	case a.conv != nil && !a.arity.IsVariadic():
		v, err := a.callConversion(params)
		if err != nil {
			return err
		}
		values = []any{v}
	case a.arity.IsImplicit():
		v, ok := increment(a.Value())
		if !ok {
			return a.unparsed("", errors.Errorf("cannot increment kind %s", a.kind))
		}
		values = []any{v}
	default:
		for _, p := range params {
			var v any
			var err error
			if a.conv != nil {
				v, err = a.callConversion([]string{p})
			} else {
				v, err = a.scan(p)
				if err != nil {
					err = a.unparsed(p, err)
				}
			}
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		if len(values) == 0 && a.kind == Bool && !a.sequence() {
			// an optional bool given without a parameter reads as true
			values = []any{true}
		}
	}

	a.count++
	if a.sequence() {
		if !a.hasVal {
			a.items = nil
		}
		a.items = append(a.items, values...)
		a.hasVal = true
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	a.val = values[len(values)-1]
	a.hasVal = true
	if a.sink != nil {
		if err := a.sink.Write(a.val); err != nil {
			return a.unparsed(strings.Join(params, " "), errors.Wrap(err, "sink"))
		}
	}
	return nil
}

func (a *Arg) callConversion(params []string) (any, error) {
	ps := make([]Param, a.conv.Params)
	for i := range ps {
		if i < len(params) {
			ps[i] = Param{Text: params[i], Present: true}
		}
	}
	text := strings.Join(params, " ")
	v, err := a.conv.call(ps)
	if err != nil {
		return nil, a.unparsed(text, err)
	}
	if !a.kind.Holds(v) {
		return nil, a.unparsed(text, errors.Wrapf(ErrTypeMismatch, "conversion returned %T for kind %s", v, a.kind))
	}
	if err := a.checkChoice(text, v); err != nil {
		return nil, a.unparsed(text, err)
	}
	return v, nil
}

func (a *Arg) unparsed(text string, err error) *ParseError {
	return &ParseError{
		Kind:  UnparsedParameter,
		Key:   a.key,
		Text:  text,
		Arity: a.arity,
		Err:   err,
	}
}

func increment(v any) (any, bool) {
	switch x := v.(type) {
	case int:
		return x + 1, true
	case int8:
		return x + 1, true
	case int16:
		return x + 1, true
	case int32:
		return x + 1, true
	case int64:
		return x + 1, true
	case uint:
		return x + 1, true
	case uint8:
		return x + 1, true
	case uint16:
		return x + 1, true
	case uint32:
		return x + 1, true
	case uint64:
		return x + 1, true
	case float32:
		return x + 1, true
	case float64:
		return x + 1, true
	case bool:
		return true, true
	}
	return nil, false
}
