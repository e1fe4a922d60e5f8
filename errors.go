package argparse

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotParsed    = errors.New("arguments have not been parsed")
	ErrUnknownKey   = errors.New("unknown key")
	ErrTypeMismatch = errors.New("type mismatch")
)

// SchemaError is a programming error found while declaring arguments.
// Declarations that fail never reach the parser.
type SchemaError struct {
	Key string
	Msg string
}

func (e *SchemaError) Error() string {
	if e.Key == "" {
		return "argparse: " + e.Msg
	}
	return fmt.Sprintf("argparse: %s: %s", e.Key, e.Msg)
}

func schemaErrorf(key string, format string, args ...interface{}) *SchemaError {
	return &SchemaError{Key: key, Msg: fmt.Sprintf(format, args...)}
}

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	UnknownArgument ErrorKind = iota + 1
	UnknownCommand
	Redefinition
	ArityError
	MissingMandatory
	MissingRequired
	NotEnoughPositionals
	UnparsedParameter
)

var errorKindNames = map[ErrorKind]string{
	UnknownArgument:      "unknown argument",
	UnknownCommand:       "unknown command",
	Redefinition:         "redefinition",
	ArityError:           "arity error",
	MissingMandatory:     "missing mandatory argument",
	MissingRequired:      "missing required argument",
	NotEnoughPositionals: "not enough positional arguments",
	UnparsedParameter:    "unparsed parameter",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// ParseError is returned for any input the parser rejects. It carries
// enough context for callers to format their own message: the offending
// key, the raw text, the expected arity and, for unknown arguments, the
// closest declared name.
type ParseError struct {
	Kind       ErrorKind
	Command    string
	Key        string
	Text       string
	Suggestion string
	Arity      Arity
	Got        int
	Missing    []string
	Err        error
}

func (e *ParseError) Error() string {
	var msg string
	switch e.Kind {
	case UnknownArgument:
		msg = fmt.Sprintf("unknown argument %q", e.Text)
	case UnknownCommand:
		msg = fmt.Sprintf("unknown command %q", e.Text)
	case Redefinition:
		msg = fmt.Sprintf("argument %s given more than once", e.Key)
	case ArityError:
		msg = fmt.Sprintf("argument %s expects %s parameter(s), got %d", e.Key, e.Arity, e.Got)
	case MissingMandatory:
		msg = fmt.Sprintf("mandatory argument %s not set", e.Key)
	case MissingRequired:
		msg = fmt.Sprintf("one of %s is required", strings.Join(e.Missing, ", "))
	case NotEnoughPositionals:
		msg = fmt.Sprintf("not enough positional arguments: %s expects %s parameter(s), got %d", e.Key, e.Arity, e.Got)
	case UnparsedParameter:
		msg = fmt.Sprintf("invalid parameter %q for %s", e.Text, e.Key)
	default:
		msg = e.Kind.String()
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Did you mean %s?", e.Suggestion)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Command != "" {
		msg = e.Command + ": " + msg
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind of the first ParseError in err's chain, or
// zero if there is none.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
