// Package scan converts raw argument text into typed values.
//
// Every function in this package is pure. A token is only accepted when it
// is consumed completely: "1abc" is not an int, and a date only parses when
// formatting the result with the same format reproduces the input.
package scan

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ncruces/go-strftime"
	"github.com/pkg/errors"
)

// DefaultDateFormat is the strftime format used for Date values when an
// argument does not declare its own.
const DefaultDateFormat = "%Y-%m-%dT%H:%M:%S"

var (
	ErrSyntax    = errors.New("invalid syntax")
	ErrRange     = errors.New("value out of range")
	ErrEmpty     = errors.New("empty value")
	ErrRoundTrip = errors.New("value does not match format")
)

// Error reports a token that could not be converted to the requested type.
type Error struct {
	Text string
	Type string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot convert %q to %s: %s", e.Text, e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Overflow reports whether the conversion failed because the value does not
// fit the target width.
func (e *Error) Overflow() bool {
	return errors.Is(e.Err, ErrRange)
}

func fail(text string, typ string, err error) *Error {
	return &Error{Text: text, Type: typ, Err: err}
}

var (
	trueWords  = []string{"true", "1", "yes", "on", "enable"}
	falseWords = []string{"false", "0", "no", "off", "disable"}
)

// Value scans text as a value of kind. format is only used for Date and
// defaults to DefaultDateFormat when empty. Custom kinds are never scanned
// and always fail.
func Value(kind Kind, text string, format string) (any, error) {
	switch kind {
	case Int:
		return Signed[int](text)
	case Int8:
		return Signed[int8](text)
	case Int16:
		return Signed[int16](text)
	case Int32:
		return Signed[int32](text)
	case Int64:
		return Signed[int64](text)
	case Uint:
		return Unsigned[uint](text)
	case Uint8:
		return Unsigned[uint8](text)
	case Uint16:
		return Unsigned[uint16](text)
	case Uint32:
		return Unsigned[uint32](text)
	case Uint64:
		return Unsigned[uint64](text)
	case Float32:
		return Float[float32](text)
	case Float64:
		return Float[float64](text)
	case Bool:
		return ParseBool(text)
	case Char:
		return ParseChar(text)
	case String:
		return text, nil
	case Date:
		return ParseDate(text, format)
	case Duration:
		return ParseDuration(text)
	}
	return nil, fail(text, kind.String(), errors.Errorf("no scanner for kind %s", kind))
}

// splitBase strips an optional sign and a 0x/0X prefix. Anything without
// the prefix is decimal.
func splitBase(text string) (sign string, digits string, base int) {
	digits = text
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		sign, digits = digits[:1], digits[1:]
	}
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return sign, digits[2:], 16
	}
	return sign, digits, 10
}

func numError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
		return ErrRange
	}
	return ErrSyntax
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type float interface {
	~float32 | ~float64
}

// Signed scans a signed integer and narrows it to T. The value is parsed at
// 64 bits and rejected with ErrRange unless T represents it exactly.
func Signed[T signed](text string) (T, error) {
	typ := fmt.Sprintf("%T", T(0))
	sign, digits, base := splitBase(text)
	if digits == "" || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return 0, fail(text, typ, ErrSyntax)
	}
	v, err := strconv.ParseInt(sign+digits, base, 64)
	if err != nil {
		return 0, fail(text, typ, numError(err))
	}
	if int64(T(v)) != v {
		return 0, fail(text, typ, ErrRange)
	}
	return T(v), nil
}

// Unsigned scans an unsigned integer and narrows it to T.
func Unsigned[T unsigned](text string) (T, error) {
	typ := fmt.Sprintf("%T", T(0))
	sign, digits, base := splitBase(text)
	if sign == "-" || digits == "" || strings.HasPrefix(digits, "+") || strings.HasPrefix(digits, "-") {
		return 0, fail(text, typ, ErrSyntax)
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fail(text, typ, numError(err))
	}
	if uint64(T(v)) != v {
		return 0, fail(text, typ, ErrRange)
	}
	return T(v), nil
}

// Float scans a decimal or scientific floating point number.
func Float[T float](text string) (T, error) {
	typ := fmt.Sprintf("%T", T(0))
	bits := 64
	if typ == "float32" {
		bits = 32
	}
	v, err := strconv.ParseFloat(text, bits)
	if err != nil {
		return 0, fail(text, typ, numError(err))
	}
	return T(v), nil
}

// ParseBool matches text case-insensitively against the positive words
// (true, 1, yes, on, enable) and negative words (false, 0, no, off, disable).
func ParseBool(text string) (bool, error) {
	for _, w := range trueWords {
		if strings.EqualFold(text, w) {
			return true, nil
		}
	}
	for _, w := range falseWords {
		if strings.EqualFold(text, w) {
			return false, nil
		}
	}
	return false, fail(text, "bool", ErrSyntax)
}

// ParseChar returns the code of a one-character token. Longer tokens are
// scanned as integers and narrowed to a signed byte, so "123" is 123 and
// "-123" is -123.
func ParseChar(text string) (rune, error) {
	if text == "" {
		return 0, fail(text, "char", ErrEmpty)
	}
	if utf8.RuneCountInString(text) == 1 {
		r, _ := utf8.DecodeRuneInString(text)
		if r == utf8.RuneError {
			return 0, fail(text, "char", ErrSyntax)
		}
		return r, nil
	}
	v, err := Signed[int8](text)
	if err != nil {
		return 0, fail(text, "char", err.(*Error).Err)
	}
	return rune(v), nil
}

// ParseDate parses text with a strftime format and confirms the result by
// formatting it again: the output must be identical to the trimmed input.
func ParseDate(text string, format string) (time.Time, error) {
	if format == "" {
		format = DefaultDateFormat
	}
	normalized := strings.TrimSpace(text)
	t, err := strftime.Parse(format, normalized)
	if err != nil {
		return time.Time{}, fail(text, "date", errors.Wrap(ErrSyntax, err.Error()))
	}
	if strftime.Format(format, t) != normalized {
		return time.Time{}, fail(text, "date", ErrRoundTrip)
	}
	return t, nil
}

// ValidDateFormat reports whether format can be used for parsing dates.
func ValidDateFormat(format string) error {
	if format == "" {
		return errors.New("empty date format")
	}
	if _, err := strftime.Layout(format); err != nil {
		return errors.Wrapf(err, "invalid date format %q", format)
	}
	return nil
}

// FormatDate formats t with a strftime format.
func FormatDate(t time.Time, format string) string {
	if format == "" {
		format = DefaultDateFormat
	}
	return strftime.Format(format, t)
}

// ParseDuration parses a Go duration string such as "1h30m".
func ParseDuration(text string) (time.Duration, error) {
	d, err := time.ParseDuration(text)
	if err != nil {
		return 0, fail(text, "duration", ErrSyntax)
	}
	return d, nil
}
