package argparse

import (
	"github.com/pkg/errors"
)

// Get returns the value of the argument named key, which may be a
// canonical key, an alias or a positional name. Sequence-valued arguments
// return typed slices ([]int, []string, ...). Unset arguments return their
// default, or the zero value of the kind.
func Get[T any](cmd *Command, key string) (T, error) {
	var zero T
	if !cmd.parsed {
		return zero, ErrNotParsed
	}
	arg := cmd.Lookup(key)
	if arg == nil {
		return zero, errors.Wrapf(ErrUnknownKey, "%q", key)
	}
	v := arg.Value()
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, errors.Wrapf(ErrTypeMismatch, "%s holds %T, not %T", arg.key, v, zero)
	}
	return t, nil
}

// MustGet is like Get, but panics on error.
func MustGet[T any](cmd *Command, key string) T {
	v, err := Get[T](cmd, key)
	if err != nil {
		panic(err)
	}
	return v
}
