package argparse

import (
	"github.com/pkg/errors"
)

// Sink receives an argument's value every time an occurrence of the
// argument is converted. Sinks are only attached to arguments that hold a
// single value.
type Sink interface {
	Write(v any) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(v any) error

func (f SinkFunc) Write(v any) error {
	return f(v)
}

type ptrSink[T any] struct {
	p *T
}

// Ptr returns a Sink storing values into *p. The argument's kind must hold
// values of type T.
func Ptr[T any](p *T) Sink {
	return ptrSink[T]{p}
}

func (s ptrSink[T]) Write(v any) error {
	t, ok := v.(T)
	if !ok {
		return errors.Wrapf(ErrTypeMismatch, "cannot store %T in %T", v, s.p)
	}
	*s.p = t
	return nil
}

func (s ptrSink[T]) accepts(kind Kind) bool {
	if kind == Custom {
		return true
	}
	_, ok := kind.Zero().(T)
	return ok
}

// typedSink is implemented by sinks that can check their target type at
// declaration time.
type typedSink interface {
	accepts(kind Kind) bool
}
