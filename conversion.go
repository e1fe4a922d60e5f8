package argparse

import (
	"encoding"
	"encoding/base64"

	"github.com/pkg/errors"
)

// Param is one textual parameter handed to a Conversion. Present is false
// for an optional parameter slot that received no token.
type Param struct {
	Text    string
	Present bool
}

// Conversion turns the textual parameters of one occurrence into a value,
// replacing the default scanner. Params is the number of parameters Func
// expects: 0 for implicit arguments, 1 for variadic arguments (Func is then
// called once per token) and the arity's Max otherwise. Any values Func
// needs besides its parameters are captured by the closure.
type Conversion struct {
	Params int
	Func   func(params []Param) (any, error)
}

// Convert is shorthand for a Conversion literal.
func Convert(params int, fn func(params []Param) (any, error)) Conversion {
	return Conversion{Params: params, Func: fn}
}

func (c Conversion) call(params []Param) (any, error) {
	if c.Func == nil {
		return nil, errors.New("conversion has no function")
	}
	return c.Func(params)
}

// TextConversion returns a single-parameter Conversion that decodes the
// parameter into a T with its UnmarshalText method.
func TextConversion[T any, PT interface {
	*T
	encoding.TextUnmarshaler
}]() Conversion {
	return Convert(1, func(params []Param) (any, error) {
		var v T
		if err := PT(&v).UnmarshalText([]byte(params[0].Text)); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// BinaryConversion is like TextConversion for encoding.BinaryUnmarshaler.
func BinaryConversion[T any, PT interface {
	*T
	encoding.BinaryUnmarshaler
}]() Conversion {
	return Convert(1, func(params []Param) (any, error) {
		var v T
		if err := PT(&v).UnmarshalBinary([]byte(params[0].Text)); err != nil {
			return nil, err
		}
		return v, nil
	})
}

// Base64String is a byte slice that can be unmarshaled from a standard (RFC
// 4648) base64-encoded string.
type Base64String []byte

func (b *Base64String) UnmarshalText(src []byte) error {
	enc := base64.StdEncoding
	dbuf := make([]byte, enc.DecodedLen(len(src)))
	n, err := enc.Decode(dbuf, src)
	if err != nil {
		return err
	}
	*b = dbuf[:n]
	return nil
}

// Base64Conversion decodes a base64 parameter into a Base64String.
var Base64Conversion = TextConversion[Base64String]()
