package argparse

import (
	"context"
	"encoding"
	"reflect"
	"strings"
	"time"

	"github.com/huandu/xstrings"
	"github.com/pkg/errors"
)

// Runner is implemented by bound configs whose command has an action.
type Runner interface {
	Run() error
}

// ContextRunner is like Runner, receiving the context passed to
// ParseResult.Run.
type ContextRunner interface {
	Run(context.Context) error
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	timeType            = reflect.TypeOf(time.Time{})
	durationType        = reflect.TypeOf(time.Duration(0))
)

// Bind declares an option for every exported field of the struct config
// points to, in field order. The option key is "--" followed by the
// kebab-cased field name unless the field has a name tag. Current field
// values become the defaults.
//
// Fields are controlled with `arg:"..."` tags:
//
//	F1 string   `arg:"-"`                        // skipped
//	F2 string   `arg:"name=out,short=o"`         // --out, -o
//	F3 string   `arg:"help='the value, or none'"` // help text, quoted to keep commas
//	F4 string   `arg:"env=F4_VALUE"`             // environment fallback
//	F5 string   `arg:"mandatory"`                // must be given
//	F6 string   `arg:"required"`                 // member of the required group
//	F7 string   `arg:"hidden"`                   // omitted from help
//	F8 []string `arg:"append"`                   // repeatable, one value per occurrence
//	F9 []string `arg:"args"`                     // receives positional arguments
//
// Scalar fields are written as soon as their value is converted. Slice
// fields are written when the parse of the command succeeds. Bool fields
// take no parameter. Types implementing encoding.TextUnmarshaler through a
// pointer receiver are decoded with UnmarshalText.
//
// If config implements Runner or ContextRunner, its Run method becomes the
// command's action.
func (cmd *Command) Bind(config any) error {
	v := reflect.ValueOf(config)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return errors.Errorf("config must be a struct pointer (got %T)", config)
	}
	if err := cmd.bindStruct(v.Elem()); err != nil {
		return err
	}
	switch r := config.(type) {
	case ContextRunner:
		cmd.SetAction(r.Run)
	case Runner:
		cmd.SetAction(func(context.Context) error { return r.Run() })
	}
	return nil
}

// MustBind is like Bind, but panics on error.
func (cmd *Command) MustBind(config any) *Command {
	if err := cmd.Bind(config); err != nil {
		panic(err)
	}
	return cmd
}

// sv must be an addressable struct value.
func (cmd *Command) bindStruct(sv reflect.Value) error {
	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Type().Field(i)
		val := sv.Field(i)

		// ignore unexported fields
		if !val.CanSet() {
			continue
		}

		tags, err := parseFieldTags(sf.Tag)
		if err != nil {
			return errors.Wrapf(err, "problem with field %s.%s", sv.Type(), sf.Name)
		}
		if tags.exclude {
			continue
		}

		switch {
		case (sf.Anonymous || tags.embed) && val.Kind() == reflect.Struct:
			err = cmd.bindStruct(val)
		case tags.args:
			err = cmd.bindArgs(sf, val, tags)
		default:
			err = cmd.bindField(sf, val, tags)
		}
		if err != nil {
			return errors.Wrapf(err, "problem with field %s.%s", sv.Type(), sf.Name)
		}
	}
	return nil
}

func (cmd *Command) bindField(sf reflect.StructField, val reflect.Value, tags fieldTags) error {
	name := tags.name
	if name == "" {
		name = xstrings.ToKebabCase(sf.Name)
	}
	names := "--" + name
	if tags.short != "" {
		names += ",-" + tags.short
	}

	t := val.Type()
	isSlice := t.Kind() == reflect.Slice && !implementsText(t)
	isPtr := t.Kind() == reflect.Ptr
	elem := t
	switch {
	case isSlice:
		elem = t.Elem()
	case isPtr:
		elem = t.Elem()
	}

	kind, conv := kindOf(elem)
	if !kind.Valid() {
		return errors.Errorf("unsupported type %s", t)
	}

	arity := Single
	switch {
	case isSlice && !tags.append:
		arity = AtLeast(1)
	case !isSlice && elem.Kind() == reflect.Bool && conv == nil:
		arity = Implicit
	}

	var convs []Conversion
	if conv != nil {
		convs = append(convs, *conv)
	}
	arg, err := cmd.AddOption(names, arity, kind, convs...)
	if err != nil {
		return err
	}
	if isSlice && tags.append {
		arg.Repeatable()
	}
	if err := applyTags(arg, tags); err != nil {
		return err
	}
	if tags.hasDef {
		// a default tag is written to the field right away
		if isSlice {
			err = setSlice(val, arg.Value())
		} else {
			err = fieldSink(val).Write(arg.Value())
		}
		if err != nil {
			return err
		}
	}

	switch {
	case isSlice:
		if val.Len() > 0 && !tags.hasDef {
			items := make([]any, val.Len())
			for i := range items {
				items[i] = backing(val.Index(i), kind)
			}
			arg.Default(kind.Slice(items))
		}
		cmd.finalizers = append(cmd.finalizers, func() error {
			if !arg.IsSet() {
				return nil
			}
			return setSlice(val, arg.Value())
		})
	case isPtr:
		if !val.IsNil() && !tags.hasDef {
			arg.Default(backing(val.Elem(), kind))
		}
		arg.Sink(fieldSink(val))
	default:
		if !tags.hasDef {
			arg.Default(backing(val, kind))
		}
		arg.Sink(fieldSink(val))
	}
	return nil
}

func (cmd *Command) bindArgs(sf reflect.StructField, val reflect.Value, tags fieldTags) error {
	if val.Type() != reflect.TypeOf([]string(nil)) {
		return errors.New("field has an args tag but type is not a slice of strings")
	}
	name := tags.name
	if name == "" {
		name = xstrings.ToKebabCase(sf.Name)
	}
	arg, err := cmd.AddPositional(name, AtLeast(0), String)
	if err != nil {
		return err
	}
	arg.Help(tags.help)
	if tags.placeholder != "" {
		arg.Placeholder(tags.placeholder)
	}
	cmd.finalizers = append(cmd.finalizers, func() error {
		if !arg.IsSet() {
			return nil
		}
		return setSlice(val, arg.Value())
	})
	return nil
}

func applyTags(arg *Arg, tags fieldTags) error {
	arg.Help(tags.help)
	if tags.placeholder != "" {
		arg.Placeholder(tags.placeholder)
	}
	if tags.env != "" {
		arg.Env(tags.env)
	}
	if tags.mandatory {
		arg.Mandatory()
	}
	if tags.required {
		arg.Required()
	}
	if tags.hidden {
		arg.Hidden()
	}
	if tags.hasDef {
		texts := []string{tags.def}
		if arg.sequence() {
			texts = strings.Fields(tags.def)
		}
		if err := arg.DefaultText(texts...); err != nil {
			return err
		}
	}
	return nil
}

func implementsText(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// kindOf maps a Go type to the Kind storing it. Types implementing
// encoding.TextUnmarshaler are Custom and come with a conversion.
func kindOf(t reflect.Type) (Kind, *Conversion) {
	switch t {
	case timeType:
		return Date, nil
	case durationType:
		return Duration, nil
	}
	if implementsText(t) {
		conv := textConversionOf(t)
		return Custom, &conv
	}
	switch t.Kind() {
	case reflect.Int:
		return Int, nil
	case reflect.Int8:
		return Int8, nil
	case reflect.Int16:
		return Int16, nil
	case reflect.Int32:
		return Int32, nil
	case reflect.Int64:
		return Int64, nil
	case reflect.Uint:
		return Uint, nil
	case reflect.Uint8:
		return Uint8, nil
	case reflect.Uint16:
		return Uint16, nil
	case reflect.Uint32:
		return Uint32, nil
	case reflect.Uint64:
		return Uint64, nil
	case reflect.Float32:
		return Float32, nil
	case reflect.Float64:
		return Float64, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.String:
		return String, nil
	}
	return 0, nil
}

func textConversionOf(t reflect.Type) Conversion {
	return Convert(1, func(params []Param) (any, error) {
		p := reflect.New(t)
		u := p.Interface().(encoding.TextUnmarshaler)
		if err := u.UnmarshalText([]byte(params[0].Text)); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	})
}

// backing converts a field value to the Go type stored for kind, so named
// types like `type Mode string` can serve as defaults.
func backing(v reflect.Value, kind Kind) any {
	if kind == Custom {
		return v.Interface()
	}
	zero := reflect.ValueOf(kind.Zero())
	return v.Convert(zero.Type()).Interface()
}

func fieldSink(target reflect.Value) Sink {
	return SinkFunc(func(v any) error {
		rv := reflect.ValueOf(v)
		t := target.Type()
		if t.Kind() == reflect.Ptr {
			if !rv.CanConvert(t.Elem()) {
				return errors.Wrapf(ErrTypeMismatch, "cannot store %T in %s", v, t)
			}
			p := reflect.New(t.Elem())
			p.Elem().Set(rv.Convert(t.Elem()))
			target.Set(p)
			return nil
		}
		if !rv.CanConvert(t) {
			return errors.Wrapf(ErrTypeMismatch, "cannot store %T in %s", v, t)
		}
		target.Set(rv.Convert(t))
		return nil
	})
}

func setSlice(target reflect.Value, v any) error {
	rv := reflect.ValueOf(v)
	t := target.Type()
	out := reflect.MakeSlice(t, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i)
		if item.Kind() == reflect.Interface {
			item = item.Elem()
		}
		if !item.CanConvert(t.Elem()) {
			return errors.Wrapf(ErrTypeMismatch, "cannot store %s in %s", item.Type(), t)
		}
		out = reflect.Append(out, item.Convert(t.Elem()))
	}
	target.Set(out)
	return nil
}
