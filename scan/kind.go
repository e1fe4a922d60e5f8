package scan

import (
	"fmt"
	"time"
)

// Kind is the type tag of an argument. The set of kinds is closed; Custom
// marks values that are produced by a conversion function instead of the
// scanner.
type Kind int

const (
	Invalid Kind = iota
	Int
	Int8
	Int16
	Int32
	Int64
	Uint
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Bool
	Char
	String
	Date
	Duration
	Custom
)

var kindNames = map[Kind]string{
	Invalid:  "invalid",
	Int:      "int",
	Int8:     "int8",
	Int16:    "int16",
	Int32:    "int32",
	Int64:    "int64",
	Uint:     "uint",
	Uint8:    "uint8",
	Uint16:   "uint16",
	Uint32:   "uint32",
	Uint64:   "uint64",
	Float32:  "float32",
	Float64:  "float64",
	Bool:     "bool",
	Char:     "char",
	String:   "string",
	Date:     "date",
	Duration: "duration",
	Custom:   "custom",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k > Invalid && k <= Custom
}

// Integer reports whether k is a signed or unsigned integer kind.
func (k Kind) Integer() bool {
	return k >= Int && k <= Uint64
}

// Arithmetic reports whether values of kind k support increments and
// numeric choice sets. Char counts as arithmetic.
func (k Kind) Arithmetic() bool {
	return k.Integer() || k == Float32 || k == Float64 || k == Char
}

// Scannable reports whether the scanner has a default conversion for k.
func (k Kind) Scannable() bool {
	return k.Valid() && k != Custom
}

// Zero returns the zero value of the Go type backing k. Custom has no
// backing type and returns nil.
func (k Kind) Zero() any {
	switch k {
	case Int:
		return int(0)
	case Int8:
		return int8(0)
	case Int16:
		return int16(0)
	case Int32:
		return int32(0)
	case Int64:
		return int64(0)
	case Uint:
		return uint(0)
	case Uint8:
		return uint8(0)
	case Uint16:
		return uint16(0)
	case Uint32:
		return uint32(0)
	case Uint64:
		return uint64(0)
	case Float32:
		return float32(0)
	case Float64:
		return float64(0)
	case Bool:
		return false
	case Char:
		return rune(0)
	case String:
		return ""
	case Date:
		return time.Time{}
	case Duration:
		return time.Duration(0)
	}
	return nil
}

// Holds reports whether v has the Go type backing k. Every value is
// accepted for Custom.
func (k Kind) Holds(v any) bool {
	if k == Custom {
		return true
	}
	switch v.(type) {
	case int:
		return k == Int
	case int8:
		return k == Int8
	case int16:
		return k == Int16
	case int32:
		// rune and int32 are the same type
		return k == Int32 || k == Char
	case int64:
		return k == Int64
	case uint:
		return k == Uint
	case uint8:
		return k == Uint8
	case uint16:
		return k == Uint16
	case uint32:
		return k == Uint32
	case uint64:
		return k == Uint64
	case float32:
		return k == Float32
	case float64:
		return k == Float64
	case bool:
		return k == Bool
	case string:
		return k == String
	case time.Time:
		return k == Date
	case time.Duration:
		return k == Duration
	}
	return false
}

// Slice converts a sequence of values of kind k into the matching typed
// slice ([]int for Int, []string for String, ...). Custom sequences are
// returned as []any.
func (k Kind) Slice(items []any) any {
	switch k {
	case Int:
		return typedSlice[int](items)
	case Int8:
		return typedSlice[int8](items)
	case Int16:
		return typedSlice[int16](items)
	case Int32, Char:
		return typedSlice[int32](items)
	case Int64:
		return typedSlice[int64](items)
	case Uint:
		return typedSlice[uint](items)
	case Uint8:
		return typedSlice[uint8](items)
	case Uint16:
		return typedSlice[uint16](items)
	case Uint32:
		return typedSlice[uint32](items)
	case Uint64:
		return typedSlice[uint64](items)
	case Float32:
		return typedSlice[float32](items)
	case Float64:
		return typedSlice[float64](items)
	case Bool:
		return typedSlice[bool](items)
	case String:
		return typedSlice[string](items)
	case Date:
		return typedSlice[time.Time](items)
	case Duration:
		return typedSlice[time.Duration](items)
	}
	out := make([]any, len(items))
	copy(out, items)
	return out
}

// Items is the inverse of Slice: it splits a typed slice of kind k into its
// elements. ok is false if v is not a slice of the kind's type.
func (k Kind) Items(v any) (items []any, ok bool) {
	switch s := v.(type) {
	case []any:
		for _, item := range s {
			if !k.Holds(item) {
				return nil, false
			}
		}
		return append([]any(nil), s...), true
	case []int:
		return untypedSlice(s), k == Int
	case []int8:
		return untypedSlice(s), k == Int8
	case []int16:
		return untypedSlice(s), k == Int16
	case []int32:
		return untypedSlice(s), k == Int32 || k == Char
	case []int64:
		return untypedSlice(s), k == Int64
	case []uint:
		return untypedSlice(s), k == Uint
	case []uint8:
		return untypedSlice(s), k == Uint8
	case []uint16:
		return untypedSlice(s), k == Uint16
	case []uint32:
		return untypedSlice(s), k == Uint32
	case []uint64:
		return untypedSlice(s), k == Uint64
	case []float32:
		return untypedSlice(s), k == Float32
	case []float64:
		return untypedSlice(s), k == Float64
	case []bool:
		return untypedSlice(s), k == Bool
	case []string:
		return untypedSlice(s), k == String
	case []time.Time:
		return untypedSlice(s), k == Date
	case []time.Duration:
		return untypedSlice(s), k == Duration
	}
	return nil, false
}

func typedSlice[T any](items []any) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, item.(T))
	}
	return out
}

func untypedSlice[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
