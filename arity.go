package argparse

import "fmt"

// Unbounded is the Max of a variadic arity.
const Unbounded = -1

// Arity bounds the number of textual parameters an argument consumes per
// occurrence.
type Arity struct {
	Min int
	Max int
}

var (
	// Implicit arguments take no parameters; their key alone triggers them.
	Implicit = Arity{0, 0}
	// Optional arguments take zero or one parameter.
	Optional = Arity{0, 1}
	// Single arguments take exactly one parameter.
	Single = Arity{1, 1}
)

func Exactly(n int) Arity {
	return Arity{n, n}
}

func Between(min, max int) Arity {
	return Arity{min, max}
}

// AtLeast returns a variadic arity.
func AtLeast(min int) Arity {
	return Arity{min, Unbounded}
}

func (a Arity) IsImplicit() bool {
	return a.Min == 0 && a.Max == 0
}

func (a Arity) IsVariadic() bool {
	return a.Max == Unbounded
}

// accepts reports whether another parameter can be consumed once
// taken parameters have been.
func (a Arity) accepts(taken int) bool {
	return a.IsVariadic() || taken < a.Max
}

// params is the number of textual parameters a Conversion must declare for
// this arity.
func (a Arity) params() int {
	switch {
	case a.IsVariadic():
		return 1
	default:
		return a.Max
	}
}

func (a Arity) valid() bool {
	if a.Min < 0 {
		return false
	}
	return a.IsVariadic() || a.Max >= a.Min
}

func (a Arity) String() string {
	switch {
	case a.IsVariadic():
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}
