package argparse

import "github.com/isobit/argparse/scan"

// Kind is the type tag of an argument's values. See the scan package for
// the Go type backing each kind.
type Kind = scan.Kind

const (
	Int      = scan.Int
	Int8     = scan.Int8
	Int16    = scan.Int16
	Int32    = scan.Int32
	Int64    = scan.Int64
	Uint     = scan.Uint
	Uint8    = scan.Uint8
	Uint16   = scan.Uint16
	Uint32   = scan.Uint32
	Uint64   = scan.Uint64
	Float32  = scan.Float32
	Float64  = scan.Float64
	Bool     = scan.Bool
	Char     = scan.Char
	String   = scan.String
	Date     = scan.Date
	Duration = scan.Duration
	Custom   = scan.Custom
)
