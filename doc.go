/*
Package argparse declares, tokenizes and binds command line arguments.

A Command is a registry of options, positional arguments and child
commands. Every argument has an arity bounding how many parameters it takes
per occurrence, and a Kind deciding how parameters are converted.

Example

		cmd := argparse.New("greet")
		cmd.Option("--excited,-e", argparse.Implicit, argparse.Bool).
			Help("use an exclamation point")
		cmd.Option("--greeting", argparse.Single, argparse.String).
			Env("GREETING").
			Default("Hey")
		cmd.Positional("name", argparse.AtLeast(1), argparse.String)

		r := cmd.ParseArgs(os.Args[1:])
		if r.Err != nil {
			fmt.Fprintln(os.Stderr, r.Err)
			cmd.WriteHelp(os.Stderr)
			os.Exit(2)
		}
		names := argparse.MustGet[[]string](cmd, "name")

Tokens

Before matching, tokens are normalized:

		--count=3     key and value split at the first '='
		-i123         single-parameter key followed directly by its value
		-vvv, -abc    implicit keys joined together
		--int -123    a key's mandatory parameters are never read as keys

Positional arguments bind, in declaration order, to tokens that are not
keys. A token naming a child command hands every remaining token to the
child.

Errors

Declarations that are inconsistent fail with a *SchemaError: AddOption and
friends return it, Option and friends panic with it. Parse failures are
reported as a *ParseError whose Kind classifies the failure; parsing stops
at the first one, and everything bound before it stays readable.

Struct binding

Bind declares options from the exported fields of a struct and writes
parsed values back into it. See Bind for the supported `arg:"..."` tags.
*/
package argparse
