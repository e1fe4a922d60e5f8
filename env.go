package argparse

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/isobit/argparse/scan"
	"github.com/pkg/errors"
)

// Env is a source of environment variables for options declared with
// Arg.Env.
type Env interface {
	Lookup(key string) (value string, ok bool)
}

type OSEnv struct{}

func (OSEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

type MapEnv struct {
	Data map[string]string
}

func NewMapEnv(data map[string]string) MapEnv {
	return MapEnv{Data: data}
}

func (me MapEnv) Lookup(key string) (string, bool) {
	value, ok := me.Data[key]
	return value, ok
}

// EnvFile holds the variables of a KEY=VAL file.
type EnvFile struct {
	data map[string]string
}

func (ef EnvFile) Lookup(key string) (string, bool) {
	value, ok := ef.data[key]
	return value, ok
}

// ParseEnvFile reads a file of KEY=VAL lines. Blank lines and lines
// starting with '#' or '//' are skipped.
func ParseEnvFile(path string) (*EnvFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadEnvFile(file)
}

// ReadEnvFile is like ParseEnvFile, reading from r.
func ReadEnvFile(r io.Reader) (*EnvFile, error) {
	data := map[string]string{}
	scanner := bufio.NewScanner(r)
	for i := 1; scanner.Scan(); i++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, errors.Errorf("error on line %d: not of form KEY=VAL", i)
		}
		data[kv[0]] = kv[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &EnvFile{data}, nil
}

// applyEnv sets any options not given on the command line from the
// environment variable named by Arg.Env, if present. Values from the
// environment count as set.
func (m *matcher) applyEnv() error {
	env := m.cmd.lookupEnv()
	for _, arg := range m.cmd.Args() {
		if arg.envName == "" || arg.positional || arg.IsSet() {
			continue
		}
		val, ok := env.Lookup(arg.envName)
		if !ok {
			continue
		}
		m.log.Debug("using environment variable", "key", arg.key, "env", arg.envName)
		if err := arg.occurEnv(val); err != nil {
			m.cmd.lastUnparsed = arg
			return errors.Wrapf(err, "environment variable %s", arg.envName)
		}
	}
	return nil
}

// occurEnv applies an environment value. Implicit options read it as a
// bool and only occur when it is true; options taking several parameters
// split it on whitespace.
func (a *Arg) occurEnv(val string) error {
	switch {
	case a.arity.IsImplicit():
		on, err := scan.ParseBool(val)
		if err != nil {
			return a.unparsed(val, err)
		}
		if !on {
			return nil
		}
		return a.occur(nil)
	case a.arity.Max == 1:
		return a.occur([]string{val})
	}
	params := strings.Fields(val)
	if len(params) < a.arity.Min || (!a.arity.IsVariadic() && len(params) > a.arity.Max) {
		return &ParseError{Kind: ArityError, Key: a.key, Text: val, Arity: a.arity, Got: len(params)}
	}
	return a.occur(params)
}
