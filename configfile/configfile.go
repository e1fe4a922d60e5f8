// Package configfile loads argument defaults from YAML or TOML documents.
//
// Top-level keys name options of the command, with or without their
// leading dashes. A nested table whose key names a child command applies
// to that child. Values given on the command line or through the
// environment still take precedence, since loaded values only become
// defaults.
package configfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/isobit/argparse"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	YAML Format = iota + 1
	TOML
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// FormatOf picks a format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return 0, errors.Errorf("unknown config file extension %q", filepath.Ext(path))
}

// LoadFile is like Load, reading path and picking the format from its
// extension.
func LoadFile(cmd *argparse.Command, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrapf(Load(cmd, f, format), "failed to load %s", path)
}

// Load decodes a document from r and applies its entries as defaults of
// cmd's arguments.
func Load(cmd *argparse.Command, r io.Reader, format Format) error {
	doc := map[string]any{}
	switch format {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return errors.Wrap(err, "failed to decode yaml")
		}
	case TOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return errors.Wrap(err, "failed to decode toml")
		}
	default:
		return errors.Errorf("unsupported format %s", format)
	}
	return Apply(cmd, doc)
}

// Apply applies an already decoded document.
func Apply(cmd *argparse.Command, doc map[string]any) error {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := doc[key]
		if table, ok := val.(map[string]any); ok {
			sub := child(cmd, key)
			if sub == nil {
				return errors.Errorf("%s: unknown command %q", cmd.Path(), key)
			}
			if err := Apply(sub, table); err != nil {
				return err
			}
			continue
		}
		arg := lookup(cmd, key)
		if arg == nil {
			return errors.Errorf("%s: unknown key %q", cmd.Path(), key)
		}
		if err := setDefault(arg, val); err != nil {
			return errors.Wrapf(err, "%s: %s", cmd.Path(), key)
		}
	}
	return nil
}

func child(cmd *argparse.Command, name string) *argparse.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

func lookup(cmd *argparse.Command, key string) *argparse.Arg {
	for _, k := range []string{key, "--" + key, "-" + key} {
		if arg := cmd.Lookup(k); arg != nil {
			return arg
		}
	}
	return nil
}

func setDefault(arg *argparse.Arg, val any) error {
	if list, ok := val.([]any); ok {
		if !arg.IsSequence() {
			return errors.New("list given for a single-valued argument")
		}
		texts := make([]string, len(list))
		for i, item := range list {
			texts[i] = fmt.Sprint(item)
		}
		return arg.DefaultText(texts...)
	}
	if !arg.IsSequence() && arg.Kind() != argparse.Custom && arg.Kind().Holds(val) {
		arg.Default(val)
		return nil
	}
	return arg.DefaultText(fmt.Sprint(val))
}
