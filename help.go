package argparse

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"text/template"
	"time"

	"github.com/isobit/argparse/scan"
)

var usageTemplateString = `{{.Name}}{{if .Options}} [OPTIONS]{{end}}{{range .Positionals}} {{.Usage}}{{end}}{{if and .Commands (not .Command)}} <COMMAND>{{end}}`
var helpTemplateString = `
{{- if .Help -}}
{{.Help}}

{{end -}}
USAGE:
    {{.Usage}}

{{- if .Description}}

{{.Description}}
{{- end}}

{{- if .Positionals}}

ARGUMENTS:
{{- range .Positionals}}
\t    \t{{.Usage}}\t
{{- if .Help}}  {{.Help}}{{end}}
{{- if .Default}}  (default: {{.Default}}){{end}}
{{- end}}

{{- end}}

{{- if .Options}}

OPTIONS:
{{- range .Options}}
\t    \t{{.Names}}
{{- if .Value}} {{.Value}}{{end}}\t
{{- if .Help}}  {{.Help}}{{end}}
{{- if .Choices}}  (one of: {{.Choices}}){{end}}
{{- if .Default}}  (default: {{.Default}}){{end}}
{{- if .Env}}  (env: {{.Env}}){{end}}
{{- if .Mandatory}}  (mandatory){{end}}
{{- end}}

{{- end}}

{{- if .Commands}}

COMMANDS:
{{- range .Commands}}
\t    \t{{.Name}}\t
{{- if .Help}}  {{.Help}}{{end}}
{{- end}}

{{- end}}

`

var helpTemplate = template.Must(template.New("help").Parse(helpTemplateString))

var usageTemplate = template.Must(template.New("usage").Parse(usageTemplateString))

type helpArg struct {
	Names     string
	Usage     string
	Value     string
	Help      string
	Choices   string
	Default   string
	Env       string
	Mandatory bool
}

type helpCommand struct {
	Name string
	Help string
}

func newHelpArg(a *Arg) helpArg {
	h := helpArg{
		Names:     strings.Join(a.Names(), ", "),
		Help:      a.help,
		Env:       a.envName,
		Mandatory: a.mandatory,
	}
	if len(a.choices) > 0 {
		h.Choices = formatChoices(a.kind, a.choices)
	}
	if def, ok := a.DefaultValue(); ok {
		h.Default = formatDefault(a, def)
	}
	placeholder := a.PlaceholderText()
	if a.kind == Date && a.placeholder == "" {
		placeholder = dateFormatHelp(a)
	}
	if !a.arity.IsImplicit() {
		h.Value = valueUsage(placeholder, a.arity)
	}
	h.Usage = valueUsage(placeholder, a.arity)
	return h
}

// valueUsage renders the parameters of an arity: <V>, [<V>], <V>...
func valueUsage(placeholder string, arity Arity) string {
	one := "<" + placeholder + ">"
	var parts []string
	for i := 0; i < arity.Min; i++ {
		parts = append(parts, one)
	}
	switch {
	case arity.IsVariadic():
		if arity.Min == 0 {
			parts = append(parts, "["+one+"...]")
		} else {
			parts[len(parts)-1] += "..."
		}
	default:
		for i := arity.Min; i < arity.Max; i++ {
			parts = append(parts, "["+one+"]")
		}
	}
	return strings.Join(parts, " ")
}

func formatDefault(a *Arg, v any) string {
	if items, ok := a.kind.Items(v); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if p := formatDefault(a, item); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, " ")
	}
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return scan.FormatDate(x, a.dateFormat)
	case bool:
		if !x {
			return ""
		}
	case rune:
		if a.kind == Char {
			return fmt.Sprintf("%q", x)
		}
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func (cmd *Command) usage(command string) string {
	data := struct {
		Name        string
		Options     bool
		Positionals []helpArg
		Commands    bool
		Command     string
	}{
		Name:     cmd.name,
		Commands: cmd.commands.Len() > 0,
		Command:  command,
	}
	for _, a := range cmd.Args() {
		switch {
		case a.positional:
			data.Positionals = append(data.Positionals, newHelpArg(a))
		case !a.hidden:
			data.Options = true
		}
	}

	sb := strings.Builder{}
	if cmd.parent != nil {
		sb.WriteString(cmd.parent.usage(cmd.name))
		sb.WriteString(" ")
	}
	usageTemplate.Execute(&sb, data)
	return sb.String()
}

// HelpString returns the help text WriteHelp writes.
func (cmd *Command) HelpString() string {
	sb := strings.Builder{}
	cmd.WriteHelp(&sb)
	return sb.String()
}

// WriteHelp renders usage, arguments, options and child commands. Hidden
// options are left out.
func (cmd *Command) WriteHelp(w io.Writer) {
	data := struct {
		Usage       string
		Help        string
		Description string
		Positionals []helpArg
		Options     []helpArg
		Commands    []helpCommand
	}{
		Usage:       cmd.usage(""),
		Help:        cmd.help,
		Description: cmd.description,
	}
	for _, a := range cmd.Args() {
		switch {
		case a.positional:
			data.Positionals = append(data.Positionals, newHelpArg(a))
		case !a.hidden:
			data.Options = append(data.Options, newHelpArg(a))
		}
	}
	for _, sub := range cmd.Commands() {
		data.Commands = append(data.Commands, helpCommand{Name: sub.name, Help: sub.help})
	}

	tw := newEscapedTabWriter(w)
	err := helpTemplate.Execute(tw, data)
	if err != nil {
		panic(err)
	}
	tw.Flush()
}

// dateFormatHelp is shown as the placeholder of date arguments without one.
func dateFormatHelp(a *Arg) string {
	if a.dateFormat != "" {
		return a.dateFormat
	}
	return scan.DefaultDateFormat
}

type escapedTabWriter struct {
	replacer  *strings.Replacer
	tabWriter *tabwriter.Writer
}

func newEscapedTabWriter(w io.Writer) escapedTabWriter {
	return escapedTabWriter{
		replacer:  strings.NewReplacer(`\t`, "\t", `\f`, "\f"),
		tabWriter: tabwriter.NewWriter(w, 0, 0, 0, ' ', 0),
	}
}

func (w escapedTabWriter) Write(p []byte) (int, error) {
	return w.replacer.WriteString(w.tabWriter, string(p))
}

func (w escapedTabWriter) Flush() error {
	return w.tabWriter.Flush()
}
