// Package slog provides --log-level and --log-json options that configure
// the default log/slog logger.
package slog

import (
	"io"
	"log/slog"
	"os"

	"github.com/isobit/argparse"
)

// Options can be embedded in a config passed to argparse.Command.Bind, or
// declared on its own with Declare.
type Options struct {
	LogLevel slog.Level `arg:"name=log-level,env=LOG_LEVEL,placeholder=LEVEL,help='minimum level: debug, info, warn or error'"`
	LogJSON  bool       `arg:"name=log-json,env=LOG_JSON,help=write logs as JSON"`
}

// Declare adds the logging options to cmd.
func (opts *Options) Declare(cmd *argparse.Command) error {
	return cmd.Bind(opts)
}

// Handler returns a text or JSON handler writing to w at the configured
// level.
func (opts *Options) Handler(w io.Writer, handlerOpts *slog.HandlerOptions) slog.Handler {
	if handlerOpts == nil {
		handlerOpts = &slog.HandlerOptions{}
	}
	handlerOpts.Level = opts.LogLevel

	if opts.LogJSON {
		return slog.NewJSONHandler(w, handlerOpts)
	}
	return slog.NewTextHandler(w, handlerOpts)
}

func (opts *Options) ConfigureWithHandlerOptions(w io.Writer, handlerOpts *slog.HandlerOptions) {
	slog.SetDefault(slog.New(opts.Handler(w, handlerOpts)))
}

// Configure installs a default logger writing to stderr.
func (opts *Options) Configure() {
	opts.ConfigureWithHandlerOptions(os.Stderr, nil)
}
