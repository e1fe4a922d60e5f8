package argparse

import (
	"context"
	"os/signal"
	"syscall"
)

// ContextWithSigCancel derives a context that is canceled when the process
// receives SIGINT or SIGTERM. Call the returned function to stop listening.
func ContextWithSigCancel(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// RunWithSigCancel is like Run, but the context passed to the action is
// canceled on SIGINT or SIGTERM.
func (r ParseResult) RunWithSigCancel(ctx context.Context) error {
	ctx, stop := ContextWithSigCancel(ctx)
	defer stop()
	return r.Run(ctx)
}
