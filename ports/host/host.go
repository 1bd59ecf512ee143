// Package host defines the boundary between a stand-in actor and the runtime
// that delivers messages to it. A runtime must deliver messages to a handler
// one at a time, in arrival order; the handler itself holds no locks.
package host

import (
	"context"
	"errors"
	"log/slog"
)

// ErrStopped is returned by Send after the stand-in has stopped.
var ErrStopped = errors.New("stand-in stopped")

// Handler is the single entry point a runtime drives: one runtime-typed
// message in, one runtime-typed result (or error) out. The context is the
// delivery context supplied by the runtime.
type Handler func(ctx context.Context, msg any) (any, error)

// Ref is a handle to a running stand-in actor.
type Ref interface {
	// ID identifies the stand-in, for logs and metrics.
	ID() string
	// Send delivers one message and blocks for its result. The error is
	// either a dispatch failure from the handler or a delivery failure from
	// the runtime.
	Send(ctx context.Context, msg any) (any, error)
	// Stop shuts the stand-in down. Idempotent.
	Stop()
	// Done is closed once the stand-in has fully stopped.
	Done() <-chan struct{}
}

// Runtime starts stand-in actors backed by handlers.
type Runtime interface {
	Start(ctx context.Context, h Handler, opts ...StartOption) (Ref, error)
}

// StartOptions configures one stand-in.
type StartOptions struct {
	ID          string       // defaults to a generated id
	MailboxSize int          // defaults to 64
	Logger      *slog.Logger // defaults to slog.Default()
}

// StartOption mutates StartOptions.
type StartOption func(*StartOptions)

// WithID sets the stand-in id.
func WithID(id string) StartOption {
	return func(o *StartOptions) { o.ID = id }
}

// WithMailboxSize sets the mailbox buffer size.
func WithMailboxSize(n int) StartOption {
	return func(o *StartOptions) { o.MailboxSize = n }
}

// WithLogger sets the logger for runtime diagnostics.
func WithLogger(log *slog.Logger) StartOption {
	return func(o *StartOptions) { o.Logger = log }
}
