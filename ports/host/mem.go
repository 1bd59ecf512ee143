package host

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const defaultMailboxSize = 64

// MemRuntime is the in-process Runtime: each stand-in runs on its own
// goroutine and drains a buffered mailbox, so handler invocations for one
// stand-in are serialized in arrival order.
type MemRuntime struct {
	log *slog.Logger
}

// MemRuntimeConfig configures a MemRuntime.
type MemRuntimeConfig struct {
	Logger *slog.Logger // defaults to slog.Default()
}

// NewMemRuntime creates an in-process runtime.
func NewMemRuntime(cfg MemRuntimeConfig) *MemRuntime {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &MemRuntime{log: log}
}

var _ Runtime = (*MemRuntime)(nil)

type reply struct {
	result any
	err    error
}

type envelope struct {
	ctx   context.Context
	msg   any
	reply chan reply
}

type memRef struct {
	id      string
	log     *slog.Logger
	mailbox chan envelope

	stop chan struct{}
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

// Start launches a stand-in backed by h. The stand-in stops when Stop is
// called or ctx is cancelled; in-flight Sends then fail with ErrStopped.
func (r *MemRuntime) Start(ctx context.Context, h Handler, opts ...StartOption) (Ref, error) {
	if h == nil {
		return nil, fmt.Errorf("host: nil handler")
	}

	o := StartOptions{
		MailboxSize: defaultMailboxSize,
		Logger:      r.log,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ID == "" {
		o.ID = "standin-" + gonanoid.Must(8)
	}
	if o.Logger == nil {
		o.Logger = r.log
	}

	ref := &memRef{
		id:      o.ID,
		log:     o.Logger.With(slog.String("standin", o.ID)),
		mailbox: make(chan envelope, o.MailboxSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go ref.loop(ctx, h)

	return ref, nil
}

func (ref *memRef) ID() string { return ref.id }

// Send delivers msg and blocks for the handler's result.
func (ref *memRef) Send(ctx context.Context, msg any) (any, error) {
	if ref.isClosed() {
		return nil, ErrStopped
	}

	env := envelope{ctx: ctx, msg: msg, reply: make(chan reply, 1)}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("send failed: %w", ctx.Err())
	case <-ref.stop:
		return nil, ErrStopped
	case ref.mailbox <- env:
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("send failed: %w", ctx.Err())
	case <-ref.done:
		return nil, ErrStopped
	case rep := <-env.reply:
		return rep.result, rep.err
	}
}

// Stop shuts the stand-in down and waits for the loop to exit.
func (ref *memRef) Stop() {
	ref.mu.Lock()
	if ref.closed {
		ref.mu.Unlock()
		<-ref.done
		return
	}
	ref.closed = true
	ref.mu.Unlock()

	close(ref.stop)
	<-ref.done
}

func (ref *memRef) Done() <-chan struct{} { return ref.done }

func (ref *memRef) isClosed() bool {
	ref.mu.Lock()
	defer ref.mu.Unlock()
	return ref.closed
}

func (ref *memRef) loop(ctx context.Context, h Handler) {
	defer close(ref.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ref.stop:
			return
		case env := <-ref.mailbox:
			res, err := ref.safeHandle(h, env)
			env.reply <- reply{result: res, err: err}
		}
	}
}

// safeHandle invokes the handler with crash containment: a panicking handler
// fails the send instead of killing the loop.
func (ref *memRef) safeHandle(h Handler, env envelope) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			ref.log.Error("stand-in handler panicked",
				slog.Any("recovered", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("stand-in handler panicked: %v", r)
		}
	}()
	return h(env.ctx, env.msg)
}
