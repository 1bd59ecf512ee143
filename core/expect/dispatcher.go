package expect

import (
	"log/slog"

	"github.com/jsilhan/seqmock/core/reflector"
)

// Builder accumulates expectations in the order they must match. Appends are
// only valid until Build is called; after that the entries belong to the
// Dispatcher and the Builder is spent.
type Builder struct {
	entries []entryFunc
	built   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Expect appends one expectation and returns the Builder for chaining.
// Expect panics if Build has already been called.
func (b *Builder) Expect(e Expectation) *Builder {
	if b.built {
		panic("expect: sequence already built, cannot append")
	}
	e(b)
	return b
}

func (b *Builder) append(f entryFunc) {
	b.entries = append(b.entries, f)
}

// Build finalizes the sequence into a Dispatcher with the cursor at zero.
// The Builder keeps no reference to the entries afterwards.
func (b *Builder) Build(opts ...Option) *Dispatcher {
	b.built = true

	d := &Dispatcher{
		entries: b.entries,
		log:     slog.Default(),
		metrics: NopMetrics(),
	}
	b.entries = nil

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option configures a Dispatcher at build time.
type Option func(*Dispatcher)

// WithLogger sets the logger used for per-dispatch debug lines.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithMetrics sets the instrumentation backend for dispatch outcomes.
func WithMetrics(m Metrics) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// Sequence builds a Dispatcher from expectations in one call:
//
//	d := expect.Sequence(
//	    expect.Msg(func(m *Ping) Pong { return Pong{} }),
//	)
//
// Use [NewBuilder] directly when Options are needed.
func Sequence(es ...Expectation) *Dispatcher {
	b := NewBuilder()
	for _, e := range es {
		b.Expect(e)
	}
	return b.Build()
}

// Dispatcher resolves runtime-typed messages against a finalized expectation
// sequence, strictly in order, exactly once per position. Not safe for
// concurrent use; see the package documentation.
type Dispatcher struct {
	entries []entryFunc
	cursor  int
	log     *slog.Logger
	metrics Metrics
}

// Dispatch matches one message against the expectation at the cursor.
//
// Exactly one of three outcomes occurs:
//   - the cursor is past the last expectation: [ErrSequenceExhausted],
//     cursor unchanged;
//   - the message's type does not match: [ErrTypeMismatch], the callback is
//     not invoked and the cursor does not advance, so the position remains
//     satisfiable by a correctly typed message;
//   - the type matches: the callback runs once with the concrete message,
//     the cursor advances by one, and the callback's result (or error, for
//     [MsgE] expectations) is returned.
func (d *Dispatcher) Dispatch(msg any) (any, error) {
	defer d.metrics.DispatchDuration().ObserveDuration()

	got := reflector.TypeInfoOf(msg).Name

	if d.cursor >= len(d.entries) {
		err := &ExhaustedError{Position: d.cursor, Got: got}
		d.log.Debug("dispatch rejected", slog.String("msg_type", got), slog.Any("error", err))
		d.metrics.Dispatched(got, OutcomeExhausted)
		return nil, err
	}

	res, err, miss := d.entries[d.cursor](msg)
	if miss != nil {
		mmErr := &MismatchError{Position: d.cursor, Want: miss.want, Got: got}
		d.log.Debug("dispatch rejected", slog.String("msg_type", got), slog.Any("error", mmErr))
		d.metrics.Dispatched(got, OutcomeMismatch)
		return nil, mmErr
	}
	if err != nil {
		// Callback error: the expectation ran, the position is consumed.
		d.cursor++
		d.log.Debug("dispatch failed in callback",
			slog.Int("position", d.cursor-1),
			slog.String("msg_type", got),
			slog.Any("error", err),
		)
		d.metrics.Dispatched(got, OutcomeCallbackError)
		return nil, err
	}

	d.cursor++
	d.log.Debug("dispatch matched", slog.Int("position", d.cursor-1), slog.String("msg_type", got))
	d.metrics.Dispatched(got, OutcomeMatched)
	return res, nil
}

// Cursor returns the zero-based index of the next expectation to match.
func (d *Dispatcher) Cursor() int { return d.cursor }

// Len returns the number of declared expectations.
func (d *Dispatcher) Len() int { return len(d.entries) }

// Remaining returns how many expectations have not yet matched.
func (d *Dispatcher) Remaining() int { return len(d.entries) - d.cursor }

// Satisfied reports whether every declared expectation has matched. Tests
// typically assert this at the end.
func (d *Dispatcher) Satisfied() bool { return d.cursor == len(d.entries) }
