// Package standin stands an expectation sequence up as a mock actor behind a
// host runtime, and recovers typed results on the sending side.
package standin

import (
	"context"
	"fmt"

	"github.com/jsilhan/seqmock/core/expect"
	"github.com/jsilhan/seqmock/core/reflector"
	"github.com/jsilhan/seqmock/ports/host"
)

// Start launches a stand-in actor whose behavior is the dispatcher: every
// message the runtime delivers is resolved against the next expectation.
// The dispatcher needs no locking because the runtime serializes delivery.
func Start(ctx context.Context, rt host.Runtime, d *expect.Dispatcher, opts ...host.StartOption) (host.Ref, error) {
	if d == nil {
		return nil, fmt.Errorf("standin: nil dispatcher")
	}
	return rt.Start(ctx, func(ctx context.Context, msg any) (any, error) {
		// The delivery context plays no part in matching.
		return d.Dispatch(msg)
	}, opts...)
}

// Single starts a stand-in that expects exactly one message of type M.
// Shorthand for the common one-message case.
func Single[M any, R any](ctx context.Context, rt host.Runtime, fn func(m *M) R, opts ...host.StartOption) (host.Ref, error) {
	return Start(ctx, rt, expect.Sequence(expect.Msg(fn)), opts...)
}

// Ask sends msg to a stand-in and narrows the opaque result back to R.
// The R a caller names here must be the result type the matching expectation
// was declared with.
func Ask[R any](ctx context.Context, ref host.Ref, msg any) (R, error) {
	var zero R

	res, err := ref.Send(ctx, msg)
	if err != nil {
		return zero, err
	}

	r, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("standin: result is %s, want %s",
			reflector.TypeInfoOf(res).Name, reflector.TypeInfoFor[R]().Name)
	}
	return r, nil
}

// Tell sends msg and discards the result value. Dispatch failures still
// propagate as errors.
func Tell(ctx context.Context, ref host.Ref, msg any) error {
	_, err := ref.Send(ctx, msg)
	return err
}
