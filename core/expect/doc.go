// Package expect implements an ordered sequence of typed message
// expectations and the dispatcher that resolves runtime-typed messages
// against it, one position at a time.
//
// A test declares, up front, which message types a stand-in actor will
// receive and what each one should return:
//
//	d := expect.Sequence(
//	    expect.Msg(func(m *Charge) ChargeResult { return ChargeResult{Approved: true} }),
//	    expect.Msg(func(m *Refund) bool { return true }),
//	)
//
// Each call to [Dispatcher.Dispatch] matches exactly one message against the
// expectation at the cursor. Matching is strictly in declaration order: the
// first message delivered must be a Charge, the second a Refund. A message of
// the wrong type fails with [ErrTypeMismatch] and leaves the cursor where it
// was, so the position can still be satisfied by the right message. A message
// delivered after all expectations have matched fails with
// [ErrSequenceExhausted].
//
// The pairing of message type and result type is fixed by the callback
// signature at compile time; only the matching itself happens at runtime.
// Use [github.com/jsilhan/seqmock/core/standin.Ask] to recover the typed
// result on the sending side.
//
// A Dispatcher is not safe for concurrent use. It is designed to run behind
// a host runtime that serializes message delivery per actor; callers outside
// such a host must serialize Dispatch themselves.
package expect
