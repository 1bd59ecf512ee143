package expect

import (
	"github.com/jsilhan/seqmock/core/reflector"
)

// entryFunc is the uniform shape every expectation is erased into: consume an
// opaque message, produce an opaque result. A narrowing failure is reported
// through miss, out of band from callback errors, so a callback error that
// happens to wrap a MismatchError can never be mistaken for the adapter's own
// narrowing failure. The concrete message and result types live only inside
// the closure.
type entryFunc func(msg any) (res any, err error, miss *mismatch)

// mismatch reports a narrowing failure from inside an entry's adapter.
type mismatch struct {
	want string // qualified name of the expected message type
}

// Expectation registers one position with a sequence under construction.
// Create Expectations with [Msg] or [MsgE].
type Expectation func(b *Builder)

// Msg declares that the next message must be of type M and that its reply is
// computed by fn. The callback receives the concrete message and may carry
// mutable captured state; it runs at most once.
//
// The message/result type pairing is fixed by fn's signature, so a wrong
// callback shape is a compile error, never a runtime one.
func Msg[M any, R any](fn func(m *M) R) Expectation {
	return MsgE(func(m *M) (R, error) {
		return fn(m), nil
	})
}

// MsgE is [Msg] for callbacks that can fail. A returned error is surfaced to
// the sender as the dispatch result and, unlike a type mismatch, consumes the
// position: the expectation ran, it just simulated a failing collaborator.
func MsgE[M any, R any](fn func(m *M) (R, error)) Expectation {
	return func(b *Builder) {
		b.append(func(msg any) (any, error, *mismatch) {
			m, ok := narrow[M](msg)
			if !ok {
				return nil, nil, &mismatch{want: reflector.TypeInfoFor[M]().Name}
			}
			res, err := fn(m)
			return res, err, nil
		})
	}
}

// narrow recovers a *M from an opaque message. Both value and pointer forms
// are accepted: in-process hosts deliver messages as they were sent, decoding
// transports deliver pointers.
func narrow[M any](msg any) (*M, bool) {
	switch v := msg.(type) {
	case *M:
		return v, true
	case M:
		return &v, true
	default:
		return nil, false
	}
}
