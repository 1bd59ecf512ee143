package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	seqnats "github.com/jsilhan/seqmock/adapters/nats"
	"github.com/jsilhan/seqmock/core/expect"
	"github.com/jsilhan/seqmock/core/standin"
	"github.com/jsilhan/seqmock/ports/host"
)

type (
	chargeCard struct {
		Amount int `json:"amount"`
	}
	refundCard struct {
		Amount int `json:"amount"`
	}
	receipt struct {
		ID     string `json:"id"`
		Amount int    `json:"amount"`
	}
)

func TestIntegration_StandInOverNATS(t *testing.T) {
	if testing.Short() {
		t.Skip("needs docker")
	}

	// The exposed stand-in and the test's client side share one dial.
	connect := seqnats.ReuseConnection(seqnats.NewTestContainer(t))

	d := expect.Sequence(
		expect.Msg(func(m *chargeCard) receipt {
			return receipt{ID: "r-1", Amount: m.Amount}
		}),
		expect.Msg(func(m *refundCard) bool { return true }),
		expect.Msg(func(m *chargeCard) receipt {
			return receipt{ID: "r-2", Amount: m.Amount}
		}),
	)

	ref, err := standin.Start(t.Context(), host.NewMemRuntime(host.MemRuntimeConfig{}), d, host.WithID("payments"))
	require.NoError(t, err)
	t.Cleanup(ref.Stop)

	types := seqnats.NewTypeRegistry()
	seqnats.Register[chargeCard](types)
	seqnats.Register[refundCard](types)

	s, err := seqnats.Expose(seqnats.ExposeConfig{
		Connect: connect,
		Subject: "test.payments",
		Types:   types,
		Context: t.Context(),
	}, ref)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	nc, closeNc, err := connect()
	require.NoError(t, err)
	t.Cleanup(closeNc)

	// Declared order: charge, refund, charge.
	r1, err := seqnats.Request[chargeCard, receipt](t.Context(), nc, "test.payments", chargeCard{Amount: 100})
	require.NoError(t, err)
	require.Equal(t, &receipt{ID: "r-1", Amount: 100}, r1)

	// Wrong type at position 1: rejected, position not consumed.
	_, err = seqnats.Request[chargeCard, receipt](t.Context(), nc, "test.payments", chargeCard{Amount: 1})
	require.ErrorContains(t, err, "want")

	ok, err := seqnats.Request[refundCard, bool](t.Context(), nc, "test.payments", refundCard{Amount: 100})
	require.NoError(t, err)
	require.True(t, *ok)

	r2, err := seqnats.Request[chargeCard, receipt](t.Context(), nc, "test.payments", chargeCard{Amount: 50})
	require.NoError(t, err)
	require.Equal(t, "r-2", r2.ID)

	require.True(t, d.Satisfied())

	// Anything past the declared sequence fails.
	_, err = seqnats.Request[refundCard, bool](t.Context(), nc, "test.payments", refundCard{})
	require.ErrorContains(t, err, "exhausted")
}
