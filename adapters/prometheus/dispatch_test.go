package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/jsilhan/seqmock/core/expect"
)

type ping struct{}

func TestDispatchMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	d := expect.NewBuilder().
		Expect(expect.Msg(func(m *ping) int { return 1 })).
		Build(expect.WithMetrics(NewDispatchMetrics(reg)))

	_, err := d.Dispatch(ping{})
	require.NoError(t, err)
	_, err = d.Dispatch(ping{})
	require.ErrorIs(t, err, expect.ErrSequenceExhausted)

	n, err := testutil.GatherAndCount(reg,
		"seqmock_dispatches_total",
		"seqmock_dispatch_duration_seconds",
	)
	require.NoError(t, err)
	// One series per observed outcome plus the histogram.
	require.Equal(t, 3, n)
}
