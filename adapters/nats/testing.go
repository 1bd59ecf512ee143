package nats

import (
	"context"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// natsImage pins the server version exposed stand-ins are tested against.
const natsImage = "nats:2.10-alpine"

// Testing is the subset of *testing.T that NewTestContainer needs.
type Testing interface {
	require.TestingT
	Context() context.Context
	Logf(format string, args ...any)
	Cleanup(func())
}

// NewTestContainer runs a throwaway NATS server for exercising exposed
// stand-ins and returns a Connector for it. Wrap the result in
// [ReuseConnection] when one test both exposes a stand-in and drives it as a
// client. The container is terminated on test cleanup.
func NewTestContainer(t Testing) Connector {
	ctx := t.Context()

	srv, err := testcontainers.Run(
		ctx, natsImage,
		testcontainers.WithExposedPorts("4222/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("4222/tcp"),
			wait.ForLog("Server is ready"),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(srv))
	})

	serverHost, err := srv.Host(ctx)
	require.NoError(t, err)
	port, err := srv.MappedPort(ctx, "4222/tcp")
	require.NoError(t, err)

	url := "nats://" + serverHost + ":" + port.Port()
	t.Logf("stand-in test server at %s", url)
	return ConnectURL(url)
}
