package nats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	natsgo "github.com/nats-io/nats.go"
)

func TestReuseConnection_SingleDial(t *testing.T) {
	dials, closes := 0, 0
	connect := ReuseConnection(func() (*natsgo.Conn, closeFunc, error) {
		dials++
		return nil, func() { closes++ }, nil
	})

	_, release1, err := connect()
	require.NoError(t, err)
	_, release2, err := connect()
	require.NoError(t, err)
	require.Equal(t, 1, dials, "handles share one dial")

	release1()
	require.Equal(t, 0, closes, "connection stays open while a handle remains")
	release2()
	require.Equal(t, 1, closes, "last handle closes the connection")
}

func TestReuseConnection_RedialAfterRelease(t *testing.T) {
	dials := 0
	connect := ReuseConnection(func() (*natsgo.Conn, closeFunc, error) {
		dials++
		return nil, func() {}, nil
	})

	_, release, err := connect()
	require.NoError(t, err)
	release()

	_, release, err = connect()
	require.NoError(t, err)
	defer release()
	require.Equal(t, 2, dials, "a handle after full release dials again")
}

func TestReuseConnection_DialError(t *testing.T) {
	dials := 0
	connect := ReuseConnection(func() (*natsgo.Conn, closeFunc, error) {
		dials++
		if dials == 1 {
			return nil, nil, errors.New("dial failed")
		}
		return nil, func() {}, nil
	})

	_, _, err := connect()
	require.Error(t, err)

	// A failed dial holds no handle; the next caller retries.
	_, release, err := connect()
	require.NoError(t, err)
	defer release()
	require.Equal(t, 2, dials)
}
