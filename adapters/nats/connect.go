// Package nats exposes a stand-in actor over a NATS request/reply subject,
// so a mock can stand in for an actor that the code under test reaches over
// the wire. Messages travel as a JSON envelope carrying the qualified type
// name; the subscriber decodes them back to runtime-typed values through a
// TypeRegistry before dispatching.
package nats

import (
	"os"
	"sync"

	natsgo "github.com/nats-io/nats.go"
)

type closeFunc = func()

// Connector creates the underlying NATS connection.
type Connector func() (nc *natsgo.Conn, close closeFunc, err error)

// ConnectURL returns a Connector for the given NATS URL.
func ConnectURL(natsURL string) Connector {
	return func() (*natsgo.Conn, closeFunc, error) {
		nc, err := natsgo.Connect(
			natsURL,
			natsgo.Name("seqmock-standin"),
			natsgo.MaxReconnects(3),
		)
		if err != nil {
			return nil, nil, err
		}
		return nc, func() { nc.Close() }, nil
	}
}

// ConnectDefault connects to $NATS_URL, falling back to the NATS default URL.
func ConnectDefault() Connector {
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		return ConnectURL(natsURL)
	}
	return ConnectURL(natsgo.DefaultURL)
}

// ReuseConnection shares one connection among all callers of the returned
// Connector. A test that exposes a stand-in and then drives it as a client
// holds two handles to the same server; sharing keeps that to a single dial.
// The connection is dialed on the first handle and closed when the last
// outstanding handle is closed; a later handle dials again.
func ReuseConnection(connect Connector) Connector {
	var (
		mu      sync.Mutex
		nc      *natsgo.Conn
		closeNc closeFunc
		handles int
	)

	release := func() {
		mu.Lock()
		defer mu.Unlock()
		handles--
		if handles == 0 {
			closeNc()
			nc = nil
			closeNc = nil
		}
	}

	return func() (*natsgo.Conn, closeFunc, error) {
		mu.Lock()
		defer mu.Unlock()
		if handles == 0 {
			var err error
			nc, closeNc, err = connect()
			if err != nil {
				return nil, nil, err
			}
		}
		handles++
		return nc, release, nil
	}
}
