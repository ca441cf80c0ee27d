package nats

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/polaron/polaron/internal/logger"
)

const (
	clientName   = "polaron"
	readyTimeout = 4 * time.Second
	drainTimeout = 2 * time.Second
	stopTimeout  = 5 * time.Second
)

// StartEmbeddedNATS runs a NATS server inside the process. It opens no
// network port; clients reach it through ConnectInProcess. JetStream is
// enabled with storeDir for its metadata, while the event stream itself
// lives in memory.
func StartEmbeddedNATS(storeDir string) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{
		ServerName: clientName,
		JetStream:  true,
		StoreDir:   storeDir,
		DontListen: true,
		NoSigs:     true,
		NoLog:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(readyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("nats server not ready after %s", readyTimeout)
	}
	logger.Debug("Embedded NATS ready (store %s)", storeDir)
	return ns, nil
}

// ConnectInProcess opens a client connection to an embedded server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	return nats.Connect("", nats.InProcessServer(ns), nats.Name(clientName))
}

// Connect dials an external NATS server.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name(clientName), nats.Timeout(readyTimeout))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return nc, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// within runs fn and reports whether it returned before d elapsed.
func within(d time.Duration, fn func()) bool {
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// Shutdown drains nc and stops ns. Either may be nil. A drain that fails
// or stalls falls back to closing the connection; a server that does not
// stop in time is reported as an error.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	if nc != nil {
		var drainErr error
		switch {
		case !within(drainTimeout, func() { drainErr = nc.Drain() }):
			logger.Warn("NATS drain timed out after %s, closing connection", drainTimeout)
			nc.Close()
		case drainErr != nil:
			logger.Warn("NATS drain failed, closing connection: %v", drainErr)
			nc.Close()
		}
	}
	if ns != nil {
		ns.Shutdown()
		if !within(stopTimeout, ns.WaitForShutdown) {
			return errors.New("nats server shutdown timed out")
		}
	}
	return nil
}
