// Package events publishes flow outcomes to NATS and keeps a short,
// in-memory history of them for the activity summary.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/server"
	natsclient "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/nats"
)

// ErrNoHistory is returned by Activity when the connected server has no
// JetStream support.
var ErrNoHistory = errors.New("event history unavailable")

// Event is one published flow outcome.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Flow      string          `json:"flow"`
	Action    string          `json:"action"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Publisher is the narrow interface flows publish through.
type Publisher interface {
	Publish(ctx context.Context, flow, action string, payload any) error
}

type discard struct{}

func (discard) Publish(context.Context, string, string, any) error { return nil }

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

// Options configures Start.
type Options struct {
	// URL of an external NATS server. Empty starts an embedded one.
	URL string
	// Now stamps events; defaults to time.Now.
	Now func() time.Time
}

// Bus is a connected event publisher.
type Bus struct {
	nc       *natsclient.Conn
	ns       *server.Server
	js       jetstream.JetStream
	stream   jetstream.Stream
	audit    *natsclient.Subscription
	storeDir string
	now      func() time.Time

	closeOnce sync.Once
	closeErr  error
}

// Start connects the bus. With no URL it runs an embedded server that
// never listens on the network.
func Start(ctx context.Context, opts Options) (*Bus, error) {
	b := &Bus{now: opts.Now}
	if b.now == nil {
		b.now = time.Now
	}

	var err error
	if opts.URL == "" {
		b.storeDir, err = os.MkdirTemp("", "polaron-nats-*")
		if err != nil {
			return nil, fmt.Errorf("creating nats store dir: %w", err)
		}
		b.ns, err = nats.StartEmbeddedNATS(b.storeDir)
		if err != nil {
			_ = os.RemoveAll(b.storeDir)
			return nil, fmt.Errorf("starting embedded nats: %w", err)
		}
		b.nc, err = nats.ConnectInProcess(b.ns)
	} else {
		b.nc, err = nats.Connect(opts.URL)
	}
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	b.js, err = nats.CreateJetStream(b.nc)
	if err == nil {
		b.stream, err = nats.SetupStream(ctx, b.js)
	}
	if err != nil {
		logger.Warn("JetStream unavailable, publishing without history: %v", err)
		b.js, b.stream = nil, nil
	}

	b.audit, err = b.nc.Subscribe(nats.SubjectAll, func(msg *natsclient.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Warn("audit: malformed event on %s: %v", msg.Subject, err)
			return
		}
		logger.Info("audit: %s %s.%s %s", ev.ID, ev.Flow, ev.Action, string(ev.Payload))
	})
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("subscribing audit log: %w", err)
	}

	logger.Debug("Event bus started (embedded=%t)", b.ns != nil)
	return b, nil
}

// Embedded reports whether the bus runs its own server.
func (b *Bus) Embedded() bool { return b.ns != nil }

// Publish sends payload as an event on polaron.<flow>.<action>.
func (b *Bus) Publish(ctx context.Context, flow, action string, payload any) error {
	ev := Event{
		ID:        uuid.NewString(),
		Timestamp: b.now().UTC(),
		Flow:      flow,
		Action:    action,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		ev.Payload = raw
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(flow, action)
	if b.js != nil {
		if _, err := b.js.Publish(ctx, subject, data); err != nil {
			return fmt.Errorf("failed to publish event: %w", err)
		}
		return nil
	}
	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe delivers every event of flow (or all flows when flow is empty)
// to fn until the returned stop function is called.
func (b *Bus) Subscribe(flow string, fn func(Event)) (func(), error) {
	subject := nats.SubjectAll
	if flow != "" {
		subject = nats.SubjectForFlow(flow)
	}
	sub, err := b.nc.Subscribe(subject, func(msg *natsclient.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err == nil {
			fn(ev)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing %s: %w", subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Flush waits until the server has processed everything published so far.
func (b *Bus) Flush() error {
	return b.nc.Flush()
}

// Close drains the connection, stops the embedded server and removes its
// store directory. It is safe to call more than once.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		if b.audit != nil {
			_ = b.audit.Unsubscribe()
		}
		b.closeErr = nats.Shutdown(b.nc, b.ns)
		if b.storeDir != "" {
			_ = os.RemoveAll(b.storeDir)
		}
	})
	return b.closeErr
}
