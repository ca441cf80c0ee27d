package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream that keeps recent flow events.
	StreamName = "polaron_events"

	// SubjectAll matches every polaron event.
	SubjectAll = "polaron.>"

	// Flow names used in subjects.
	FlowQuote   = "quote"
	FlowBooking = "booking"
	FlowContact = "contact"

	// Actions.
	ActionCalculated   = "calculated"
	ActionEstimated    = "estimated"
	ActionConfirmed    = "confirmed"
	ActionAcknowledged = "acknowledged"
	ActionDeposit      = "deposit"
)

// SubjectForFlow returns the wildcard subject for all events of a flow.
// Example: "polaron.booking.>"
func SubjectForFlow(flow string) string {
	return fmt.Sprintf("polaron.%s.>", flow)
}

// SubjectForEvent returns the subject for one action of a flow.
// Example: "polaron.booking.confirmed"
func SubjectForEvent(flow, action string) string {
	return fmt.Sprintf("polaron.%s.%s", flow, action)
}

// SetupStream creates or updates the in-memory event stream. Nothing is
// written to disk and old events age out after a day.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectAll},
		Storage:  jetstream.MemoryStorage,
		MaxAge:   24 * time.Hour,
		MaxMsgs:  10000,
	})
}

// OrderedConsumer creates an ephemeral consumer that replays the stream
// from the start, optionally filtered to one subject.
func OrderedConsumer(ctx context.Context, stream jetstream.Stream, filter string) (jetstream.Consumer, error) {
	cfg := jetstream.OrderedConsumerConfig{
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
	if filter != "" {
		cfg.FilterSubjects = []string{filter}
	}
	return stream.OrderedConsumer(ctx, cfg)
}
