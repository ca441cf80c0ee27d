package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/nats"
)

// Activity is the reduced view of recent events.
type Activity struct {
	// Counts maps "flow.action" to the number of events seen.
	Counts map[string]int `json:"counts"`
	// Recent holds the newest events, oldest first.
	Recent []Event `json:"recent"`
	Total  int     `json:"total"`
}

// Apply folds one event into the summary, keeping at most keep recent
// events.
func (a *Activity) Apply(ev Event, keep int) {
	if a.Counts == nil {
		a.Counts = make(map[string]int)
	}
	a.Counts[ev.Flow+"."+ev.Action]++
	a.Total++
	a.Recent = append(a.Recent, ev)
	if keep > 0 && len(a.Recent) > keep {
		a.Recent = a.Recent[len(a.Recent)-keep:]
	}
}

// Activity replays the in-memory stream and summarizes it, keeping the
// newest keep events in Recent.
func (b *Bus) Activity(ctx context.Context, keep int) (*Activity, error) {
	if b.stream == nil {
		return nil, ErrNoHistory
	}

	info, err := b.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stream info: %w", err)
	}
	act := &Activity{Counts: make(map[string]int)}
	pending := int(info.State.Msgs)
	if pending == 0 {
		return act, nil
	}

	consumer, err := nats.OrderedConsumer(ctx, b.stream, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	const batchSize = 500
	for pending > 0 {
		n := batchSize
		if pending < n {
			n = pending
		}
		msgs, err := consumer.Fetch(n, jetstream.FetchMaxWait(time.Second))
		if err != nil {
			return nil, fmt.Errorf("fetching events: %w", err)
		}
		got := 0
		for msg := range msgs.Messages() {
			got++
			var ev Event
			if err := json.Unmarshal(msg.Data(), &ev); err != nil {
				logger.Warn("Skipping malformed event on %s: %v", msg.Subject(), err)
				continue
			}
			act.Apply(ev, keep)
		}
		if err := msgs.Error(); err != nil {
			logger.Debug("Event fetch ended early: %v", err)
			break
		}
		if got == 0 {
			break
		}
		pending -= got
	}
	return act, nil
}
