package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/contact"
	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/quote"
	"github.com/polaron/polaron/internal/sim"
)

func TestQuoteMarkdown(t *testing.T) {
	q := quote.Estimate(quote.Request{
		Origin:         "New York",
		Destination:    "Los Angeles",
		ShippingMethod: "enclosed",
		Timeframe:      "standard",
	}, sim.FixedRand(0))

	md := QuoteMarkdown(q)
	assert.Contains(t, md, "# "+q.Range)
	assert.Contains(t, md, "| Distance | 2,800 miles |")
	assert.Contains(t, md, "| Base Rate | $2,380 |")
	assert.Contains(t, md, "| Shipping Method | 1.8x |")
	assert.Contains(t, md, "| Timeframe | 1x |")
	assert.NotContains(t, md, "(estimated)")

	unknown := quote.Estimate(quote.Request{Origin: "Boston", Destination: "Denver"}, sim.FixedRand(0))
	assert.Contains(t, QuoteMarkdown(unknown), "500 miles (estimated)")
}

func TestBookingMarkdown(t *testing.T) {
	c := booking.Confirmation{
		Reference: "PB-2026-0042",
		Deposit:   675,
		Email:     "ada@example.com",
		QuoteID:   "PQ-2024-1234",
		AddOns:    booking.AddOns{Enclosed: true, TopLoad: true},
	}
	md := BookingMarkdown(c)
	assert.Contains(t, md, "Booking Confirmed!")
	assert.Contains(t, md, "Confirmation email sent to **ada@example.com**")
	assert.Contains(t, md, "**Booking Reference:** PB-2026-0042")
	assert.Contains(t, md, "**Deposit Paid:** $675")
	assert.Contains(t, md, "**Add-ons:** Enclosed Transport, Top Load Priority")

	bare := BookingMarkdown(booking.Confirmation{Reference: "PB-2026-1"})
	assert.NotContains(t, bare, "Add-ons")
	assert.NotContains(t, bare, "email sent")
}

func TestContactMarkdown(t *testing.T) {
	md := ContactMarkdown(contact.Acknowledgement{Name: "Grace Hopper", Email: "g@example.com", Subject: "Other", SentAt: time.Now()})
	assert.Contains(t, md, "Message Sent!")
	assert.Contains(t, md, "Thanks, Grace Hopper.")
	assert.Contains(t, md, "_Subject: Other_")

	assert.Contains(t, ContactMarkdown(contact.Acknowledgement{}), "Thanks, there.")
}

func TestEnvDefaults(t *testing.T) {
	env := Env{}.withDefaults()
	require.NotNil(t, env.Config)
	assert.Equal(t, quote.DefaultDelay, env.Config.QuoteDelay)
	assert.Equal(t, events.Discard, env.Publisher)
	assert.NotNil(t, env.Clock)
	assert.NotNil(t, env.Rand)
}

func TestPublish(t *testing.T) {
	rec := &events.Recorder{}
	publish(rec, "booking", "confirmed", booking.Confirmation{Reference: "PB-2026-7"})

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, "booking", evs[0].Flow)
	assert.Contains(t, string(evs[0].Payload), "PB-2026-7")
}

func TestOnConfirmedPublishesBeforeReturning(t *testing.T) {
	rec := &events.Recorder{}
	env := Env{Publisher: rec}.withDefaults()

	assert.Nil(t, quoteConfig(env).OnConfirmed(quote.PriceQuote{Range: "$1 – $2"}))
	assert.Nil(t, bookingConfig(env).OnConfirmed(booking.Confirmation{Reference: "PB-2026-7"}))

	var last *contact.Acknowledgement
	cfg := contactConfig(env, &last)
	assert.Nil(t, cfg.OnConfirmed(contact.Acknowledgement{Name: "Ada"}))
	assert.Nil(t, cfg.OnConfirmed(contact.Acknowledgement{Name: "Grace"}))
	require.NotNil(t, last)
	assert.Equal(t, "Grace", last.Name)

	// Every event is recorded without running any command.
	evs := rec.Events()
	require.Len(t, evs, 4)
	assert.Equal(t, []string{"quote", "booking", "contact", "contact"},
		[]string{evs[0].Flow, evs[1].Flow, evs[2].Flow, evs[3].Flow})
	assert.Equal(t, "acknowledged", evs[3].Action)
	assert.Contains(t, string(evs[3].Payload), "Grace")
}
