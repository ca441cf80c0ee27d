// Package tui runs the quote, booking and contact flows as interactive
// terminal programs.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/config"
	"github.com/polaron/polaron/internal/contact"
	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/money"
	"github.com/polaron/polaron/internal/nats"
	"github.com/polaron/polaron/internal/quote"
	"github.com/polaron/polaron/internal/sim"
	"github.com/polaron/polaron/internal/tui/wizard"
)

// ErrCancelled is returned when the user leaves a flow before confirming.
var ErrCancelled = errors.New("cancelled by user")

// Env carries what every flow needs.
type Env struct {
	Config    *config.Config
	Publisher events.Publisher
	Clock     sim.Clock
	Rand      sim.Rand
	// ProgramOptions are appended to the tea.NewProgram options.
	ProgramOptions []tea.ProgramOption
}

func (e Env) withDefaults() Env {
	if e.Config == nil {
		e.Config = config.Defaults()
	}
	if e.Publisher == nil {
		e.Publisher = events.Discard
	}
	if e.Clock == nil {
		e.Clock = sim.RealClock()
	}
	if e.Rand == nil {
		e.Rand = sim.DefaultRand()
	}
	return e
}

// QuoteOutcome is what the quote flow leaves behind.
type QuoteOutcome struct {
	Quote quote.PriceQuote
	// State is the final form, used to prefill a booking.
	State form.State
	// Book is set when the user asked to proceed to booking.
	Book bool
}

const publishTimeout = 5 * time.Second

// publish sends payload before returning, so an event survives the user
// quitting right after a confirmation.
func publish(pub events.Publisher, flowName, action string, payload any) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := pub.Publish(ctx, flowName, action, payload); err != nil {
		logger.Warn("Failed to publish %s.%s: %v", flowName, action, err)
	}
}

func run[T any](ctx context.Context, env Env, wiz *flow.Wizard[T], n *wizard.Notifier, cfg wizard.Config[T]) (*wizard.Model[T], error) {
	defer wiz.Close()

	m := wizard.New(wiz, cfg)
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, env.ProgramOptions...)
	p := tea.NewProgram(m, opts...)
	n.Attach(p)
	defer n.Attach(nil)

	logger.Debug("Starting %s flow", wiz.Definition().Name)
	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("%s flow failed: %w", wiz.Definition().Name, err)
	}
	if m.Cancelled() {
		return m, ErrCancelled
	}
	return m, nil
}

// RunQuote runs the quote wizard.
func RunQuote(ctx context.Context, env Env) (*QuoteOutcome, error) {
	env = env.withDefaults()
	n := &wizard.Notifier{}
	wiz := quote.New(quote.Options{
		Clock:       env.Clock,
		Rand:        env.Rand,
		Delay:       env.Config.QuoteDelay,
		RouteSeeded: env.Config.RouteSeededFallback,
		OnChange:    n.PhaseChanged,
	})

	m, err := run(ctx, env, wiz, n, quoteConfig(env))
	if err != nil {
		return nil, err
	}
	q, ok := m.Result()
	if !ok {
		return nil, ErrCancelled
	}
	return &QuoteOutcome{Quote: q, State: wiz.State(), Book: m.Chosen() == "b"}, nil
}

func quoteConfig(env Env) wizard.Config[quote.PriceQuote] {
	return wizard.Config[quote.PriceQuote]{
		Title:        "Get a Quote",
		ConfirmLabel: "Calculate Quote",
		Busy:         "Calculating your quote...",
		Render:       QuoteMarkdown,
		Review: func(form.State) string {
			return "_Review your information and get your instant estimate._"
		},
		OnConfirmed: func(q quote.PriceQuote) tea.Cmd {
			publish(env.Publisher, nats.FlowQuote, nats.ActionCalculated, q)
			return nil
		},
		Actions: []wizard.Action{{Key: "b", Desc: "proceed to booking"}},
	}
}

// RunBooking runs the booking wizard with prefill applied over its
// defaults.
func RunBooking(ctx context.Context, env Env, prefill []form.Update) (*booking.Confirmation, error) {
	env = env.withDefaults()
	n := &wizard.Notifier{}
	wiz := booking.New(booking.Options{
		Clock:    env.Clock,
		Rand:     env.Rand,
		Delay:    env.Config.BookingDelay,
		OnChange: n.PhaseChanged,
		Prefill:  prefill,
	})

	m, err := run(ctx, env, wiz, n, bookingConfig(env))
	if err != nil {
		return nil, err
	}
	c, ok := m.Result()
	if !ok {
		return nil, ErrCancelled
	}
	return &c, nil
}

func bookingConfig(env Env) wizard.Config[booking.Confirmation] {
	return wizard.Config[booking.Confirmation]{
		Title:        "Book Transport",
		ConfirmLabel: "Confirm Booking",
		Busy:         "Processing payment...",
		Render:       BookingMarkdown,
		Review: func(s form.State) string {
			return fmt.Sprintf("**Deposit due today:** %s", money.USD(booking.Deposit(booking.AddOnsFrom(s))))
		},
		OnConfirmed: func(c booking.Confirmation) tea.Cmd {
			publish(env.Publisher, nats.FlowBooking, nats.ActionConfirmed, c)
			return nil
		},
	}
}

// RunContact runs the contact form. The form stays open after sending so
// further messages can be sent; the last acknowledgement is returned.
func RunContact(ctx context.Context, env Env) (*contact.Acknowledgement, error) {
	env = env.withDefaults()
	n := &wizard.Notifier{}
	wiz := contact.New(contact.Options{
		Clock:    env.Clock,
		Delay:    env.Config.ContactDelay,
		OnChange: n.PhaseChanged,
	})

	var last *contact.Acknowledgement
	_, err := run(ctx, env, wiz, n, contactConfig(env, &last))
	if err != nil && !(errors.Is(err, ErrCancelled) && last != nil) {
		return nil, err
	}
	if last == nil {
		return nil, ErrCancelled
	}
	return last, nil
}

// contactConfig publishes every acknowledgement and keeps the latest in last.
func contactConfig(env Env, last **contact.Acknowledgement) wizard.Config[contact.Acknowledgement] {
	return wizard.Config[contact.Acknowledgement]{
		Title:        "Contact Us",
		ConfirmLabel: "Send Message",
		Render:       ContactMarkdown,
		OnConfirmed: func(a contact.Acknowledgement) tea.Cmd {
			*last = &a
			publish(env.Publisher, nats.FlowContact, nats.ActionAcknowledged, a)
			return nil
		},
	}
}
