// Package quote implements the five-step quote flow: route, vehicle,
// shipping, contact, and the final price estimate.
package quote

import (
	"time"

	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/sim"
	"github.com/polaron/polaron/internal/submit"
)

// DefaultDelay is the simulated calculation latency.
const DefaultDelay = 1500 * time.Millisecond

// Options configures a quote wizard.
type Options struct {
	Clock       sim.Clock
	Rand        sim.Rand
	Delay       time.Duration
	RouteSeeded bool
	OnChange    func(submit.Phase)
}

// Wizard is a quote flow instance.
type Wizard = flow.Wizard[PriceQuote]

// RequestFrom reads the estimator inputs out of a form state.
func RequestFrom(s form.State) Request {
	return Request{
		Origin:         s.Text(Origin),
		Destination:    s.Text(Destination),
		ShippingMethod: s.Text(ShippingMethod),
		Timeframe:      s.Text(Timeframe),
	}
}

// New creates a fresh quote wizard. Confirm on the last step runs the
// calculation; Discard returns to the review sub-state for modification.
func New(opts Options) *Wizard {
	if opts.Clock == nil {
		opts.Clock = sim.RealClock()
	}
	if opts.Rand == nil {
		opts.Rand = sim.DefaultRand()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	var copts []submit.Option
	if opts.OnChange != nil {
		copts = append(copts, submit.WithOnChange(opts.OnChange))
	}
	ctrl := submit.New[PriceQuote](opts.Clock, opts.Delay, copts...)
	est := Estimator{Rand: opts.Rand, RouteSeeded: opts.RouteSeeded}
	return flow.New(Definition(), ctrl, func(s form.State) PriceQuote {
		return est.Estimate(RequestFrom(s))
	})
}
