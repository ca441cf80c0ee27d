// Package booking implements the six-step booking flow and its deposit
// pricing. A confirmed booking is terminal: the wizard becomes read-only.
package booking

import (
	"fmt"
	"time"

	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/money"
	"github.com/polaron/polaron/internal/quote"
	"github.com/polaron/polaron/internal/sim"
	"github.com/polaron/polaron/internal/submit"
)

// DefaultDelay is the simulated payment latency.
const DefaultDelay = 2000 * time.Millisecond

// DepositBase is the mock base price the deposit is computed from.
const DepositBase = 1500

// ReferencePrefix starts every booking reference.
const ReferencePrefix = "PB"

// AddOns are the optional services on a booking.
type AddOns struct {
	Expedited      bool `json:"expedited"`
	TopLoad        bool `json:"topLoad"`
	ExtraInsurance bool `json:"extraInsurance"`
	Enclosed       bool `json:"enclosed"`
}

// AddOnsFrom reads the add-on flag group out of a form state.
func AddOnsFrom(s form.State) AddOns {
	return AddOns{
		Expedited:      s.Flag(AddOnGroup, AddOnExpedited),
		TopLoad:        s.Flag(AddOnGroup, AddOnTopLoad),
		ExtraInsurance: s.Flag(AddOnGroup, AddOnExtraInsurance),
		Enclosed:       s.Flag(AddOnGroup, AddOnEnclosed),
	}
}

// Labels returns the display labels of the selected add-ons.
func (a AddOns) Labels() []string {
	selected := map[string]bool{
		AddOnEnclosed:       a.Enclosed,
		AddOnExpedited:      a.Expedited,
		AddOnTopLoad:        a.TopLoad,
		AddOnExtraInsurance: a.ExtraInsurance,
	}
	var out []string
	for _, o := range AddOnOptions {
		if selected[o.Value] {
			out = append(out, o.Label)
		}
	}
	return out
}

// Multiplier returns the deposit multiplier. Enclosed takes precedence over
// expedited; the other add-ons do not affect the deposit.
func (a AddOns) Multiplier() float64 {
	switch {
	case a.Enclosed:
		return 1.8
	case a.Expedited:
		return 1.3
	default:
		return 1.0
	}
}

// Deposit returns the amount due at booking, in whole dollars.
func Deposit(a AddOns) int {
	return money.Round(DepositBase * a.Multiplier() * 0.25)
}

// Reference builds a booking reference such as "PB-2026-4821".
func Reference(now time.Time, rng sim.Rand) string {
	return fmt.Sprintf("%s-%d-%d", ReferencePrefix, now.Year(), rng.IntN(10000))
}

// Confirmation is the artifact of a confirmed booking.
type Confirmation struct {
	Reference   string    `json:"reference"`
	Deposit     int       `json:"deposit"`
	Email       string    `json:"email"`
	QuoteID     string    `json:"quoteId"`
	AddOns      AddOns    `json:"addOns"`
	ConfirmedAt time.Time `json:"confirmedAt"`
}

// Confirm builds the confirmation for s. It draws one random number.
func Confirm(s form.State, clock sim.Clock, rng sim.Rand) Confirmation {
	now := clock.Now()
	addOns := AddOnsFrom(s)
	return Confirmation{
		Reference:   Reference(now, rng),
		Deposit:     Deposit(addOns),
		Email:       s.Text(Email),
		QuoteID:     s.Text(QuoteID),
		AddOns:      addOns,
		ConfirmedAt: now,
	}
}

// Options configures a booking wizard.
type Options struct {
	Clock    sim.Clock
	Rand     sim.Rand
	Delay    time.Duration
	OnChange func(submit.Phase)
	// Prefill is applied on top of the defaults, for example fields carried
	// over from a quote.
	Prefill []form.Update
}

// Wizard is a booking flow instance.
type Wizard = flow.Wizard[Confirmation]

// New creates a fresh booking wizard.
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
	def := Definition()
	for _, u := range opts.Prefill {
		def.Initial = def.Initial.Apply(u)
	}
	ctrl := submit.New[Confirmation](opts.Clock, opts.Delay, copts...)
	clock, rng := opts.Clock, opts.Rand
	return flow.New(def, ctrl, func(s form.State) Confirmation {
		return Confirm(s, clock, rng)
	})
}

// FromQuote carries the contact, vehicle and route details of a quote into
// a new booking. The quote's shipping method preselects the enclosed add-on
// and a rush or expedited timeframe the expedited one.
func FromQuote(s form.State) []form.Update {
	var out []form.Update
	copyText := func(from, to string) {
		if v := s.Text(from); v != "" {
			out = append(out, form.SetText{Field: to, Value: v})
		}
	}
	copyText(quote.Origin, PickupCity)
	copyText(quote.Destination, DeliveryCity)
	copyText(quote.VehicleModel, VehicleModel)
	copyText(quote.VehicleYear, VehicleYear)
	copyText(quote.Condition, Condition)
	copyText(quote.FirstName, FirstName)
	copyText(quote.LastName, LastName)
	copyText(quote.Email, Email)
	copyText(quote.Phone, Phone)

	if s.Text(quote.ShippingMethod) == "enclosed" {
		out = append(out, form.SetFlag{Group: AddOnGroup, Flag: AddOnEnclosed, Value: true})
	}
	switch s.Text(quote.Timeframe) {
	case "expedited", "rush":
		out = append(out, form.SetFlag{Group: AddOnGroup, Flag: AddOnExpedited, Value: true})
	}
	return out
}
