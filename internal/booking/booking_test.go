package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/quote"
	"github.com/polaron/polaron/internal/sim"
	"github.com/polaron/polaron/internal/submit"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func filledUpdates() []form.Update {
	return []form.Update{
		form.SetText{Field: PickupAddress, Value: "1 Main St"},
		form.SetText{Field: DeliveryAddress, Value: "9 Ocean Dr"},
		form.SetText{Field: PickupDate, Value: "2026-04-01"},
		form.SetText{Field: DeliveryDate, Value: "2026-04-09"},
		form.SetText{Field: VehicleModel, Value: "SL550"},
		form.SetText{Field: VehicleYear, Value: "2021"},
		form.SetText{Field: FirstName, Value: "Grace"},
		form.SetText{Field: LastName, Value: "Hopper"},
		form.SetText{Field: Email, Value: "grace@example.com"},
		form.SetText{Field: Phone, Value: "+1 555 000 1111"},
		form.SetText{Field: CardNumber, Value: "4111111111111111"},
		form.SetText{Field: CardName, Value: "G Hopper"},
		form.SetText{Field: ExpiryDate, Value: "12/29"},
		form.SetText{Field: CVV, Value: "123"},
		form.SetBool{Field: AgreeTerms, Value: true},
	}
}

func filled() form.State {
	s := Initial()
	for _, u := range filledUpdates() {
		s = s.Apply(u)
	}
	return s
}

func TestInitialDefaults(t *testing.T) {
	s := Initial()
	assert.Equal(t, DefaultQuoteID, s.Text(QuoteID))
	assert.Equal(t, DefaultMake, s.Text(VehicleMake))
	assert.Equal(t, DefaultCondition, s.Text(Condition))
	assert.Equal(t, AddOns{}, AddOnsFrom(s))
	assert.False(t, s.Bool(AgreeTerms))
}

func TestValidate_RequiredFieldsPerStep(t *testing.T) {
	required := map[int][]string{
		1: {PickupAddress, DeliveryAddress},
		2: {PickupDate, DeliveryDate},
		3: {VehicleModel, VehicleYear},
		4: {FirstName, LastName, Email, Phone},
		5: {CardNumber, CardName, ExpiryDate, CVV},
	}
	full := filled()
	for step, fields := range required {
		require.True(t, Validate(step, full), "step %d valid when filled", step)
		for _, field := range fields {
			cleared := full.Apply(form.SetText{Field: field, Value: ""})
			assert.False(t, Validate(step, cleared), "step %d invalid without %s", step, field)
		}
	}
	assert.False(t, Validate(5, full.Apply(form.SetBool{Field: AgreeTerms, Value: false})))
	assert.True(t, Validate(6, form.State{}))
}

func TestValidate_Thresholds(t *testing.T) {
	tests := []struct {
		name  string
		step  int
		field string
		value string
		want  bool
	}{
		{"address of three", 1, PickupAddress, "1 A", false},
		{"address of four", 1, PickupAddress, "1 Av", true},
		{"card of fourteen", 5, CardNumber, "41111111111111", false},
		{"card of fifteen without luhn", 5, CardNumber, "123456789012345", true},
		{"expiry of three", 5, ExpiryDate, "129", false},
		{"expiry of four", 5, ExpiryDate, "1229", true},
		{"cvv of two", 5, CVV, "12", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := filled().Apply(form.SetText{Field: tt.field, Value: tt.value})
			assert.Equal(t, tt.want, Validate(tt.step, s))
		})
	}
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		name   string
		addOns AddOns
		want   int
	}{
		{"none", AddOns{}, 375},
		{"enclosed", AddOns{Enclosed: true}, 675},
		{"expedited", AddOns{Expedited: true}, 488},
		{"enclosed wins over expedited", AddOns{Enclosed: true, Expedited: true}, 675},
		{"insurance and top load do not count", AddOns{TopLoad: true, ExtraInsurance: true}, 375},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deposit(tt.addOns))
		})
	}
}

func TestAddOns_Labels(t *testing.T) {
	assert.Empty(t, AddOns{}.Labels())
	assert.Equal(t,
		[]string{"Enclosed Transport", "Top Load Priority"},
		AddOns{TopLoad: true, Enclosed: true}.Labels())
}

func TestSetFlagTouchesOnlyOneAddOn(t *testing.T) {
	s := filled().Apply(form.SetFlag{Group: AddOnGroup, Flag: AddOnTopLoad, Value: true})
	s = s.Apply(form.SetFlag{Group: AddOnGroup, Flag: AddOnEnclosed, Value: true})
	assert.Equal(t, AddOns{TopLoad: true, Enclosed: true}, AddOnsFrom(s))
}

func TestReference(t *testing.T) {
	assert.Equal(t, "PB-2026-42", Reference(epoch, sim.FixedRand(42)))
	assert.Equal(t, "PB-2026-9999", Reference(epoch, sim.FixedRand(20000)))
	assert.Equal(t, "PB-2026-0", Reference(epoch, sim.FixedRand(0)))
}

func driveToConfirm(t *testing.T, w *Wizard) {
	t.Helper()
	for _, u := range filledUpdates() {
		require.True(t, w.Apply(u))
	}
	for i := 1; i < Steps; i++ {
		require.True(t, w.Next(), "advance from step %d", i)
	}
	require.True(t, w.CanConfirm())
}

func TestWizard_ConfirmsAfterDelay(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	rng := sim.NewSeqRand(4821, 17)
	w := New(Options{Clock: clock, Rand: rng})
	defer w.Close()

	driveToConfirm(t, w)
	require.True(t, w.Apply(form.SetFlag{Group: AddOnGroup, Flag: AddOnEnclosed, Value: true}))
	require.True(t, w.Confirm())
	assert.False(t, w.Confirm(), "disabled while processing")
	assert.Equal(t, 1, clock.Scheduled())

	clock.Advance(DefaultDelay)
	require.Equal(t, submit.Confirmed, w.Phase())

	first, ok := w.Result()
	require.True(t, ok)
	second, _ := w.Result()
	assert.Equal(t, first, second, "reference stable across reads")
	assert.Equal(t, "PB-2026-4821", first.Reference)
	assert.Equal(t, 675, first.Deposit)
	assert.Equal(t, "grace@example.com", first.Email)
	assert.Equal(t, DefaultQuoteID, first.QuoteID)
	assert.Equal(t, epoch.Add(DefaultDelay), first.ConfirmedAt)
	assert.Equal(t, 1, rng.Calls())
}

func TestWizard_ConfirmedIsTerminal(t *testing.T) {
	w := New(Options{Clock: sim.ImmediateClock{At: epoch}, Rand: sim.FixedRand(1)})
	defer w.Close()

	driveToConfirm(t, w)
	require.True(t, w.Confirm())
	require.Equal(t, submit.Confirmed, w.Phase())

	assert.False(t, w.Discard())
	assert.False(t, w.Back())
	assert.False(t, w.Apply(form.SetText{Field: Email, Value: "x@y"}))
	got, _ := w.Result()
	assert.Equal(t, "PB-2026-1", got.Reference)
}

func TestWizard_DiscardWhileProcessingStillConfirms(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	w := New(Options{Clock: clock, Rand: sim.FixedRand(1)})
	defer w.Close()

	driveToConfirm(t, w)
	require.True(t, w.Confirm())
	assert.False(t, w.Discard())
	assert.False(t, w.Back())
	assert.Equal(t, submit.Processing, w.Phase())

	clock.Advance(DefaultDelay)
	require.Equal(t, submit.Confirmed, w.Phase())
	got, ok := w.Result()
	require.True(t, ok)
	assert.Equal(t, "PB-2026-1", got.Reference)
}

func TestWizard_CloseMidProcessing(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	rng := sim.NewSeqRand(1)
	w := New(Options{Clock: clock, Rand: rng})

	driveToConfirm(t, w)
	require.True(t, w.Confirm())
	w.Close()
	clock.Advance(time.Hour)

	assert.Equal(t, submit.Processing, w.Phase())
	assert.Equal(t, 0, rng.Calls(), "no artifact after teardown")
	assert.Equal(t, 1, clock.Stopped())
}

func TestFromQuote(t *testing.T) {
	q := form.New(
		form.SetText{Field: quote.Origin, Value: "New York"},
		form.SetText{Field: quote.Destination, Value: "Miami"},
		form.SetText{Field: quote.VehicleModel, Value: "G-Class"},
		form.SetText{Field: quote.ShippingMethod, Value: "enclosed"},
		form.SetText{Field: quote.Timeframe, Value: "rush"},
		form.SetText{Field: quote.Email, Value: "q@example.com"},
	)

	w := New(Options{Clock: sim.NewFakeClock(epoch), Prefill: FromQuote(q)})
	defer w.Close()

	s := w.State()
	assert.Equal(t, "New York", s.Text(PickupCity))
	assert.Equal(t, "Miami", s.Text(DeliveryCity))
	assert.Equal(t, "G-Class", s.Text(VehicleModel))
	assert.Equal(t, "q@example.com", s.Text(Email))
	assert.Equal(t, DefaultCondition, s.Text(Condition), "empty quote fields keep defaults")
	assert.Equal(t, AddOns{Enclosed: true, Expedited: true}, AddOnsFrom(s))
	assert.Equal(t, 1, w.Step())
}
