package quote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/sim"
	"github.com/polaron/polaron/internal/submit"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func filled() form.State {
	return form.New(
		form.SetText{Field: Origin, Value: "New York"},
		form.SetText{Field: Destination, Value: "Los Angeles"},
		form.SetText{Field: VehicleType, Value: "sedan"},
		form.SetText{Field: VehicleModel, Value: "S-Class"},
		form.SetText{Field: VehicleYear, Value: "2023"},
		form.SetText{Field: ShippingMethod, Value: "open"},
		form.SetText{Field: Timeframe, Value: "standard"},
		form.SetText{Field: FirstName, Value: "Ada"},
		form.SetText{Field: LastName, Value: "Lovelace"},
		form.SetText{Field: Email, Value: "ada@example.com"},
		form.SetText{Field: Phone, Value: "5550001234"},
	)
}

func TestValidate_RequiredFieldsPerStep(t *testing.T) {
	required := map[int][]string{
		1: {Origin, Destination},
		2: {VehicleType, VehicleModel, VehicleYear},
		3: {ShippingMethod, Timeframe},
		4: {FirstName, LastName, Email, Phone},
	}
	full := filled()
	for step, fields := range required {
		require.True(t, Validate(step, full), "step %d valid when filled", step)
		for _, field := range fields {
			cleared := full.Apply(form.SetText{Field: field, Value: ""})
			assert.False(t, Validate(step, cleared), "step %d invalid without %s", step, field)
		}
	}
}

func TestValidate_Thresholds(t *testing.T) {
	tests := []struct {
		name  string
		step  int
		field string
		value string
		want  bool
	}{
		{"origin of two chars", 1, Origin, "NY", false},
		{"origin of three chars", 1, Origin, "NYC", true},
		{"unicode counts runes", 1, Origin, "São", true},
		{"email without at", 4, Email, "ada.example.com", false},
		{"email with bare at", 4, Email, "@", true},
		{"phone of nine", 4, Phone, "555000123", false},
		{"phone of ten", 4, Phone, "5550001234", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := filled().Apply(form.SetText{Field: tt.field, Value: tt.value})
			assert.Equal(t, tt.want, Validate(tt.step, s))
		})
	}
}

func TestValidate_UnconstrainedSteps(t *testing.T) {
	var empty form.State
	assert.True(t, Validate(5, empty))
	assert.True(t, Validate(0, empty))
	assert.True(t, Validate(99, empty))
	assert.False(t, Validate(1, empty))
}

func TestEstimate_KnownRoute(t *testing.T) {
	q := Estimate(Request{
		Origin:         "New York",
		Destination:    "Los Angeles",
		ShippingMethod: "open",
		Timeframe:      "standard",
	}, sim.FixedRand(0))

	assert.Equal(t, 2800, q.Distance)
	assert.True(t, q.KnownRoute)
	assert.InDelta(t, 2380, q.BasePrice, 1e-9)
	assert.InDelta(t, 1.0, q.MethodMultiplier, 1e-9)
	assert.InDelta(t, 1.0, q.TimeframeMultiplier, 1e-9)
	assert.InDelta(t, 2380, q.Total, 1e-9)
	assert.Equal(t, "$2,142 – $2,618", q.Range)
}

func TestEstimate_Deterministic(t *testing.T) {
	req := Request{Origin: "chicago", Destination: "MIAMI", ShippingMethod: "enclosed", Timeframe: "rush"}
	a := Estimate(req, sim.NewSeqRand(1))
	b := Estimate(req, sim.NewSeqRand(999))
	assert.Equal(t, a, b)
	assert.Equal(t, 1400, a.Distance)
	assert.InDelta(t, 1400*0.85*1.8*1.6, a.Total, 1e-6)
}

func TestEstimate_Multipliers(t *testing.T) {
	tests := []struct {
		method, timeframe string
		want              float64
	}{
		{"open", "standard", 1.0},
		{"enclosed", "standard", 1.8},
		{"single", "expedited", 2.5 * 1.3},
		{"open", "rush", 1.6},
		{"teleport", "whenever", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.method+"/"+tt.timeframe, func(t *testing.T) {
			q := Estimate(Request{Origin: "New York", Destination: "Miami", ShippingMethod: tt.method, Timeframe: tt.timeframe}, nil)
			assert.InDelta(t, 1300*0.85*tt.want, q.Total, 1e-6)
		})
	}
}

func TestEstimate_FallbackDistance(t *testing.T) {
	rng := sim.NewSeqRand(0, 1999, 250)
	e := Estimator{Rand: rng}

	d1, known := e.Distance("Boston", "Denver")
	assert.False(t, known)
	d2, _ := e.Distance("Boston", "Denver")
	d3, _ := e.Distance("Boston", "Denver")

	assert.Equal(t, 500, d1)
	assert.Equal(t, 2499, d2)
	assert.Equal(t, 750, d3, "random per call")
}

func TestEstimate_RouteSeededFallback(t *testing.T) {
	e := Estimator{RouteSeeded: true}
	d1, _ := e.Distance("Boston", "Denver")
	d2, _ := e.Distance("boston", "denver")
	assert.Equal(t, d1, d2)
	assert.GreaterOrEqual(t, d1, 500)
	assert.Less(t, d1, 2500)
}

func TestRouteKey(t *testing.T) {
	assert.Equal(t, "new-york-los-angeles", RouteKey("New York", "Los Angeles"))
	assert.Equal(t, "miami-sao-paulo", RouteKey("Miami", "São Paulo"))
	assert.Equal(t, "new-york-chicago", RouteKey("  new   york ", "Chicago"))

	// Punctuation becomes a separator, so a state suffix misses the table.
	assert.Equal(t, "new-york-ny-los-angeles", RouteKey("New York, NY", "Los Angeles"))
	_, known := Routes()[RouteKey("New York, NY", "Los Angeles")]
	assert.False(t, known)
}

func TestWizard_CalculatesAfterDelay(t *testing.T) {
	clock := sim.NewFakeClock(epoch)
	w := New(Options{Clock: clock, Rand: sim.FixedRand(0)})
	defer w.Close()

	for _, name := range filled().Names() {
		require.True(t, w.Apply(form.SetText{Field: name, Value: filled().Text(name)}))
	}
	for i := 1; i < Steps; i++ {
		require.True(t, w.Next(), "advance from step %d", i)
	}
	require.True(t, w.IsFinal())
	_, ok := w.Result()
	require.False(t, ok, "review sub-state before calculation")

	require.True(t, w.Confirm())
	assert.Equal(t, submit.Processing, w.Phase())
	clock.Advance(DefaultDelay - time.Millisecond)
	assert.Equal(t, submit.Processing, w.Phase())
	clock.Advance(time.Millisecond)

	q, ok := w.Result()
	require.True(t, ok)
	assert.Equal(t, "$2,142 – $2,618", q.Range)
}

func TestWizard_ModifyRecomputes(t *testing.T) {
	clock := sim.ImmediateClock{At: epoch}
	w := New(Options{Clock: clock})
	defer w.Close()

	s := filled()
	for _, name := range s.Names() {
		w.Apply(form.SetText{Field: name, Value: s.Text(name)})
	}
	for w.Next() {
	}
	require.True(t, w.Confirm())
	first, _ := w.Result()
	assert.Equal(t, 2800, first.Distance)

	require.True(t, w.Discard())
	for w.Back() {
	}
	w.Apply(form.SetText{Field: Destination, Value: "Chicago"})
	for w.Next() {
	}
	require.True(t, w.Confirm())
	second, _ := w.Result()
	assert.Equal(t, 800, second.Distance)
}

func TestWizard_BackFromResultThenEdit(t *testing.T) {
	w := New(Options{Clock: sim.ImmediateClock{At: epoch}})
	defer w.Close()

	s := filled()
	for _, name := range s.Names() {
		w.Apply(form.SetText{Field: name, Value: s.Text(name)})
	}
	for w.Next() {
	}
	require.True(t, w.Confirm())
	first, _ := w.Result()
	require.Equal(t, 2800, first.Distance)

	require.True(t, w.Back())
	assert.Equal(t, Steps-1, w.Step())
	assert.Equal(t, submit.Idle, w.Phase())
	_, ok := w.Result()
	assert.False(t, ok, "stale quote dropped")

	for w.Back() {
	}
	require.True(t, w.Apply(form.SetText{Field: Destination, Value: "Chicago"}))
	for w.Next() {
	}
	require.True(t, w.Confirm())
	second, _ := w.Result()
	assert.Equal(t, 800, second.Distance)
}
