package quote

import (
	"github.com/gosimple/slug"

	"github.com/polaron/polaron/internal/money"
	"github.com/polaron/polaron/internal/sim"
)

// RatePerMile is the base price per mile in dollars.
const RatePerMile = 0.85

const (
	fallbackMin  = 500
	fallbackSpan = 2000
)

var distances = map[string]int{
	"new-york-los-angeles": 2800,
	"new-york-miami":       1300,
	"new-york-chicago":     800,
	"los-angeles-chicago":  2000,
	"los-angeles-miami":    2700,
	"chicago-miami":        1400,
	"new-york-london":      3500,
	"los-angeles-tokyo":    5500,
	"miami-sao-paulo":      4200,
}

var methodMultipliers = map[string]float64{
	"open":     1.0,
	"enclosed": 1.8,
	"single":   2.5,
}

var timeframeMultipliers = map[string]float64{
	"standard":  1.0,
	"expedited": 1.3,
	"rush":      1.6,
}

// Request holds the inputs the estimator reads.
type Request struct {
	Origin         string `json:"origin" binding:"required"`
	Destination    string `json:"destination" binding:"required"`
	ShippingMethod string `json:"shippingMethod"`
	Timeframe      string `json:"timeframe"`
}

// PriceQuote is a computed estimate.
type PriceQuote struct {
	Origin              string  `json:"origin"`
	Destination         string  `json:"destination"`
	Distance            int     `json:"distance"`
	KnownRoute          bool    `json:"knownRoute"`
	BasePrice           float64 `json:"basePrice"`
	MethodMultiplier    float64 `json:"methodMultiplier"`
	TimeframeMultiplier float64 `json:"timeframeMultiplier"`
	Total               float64 `json:"total"`
	Min                 float64 `json:"min"`
	Max                 float64 `json:"max"`
	Range               string  `json:"range"`
}

// RouteKey normalises a city pair into the lookup key, for example
// "New York" and "Los Angeles" become "new-york-los-angeles".
func RouteKey(origin, destination string) string {
	return slug.Make(origin) + "-" + slug.Make(destination)
}

// Routes returns a copy of the distance table.
func Routes() map[string]int {
	out := make(map[string]int, len(distances))
	for k, v := range distances {
		out[k] = v
	}
	return out
}

// MethodMultiplier returns the multiplier for a shipping method, 1.0 when
// unknown.
func MethodMultiplier(method string) float64 {
	if m, ok := methodMultipliers[method]; ok {
		return m
	}
	return 1.0
}

// TimeframeMultiplier returns the multiplier for a timeframe, 1.0 when
// unknown.
func TimeframeMultiplier(timeframe string) float64 {
	if m, ok := timeframeMultipliers[timeframe]; ok {
		return m
	}
	return 1.0
}

// Estimator prices routes. Unknown routes draw a distance in [500, 2500)
// from Rand on every call, or from a generator seeded by the route key
// when RouteSeeded is set.
type Estimator struct {
	Rand        sim.Rand
	RouteSeeded bool
}

// Distance resolves the mileage for a route and reports whether it came
// from the table.
func (e Estimator) Distance(origin, destination string) (int, bool) {
	key := RouteKey(origin, destination)
	if d, ok := distances[key]; ok {
		return d, true
	}
	rng := e.Rand
	if e.RouteSeeded {
		rng = sim.Seeded(key)
	} else if rng == nil {
		rng = sim.DefaultRand()
	}
	return fallbackMin + rng.IntN(fallbackSpan), false
}

// Estimate prices req. It does not validate; callers gate on Validate.
func (e Estimator) Estimate(req Request) PriceQuote {
	distance, known := e.Distance(req.Origin, req.Destination)
	base := float64(distance) * RatePerMile
	method := MethodMultiplier(req.ShippingMethod)
	timeframe := TimeframeMultiplier(req.Timeframe)
	total := base * method * timeframe
	min, max := total*0.9, total*1.1
	return PriceQuote{
		Origin:              req.Origin,
		Destination:         req.Destination,
		Distance:            distance,
		KnownRoute:          known,
		BasePrice:           base,
		MethodMultiplier:    method,
		TimeframeMultiplier: timeframe,
		Total:               total,
		Min:                 min,
		Max:                 max,
		Range:               money.Range(min, max),
	}
}

// Estimate prices req with rng as the fallback source.
func Estimate(req Request, rng sim.Rand) PriceQuote {
	return Estimator{Rand: rng}.Estimate(req)
}
