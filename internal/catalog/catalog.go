// Package catalog collects the static option lists and flow definitions
// served to API and MCP clients.
package catalog

import (
	"sort"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/contact"
	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/quote"
)

// Route is one entry of the distance table.
type Route struct {
	Key   string `json:"key"`
	Miles int    `json:"miles"`
}

// Catalog is the full set of selectable values.
type Catalog struct {
	VehicleTypes    []flow.Option `json:"vehicleTypes"`
	ShippingMethods []flow.Option `json:"shippingMethods"`
	Timeframes      []flow.Option `json:"timeframes"`
	Conditions      []flow.Option `json:"conditions"`
	AddOns          []flow.Option `json:"addOns"`
	Subjects        []string      `json:"subjects"`
	Routes          []Route       `json:"routes"`
}

// Get returns the catalog. Routes are sorted by key.
func Get() Catalog {
	routes := make([]Route, 0)
	for k, v := range quote.Routes() {
		routes = append(routes, Route{Key: k, Miles: v})
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Key < routes[j].Key })

	return Catalog{
		VehicleTypes:    quote.VehicleTypes,
		ShippingMethods: quote.ShippingMethods,
		Timeframes:      quote.Timeframes,
		Conditions:      booking.Conditions,
		AddOns:          booking.AddOnOptions,
		Subjects:        contact.Subjects,
		Routes:          routes,
	}
}

// Flows lists the flow names accepted by Definition.
func Flows() []string {
	return []string{"quote", "booking", "contact"}
}

// Definition returns the flow definition registered under name.
func Definition(name string) (flow.Definition, bool) {
	switch name {
	case "quote":
		return quote.Definition(), true
	case "booking":
		return booking.Definition(), true
	case "contact":
		return contact.Definition(), true
	default:
		return flow.Definition{}, false
	}
}
