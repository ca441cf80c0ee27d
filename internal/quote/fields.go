package quote

import (
	"github.com/polaron/polaron/internal/flow"
)

// Field names.
const (
	Origin         = "origin"
	Destination    = "destination"
	VehicleType    = "vehicleType"
	VehicleModel   = "vehicleModel"
	VehicleYear    = "vehicleYear"
	Condition      = "condition"
	ShippingMethod = "shippingMethod"
	Timeframe      = "timeframe"
	FirstName      = "firstName"
	LastName       = "lastName"
	Email          = "email"
	Phone          = "phone"
)

// Steps is the number of steps in the quote flow.
const Steps = 5

// VehicleTypes lists the vehicle categories offered.
var VehicleTypes = []flow.Option{
	{Value: "sedan", Label: "Sedan/Coupe"},
	{Value: "suv", Label: "SUV/Truck"},
	{Value: "classic", Label: "Classic Mercedes"},
	{Value: "amg", Label: "AMG Performance"},
	{Value: "convertible", Label: "Convertible"},
	{Value: "limited", Label: "Limited Edition"},
}

// ShippingMethods lists the transport options.
var ShippingMethods = []flow.Option{
	{Value: "open", Label: "Open Transport", Hint: "Cost-effective for standard vehicles"},
	{Value: "enclosed", Label: "Enclosed Transport", Hint: "Premium protection for valuable vehicles"},
	{Value: "single", Label: "Single Carrier", Hint: "Dedicated transport for ultimate protection"},
}

// Timeframes lists the delivery windows.
var Timeframes = []flow.Option{
	{Value: "standard", Label: "Standard (7-14 days)"},
	{Value: "expedited", Label: "Expedited (3-7 days)"},
	{Value: "rush", Label: "Rush (1-3 days)"},
}

// Conditions lists the vehicle condition grades.
var Conditions = []flow.Option{
	{Value: "excellent", Label: "Excellent"},
	{Value: "good", Label: "Good"},
	{Value: "fair", Label: "Fair"},
	{Value: "restored", Label: "Fully Restored"},
}

// ContactFields is the contact step shared with the booking flow.
var ContactFields = []flow.Field{
	{Name: FirstName, Label: "First Name", Placeholder: "Your first name"},
	{Name: LastName, Label: "Last Name", Placeholder: "Your last name"},
	{Name: Email, Label: "Email Address", Placeholder: "your@email.com"},
	{Name: Phone, Label: "Phone Number", Placeholder: "+1 (555) 000-0000"},
}

var steps = []flow.Step{
	{
		Title: "Route",
		Fields: []flow.Field{
			{Name: Origin, Label: "Origin Location", Placeholder: "e.g., New York, NY"},
			{Name: Destination, Label: "Destination Location", Placeholder: "e.g., Los Angeles, CA"},
		},
	},
	{
		Title: "Vehicle",
		Fields: []flow.Field{
			{Name: VehicleType, Label: "Vehicle Type", Kind: flow.FieldChoice, Options: VehicleTypes},
			{Name: VehicleModel, Label: "Vehicle Model", Placeholder: "e.g., S-Class, SL550"},
			{Name: VehicleYear, Label: "Year", Placeholder: "e.g., 2023", MaxLen: 4},
			{Name: Condition, Label: "Vehicle Condition", Kind: flow.FieldChoice, Options: Conditions, Optional: true},
		},
	},
	{
		Title: "Shipping",
		Fields: []flow.Field{
			{Name: ShippingMethod, Label: "Shipping Method", Kind: flow.FieldChoice, Options: ShippingMethods},
			{Name: Timeframe, Label: "Timeframe", Kind: flow.FieldChoice, Options: Timeframes},
		},
	},
	{Title: "Contact", Fields: ContactFields},
	{Title: "Quote"},
}

// Definition describes the quote flow.
func Definition() flow.Definition {
	return flow.Definition{
		Name:     "quote",
		Steps:    steps,
		Validate: Validate,
	}
}
