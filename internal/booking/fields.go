package booking

import (
	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/quote"
)

// Field names.
const (
	QuoteID             = "quoteId"
	PickupAddress       = "pickupAddress"
	PickupCity          = "pickupCity"
	PickupState         = "pickupState"
	PickupZip           = "pickupZip"
	DeliveryAddress     = "deliveryAddress"
	DeliveryCity        = "deliveryCity"
	DeliveryState       = "deliveryState"
	DeliveryZip         = "deliveryZip"
	PickupDate          = "pickupDate"
	DeliveryDate        = "deliveryDate"
	FlexibleDates       = "flexibleDates"
	VehicleMake         = "vehicleMake"
	VehicleModel        = "vehicleModel"
	VehicleYear         = "vehicleYear"
	VehicleColor        = "vehicleColor"
	VIN                 = "vin"
	Condition           = "condition"
	Modifications       = "modifications"
	SpecialInstructions = "specialInstructions"
	CardNumber          = "cardNumber"
	CardName            = "cardName"
	ExpiryDate          = "expiryDate"
	CVV                 = "cvv"
	BillingZip          = "billingZip"
	AgreeTerms          = "agreeTerms"

	FirstName = quote.FirstName
	LastName  = quote.LastName
	Email     = quote.Email
	Phone     = quote.Phone
)

// AddOnGroup is the flag group holding the add-on toggles.
const AddOnGroup = "addOns"

// Add-on flag names.
const (
	AddOnExpedited      = "expedited"
	AddOnTopLoad        = "topLoad"
	AddOnExtraInsurance = "extraInsurance"
	AddOnEnclosed       = "enclosed"
)

// Steps is the number of steps in the booking flow.
const Steps = 6

// Defaults for a new booking.
const (
	DefaultQuoteID   = "PQ-2024-1234"
	DefaultMake      = "Mercedes-Benz"
	DefaultCondition = "excellent"
)

// AddOnOptions lists the add-ons in display order.
var AddOnOptions = []flow.Option{
	{Value: AddOnEnclosed, Label: "Enclosed Transport"},
	{Value: AddOnExpedited, Label: "Expedited Shipping"},
	{Value: AddOnTopLoad, Label: "Top Load Priority"},
	{Value: AddOnExtraInsurance, Label: "Enhanced Insurance"},
}

// Conditions lists the condition grades with their descriptions.
var Conditions = []flow.Option{
	{Value: "excellent", Label: "Excellent", Hint: "Showroom condition"},
	{Value: "good", Label: "Good", Hint: "Minor wear, no damage"},
	{Value: "fair", Label: "Fair", Hint: "Some cosmetic issues"},
	{Value: "restored", Label: "Fully Restored", Hint: "Classic restored"},
}

func addOnFields() []flow.Field {
	fields := make([]flow.Field, 0, len(AddOnOptions))
	for _, o := range AddOnOptions {
		fields = append(fields, flow.Field{
			Name:     o.Value,
			Label:    o.Label,
			Kind:     flow.FieldFlag,
			Group:    AddOnGroup,
			Optional: true,
		})
	}
	return fields
}

var steps = []flow.Step{
	{
		Title: "Locations",
		Fields: []flow.Field{
			{Name: PickupAddress, Label: "Pickup Address", Placeholder: "Street Address"},
			{Name: PickupCity, Label: "Pickup City", Placeholder: "City", Optional: true},
			{Name: PickupState, Label: "Pickup State", Placeholder: "State", Optional: true},
			{Name: PickupZip, Label: "Pickup ZIP", Placeholder: "ZIP Code", Optional: true},
			{Name: DeliveryAddress, Label: "Delivery Address", Placeholder: "Street Address"},
			{Name: DeliveryCity, Label: "Delivery City", Placeholder: "City", Optional: true},
			{Name: DeliveryState, Label: "Delivery State", Placeholder: "State", Optional: true},
			{Name: DeliveryZip, Label: "Delivery ZIP", Placeholder: "ZIP Code", Optional: true},
		},
	},
	{
		Title: "Schedule",
		Fields: append([]flow.Field{
			{Name: PickupDate, Label: "Preferred Pickup Date", Placeholder: "YYYY-MM-DD", MaxLen: 10},
			{Name: DeliveryDate, Label: "Preferred Delivery Date", Placeholder: "YYYY-MM-DD", MaxLen: 10},
			{Name: FlexibleDates, Label: "I have flexible dates (may reduce cost)", Kind: flow.FieldToggle, Optional: true},
		}, addOnFields()...),
	},
	{
		Title: "Vehicle",
		Fields: []flow.Field{
			{Name: VehicleModel, Label: "Model", Placeholder: "e.g., S-Class 560"},
			{Name: VehicleYear, Label: "Year", Placeholder: "e.g., 2023", MaxLen: 4},
			{Name: VehicleColor, Label: "Color", Placeholder: "e.g., Obsidian Black", Optional: true},
			{Name: VIN, Label: "VIN (Optional)", Placeholder: "Vehicle Identification Number", MaxLen: 17, Optional: true},
			{Name: Condition, Label: "Condition", Kind: flow.FieldChoice, Options: Conditions},
			{Name: Modifications, Label: "Modifications (Optional)", Placeholder: "List any aftermarket modifications or special features", Kind: flow.FieldLongText, Optional: true},
			{Name: SpecialInstructions, Label: "Special Instructions (Optional)", Placeholder: "Any specific requirements for pickup or delivery", Kind: flow.FieldLongText, Optional: true},
		},
	},
	{Title: "Contact", Fields: quote.ContactFields},
	{
		Title: "Payment",
		Fields: []flow.Field{
			{Name: CardNumber, Label: "Card Number", Placeholder: "1234 5678 9012 3456", MaxLen: 19, Masked: true},
			{Name: CardName, Label: "Cardholder Name", Placeholder: "Name on card"},
			{Name: ExpiryDate, Label: "Expiry", Placeholder: "MM/YY", MaxLen: 5},
			{Name: CVV, Label: "CVV", Placeholder: "123", MaxLen: 4, Masked: true},
			{Name: BillingZip, Label: "ZIP", Placeholder: "12345", Optional: true},
			{Name: AgreeTerms, Label: "I agree to the Terms of Service and Privacy Policy", Kind: flow.FieldToggle},
		},
	},
	{Title: "Confirm"},
}

// Initial returns the seeded state of a new booking.
func Initial() form.State {
	return form.New(
		form.SetText{Field: QuoteID, Value: DefaultQuoteID},
		form.SetText{Field: VehicleMake, Value: DefaultMake},
		form.SetText{Field: Condition, Value: DefaultCondition},
		form.SetBool{Field: FlexibleDates, Value: false},
		form.SetBool{Field: AgreeTerms, Value: false},
		form.SetFlag{Group: AddOnGroup, Flag: AddOnExpedited, Value: false},
		form.SetFlag{Group: AddOnGroup, Flag: AddOnTopLoad, Value: false},
		form.SetFlag{Group: AddOnGroup, Flag: AddOnExtraInsurance, Value: false},
		form.SetFlag{Group: AddOnGroup, Flag: AddOnEnclosed, Value: false},
	)
}

// Definition describes the booking flow. Confirmation is terminal.
func Definition() flow.Definition {
	return flow.Definition{
		Name:     "booking",
		Steps:    steps,
		Validate: Validate,
		Initial:  Initial(),
		Terminal: true,
	}
}
