package booking

import (
	"unicode/utf8"

	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/quote"
)

// Validate reports whether step is complete. These are format checks, not
// real validation: no Luhn check on the card, no email grammar.
func Validate(step int, s form.State) bool {
	switch step {
	case 1:
		return runes(s.Text(PickupAddress)) > 3 && runes(s.Text(DeliveryAddress)) > 3
	case 2:
		return s.Text(PickupDate) != "" && s.Text(DeliveryDate) != ""
	case 3:
		return s.Text(VehicleModel) != "" && s.Text(VehicleYear) != ""
	case 4:
		return quote.ContactValid(s)
	case 5:
		return runes(s.Text(CardNumber)) >= 15 &&
			s.Text(CardName) != "" &&
			runes(s.Text(ExpiryDate)) >= 4 &&
			runes(s.Text(CVV)) >= 3 &&
			s.Bool(AgreeTerms)
	default:
		return true
	}
}

func runes(v string) int { return utf8.RuneCountInString(v) }
