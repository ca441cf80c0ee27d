package quote

import (
	"strings"
	"unicode/utf8"

	"github.com/polaron/polaron/internal/form"
)

// Validate reports whether step is complete. The checks are loose format
// checks only; any step without rules is valid.
func Validate(step int, s form.State) bool {
	switch step {
	case 1:
		return longer(s.Text(Origin), 2) && longer(s.Text(Destination), 2)
	case 2:
		return s.Text(VehicleType) != "" && s.Text(VehicleModel) != "" && s.Text(VehicleYear) != ""
	case 3:
		return s.Text(ShippingMethod) != "" && s.Text(Timeframe) != ""
	case 4:
		return ContactValid(s)
	default:
		return true
	}
}

// ContactValid checks names, an "@" in the email and a phone longer than
// nine characters.
func ContactValid(s form.State) bool {
	return s.Text(FirstName) != "" &&
		s.Text(LastName) != "" &&
		strings.Contains(s.Text(Email), "@") &&
		longer(s.Text(Phone), 9)
}

func longer(v string, n int) bool {
	return utf8.RuneCountInString(v) > n
}
