package tui

import (
	"fmt"
	"strings"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/contact"
	"github.com/polaron/polaron/internal/money"
	"github.com/polaron/polaron/internal/quote"
)

// QuoteMarkdown renders a price estimate with its breakdown.
func QuoteMarkdown(q quote.PriceQuote) string {
	distance := money.Int(q.Distance) + " miles"
	if !q.KnownRoute {
		distance += " (estimated)"
	}

	var b strings.Builder
	b.WriteString("## Your Quote is Ready\n\n")
	fmt.Fprintf(&b, "# %s\n\nEstimated total cost for **%s → %s**\n\n", q.Range, q.Origin, q.Destination)
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Distance | %s |\n", distance)
	fmt.Fprintf(&b, "| Base Rate | %s |\n", money.USD(money.Round(q.BasePrice)))
	fmt.Fprintf(&b, "| Shipping Method | %gx |\n", q.MethodMultiplier)
	fmt.Fprintf(&b, "| Timeframe | %gx |\n", q.TimeframeMultiplier)
	fmt.Fprintf(&b, "| **Estimated Total** | **%s** |\n\n", q.Range)
	b.WriteString("_This is an estimate. Final pricing may vary based on exact locations, " +
		"vehicle specifications, and current market conditions._\n")
	return b.String()
}

// BookingMarkdown renders a booking confirmation.
func BookingMarkdown(c booking.Confirmation) string {
	var b strings.Builder
	b.WriteString("## Booking Confirmed!\n\nYour shipment has been successfully booked.\n\n")
	if c.Email != "" {
		fmt.Fprintf(&b, "Confirmation email sent to **%s**\n\n", c.Email)
	}
	fmt.Fprintf(&b, "- **Booking Reference:** %s\n", c.Reference)
	if c.QuoteID != "" {
		fmt.Fprintf(&b, "- **Quote:** %s\n", c.QuoteID)
	}
	fmt.Fprintf(&b, "- **Deposit Paid:** %s\n", money.USD(c.Deposit))
	if labels := c.AddOns.Labels(); len(labels) > 0 {
		fmt.Fprintf(&b, "- **Add-ons:** %s\n", strings.Join(labels, ", "))
	}
	b.WriteString("\nOur team will contact you within 24 hours to finalize pickup details " +
		"and provide tracking information.\n")
	return b.String()
}

// ContactMarkdown renders the contact acknowledgement.
func ContactMarkdown(a contact.Acknowledgement) string {
	name := a.Name
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("## Message Sent!\n\nThanks, %s. We'll get back to you within 24 hours at **%s**.\n\n_Subject: %s_\n",
		name, a.Email, a.Subject)
}
