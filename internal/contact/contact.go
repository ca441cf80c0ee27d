// Package contact implements the single-step contact form. Submitting shows
// an acknowledgement that withdraws itself after a few seconds.
package contact

import (
	"strings"
	"time"

	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/sim"
	"github.com/polaron/polaron/internal/submit"
)

const (
	FirstName       = "firstName"
	LastName        = "lastName"
	Email           = "email"
	Phone           = "phone"
	Subject         = "subject"
	VehicleInterest = "vehicleInterest"
	Message         = "message"
)

// DefaultDelay is how long the acknowledgement stays up.
const DefaultDelay = 3000 * time.Millisecond

var Subjects = []string{
	"General Inquiry",
	"Get a Quote",
	"Book Shipment",
	"Track Vehicle",
	"Membership Inquiry",
	"Insurance Question",
	"Partnership Opportunity",
	"Other",
}

func subjectOptions() []flow.Option {
	out := make([]flow.Option, len(Subjects))
	for i, s := range Subjects {
		out[i] = flow.Option{Value: s, Label: s}
	}
	return out
}

// Definition describes the contact form.
func Definition() flow.Definition {
	return flow.Definition{
		Name: "contact",
		Steps: []flow.Step{{
			Title: "Send Us a Message",
			Fields: []flow.Field{
				{Name: FirstName, Label: "First Name", Placeholder: "Your first name"},
				{Name: LastName, Label: "Last Name", Placeholder: "Your last name"},
				{Name: Email, Label: "Email", Placeholder: "your@email.com"},
				{Name: Phone, Label: "Phone", Placeholder: "+1 (555) 000-0000", Optional: true},
				{Name: Subject, Label: "Subject", Kind: flow.FieldChoice, Options: subjectOptions()},
				{Name: VehicleInterest, Label: "Vehicle of Interest", Placeholder: "e.g., 2023 S-Class 560", Optional: true},
				{Name: Message, Label: "Message", Placeholder: "Tell us about your transport needs...", Kind: flow.FieldLongText},
			},
		}},
		Validate: Validate,
	}
}

// Validate checks the required fields of the single step.
func Validate(step int, s form.State) bool {
	if step != 1 {
		return true
	}
	return s.Text(FirstName) != "" &&
		s.Text(LastName) != "" &&
		strings.Contains(s.Text(Email), "@") &&
		s.Text(Subject) != "" &&
		s.Text(Message) != ""
}

// Acknowledgement is shown while a message is marked as sent.
type Acknowledgement struct {
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Subject string    `json:"subject"`
	SentAt  time.Time `json:"sentAt"`
}

// Options configures a contact form.
type Options struct {
	Clock    sim.Clock
	Delay    time.Duration
	OnChange func(submit.Phase)
}

// Wizard is a contact form instance.
type Wizard = flow.Wizard[Acknowledgement]

// New creates a contact form whose Confirm acknowledges at once and returns
// to editing after the delay.
func New(opts Options) *Wizard {
	if opts.Clock == nil {
		opts.Clock = sim.RealClock()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	copts := []submit.Option{submit.WithRevert()}
	if opts.OnChange != nil {
		copts = append(copts, submit.WithOnChange(opts.OnChange))
	}
	clock := opts.Clock
	ctrl := submit.New[Acknowledgement](clock, opts.Delay, copts...)
	return flow.New(Definition(), ctrl, func(s form.State) Acknowledgement {
		return Acknowledgement{
			Name:    strings.TrimSpace(s.Text(FirstName) + " " + s.Text(LastName)),
			Email:   s.Text(Email),
			Subject: s.Text(Subject),
			SentAt:  clock.Now(),
		}
	})
}
