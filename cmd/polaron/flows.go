package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/tui"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Get an instant transport quote",
	Long: `Walk through the five-step quote form: route, vehicle, shipping
options, contact details and the calculated estimate.

From the estimate, press b to continue straight into a booking prefilled
with your contact details and chosen shipping method.`,
	RunE: runQuote,
}

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book a vehicle shipment",
	Long: `Walk through the six-step booking form: addresses, schedule and
add-ons, vehicle details, contact details, payment and review.`,
	RunE: runBook,
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to the team",
	RunE:  runContact,
}

// flowContext returns a context cancelled on SIGINT or SIGTERM.
func flowContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newEnv(rt *runtime) tui.Env {
	return tui.Env{Config: rt.cfg, Publisher: rt.publisher()}
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx, cancel := flowContext()
	defer cancel()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	outcome, err := tui.RunQuote(ctx, newEnv(rt))
	if errors.Is(err, tui.ErrCancelled) {
		fmt.Println("Quote cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Estimated price %s for %s → %s\n", outcome.Quote.Range, outcome.Quote.Origin, outcome.Quote.Destination)
	if !outcome.Book {
		return nil
	}

	logger.Debug("Continuing to booking from quote")
	return book(ctx, rt, booking.FromQuote(outcome.State))
}

func runBook(cmd *cobra.Command, args []string) error {
	ctx, cancel := flowContext()
	defer cancel()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	return book(ctx, rt, nil)
}

func book(ctx context.Context, rt *runtime, prefill []form.Update) error {
	c, err := tui.RunBooking(ctx, newEnv(rt), prefill)
	if errors.Is(err, tui.ErrCancelled) {
		fmt.Println("Booking cancelled.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Booking %s confirmed.\n", c.Reference)
	return nil
}

func runContact(cmd *cobra.Command, args []string) error {
	ctx, cancel := flowContext()
	defer cancel()

	rt, err := loadRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	ack, err := tui.RunContact(ctx, newEnv(rt))
	if errors.Is(err, tui.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Message from %s sent.\n", ack.Name)
	return nil
}
