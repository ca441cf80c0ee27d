package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/money"
	"github.com/polaron/polaron/internal/nats"
	"github.com/polaron/polaron/internal/quote"
	"github.com/polaron/polaron/internal/sim"
)

var estimateFlags struct {
	origin      string
	destination string
	method      string
	timeframe   string
	json        bool
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Print a price estimate without the interactive form",
	Long: `Price a route directly. Known city pairs use the distance table;
other routes get an estimated distance, stable per route when
route_seeded_fallback is enabled.`,
	Example: `  polaron estimate --from "New York" --to "Los Angeles" --method enclosed`,
	RunE:    runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateFlags.origin, "from", "f", "", "Origin city")
	estimateCmd.Flags().StringVarP(&estimateFlags.destination, "to", "t", "", "Destination city")
	estimateCmd.Flags().StringVarP(&estimateFlags.method, "method", "m", "open", "Shipping method (open, enclosed, single)")
	estimateCmd.Flags().StringVar(&estimateFlags.timeframe, "timeframe", "standard", "Timeframe (standard, expedited, rush)")
	estimateCmd.Flags().BoolVar(&estimateFlags.json, "json", false, "Print the full estimate as JSON")
	_ = estimateCmd.MarkFlagRequired("from")
	_ = estimateCmd.MarkFlagRequired("to")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	req := quote.Request{
		Origin:         estimateFlags.origin,
		Destination:    estimateFlags.destination,
		ShippingMethod: estimateFlags.method,
		Timeframe:      estimateFlags.timeframe,
	}
	est := quote.Estimator{Rand: sim.DefaultRand(), RouteSeeded: rt.cfg.RouteSeededFallback}
	q, err := estimate(est, req)
	if err != nil {
		return err
	}
	if err := rt.publisher().Publish(cmd.Context(), nats.FlowQuote, nats.ActionEstimated, q); err != nil {
		logger.Warn("Failed to publish estimate: %v", err)
	}
	return writeEstimate(cmd.OutOrStdout(), q, estimateFlags.json)
}

// estimate validates the route the same way the quote form does, then
// prices it.
func estimate(est quote.Estimator, req quote.Request) (quote.PriceQuote, error) {
	route := form.New(
		form.SetText{Field: quote.Origin, Value: req.Origin},
		form.SetText{Field: quote.Destination, Value: req.Destination},
	)
	if !quote.Validate(1, route) {
		return quote.PriceQuote{}, errors.New("origin and destination must be longer than 2 characters")
	}
	return est.Estimate(req), nil
}

func writeEstimate(w io.Writer, q quote.PriceQuote, asJSON bool) error {
	if asJSON {
		return writeJSON(w, q)
	}
	distance := money.Int(q.Distance) + " miles"
	if !q.KnownRoute {
		distance += " (estimated)"
	}
	_, err := fmt.Fprintf(w, "%s → %s\n  Distance:  %s\n  Base rate: %s\n  Estimate:  %s\n",
		q.Origin, q.Destination, distance, money.USD(money.Round(q.BasePrice)), q.Range)
	return err
}
