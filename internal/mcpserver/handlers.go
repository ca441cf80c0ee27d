package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/polaron/polaron/internal/booking"
	"github.com/polaron/polaron/internal/catalog"
	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/form"
	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/money"
	"github.com/polaron/polaron/internal/nats"
	"github.com/polaron/polaron/internal/quote"
)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleEstimateQuote prices a route.
func (s *Server) handleEstimateQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}

	req := quote.Request{}
	req.Origin, _ = args["origin"].(string)
	req.Destination, _ = args["destination"].(string)
	req.ShippingMethod, _ = args["shippingMethod"].(string)
	req.Timeframe, _ = args["timeframe"].(string)

	route := form.New(
		form.SetText{Field: quote.Origin, Value: req.Origin},
		form.SetText{Field: quote.Destination, Value: req.Destination},
	)
	if !quote.Validate(1, route) {
		return mcp.NewToolResultError("origin and destination must be longer than 2 characters"), nil
	}

	q := s.estimator.Estimate(req)
	if err := s.pub.Publish(ctx, nats.FlowQuote, nats.ActionEstimated, q); err != nil {
		logger.Warn("Failed to publish estimate: %v", err)
	}

	known := "estimated distance"
	if q.KnownRoute {
		known = "known route"
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"%s → %s: %s (%s mi, %s)\nBase %s × method %.1f × timeframe %.1f",
		q.Origin, q.Destination, q.Range, money.Int(q.Distance), known,
		money.USD(money.Round(q.BasePrice)), q.MethodMultiplier, q.TimeframeMultiplier,
	)), nil
}

// handleBookingDeposit computes a deposit from add-on flags.
func (s *Server) handleBookingDeposit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	flag := func(name string) bool {
		v, _ := args[name].(bool)
		return v
	}
	addOns := booking.AddOns{
		Expedited:      flag(booking.AddOnExpedited),
		TopLoad:        flag(booking.AddOnTopLoad),
		ExtraInsurance: flag(booking.AddOnExtraInsurance),
		Enclosed:       flag(booking.AddOnEnclosed),
	}
	deposit := booking.Deposit(addOns)
	if err := s.pub.Publish(ctx, nats.FlowBooking, nats.ActionDeposit, map[string]any{
		"deposit": deposit,
		"addOns":  addOns,
	}); err != nil {
		logger.Warn("Failed to publish deposit: %v", err)
	}

	labels := addOns.Labels()
	if len(labels) == 0 {
		labels = []string{"no add-ons"}
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deposit %s (×%.1f, %s)",
		money.USD(deposit), addOns.Multiplier(), strings.Join(labels, ", "))), nil
}

// handleValidateStep checks one or every step of a flow.
func (s *Server) handleValidateStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("no arguments provided"), nil
	}
	name, _ := args["flow"].(string)
	def, ok := catalog.Definition(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown flow %q (want one of %s)", name, strings.Join(catalog.Flows(), ", "))), nil
	}

	// JSON numbers come as float64
	step := 0
	if v, ok := args["step"].(float64); ok {
		step = int(v)
	}
	if step < 0 || step > def.Len() {
		return mcp.NewToolResultError(fmt.Sprintf("step must be between 0 and %d", def.Len())), nil
	}

	fields, _ := args["fields"].(map[string]any)
	state := def.Initial.Merge(form.FromMap(fields))

	first, last := 1, def.Len()
	if step != 0 {
		first, last = step, step
	}
	var lines []string
	valid := true
	for i := first; i <= last; i++ {
		ok := def.Validate(i, state)
		valid = valid && ok
		mark := "ok"
		if !ok {
			mark = "incomplete"
		}
		lines = append(lines, fmt.Sprintf("  %d. %s: %s", i, def.Steps[i-1].Title, mark))
	}
	head := "valid"
	if !valid {
		head = "invalid"
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s %s\n%s", def.Name, head, strings.Join(lines, "\n"))), nil
}

// handleListCatalog returns the catalog as JSON.
func (s *Server) handleListCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(catalog.Get())
}

// handleRecentActivity summarizes the event history.
func (s *Server) handleRecentActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.activity == nil {
		return mcp.NewToolResultError(events.ErrNoHistory.Error()), nil
	}
	keep := 10
	if v, ok := request.GetArguments()["keep"].(float64); ok && v >= 0 {
		keep = int(v)
	}

	act, err := s.activity.Activity(ctx, keep)
	if errors.Is(err, events.ErrNoHistory) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}
	if act.Total == 0 {
		return mcp.NewToolResultText("No activity"), nil
	}

	keys := make([]string, 0, len(act.Counts))
	for k := range act.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{fmt.Sprintf("%d event(s):", act.Total)}
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %d", k, act.Counts[k]))
	}
	if len(act.Recent) > 0 {
		lines = append(lines, "Recent:")
		for _, ev := range act.Recent {
			lines = append(lines, fmt.Sprintf("  [%s] %s.%s", ev.Timestamp.Format("15:04:05"), ev.Flow, ev.Action))
		}
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
