package mcpserver

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/polaron/polaron/internal/catalog"
	"github.com/polaron/polaron/internal/flow"
	"github.com/polaron/polaron/internal/quote"
)

func optionValues(opts []flow.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("estimate-quote",
			mcp.WithDescription("Estimate the price range for shipping a vehicle between two cities"),
			mcp.WithString("origin", mcp.Required(),
				mcp.Description("Pickup city, for example \"New York\""),
			),
			mcp.WithString("destination", mcp.Required(),
				mcp.Description("Delivery city, for example \"Los Angeles\""),
			),
			mcp.WithString("shippingMethod",
				mcp.Description("Shipping method"),
				mcp.Enum(optionValues(quote.ShippingMethods)...),
			),
			mcp.WithString("timeframe",
				mcp.Description("Delivery timeframe"),
				mcp.Enum(optionValues(quote.Timeframes)...),
			),
		),
		s.handleEstimateQuote,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("booking-deposit",
			mcp.WithDescription("Compute the booking deposit for a set of add-on services"),
			mcp.WithBoolean("expedited", mcp.Description("Expedited shipping")),
			mcp.WithBoolean("topLoad", mcp.Description("Top load priority")),
			mcp.WithBoolean("extraInsurance", mcp.Description("Enhanced insurance")),
			mcp.WithBoolean("enclosed", mcp.Description("Enclosed transport")),
		),
		s.handleBookingDeposit,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("validate-step",
			mcp.WithDescription("Check whether form fields satisfy a wizard step"),
			mcp.WithString("flow", mcp.Required(),
				mcp.Description("Flow name"),
				mcp.Enum(catalog.Flows()...),
			),
			mcp.WithNumber("step",
				mcp.Description("1-based step number; omit or 0 to check every step"),
			),
			mcp.WithObject("fields",
				mcp.Description("Field values by name. Add-ons go under \"addOns\" as booleans"),
			),
		),
		s.handleValidateStep,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list-catalog",
			mcp.WithDescription("List vehicle types, shipping methods, timeframes, add-ons, subjects and known routes ("+strings.Join(catalog.Flows(), ", ")+" flows)"),
		),
		s.handleListCatalog,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("recent-activity",
			mcp.WithDescription("Summarize recently published flow events"),
			mcp.WithNumber("keep", mcp.Description("How many recent events to include (default 10)")),
		),
		s.handleRecentActivity,
	)
}
