package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/tui/theme"
)

const (
	logoText1 = "█▀█ █▀█ █   ▄▀█ █▀█ █▀█ █▄ █"
	logoText2 = "█▀▀ █▄█ █▄▄ █▀█ █▀▄ █▄█ █ ▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "polaron",
	Short: "Vehicle transport quotes, bookings and enquiries from the terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

polaron walks you through getting a vehicle transport quote, booking the
shipment and contacting the team. Each flow is a multi-step form with
per-step validation and a simulated submission.

Quotes and deposits can also be computed non-interactively, served over
HTTP, or exposed as MCP tools.`

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(setupCmd)
}
