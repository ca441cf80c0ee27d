package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/polaron/polaron/internal/api"
	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/mcpserver"
	"github.com/polaron/polaron/internal/sim"
)

var serveFlags struct {
	addr    string
	withMCP bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the estimators and validators over HTTP",
	Long: `Start the JSON API (catalog, estimates, deposits, step validation and
recent activity). With --mcp the MCP tool server is started alongside it
on mcp_addr.`,
	RunE: runServe,
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the estimators and validators as MCP tools",
	RunE:  runMCP,
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.addr, "addr", "a", "", "Listen address (default: http_addr from config)")
	serveCmd.Flags().BoolVar(&serveFlags.withMCP, "mcp", false, "Also start the MCP server")
}

// serverRuntime loads the runtime for a long-running server. Without a
// log file, logs go to stderr since no TUI owns the terminal.
func serverRuntime(ctx context.Context) (*runtime, error) {
	rt, err := loadRuntime(ctx)
	if err != nil {
		return nil, err
	}
	if rt.cfg.LogFile == "" {
		logger.Default.SetOutput(os.Stderr)
	}
	return rt, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := serverRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	addr := serveFlags.addr
	if addr == "" {
		addr = rt.cfg.HTTPAddr
	}
	srv := api.New(api.Options{
		Publisher:   rt.publisher(),
		Activity:    rt.activity(),
		Rand:        sim.DefaultRand(),
		RouteSeeded: rt.cfg.RouteSeededFallback,
		Version:     version,
	})
	if err := srv.Start(addr); err != nil {
		return err
	}
	defer stopWithTimeout("API server", srv.Stop)
	fmt.Printf("API listening on http://%s\n", srv.Addr())

	if serveFlags.withMCP {
		m, err := startMCP(rt)
		if err != nil {
			return err
		}
		defer stopWithTimeout("MCP server", m.Stop)
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	return nil
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := serverRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	m, err := startMCP(rt)
	if err != nil {
		return err
	}
	defer stopWithTimeout("MCP server", m.Stop)

	<-ctx.Done()
	logger.Info("Shutting down")
	return nil
}

func startMCP(rt *runtime) (*mcpserver.Server, error) {
	m := mcpserver.New(mcpserver.Options{
		Publisher:   rt.publisher(),
		Activity:    rt.activity(),
		Rand:        sim.DefaultRand(),
		RouteSeeded: rt.cfg.RouteSeededFallback,
		Version:     version,
	})
	if _, err := m.Start(rt.cfg.MCPAddr); err != nil {
		return nil, fmt.Errorf("failed to start MCP server: %w", err)
	}
	fmt.Printf("MCP tools at %s\n", m.URL())
	return m, nil
}

func stopWithTimeout(name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("Failed to stop %s: %v", name, err)
	}
}
