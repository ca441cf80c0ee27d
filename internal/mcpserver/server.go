package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/logger"
	"github.com/polaron/polaron/internal/quote"
	"github.com/polaron/polaron/internal/sim"
)

// ActivitySource supplies the recent-events summary.
type ActivitySource interface {
	Activity(ctx context.Context, keep int) (*events.Activity, error)
}

// Options configures a Server.
type Options struct {
	Publisher   events.Publisher
	Activity    ActivitySource
	Rand        sim.Rand
	RouteSeeded bool
	Version     string
}

// Server manages an MCP HTTP server exposing the estimators, validators
// and catalog as tools for assistants.
type Server struct {
	pub       events.Publisher
	activity  ActivitySource
	estimator quote.Estimator
	version   string

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	addr       string
	mu         sync.Mutex
}

// New creates a server. Tools are registered immediately so handlers can be
// called directly; nothing listens until Start.
func New(opts Options) *Server {
	if opts.Publisher == nil {
		opts.Publisher = events.Discard
	}
	if opts.Rand == nil {
		opts.Rand = sim.DefaultRand()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		pub:       opts.Publisher,
		activity:  opts.Activity,
		estimator: quote.Estimator{Rand: opts.Rand, RouteSeeded: opts.RouteSeeded},
		version:   opts.Version,
	}
	s.mcpServer = server.NewMCPServer(
		"polaron-tools",
		s.version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Start serves the MCP endpoint on addr ("127.0.0.1:0" picks a free port)
// and returns the bound address.
func (s *Server) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return "", fmt.Errorf("server already started")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.addr = listener.Addr().String()

	// Pass the listener straight to Serve so the port cannot be taken in between.
	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{
		Handler: mux,
	}
	s.httpServer = mcpHandler

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Debug("MCP server ready on %s", s.addr)
	return s.addr, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(ctx); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	return nil
}

// URL returns the HTTP URL of the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://%s/mcp", s.addr)
}
