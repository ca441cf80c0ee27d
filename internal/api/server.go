// Package api serves the estimators and validators as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

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
	Logger      logrus.FieldLogger
	Version     string
}

// Server holds the router and its collaborators.
type Server struct {
	router    *gin.Engine
	pub       events.Publisher
	activity  ActivitySource
	estimator quote.Estimator
	version   string

	httpServer *http.Server
	listener   net.Listener
}

// New builds a server with all routes registered.
func New(opts Options) *Server {
	if opts.Publisher == nil {
		opts.Publisher = events.Discard
	}
	if opts.Rand == nil {
		opts.Rand = sim.DefaultRand()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Logrus()
	}
	s := &Server{
		pub:       opts.Publisher,
		activity:  opts.Activity,
		estimator: quote.Estimator{Rand: opts.Rand, RouteSeeded: opts.RouteSeeded},
		version:   opts.Version,
	}
	s.router = s.setupRoutes(opts.Logger)
	return s
}

func (s *Server) setupRoutes(log logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(log))
	router.GET("/healthz", s.getHealth)

	v1 := router.Group("/v1")
	v1.GET("/catalog", s.getCatalog)
	v1.GET("/activity", s.getActivity)
	v1.POST("/quotes/estimate", s.postEstimate)
	v1.POST("/bookings/deposit", s.postDeposit)
	v1.POST("/steps/validate", s.postValidate)
	return router
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error: %v", err)
		}
	}()
	logger.Info("HTTP API listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
