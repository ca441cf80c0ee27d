package main

import (
	"context"
	"fmt"

	"github.com/polaron/polaron/internal/config"
	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/hooks"
	"github.com/polaron/polaron/internal/logger"
)

// runtime is the configuration and event bus shared by every command.
type runtime struct {
	cfg       *config.Config
	bus       *events.Bus
	stopHooks func()
}

// loadRuntime loads and validates configuration, applies the logging
// settings and connects the event bus when events are enabled. Hooks in
// the working directory are attached to the bus.
func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Configure(cfg.LogLevel, cfg.LogFile)

	rt := &runtime{cfg: cfg}
	if !cfg.Events {
		logger.Debug("Events disabled")
		return rt, nil
	}
	rt.bus, err = events.Start(ctx, events.Options{URL: cfg.NATSURL})
	if err != nil {
		return nil, fmt.Errorf("failed to start event bus: %w", err)
	}

	hookCfg, err := hooks.LoadConfig(".")
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.stopHooks, err = hooks.Attach(ctx, rt.bus, hookCfg, ".")
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to attach hooks: %w", err)
	}
	return rt, nil
}

// publisher returns the bus, or a discarding publisher without one.
func (r *runtime) publisher() events.Publisher {
	if r.bus == nil {
		return events.Discard
	}
	return r.bus
}

// activitySource matches the API and MCP activity interfaces.
type activitySource interface {
	Activity(ctx context.Context, keep int) (*events.Activity, error)
}

// activity returns the bus as an activity source, or a nil interface
// without one.
func (r *runtime) activity() activitySource {
	if r.bus == nil {
		return nil
	}
	return r.bus
}

func (r *runtime) Close() {
	if r.stopHooks != nil {
		r.stopHooks()
	}
	if r.bus == nil {
		return
	}
	if err := r.bus.Close(); err != nil {
		logger.Warn("Failed to close event bus: %v", err)
	}
}
