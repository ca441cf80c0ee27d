// Package hooks runs user-configured shell commands when flow events are
// published.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/logger"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".polaron.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d, %d keys)", configPath, cfg.Version, len(cfg.Hooks))
	return &cfg, nil
}

// Variables holds template variables that can be expanded in hook commands.
type Variables struct {
	Flow   string
	Action string
	ID     string
}

// VariablesFor returns the variables describing ev.
func VariablesFor(ev events.Event) Variables {
	return Variables{Flow: ev.Flow, Action: ev.Action, ID: ev.ID}
}

// Execute runs a hook command with input on stdin and returns its output.
// Template variables in the command ({{flow}}, {{action}}, {{id}}) are
// expanded before execution. A failing or timed-out command is reported in
// the output with a nil error; only context cancellation is returned.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables, input []byte) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Stdin = bytes.NewReader(input)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if execCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", timeout, stdout.String()), nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n[stderr]\n" + stderr.String()
	}
	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		return fmt.Sprintf("[Hook command failed: %v]\n%s", err, output), nil
	}
	return output, nil
}

func expandVariables(command string, vars Variables) string {
	return strings.NewReplacer(
		"{{flow}}", vars.Flow,
		"{{action}}", vars.Action,
		"{{id}}", vars.ID,
	).Replace(command)
}

// Subscriber is the part of the event bus hooks listen on.
type Subscriber interface {
	Subscribe(flow string, fn func(events.Event)) (func(), error)
}

// Attach runs the configured hooks for every event delivered by sub. Each
// hook receives the event as JSON on stdin. Hooks for one event run in
// order, and events are handled one at a time. The returned function
// stops listening.
func Attach(ctx context.Context, sub Subscriber, cfg *Config, workDir string) (func(), error) {
	if cfg == nil || len(cfg.Hooks) == 0 {
		return func() {}, nil
	}
	return sub.Subscribe("", func(ev events.Event) {
		Run(ctx, cfg, workDir, ev)
	})
}

// Run executes every hook registered for ev and returns their outputs.
func Run(ctx context.Context, cfg *Config, workDir string, ev events.Event) []string {
	list := cfg.For(ev.Flow, ev.Action)
	if len(list) == 0 {
		return nil
	}
	input, err := json.Marshal(ev)
	if err != nil {
		logger.Warn("hooks: cannot encode event %s: %v", ev.ID, err)
		return nil
	}

	vars := VariablesFor(ev)
	outputs := make([]string, 0, len(list))
	for _, h := range list {
		out, err := Execute(ctx, h, workDir, vars, input)
		if err != nil {
			logger.Debug("hooks: stopped at %s.%s: %v", ev.Flow, ev.Action, err)
			break
		}
		if out != "" {
			logger.Info("hook %q for %s.%s: %s", h.Command, ev.Flow, ev.Action, strings.TrimSpace(out))
		}
		outputs = append(outputs, out)
	}
	return outputs
}
