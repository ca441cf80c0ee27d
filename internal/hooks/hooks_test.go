package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/polaron/polaron/internal/events"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil || cfg != nil {
		t.Fatalf("missing file: got %v, %v", cfg, err)
	}

	content := `version: 1
hooks:
  booking.confirmed:
    - command: echo booked
      timeout: 5
  quote.*:
    - command: echo quoted
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Version != 1 || len(cfg.Hooks) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if got := cfg.Hooks["booking.confirmed"][0].Timeout; got != 5 {
		t.Errorf("timeout = %d, want 5", got)
	}

	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("hooks: ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfigFor(t *testing.T) {
	exact := &HookConfig{Command: "exact"}
	flow := &HookConfig{Command: "flow"}
	all := &HookConfig{Command: "all"}
	cfg := &Config{Hooks: map[string][]*HookConfig{
		"booking.confirmed": {exact},
		"booking.*":         {flow},
		"*":                 {all},
	}}

	got := cfg.For("booking", "confirmed")
	if len(got) != 3 || got[0] != exact || got[1] != flow || got[2] != all {
		t.Errorf("booking.confirmed order wrong: %v", got)
	}
	if got := cfg.For("quote", "calculated"); len(got) != 1 || got[0] != all {
		t.Errorf("quote.calculated = %v, want only the catch-all", got)
	}

	var none *Config
	if got := none.For("quote", "calculated"); got != nil {
		t.Errorf("nil config returned %v", got)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	vars := Variables{Flow: "booking", Action: "confirmed", ID: "abc"}

	tests := []struct {
		name     string
		hook     *HookConfig
		input    string
		contains string
	}{
		{name: "nil hook", hook: nil, contains: ""},
		{name: "variables expanded", hook: &HookConfig{Command: "echo {{flow}}.{{action}} {{id}}"}, contains: "booking.confirmed abc\n"},
		{name: "stdin passed", hook: &HookConfig{Command: "cat"}, input: `{"id":"abc"}`, contains: `{"id":"abc"}`},
		{name: "stderr appended", hook: &HookConfig{Command: "echo out; echo err >&2"}, contains: "[stderr]\nerr"},
		{name: "failure reported", hook: &HookConfig{Command: "exit 3"}, contains: "[Hook command failed"},
		{name: "timeout reported", hook: &HookConfig{Command: "sleep 5", Timeout: 1}, contains: "[Hook timed out after 1s]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Execute(ctx, tt.hook, dir, vars, []byte(tt.input))
			if err != nil {
				t.Fatalf("Execute returned error: %v", err)
			}
			if tt.contains == "" && out != "" {
				t.Errorf("expected no output, got %q", out)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("output %q does not contain %q", out, tt.contains)
			}
		})
	}
}

func TestExecute_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute(ctx, &HookConfig{Command: "echo never"}, t.TempDir(), Variables{}, nil)
	if err == nil {
		t.Error("expected context error")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Hooks: map[string][]*HookConfig{
		"contact.*": {
			{Command: "echo first"},
			{Command: "grep -o '\"flow\":\"contact\"'"},
		},
	}}
	ev := events.Event{ID: "e1", Flow: "contact", Action: "acknowledged", Timestamp: time.Now()}

	outs := Run(context.Background(), cfg, dir, ev)
	if len(outs) != 2 {
		t.Fatalf("got %d outputs, want 2", len(outs))
	}
	if outs[0] != "first\n" || outs[1] != "\"flow\":\"contact\"\n" {
		t.Errorf("unexpected outputs %q", outs)
	}

	if outs := Run(context.Background(), cfg, dir, events.Event{Flow: "quote", Action: "calculated"}); outs != nil {
		t.Errorf("unmatched event ran hooks: %q", outs)
	}
}

type fakeSubscriber struct {
	fn      func(events.Event)
	stopped bool
}

func (f *fakeSubscriber) Subscribe(flow string, fn func(events.Event)) (func(), error) {
	f.fn = fn
	return func() { f.stopped = true }, nil
}

func TestAttach(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	cfg := &Config{Hooks: map[string][]*HookConfig{
		"booking.confirmed": {{Command: "touch " + marker}},
	}}

	sub := &fakeSubscriber{}
	stop, err := Attach(context.Background(), sub, cfg, dir)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if sub.fn == nil {
		t.Fatal("no subscription made")
	}

	sub.fn(events.Event{ID: "e1", Flow: "booking", Action: "confirmed"})
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("hook did not run: %v", err)
	}

	stop()
	if !sub.stopped {
		t.Error("stop did not unsubscribe")
	}
}

func TestAttach_NoHooks(t *testing.T) {
	sub := &fakeSubscriber{}
	stop, err := Attach(context.Background(), sub, nil, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	stop()
	if sub.fn != nil {
		t.Error("subscribed without hooks")
	}
}
