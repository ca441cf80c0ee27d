package hooks

// Config is the top-level configuration loaded from .polaron.hooks.yml.
//
//	version: 1
//	hooks:
//	  booking.confirmed:
//	    - command: ./notify-dispatch.sh {{id}}
//	  quote.*:
//	    - command: tee -a quotes.jsonl
//	      timeout: 5
type Config struct {
	Version int                      `yaml:"version"`
	Hooks   map[string][]*HookConfig `yaml:"hooks"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout"` // seconds, default 30
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30

// For returns the hooks registered for an event: the exact "flow.action"
// key first, then "flow.*", then "*".
func (c *Config) For(flow, action string) []*HookConfig {
	if c == nil {
		return nil
	}
	var out []*HookConfig
	for _, key := range []string{flow + "." + action, flow + ".*", "*"} {
		out = append(out, c.Hooks[key]...)
	}
	return out
}
