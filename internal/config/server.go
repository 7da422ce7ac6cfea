package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/stagedoc/internal/prompts"
)

// aggregationCalls is the number of model calls that follow the per-image
// stages in a full batch: one plan and one requirements call.
const aggregationCalls = 2

var serverEnv = map[string]func(c *ServerConfig, v string){
	"STAGEDOC_SERVER_HOST": func(c *ServerConfig, v string) { c.Host = v },
	"STAGEDOC_SERVER_PORT": func(c *ServerConfig, v string) {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	},
	"STAGEDOC_SERVER_READ_TIMEOUT":     func(c *ServerConfig, v string) { c.ReadTimeout = v },
	"STAGEDOC_SERVER_WRITE_TIMEOUT":    func(c *ServerConfig, v string) { c.WriteTimeout = v },
	"STAGEDOC_SERVER_CALL_BUDGET":      func(c *ServerConfig, v string) { c.CallBudget = v },
	"STAGEDOC_SERVER_SHUTDOWN_TIMEOUT": func(c *ServerConfig, v string) { c.ShutdownTimeout = v },
}

// ServerConfig holds HTTP server parameters.
//
// A batch request is answered only after every stage and aggregation call
// has finished, so when WriteTimeout is unset it is derived from CallBudget,
// the expected upper bound of one fetch, extraction and model call.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	CallBudget      string `toml:"call_budget"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return mustDuration(c.ReadTimeout)
}

// WriteTimeoutDuration returns WriteTimeout, or the batch budget when unset.
func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	if c.WriteTimeout != "" {
		return mustDuration(c.WriteTimeout)
	}
	return c.BatchBudget()
}

// BatchBudget is the time a full batch may take: one CallBudget per stage
// and per aggregation call.
func (c *ServerConfig) BatchBudget() time.Duration {
	calls := prompts.StageCount() + aggregationCalls
	return time.Duration(calls) * mustDuration(c.CallBudget)
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return mustDuration(c.ShutdownTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.CallBudget != "" {
		c.CallBudget = overlay.CallBudget
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "30s"
	}
	if c.CallBudget == "" {
		c.CallBudget = "90s"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

func (c *ServerConfig) loadEnv() {
	for name, apply := range serverEnv {
		if v := os.Getenv(name); v != "" {
			apply(c, v)
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	durations := []struct {
		name, value string
		optional    bool
	}{
		{"read_timeout", c.ReadTimeout, false},
		{"write_timeout", c.WriteTimeout, true},
		{"call_budget", c.CallBudget, false},
		{"shutdown_timeout", c.ShutdownTimeout, false},
	}
	for _, d := range durations {
		if d.optional && d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}

	if w := c.WriteTimeoutDuration(); w < c.BatchBudget() {
		return fmt.Errorf("write_timeout %s is shorter than the batch budget %s", w, c.BatchBudget())
	}
	return nil
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
