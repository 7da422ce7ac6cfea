package ocr

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

// Providers supported by New.
const (
	ProviderGoogle = "google"
	ProviderAgent  = "agent"
)

var providers = []string{ProviderGoogle, ProviderAgent}

// Config selects and parameterizes the text extraction provider.
// CredentialsFile applies to the google provider; when empty, application
// default credentials are used. MaxDimension bounds the longest image edge
// sent to the agent provider.
type Config struct {
	Provider        string `toml:"provider"`
	CredentialsFile string `toml:"credentials_file"`
	MaxDimension    int    `toml:"max_dimension"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider        string
	CredentialsFile string
	MaxDimension    string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.CredentialsFile != "" {
		c.CredentialsFile = overlay.CredentialsFile
	}
	if overlay.MaxDimension != 0 {
		c.MaxDimension = overlay.MaxDimension
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderGoogle
	}
	if c.MaxDimension == 0 {
		c.MaxDimension = 2048
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.CredentialsFile != "" {
		if v := os.Getenv(env.CredentialsFile); v != "" {
			c.CredentialsFile = v
		}
	}
	if env.MaxDimension != "" {
		if v := os.Getenv(env.MaxDimension); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxDimension = n
			}
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.MaxDimension < 64 {
		return fmt.Errorf("max_dimension must be at least 64, got %d", c.MaxDimension)
	}
	return nil
}
