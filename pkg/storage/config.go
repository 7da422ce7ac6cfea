package storage

import (
	"fmt"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
)

// Providers supported by New.
const (
	ProviderS3    = "s3"
	ProviderAzure = "azure"
)

var providers = []string{ProviderS3, ProviderAzure}

// Config holds object storage connection parameters for the image fetcher.
// S3 fields apply to the s3 provider; ConnectionString and AccountURL apply
// to the azure provider.
type Config struct {
	Provider         string `toml:"provider"`
	Region           string `toml:"region"`
	AccessKeyID      string `toml:"access_key_id"`
	SecretAccessKey  string `toml:"secret_access_key"`
	Endpoint         string `toml:"endpoint"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	MaxObjectSize    string `toml:"max_object_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	Region           string
	AccessKeyID      string
	SecretAccessKey  string
	Endpoint         string
	ConnectionString string
	AccountURL       string
	MaxObjectSize    string
}

// MaxObjectBytes returns MaxObjectSize in bytes.
func (c *Config) MaxObjectBytes() int64 {
	n, err := humanize.ParseBytes(c.MaxObjectSize)
	if err != nil {
		return 20 * 1000 * 1000
	}
	return int64(n)
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
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.AccessKeyID != "" {
		c.AccessKeyID = overlay.AccessKeyID
	}
	if overlay.SecretAccessKey != "" {
		c.SecretAccessKey = overlay.SecretAccessKey
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.MaxObjectSize != "" {
		c.MaxObjectSize = overlay.MaxObjectSize
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderS3
	}
	if c.MaxObjectSize == "" {
		c.MaxObjectSize = "20MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(env.Provider, &c.Provider)
	set(env.Region, &c.Region)
	set(env.AccessKeyID, &c.AccessKeyID)
	set(env.SecretAccessKey, &c.SecretAccessKey)
	set(env.Endpoint, &c.Endpoint)
	set(env.ConnectionString, &c.ConnectionString)
	set(env.AccountURL, &c.AccountURL)
	set(env.MaxObjectSize, &c.MaxObjectSize)
}

func (c *Config) validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if _, err := humanize.ParseBytes(c.MaxObjectSize); err != nil {
		return fmt.Errorf("invalid max_object_size: %w", err)
	}

	switch c.Provider {
	case ProviderS3:
		if c.Region == "" {
			return fmt.Errorf("region required")
		}
		if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
			return fmt.Errorf("access_key_id and secret_access_key must be set together")
		}
	case ProviderAzure:
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required")
		}
	}

	return nil
}
