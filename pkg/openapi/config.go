package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds the document metadata. ServerURL is the public origin the
// API is reached through (e.g. behind a proxy); when empty the document
// advertises the base path alone, relative to wherever it was fetched.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// ConfigEnv names the environment variables that override Config fields.
type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

// Finalize applies defaults and environment variable overrides, then
// validates ServerURL.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Stagedoc API"
	}
	if c.Description == "" {
		c.Description = "Turns a set of staged planning images into one composite Markdown document."
	}

	if env != nil {
		for _, o := range []struct {
			name string
			dst  *string
		}{
			{env.Title, &c.Title},
			{env.Description, &c.Description},
			{env.ServerURL, &c.ServerURL},
		} {
			if o.name == "" {
				continue
			}
			if v := os.Getenv(o.name); v != "" {
				*o.dst = v
			}
		}
	}

	if c.ServerURL == "" {
		return nil
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server_url %q: must be an absolute http(s) URL", c.ServerURL)
	}
	c.ServerURL = strings.TrimSuffix(c.ServerURL, "/")
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.ServerURL != "" {
		c.ServerURL = overlay.ServerURL
	}
}

// Server returns the server entry for an API mounted at basePath.
func (c *Config) Server(basePath string) string {
	return c.ServerURL + basePath
}
