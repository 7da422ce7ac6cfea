package middleware

import (
	"errors"
	"os"
	"slices"
	"strconv"
	"strings"
)

// ErrWildcardCredentials is returned when credentials are allowed for the
// "*" origin, which browsers refuse.
var ErrWildcardCredentials = errors.New("cors: credentials cannot be allowed for origin *")

// CORSConfig holds CORS policy settings. The defaults admit the read-only
// stage listing and the batch POST from a browser client, and expose the
// request id so callers can correlate failures with server logs.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	ExposedHeaders   []string `toml:"exposed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables that override CORSConfig fields.
// Empty names are skipped.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	ExposedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults and environment variable overrides, then
// validates the result.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if c.AllowCredentials && slices.Contains(c.Origins, "*") {
		return ErrWildcardCredentials
	}
	return nil
}

// Merge overwrites fields from overlay. Booleans always apply; lists apply
// when set and MaxAge when non-negative.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	c.AllowCredentials = overlay.AllowCredentials

	for _, f := range []struct{ dst, src *[]string }{
		{&c.Origins, &overlay.Origins},
		{&c.AllowedMethods, &overlay.AllowedMethods},
		{&c.AllowedHeaders, &overlay.AllowedHeaders},
		{&c.ExposedHeaders, &overlay.ExposedHeaders},
	} {
		if *f.src != nil {
			*f.dst = *f.src
		}
	}
	if overlay.MaxAge >= 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", RequestIDHeader}
	}
	if len(c.ExposedHeaders) == 0 {
		c.ExposedHeaders = []string{RequestIDHeader}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 600
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) {
	lookup := func(name string) (string, bool) {
		if name == "" {
			return "", false
		}
		v := os.Getenv(name)
		return v, v != ""
	}

	lists := []struct {
		name string
		dst  *[]string
	}{
		{env.Origins, &c.Origins},
		{env.AllowedMethods, &c.AllowedMethods},
		{env.AllowedHeaders, &c.AllowedHeaders},
		{env.ExposedHeaders, &c.ExposedHeaders},
	}
	for _, l := range lists {
		if v, ok := lookup(l.name); ok {
			*l.dst = splitList(v)
		}
	}

	if v, ok := lookup(env.Enabled); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v, ok := lookup(env.AllowCredentials); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AllowCredentials = b
		}
	}
	if v, ok := lookup(env.MaxAge); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAge = n
		}
	}
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(v string) []string {
	var out []string
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
