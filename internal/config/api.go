package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JaimeStill/stagedoc/pkg/middleware"
	"github.com/JaimeStill/stagedoc/pkg/openapi"
)

const (
	EnvAPIBasePath       = "STAGEDOC_API_BASE_PATH"
	EnvAPIMaxRequestSize = "STAGEDOC_API_MAX_REQUEST_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "STAGEDOC_CORS_ENABLED",
	Origins:          "STAGEDOC_CORS_ORIGINS",
	AllowedMethods:   "STAGEDOC_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "STAGEDOC_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "STAGEDOC_CORS_EXPOSED_HEADERS",
	AllowCredentials: "STAGEDOC_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "STAGEDOC_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "STAGEDOC_OPENAPI_TITLE",
	Description: "STAGEDOC_OPENAPI_DESCRIPTION",
	ServerURL:   "STAGEDOC_OPENAPI_SERVER_URL",
}

// APIConfig holds API routing, request limits, and CORS settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestSizeBytes returns MaxRequestSize in bytes.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := humanize.ParseBytes(c.MaxRequestSize)
	if err != nil {
		return 1_000_000
	}
	return int64(size)
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxRequestSize); v != "" {
		c.MaxRequestSize = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path such as /api, got %q", c.BasePath)
	}
	if _, err := humanize.ParseBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	return nil
}
