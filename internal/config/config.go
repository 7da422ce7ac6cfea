package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/stagedoc/internal/workflow"
	"github.com/JaimeStill/stagedoc/pkg/ocr"
	"github.com/JaimeStill/stagedoc/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvStagedocEnv             = "STAGEDOC_ENV"
	EnvStagedocShutdownTimeout = "STAGEDOC_SHUTDOWN_TIMEOUT"
	EnvStagedocVersion         = "STAGEDOC_VERSION"
	EnvStagedocLogLevel        = "STAGEDOC_LOG_LEVEL"
)

var storageEnv = &storage.Env{
	Provider:         "STAGEDOC_STORAGE_PROVIDER",
	Region:           "STAGEDOC_STORAGE_REGION",
	AccessKeyID:      "STAGEDOC_STORAGE_ACCESS_KEY_ID",
	SecretAccessKey:  "STAGEDOC_STORAGE_SECRET_ACCESS_KEY",
	Endpoint:         "STAGEDOC_STORAGE_ENDPOINT",
	ConnectionString: "STAGEDOC_STORAGE_CONNECTION_STRING",
	AccountURL:       "STAGEDOC_STORAGE_ACCOUNT_URL",
	MaxObjectSize:    "STAGEDOC_STORAGE_MAX_OBJECT_SIZE",
}

var ocrEnv = &ocr.Env{
	Provider:        "STAGEDOC_OCR_PROVIDER",
	CredentialsFile: "STAGEDOC_OCR_CREDENTIALS_FILE",
	MaxDimension:    "STAGEDOC_OCR_MAX_DIMENSION",
}

var workflowEnv = &workflow.Env{
	Aggregation:  "STAGEDOC_WORKFLOW_AGGREGATION",
	Refine:       "STAGEDOC_WORKFLOW_REFINE",
	ExposeErrors: "STAGEDOC_WORKFLOW_EXPOSE_ERRORS",
	PromptsFile:  "STAGEDOC_WORKFLOW_PROMPTS_FILE",
}

// Config is the root configuration for the stagedoc service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	API             APIConfig            `toml:"api"`
	Storage         storage.Config       `toml:"storage"`
	OCR             ocr.Config           `toml:"ocr"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Workflow        workflow.Config      `toml:"workflow"`
	LogLevel        string               `toml:"log_level"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the STAGEDOC_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStagedocEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads .env (if present) into the process environment, then the base
// config (if present), applies any environment overlay, and finalizes all
// values. If no config.toml exists, defaults and environment variables
// provide all configuration.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Storage.Merge(&overlay.Storage)
	c.OCR.Merge(&overlay.OCR)
	c.Agent.Merge(&overlay.Agent)
	c.Workflow.Merge(&overlay.Workflow)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.OCR.Finalize(ocrEnv); err != nil {
		return fmt.Errorf("ocr: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Workflow.Finalize(workflowEnv); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvStagedocLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvStagedocShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvStagedocVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvStagedocEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
