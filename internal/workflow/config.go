package workflow

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

// Aggregation selects how many aggregation stages follow per-image processing.
type Aggregation string

const (
	AggregationNone         Aggregation = "none"
	AggregationPlan         Aggregation = "plan"
	AggregationRequirements Aggregation = "requirements"
)

var aggregations = []Aggregation{AggregationNone, AggregationPlan, AggregationRequirements}

// Depth returns the number of aggregation stages: 0, 1 or 2.
func (a Aggregation) Depth() int {
	switch a {
	case AggregationPlan:
		return 1
	case AggregationRequirements:
		return 2
	default:
		return 0
	}
}

// Config holds pipeline behavior settings.
type Config struct {
	Aggregation  Aggregation `toml:"aggregation"`
	Refine       bool        `toml:"refine"`
	ExposeErrors *bool       `toml:"expose_errors"`
	PromptsFile  string      `toml:"prompts_file"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Aggregation  string
	Refine       string
	ExposeErrors string
	PromptsFile  string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Aggregation != "" {
		c.Aggregation = overlay.Aggregation
	}
	if overlay.Refine {
		c.Refine = true
	}
	if overlay.ExposeErrors != nil {
		v := *overlay.ExposeErrors
		c.ExposeErrors = &v
	}
	if overlay.PromptsFile != "" {
		c.PromptsFile = overlay.PromptsFile
	}
}

// ShouldExposeErrors reports whether error stubs carry collaborator messages.
func (c *Config) ShouldExposeErrors() bool {
	return c.ExposeErrors == nil || *c.ExposeErrors
}

func (c *Config) loadDefaults() {
	if c.Aggregation == "" {
		c.Aggregation = AggregationRequirements
	}
	if c.ExposeErrors == nil {
		v := true
		c.ExposeErrors = &v
	}
}

func (c *Config) loadEnv(env *Env) error {
	if env.Aggregation != "" {
		if v := os.Getenv(env.Aggregation); v != "" {
			c.Aggregation = Aggregation(v)
		}
	}
	if env.Refine != "" {
		if v := os.Getenv(env.Refine); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", env.Refine, err)
			}
			c.Refine = b
		}
	}
	if env.ExposeErrors != "" {
		if v := os.Getenv(env.ExposeErrors); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", env.ExposeErrors, err)
			}
			c.ExposeErrors = &b
		}
	}
	if env.PromptsFile != "" {
		if v := os.Getenv(env.PromptsFile); v != "" {
			c.PromptsFile = v
		}
	}
	return nil
}

func (c *Config) validate() error {
	if !slices.Contains(aggregations, c.Aggregation) {
		return fmt.Errorf("aggregation must be none, plan, or requirements, got %q", c.Aggregation)
	}
	return nil
}
