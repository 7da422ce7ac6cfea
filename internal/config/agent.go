package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "STAGEDOC_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "STAGEDOC_AGENT_BASE_URL"
	EnvAgentToken        = "STAGEDOC_AGENT_TOKEN"
	EnvAgentDeployment   = "STAGEDOC_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "STAGEDOC_AGENT_API_VERSION"
	EnvAgentAuthType     = "STAGEDOC_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "STAGEDOC_AGENT_MODEL_NAME"
)

// FinalizeAgent applies the three-phase finalize pattern to a go-agents AgentConfig:
// defaults from go-agents DefaultAgentConfig, environment variable overrides, and validation.
// The same agent serves text generation and, with the agent OCR provider, transcription.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	if defaults.Name == "" {
		defaults.Name = "stagedoc"
	}
	if defaults.Client == nil {
		defaults.Client = gaconfig.DefaultClientConfig()
	}
	// Every model call is attempted once; a failure becomes that stage's
	// error stub. Merge ignores a zero MaxRetries, so it is set here.
	defaults.Client.Retry.MaxRetries = 0
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil || c.Model.Name == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}
