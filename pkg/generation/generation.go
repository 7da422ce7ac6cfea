// Package generation sends prompts to a hosted language model through a
// go-agents agent and returns the generated text.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
)

var (
	// ErrGeneration indicates the language model call failed.
	ErrGeneration = errors.New("model call failed")
	// ErrEmptyPrompt indicates Generate was called without a prompt.
	ErrEmptyPrompt = errors.New("prompt must not be empty")
)

// System generates text from prompts.
type System interface {
	Start(lc *lifecycle.Coordinator) error
	Generate(ctx context.Context, prompt string) (string, error)
	// Model reports the configured model name.
	Model() string
}

type generator struct {
	agent  agent.Agent
	model  string
	logger *slog.Logger
}

// New builds the agent once; provider misconfiguration fails here.
func New(cfg *gaconfig.AgentConfig, logger *slog.Logger) (System, error) {
	if cfg == nil {
		return nil, fmt.Errorf("agent configuration required")
	}

	a, err := agent.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return newGenerator(a, logger), nil
}

func newGenerator(a agent.Agent, logger *slog.Logger) *generator {
	g := &generator{
		agent:  a,
		logger: logger.With("system", "generation"),
	}
	if m := a.Model(); m != nil {
		g.model = m.Name
	}
	return g
}

func (g *generator) Start(lc *lifecycle.Coordinator) error {
	g.logger.Info("starting generation system", "model", g.Model())
	return nil
}

func (g *generator) Model() string {
	return g.model
}

func (g *generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	resp, err := g.agent.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return strings.TrimSpace(resp.Content()), nil
}
