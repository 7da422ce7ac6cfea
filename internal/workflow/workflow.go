package workflow

import (
	"context"
	"fmt"
	"sync"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/stagedoc/internal/prompts"
	"github.com/JaimeStill/stagedoc/pkg/locator"
)

// execution carries per-run state shared by the graph nodes. The first
// node failure is kept so callers can classify it with errors.Is
// independently of how the graph reports it.
type execution struct {
	rt *Runtime

	mu  sync.Mutex
	err error
}

func (ex *execution) fail(err error) error {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.err == nil {
		ex.err = err
	}
	return err
}

func (ex *execution) failure() error {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.err
}

// Execute runs the batch pipeline. locators must hold exactly one locator
// per registered stage, in stage order; any other length fails with
// ErrValidation before any collaborator is called.
func Execute(ctx context.Context, rt *Runtime, locators []string) (*Result, error) {
	if err := Validate(locators); err != nil {
		return nil, err
	}

	ex := &execution{rt: rt}

	graph, err := buildGraph(ex)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyLocators, locators)
	initialState = initialState.Set(KeyAggregation, rt.Config.Aggregation)

	finalState, err := graph.Execute(ctx, initialState)
	if fatal := ex.failure(); fatal != nil {
		return nil, fatal
	}
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	result, err := getValue[*Result](finalState, KeyResult)
	if err != nil {
		return nil, fmt.Errorf("extract result: %w", err)
	}

	return result, nil
}

// Validate checks the batch shape.
func Validate(locators []string) error {
	if want := prompts.StageCount(); len(locators) != want {
		return fmt.Errorf("%w: expected %d image locators, got %d", ErrValidation, want, len(locators))
	}
	return nil
}

// AnalyzeImage fetches one image, extracts its text and generates a
// markdown description. Failures are returned, not isolated.
func AnalyzeImage(ctx context.Context, rt *Runtime, ref locator.Reference) (*ImageAnalysis, error) {
	text, err := fetchAndExtract(ctx, rt, ref)
	if err != nil {
		return nil, err
	}

	prompt, err := rt.Prompts.Render(prompts.NameDescribe, map[string]string{
		prompts.VarExtractedText: text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	description, err := rt.Generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	rt.Logger.InfoContext(
		ctx, "image analyzed",
		"container", ref.Container,
		"key", ref.Key,
	)

	return &ImageAnalysis{
		ExtractedText: text,
		Description:   description,
	}, nil
}

func buildGraph(ex *execution) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("stagedoc-batch")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("analyze", analyzeNode(ex)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("plan", planNode(ex)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("requirements", requirementsNode(ex)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("assemble", assembleNode(ex)); err != nil {
		return nil, err
	}

	// analyze → plan (aggregation depth ≥ 1)
	if err := graph.AddEdge("analyze", "plan", wantsPlan); err != nil {
		return nil, err
	}

	// analyze → assemble (no aggregation)
	if err := graph.AddEdge("analyze", "assemble", state.Not(wantsPlan)); err != nil {
		return nil, err
	}

	// plan → requirements (aggregation depth 2)
	if err := graph.AddEdge("plan", "requirements", wantsRequirements); err != nil {
		return nil, err
	}

	// plan → assemble (plan only)
	if err := graph.AddEdge("plan", "assemble", state.Not(wantsRequirements)); err != nil {
		return nil, err
	}

	// requirements → assemble (unconditional)
	if err := graph.AddEdge("requirements", "assemble", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("analyze"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("assemble"); err != nil {
		return nil, err
	}

	return graph, nil
}

func aggregationDepth(s state.State) int {
	a, err := getValue[Aggregation](s, KeyAggregation)
	if err != nil {
		return 0
	}
	return a.Depth()
}

func wantsPlan(s state.State) bool {
	return aggregationDepth(s) >= 1
}

func wantsRequirements(s state.State) bool {
	return aggregationDepth(s) >= 2
}
