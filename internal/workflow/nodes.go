package workflow

import (
	"context"
	"fmt"
	"strconv"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/stagedoc/internal/prompts"
	"github.com/JaimeStill/stagedoc/pkg/locator"
)

// analyzeNode returns a state node that processes every image in input
// order. A failing image becomes an error stub; the node fails only when
// every image failed.
func analyzeNode(ex *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		locators, err := getValue[[]string](s, KeyLocators)
		if err != nil {
			return s, ex.fail(fmt.Errorf("analyze: %w", err))
		}

		results := make([]StageResult, len(locators))
		for i, loc := range locators {
			results[i] = processImage(ctx, ex.rt, prompts.FirstStage+i, loc)
		}

		succeeded := 0
		for _, r := range results {
			if r.Success {
				succeeded++
			}
		}

		ex.rt.Logger.InfoContext(
			ctx, "analyze node complete",
			"images", len(results),
			"succeeded", succeeded,
		)

		if succeeded == 0 {
			return s, ex.fail(fmt.Errorf("%w: %d of %d images failed", ErrBatchFailure, len(results), len(results)))
		}

		s = s.Set(KeyStageResults, results)
		s = s.Set(KeyCombined, combine(results))
		return s, nil
	})
}

// planNode returns a state node that generates the project plan from the
// combined stage markdown.
func planNode(ex *execution) state.StateNode {
	return aggregateNode(ex, "plan", prompts.NamePlan, KeyPlan)
}

// requirementsNode returns a state node that generates the requirements
// specification from the combined stage markdown. It does not consume the
// plan output.
func requirementsNode(ex *execution) state.StateNode {
	return aggregateNode(ex, "requirements", prompts.NameRequirements, KeyRequirements)
}

func aggregateNode(ex *execution, stage, template, key string) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		combined, err := getValue[string](s, KeyCombined)
		if err != nil {
			return s, ex.fail(fmt.Errorf("%w: %s: %w", ErrAggregation, stage, err))
		}

		out, err := aggregate(ctx, ex.rt, template, combined)
		if err != nil {
			return s, ex.fail(fmt.Errorf("%w: %s: %w", ErrAggregation, stage, err))
		}

		ex.rt.Logger.InfoContext(ctx, stage+" node complete", "length", len(out))

		return s.Set(key, out), nil
	})
}

// assembleNode returns a state node that builds the composite Result.
func assembleNode(ex *execution) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		results, err := getValue[[]StageResult](s, KeyStageResults)
		if err != nil {
			return s, ex.fail(fmt.Errorf("assemble: %w", err))
		}

		combined, err := getValue[string](s, KeyCombined)
		if err != nil {
			return s, ex.fail(fmt.Errorf("assemble: %w", err))
		}

		result := &Result{Stages: results}

		var plan, requirements *string
		if v, err := getValue[string](s, KeyPlan); err == nil {
			plan = &v
			result.Plan = v
		}
		if v, err := getValue[string](s, KeyRequirements); err == nil {
			requirements = &v
			result.Requirements = v
		}

		result.Markdown = compose(combined, plan, requirements)

		ex.rt.Logger.InfoContext(
			ctx, "assemble node complete",
			"plan", plan != nil,
			"requirements", requirements != nil,
		)

		return s.Set(KeyResult, result), nil
	})
}

func processImage(ctx context.Context, rt *Runtime, stage int, loc string) StageResult {
	md, err := analyzeStage(ctx, rt, stage, loc)
	if err != nil {
		stageErr := &StageError{Stage: stage, Locator: loc, Err: err}

		rt.Logger.WarnContext(
			ctx, "stage processed",
			"stage", stage,
			"locator", loc,
			"success", false,
			"error", err,
		)

		return StageResult{
			Stage:    stage,
			Locator:  loc,
			Markdown: errorStub(stage, loc, stubMessage(stageErr, rt.Config.ShouldExposeErrors())),
			Success:  false,
			Err:      stageErr,
		}
	}

	rt.Logger.InfoContext(
		ctx, "stage processed",
		"stage", stage,
		"locator", loc,
		"success", true,
	)

	return StageResult{
		Stage:    stage,
		Locator:  loc,
		Markdown: md,
		Success:  true,
	}
}

func analyzeStage(ctx context.Context, rt *Runtime, stage int, loc string) (string, error) {
	ref, err := locator.Parse(loc)
	if err != nil {
		return "", err
	}

	text, err := fetchAndExtract(ctx, rt, ref)
	if err != nil {
		return "", err
	}

	if rt.Config.Refine {
		text = Refine(text)
	}

	prompt, err := rt.Prompts.Render(prompts.NameImage, map[string]string{
		prompts.VarStageNumber:      strconv.Itoa(stage),
		prompts.VarStageDescription: prompts.Describe(stage),
		prompts.VarExtractedText:    text,
		prompts.VarImageLocator:     loc,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}

	out, err := rt.Generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return out, nil
}

func fetchAndExtract(ctx context.Context, rt *Runtime, ref locator.Reference) (string, error) {
	data, err := rt.Fetcher.Fetch(ctx, ref.Container, ref.Key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetch, err)
	}

	text, err := rt.Extractor.Extract(ctx, data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	return text, nil
}

func aggregate(ctx context.Context, rt *Runtime, template, combined string) (string, error) {
	prompt, err := rt.Prompts.Render(template, map[string]string{
		prompts.VarCombinedMarkdown: combined,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}

	out, err := rt.Generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return out, nil
}

func getValue[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("missing %s in state", key)
	}

	v, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%s has unexpected type %T", key, val)
	}

	return v, nil
}
