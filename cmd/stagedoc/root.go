package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/stagedoc/internal/analysis"
	"github.com/JaimeStill/stagedoc/internal/config"
	"github.com/JaimeStill/stagedoc/internal/infrastructure"
)

// systemLoader builds the analysis system and returns a release func that
// shuts its infrastructure down.
type systemLoader func(ctx context.Context) (analysis.System, func(), error)

func newRootCmd(load systemLoader) *cobra.Command {
	root := &cobra.Command{
		Use:           "stagedoc",
		Short:         "Turn staged planning images into a composite markdown document",
		SilenceUsage: true,
	}

	root.AddCommand(
		newBatchCmd(load),
		newImageCmd(load),
		newStagesCmd(),
	)

	return root
}

func loadSystem(ctx context.Context) (analysis.System, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := infra.Start(); err != nil {
		infra.Close()
		return nil, nil, err
	}

	release := func() {
		if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
			infra.Logger.Error("shutdown failed", "error", err)
		}
	}

	sys := analysis.New(infra.WorkflowRuntime(infra.Logger), infra.Metrics, infra.Logger)
	return sys, release, nil
}
