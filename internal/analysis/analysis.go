// Package analysis exposes the staged document pipeline: single-image
// analysis, batch runs and the stage registry.
package analysis

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/stagedoc/internal/workflow"
)

// ImageRequest identifies one image either by locator or by container and key.
type ImageRequest struct {
	Locator   string `json:"locator,omitempty"`
	Container string `json:"container,omitempty"`
	Key       string `json:"key,omitempty"`
}

// BatchRequest carries one locator per stage, in stage order.
type BatchRequest struct {
	Locators []string `json:"locators"`
}

// StageSummary reports the outcome of one stage in a batch.
type StageSummary struct {
	Stage   int    `json:"stage"`
	Locator string `json:"locator"`
	Success bool   `json:"success"`
}

// BatchResult is the response of a batch run.
type BatchResult struct {
	RequestID uuid.UUID      `json:"request_id"`
	Result    string         `json:"result"`
	Stages    []StageSummary `json:"stages"`
}

func newBatchResult(id uuid.UUID, r *workflow.Result) *BatchResult {
	stages := make([]StageSummary, len(r.Stages))
	for i, s := range r.Stages {
		stages[i] = StageSummary{
			Stage:   s.Stage,
			Locator: s.Locator,
			Success: s.Success,
		}
	}

	return &BatchResult{
		RequestID: id,
		Result:    r.Markdown,
		Stages:    stages,
	}
}
