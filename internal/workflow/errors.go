// Package workflow runs the staged document pipeline: per-image OCR and
// generation for stages 3 through 9, followed by the optional plan and
// requirements aggregation stages. The pipeline is a state graph
// (analyze → plan? → requirements? → assemble).
package workflow

import (
	"errors"
	"fmt"

	"github.com/JaimeStill/stagedoc/pkg/locator"
)

// Sentinel errors for workflow operations.
var (
	ErrValidation   = errors.New("invalid batch")
	ErrFetch        = errors.New("image fetch failed")
	ErrExtraction   = errors.New("text extraction failed")
	ErrRender       = errors.New("prompt rendering failed")
	ErrGeneration   = errors.New("generation failed")
	ErrBatchFailure = errors.New("all images failed")
	ErrAggregation  = errors.New("aggregation failed")
)

// stageCategories are checked in order to name the failure category of a
// per-image error.
var stageCategories = []error{
	locator.ErrMalformed,
	ErrFetch,
	ErrExtraction,
	ErrRender,
	ErrGeneration,
}

// StageError records a per-image failure.
type StageError struct {
	Stage   int
	Locator string
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Stage, e.Locator, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Category returns the sentinel that classifies the failure, or nil when
// the cause is not a known category.
func (e *StageError) Category() error {
	for _, c := range stageCategories {
		if errors.Is(e.Err, c) {
			return c
		}
	}
	return nil
}
