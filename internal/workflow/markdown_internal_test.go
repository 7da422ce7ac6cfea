package workflow

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/stagedoc/pkg/locator"
)

func TestErrorStub(t *testing.T) {
	stub := errorStub(6, "s3://boards/stage6.png", "image fetch failed: access denied")

	assert.True(t, strings.HasPrefix(stub, "## Stage 6"), stub)
	assert.Contains(t, stub, "s3://boards/stage6.png")
	assert.Contains(t, stub, "image fetch failed: access denied")
}

func TestErrorStubMultilineMessage(t *testing.T) {
	stub := errorStub(2, "s3://boards/stage2.png", "vision call failed:\nrate limited\r\nretry later")

	lines := strings.Split(strings.TrimRight(stub, "\n"), "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "## Stage 2", lines[0])

	var body []string
	for _, line := range lines[1:] {
		if line != "" {
			body = append(body, line)
		}
	}
	for _, line := range body {
		assert.True(t, strings.HasPrefix(line, ">"), line)
	}
	assert.Contains(t, stub, "vision call failed: rate limited retry later")
}

func TestStubMessage(t *testing.T) {
	cause := errors.New("bucket policy denies GetObject")

	tests := []struct {
		name   string
		err    error
		expose bool
		want   string
	}{
		{"exposed", fmt.Errorf("%w: %w", ErrFetch, cause), true, "image fetch failed: bucket policy denies GetObject"},
		{"hidden fetch", fmt.Errorf("%w: %w", ErrFetch, cause), false, "image fetch failed"},
		{"hidden malformed", fmt.Errorf("%w: %q", locator.ErrMalformed, "x"), false, "malformed locator"},
		{"hidden unknown", cause, false, "processing failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := &StageError{Stage: 3, Locator: "s3://boards/a.png", Err: tt.err}
			assert.Equal(t, tt.want, stubMessage(se, tt.expose))
		})
	}
}

func TestCompose(t *testing.T) {
	plan := "plan text"
	reqs := "requirements text"

	assert.Equal(t, "combined", compose("combined", nil, nil))
	assert.Equal(t, "combined\n\n## Project Plan\n\nplan text", compose("combined", &plan, nil))
	assert.Equal(t,
		"combined\n\n## Project Plan\n\nplan text\n\n## Requirements Specification\n\nrequirements text",
		compose("combined", &plan, &reqs),
	)
}

func TestCombine(t *testing.T) {
	results := []StageResult{
		{Stage: 3, Markdown: "a"},
		{Stage: 4, Markdown: "b"},
		{Stage: 5, Markdown: "c"},
	}
	assert.Equal(t, "a\n\nb\n\nc", combine(results))
}

func TestStageErrorCategory(t *testing.T) {
	se := &StageError{Stage: 8, Locator: "s3://b/k", Err: fmt.Errorf("%w: %w", ErrGeneration, errors.New("boom"))}

	assert.Equal(t, ErrGeneration, se.Category())
	assert.ErrorIs(t, se, ErrGeneration)
	assert.Equal(t, "stage 8 (s3://b/k): generation failed: boom", se.Error())
}
