package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/stagedoc/internal/prompts"
	"github.com/JaimeStill/stagedoc/internal/workflow"
)

var errNoSuchKey = errors.New("no such key")

type fetchCall struct {
	Container string
	Key       string
}

type mockFetcher struct {
	mu    sync.Mutex
	calls []fetchCall
	fail  map[string]error
}

func (m *mockFetcher) Fetch(ctx context.Context, container, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fetchCall{Container: container, Key: key})
	if err, ok := m.fail[key]; ok {
		return nil, err
	}
	return []byte("bytes:" + key), nil
}

func (m *mockFetcher) Calls() []fetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]fetchCall(nil), m.calls...)
}

type mockExtractor struct {
	mu    sync.Mutex
	count int
	fail  map[string]error
	text  map[string]string
}

func (m *mockExtractor) Extract(ctx context.Context, image []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	key := strings.TrimPrefix(string(image), "bytes:")
	if err, ok := m.fail[key]; ok {
		return "", err
	}
	if t, ok := m.text[key]; ok {
		return t, nil
	}
	return "text of " + key, nil
}

func (m *mockExtractor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// mockGenerator answers the marker templates installed by testLibrary.
type mockGenerator struct {
	mu      sync.Mutex
	prompts []string
	failOn  map[string]error
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)

	for marker, err := range m.failOn {
		if strings.Contains(prompt, marker) {
			return "", err
		}
	}

	switch {
	case strings.HasPrefix(prompt, "IMAGE "):
		fields := strings.SplitN(strings.TrimPrefix(prompt, "IMAGE "), "|", 4)
		return fmt.Sprintf("## Stage %s\n\nsection for %s", fields[0], fields[2]), nil
	case strings.HasPrefix(prompt, "PLAN\n"):
		return "plan body", nil
	case strings.HasPrefix(prompt, "REQS\n"):
		return "requirements body", nil
	case strings.HasPrefix(prompt, "DESCRIBE "):
		return "description of " + strings.TrimPrefix(prompt, "DESCRIBE "), nil
	}
	return "", fmt.Errorf("unexpected prompt %q", prompt)
}

func (m *mockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *mockGenerator) PromptsWithPrefix(prefix string) []string {
	var out []string
	for _, p := range m.Prompts() {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func testLibrary(t *testing.T) *prompts.Library {
	t.Helper()
	lib, err := prompts.NewLibrary(map[string]string{
		prompts.NameImage:        "IMAGE {{.stage_number}}|{{.stage_description}}|{{.image_locator}}|{{.extracted_text}}",
		prompts.NamePlan:         "PLAN\n{{.combined_markdown}}",
		prompts.NameRequirements: "REQS\n{{.combined_markdown}}",
		prompts.NameDescribe:     "DESCRIBE {{.extracted_text}}",
	})
	require.NoError(t, err)
	return lib
}

type harness struct {
	fetcher   *mockFetcher
	extractor *mockExtractor
	generator *mockGenerator
	rt        *workflow.Runtime
}

func newHarness(t *testing.T, cfg workflow.Config) *harness {
	t.Helper()
	require.NoError(t, cfg.Finalize(nil))

	h := &harness{
		fetcher:   &mockFetcher{fail: map[string]error{}},
		extractor: &mockExtractor{fail: map[string]error{}, text: map[string]string{}},
		generator: &mockGenerator{failOn: map[string]error{}},
	}

	h.rt = &workflow.Runtime{
		Fetcher:   h.fetcher,
		Extractor: h.extractor,
		Generator: h.generator,
		Prompts:   testLibrary(t),
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h
}

func batchLocators() []string {
	locs := make([]string, prompts.StageCount())
	for i := range locs {
		locs[i] = fmt.Sprintf("s3://boards.s3.amazonaws.com/project/stage%d.png", prompts.FirstStage+i)
	}
	return locs
}

func stageKey(stage int) string {
	return fmt.Sprintf("project/stage%d.png", stage)
}
