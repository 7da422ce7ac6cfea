package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/stagedoc/internal/analysis"
	"github.com/JaimeStill/stagedoc/internal/metrics"
	"github.com/JaimeStill/stagedoc/internal/prompts"
	"github.com/JaimeStill/stagedoc/internal/workflow"
	"github.com/JaimeStill/stagedoc/pkg/handlers"
	"github.com/JaimeStill/stagedoc/pkg/locator"
	"github.com/JaimeStill/stagedoc/pkg/routes"
	"github.com/JaimeStill/stagedoc/pkg/storage"
)

type fakeStore struct {
	mu    sync.Mutex
	calls int
	fail  map[string]error
}

func (f *fakeStore) Fetch(ctx context.Context, container, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.fail[key]; ok {
		return nil, err
	}
	return []byte(container + "/" + key), nil
}

type fakeOCR struct {
	fail map[string]error
}

func (f *fakeOCR) Extract(ctx context.Context, image []byte) (string, error) {
	if err, ok := f.fail[string(image)]; ok {
		return "", err
	}
	return "ocr:" + string(image), nil
}

type fakeModel struct {
	failOn map[string]error
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	for marker, err := range f.failOn {
		if strings.Contains(prompt, marker) {
			return "", err
		}
	}
	return "generated(" + prompt + ")", nil
}

type fixture struct {
	store    *fakeStore
	ocr      *fakeOCR
	model    *fakeModel
	recorder *metrics.Recorder
	sys      analysis.System
	mux      *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	lib, err := prompts.NewLibrary(map[string]string{
		prompts.NameImage:        "IMAGE {{.stage_number}} {{.image_locator}} {{.extracted_text}}",
		prompts.NamePlan:         "PLAN",
		prompts.NameRequirements: "REQS",
		prompts.NameDescribe:     "DESCRIBE {{.extracted_text}}",
	})
	require.NoError(t, err)

	var cfg workflow.Config
	require.NoError(t, cfg.Finalize(nil))

	f := &fixture{
		store:    &fakeStore{fail: map[string]error{}},
		ocr:      &fakeOCR{fail: map[string]error{}},
		model:    &fakeModel{failOn: map[string]error{}},
		recorder: metrics.New(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt := &workflow.Runtime{
		Fetcher:   f.store,
		Extractor: f.ocr,
		Generator: f.model,
		Prompts:   lib,
		Config:    cfg,
		Logger:    logger,
	}

	f.sys = analysis.New(rt, f.recorder, logger)
	f.mux = http.NewServeMux()
	routes.Register(f.mux, f.sys.Handler().Routes())
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) metricsBody(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	f.recorder.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func locators(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("s3://boards.s3.amazonaws.com/stage%d.png", prompts.FirstStage+i)
	}
	return out
}

func batchBody(t *testing.T, locs []string) string {
	t.Helper()
	data, err := json.Marshal(analysis.BatchRequest{Locators: locs})
	require.NoError(t, err)
	return string(data)
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestBatchSuccess(t *testing.T) {
	f := newFixture(t)
	locs := locators(7)

	rec := f.do(t, http.MethodPost, "/analysis/batch", batchBody(t, locs))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result analysis.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.NotEqual(t, "", result.RequestID.String())
	require.Len(t, result.Stages, 7)
	for i, s := range result.Stages {
		assert.Equal(t, prompts.FirstStage+i, s.Stage)
		assert.Equal(t, locs[i], s.Locator)
		assert.True(t, s.Success)
	}

	assert.Contains(t, result.Result, "generated(IMAGE 3 "+locs[0])
	assert.Contains(t, result.Result, "## Project Plan\n\ngenerated(PLAN)")
	assert.Contains(t, result.Result, "## Requirements Specification\n\ngenerated(REQS)")

	body := f.metricsBody(t)
	assert.Contains(t, body, `stagedoc_stage_results_total{outcome="success"} 7`)
	assert.Contains(t, body, `stagedoc_batches_total{outcome="ok"} 1`)
}

func TestBatchPartialFailure(t *testing.T) {
	f := newFixture(t)
	f.store.fail["stage6.png"] = fmt.Errorf("%w: stage6.png", storage.ErrNotFound)

	rec := f.do(t, http.MethodPost, "/analysis/batch", batchBody(t, locators(7)))
	require.Equal(t, http.StatusOK, rec.Code)

	var result analysis.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Stages[3].Success)
	assert.Contains(t, result.Result, "## Stage 6")
	assert.Contains(t, result.Result, "object not found")

	body := f.metricsBody(t)
	assert.Contains(t, body, `stagedoc_stage_results_total{outcome="failure"} 1`)
	assert.Contains(t, body, `stagedoc_stage_results_total{outcome="success"} 6`)
}

func TestBatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		body    func(t *testing.T) string
		code    int
		outcome string
	}{
		{
			name:    "too few locators",
			body:    func(t *testing.T) string { return batchBody(t, locators(6)) },
			code:    http.StatusBadRequest,
			outcome: metrics.OutcomeValidation,
		},
		{
			name:    "missing locators",
			body:    func(t *testing.T) string { return `{}` },
			code:    http.StatusBadRequest,
			outcome: metrics.OutcomeValidation,
		},
		{
			name: "all images fail",
			setup: func(f *fixture) {
				f.model.failOn["IMAGE "] = errors.New("model unavailable")
			},
			body:    func(t *testing.T) string { return batchBody(t, locators(7)) },
			code:    http.StatusInternalServerError,
			outcome: metrics.OutcomeBatchFailure,
		},
		{
			name: "plan fails",
			setup: func(f *fixture) {
				f.model.failOn["PLAN"] = errors.New("context length exceeded")
			},
			body:    func(t *testing.T) string { return batchBody(t, locators(7)) },
			code:    http.StatusInternalServerError,
			outcome: metrics.OutcomeAggregationFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			rec := f.do(t, http.MethodPost, "/analysis/batch", tt.body(t))
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, errorBody(t, rec))

			assert.Contains(t, f.metricsBody(t), fmt.Sprintf(`stagedoc_batches_total{outcome=%q} 1`, tt.outcome))
		})
	}
}

func TestBatchValidationMakesNoCalls(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/analysis/batch", batchBody(t, locators(8)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), "expected 7 image locators, got 8")
	assert.Zero(t, f.store.calls)
}

func TestBatchMalformedBody(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/analysis/batch", `{"locators": "s3://a/b"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), "invalid request")
}

func TestImage(t *testing.T) {
	tests := []struct {
		name string
		body string
		text string
	}{
		{"locator", `{"locator":"s3://my-bucket.s3.amazonaws.com/folder/image.png"}`, "ocr:my-bucket/folder/image.png"},
		{"container and key", `{"container":"my-bucket","key":"folder/image.png"}`, "ocr:my-bucket/folder/image.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(t, http.MethodPost, "/analysis/image", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var result workflow.ImageAnalysis
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
			assert.Equal(t, tt.text, result.ExtractedText)
			assert.Equal(t, "generated(DESCRIBE "+tt.text+")", result.Description)
		})
	}
}

func TestImageErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
		body  string
		code  int
	}{
		{"no image", nil, `{}`, http.StatusBadRequest},
		{"malformed locator", nil, `{"locator":"folder/image.png"}`, http.StatusBadRequest},
		{"unknown field", nil, `{"s3_url":"s3://b/k"}`, http.StatusBadRequest},
		{
			"not found",
			func(f *fixture) { f.store.fail["missing.png"] = fmt.Errorf("%w: missing.png", storage.ErrNotFound) },
			`{"locator":"s3://boards/missing.png"}`,
			http.StatusNotFound,
		},
		{
			"access denied",
			func(f *fixture) { f.store.fail["secret.png"] = storage.ErrAccessDenied },
			`{"locator":"s3://boards/secret.png"}`,
			http.StatusInternalServerError,
		},
		{
			"extraction",
			func(f *fixture) { f.ocr.fail["boards/blurry.png"] = errors.New("Bad image data.") },
			`{"locator":"s3://boards/blurry.png"}`,
			http.StatusInternalServerError,
		},
		{
			"generation",
			func(f *fixture) { f.model.failOn["DESCRIBE"] = errors.New("rate limited") },
			`{"locator":"s3://boards/a.png"}`,
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			rec := f.do(t, http.MethodPost, "/analysis/image", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, errorBody(t, rec))
		})
	}
}

func TestStages(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/analysis/stages", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stages []prompts.StageDescriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stages))
	require.Len(t, stages, 7)
	assert.Equal(t, 3, stages[0].Stage)
	assert.Equal(t, 9, stages[6].Stage)
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid request", analysis.ErrInvalidRequest, http.StatusBadRequest},
		{"validation", fmt.Errorf("%w: got 3", workflow.ErrValidation), http.StatusBadRequest},
		{"malformed", fmt.Errorf("%w: x", locator.ErrMalformed), http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: %w", workflow.ErrFetch, storage.ErrNotFound), http.StatusNotFound},
		{"empty key", fmt.Errorf("%w: %w", workflow.ErrFetch, storage.ErrEmptyKey), http.StatusBadRequest},
		{"batch failure", workflow.ErrBatchFailure, http.StatusInternalServerError},
		{"aggregation", workflow.ErrAggregation, http.StatusInternalServerError},
		{"generation", workflow.ErrGeneration, http.StatusInternalServerError},
		{"access denied", storage.ErrAccessDenied, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analysis.MapHTTPStatus(tt.err))
		})
	}
}

func TestRoutesAreDocumented(t *testing.T) {
	f := newFixture(t)
	paths := analysis.Paths()

	flat := f.sys.Handler().Routes().Flatten()
	require.NotEmpty(t, flat)
	for _, r := range flat {
		item, ok := paths[r.Pattern]
		require.True(t, ok, r.String())
		assert.NotNil(t, item.Operation(r.Method), r.String())
	}
}
