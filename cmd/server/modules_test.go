package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/stagedoc/internal/infrastructure"
	"github.com/JaimeStill/stagedoc/internal/metrics"
	"github.com/JaimeStill/stagedoc/pkg/lifecycle"
)

func TestBuildRouter(t *testing.T) {
	lc := lifecycle.New()
	infra := &infrastructure.Infrastructure{
		Lifecycle: lc,
		Metrics:   metrics.New(),
	}
	router := buildRouter(infra)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/readyz").Code)

	lc.WaitForStartup()
	assert.Equal(t, http.StatusOK, get("/readyz").Code)

	metricsRec := get("/metrics")
	require.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), "go_goroutines")

	require.NoError(t, lc.Shutdown(time.Second))
	assert.Equal(t, http.StatusServiceUnavailable, get("/readyz").Code)
}
