package openapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/stagedoc/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	assert.Equal(t, "3.1.0", spec.OpenAPI)
	assert.Equal(t, "Test API", spec.Info.Title)
	assert.Equal(t, "1.0.0", spec.Info.Version)
	require.NotNil(t, spec.Components)
	require.NotNil(t, spec.Paths)

	for _, name := range []string{"BadRequest", "NotFound", "PayloadTooLarge", "InternalError"} {
		assert.Contains(t, spec.Components.Responses, name)
	}
	assert.Contains(t, spec.Components.Schemas, "ErrorResponse")
}

func TestAddPaths(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddPaths("/v1", map[string]*openapi.PathItem{
		"/things": {Get: &openapi.Operation{Summary: "List things"}},
	})

	require.Contains(t, spec.Paths, "/v1/things")
	assert.Equal(t, "List things", spec.Paths["/v1/things"].Get.Summary)
}

func TestRefs(t *testing.T) {
	assert.Equal(t, "#/components/schemas/Thing", openapi.SchemaRef("Thing").Ref)
	assert.Equal(t, "#/components/responses/NotFound", openapi.ResponseRef("NotFound").Ref)

	rb := openapi.RequestBodyJSON("Thing", true)
	assert.True(t, rb.Required)
	assert.Equal(t, "#/components/schemas/Thing", rb.Content["application/json"].Schema.Ref)

	resp := openapi.ResponseJSON("ok", "Thing")
	assert.Equal(t, "ok", resp.Description)
	assert.Equal(t, "#/components/schemas/Thing", resp.Content["application/json"].Schema.Ref)
}

func TestComponentsMerge(t *testing.T) {
	c := openapi.NewComponents()
	c.AddSchemas(map[string]*openapi.Schema{"Thing": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"Gone": {Description: "gone"}})

	assert.Contains(t, c.Schemas, "Thing")
	assert.Contains(t, c.Schemas, "ErrorResponse")
	assert.Contains(t, c.Responses, "Gone")
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Custom")

	cfg := &openapi.Config{}
	require.NoError(t, cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}))

	assert.Equal(t, "Custom", cfg.Title)
	assert.NotEmpty(t, cfg.Description)

	cfg.Merge(&openapi.Config{Description: "overlay"})
	assert.Equal(t, "Custom", cfg.Title)
	assert.Equal(t, "overlay", cfg.Description)
	assert.Equal(t, "/api", cfg.Server("/api"))
}

func TestConfigServerURL(t *testing.T) {
	t.Setenv("TEST_OPENAPI_SERVER_URL", "https://stagedoc.example.com/")

	cfg := &openapi.Config{}
	require.NoError(t, cfg.Finalize(&openapi.ConfigEnv{ServerURL: "TEST_OPENAPI_SERVER_URL"}))
	assert.Equal(t, "https://stagedoc.example.com/api", cfg.Server("/api"))

	for _, bad := range []string{"stagedoc.example.com", "ftp://stagedoc.example.com", "https://"} {
		cfg := &openapi.Config{ServerURL: bad}
		assert.Error(t, cfg.Finalize(nil), bad)
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	data, err := openapi.MarshalJSON(spec)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "3.1.0", decoded["openapi"])
}
