package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/stagedoc/pkg/module"
)

func TestNewRejectsInvalidPrefix(t *testing.T) {
	for _, prefix := range []string{"", "/", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			_, err := module.New(prefix, http.NewServeMux())
			assert.ErrorIs(t, err, module.ErrInvalidPrefix)
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) module.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler:"+r.URL.Path)
	})

	m, err := module.New("/api", inner, tag("first"), tag("second"))
	require.NoError(t, err)

	for range 2 {
		m.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api", nil))
	}

	assert.Equal(t, []string{
		"first", "second", "handler:/",
		"first", "second", "handler:/",
	}, order)
}

func TestMountRejectsDuplicatePrefix(t *testing.T) {
	router := module.NewRouter()

	a, err := module.New("/api", http.NewServeMux())
	require.NoError(t, err)
	b, err := module.New("/api", http.NewServeMux())
	require.NoError(t, err)

	require.NoError(t, router.Mount(a))
	assert.ErrorIs(t, router.Mount(b), module.ErrDuplicatePrefix)
}

func TestRouterDispatch(t *testing.T) {
	inner := http.NewServeMux()
	inner.HandleFunc("GET /analysis/stages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stages:" + r.URL.Path))
	})

	var used bool
	m, err := module.New("/api", inner, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			used = true
			next.ServeHTTP(w, r)
		})
	})
	require.NoError(t, err)

	router := module.NewRouter()
	require.NoError(t, router.Mount(m))
	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/api/analysis/stages", http.StatusOK, "stages:/analysis/stages"},
		{"/api/analysis/stages/", http.StatusOK, "stages:/analysis/stages"},
		{"/apiary/analysis/stages", http.StatusNotFound, ""},
		{"/healthz", http.StatusOK, "ok"},
		{"/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}

	assert.True(t, used)
	assert.Equal(t, "/api", m.Prefix())
}
