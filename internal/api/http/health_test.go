package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name      string
		db, cache Pinger
		wantDB    string
		wantCache string
	}{
		{"nothing configured", nil, nil, "disabled", "disabled"},
		{"all up", pingFunc(func(context.Context) error { return nil }), pingFunc(func(context.Context) error { return nil }), "up", "up"},
		{"db down", pingFunc(func(context.Context) error { return errors.New("refused") }), nil, "down", "disabled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			NewHealthHandler("site", "1.2.3", tc.db, tc.cache).RegisterRoutes(router)

			for _, path := range []string{"/health", "/healthz"} {
				rr := httptest.NewRecorder()
				router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
				require.Equal(t, http.StatusOK, rr.Code)

				var res HealthResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
				assert.Equal(t, "healthy", res.Status)
				assert.Equal(t, "site", res.Service)
				assert.Equal(t, "1.2.3", res.Version)
				assert.Equal(t, tc.wantDB, res.DB)
				assert.Equal(t, tc.wantCache, res.Cache)
			}
		})
	}
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	NewHealthHandler("site", "1.0.0", nil, nil).RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
