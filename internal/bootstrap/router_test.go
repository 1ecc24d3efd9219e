package bootstrap

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bytedocker/site/config"
	"github.com/bytedocker/site/internal/auth/authtest"
	authsvc "github.com/bytedocker/site/internal/auth/service"
	contentsvc "github.com/bytedocker/site/internal/content/service"
)

func testApp() *App {
	return &App{
		Config: &config.Config{
			Server: config.ServerConfig{
				AllowedOrigins:  []string{"https://dashboard.example.test"},
				PublicRateLimit: 1,
				PublicBurst:     1,
			},
			App: config.AppConfig{Environment: "test", Version: "9.9.9"},
		},
		Log:     zap.NewNop(),
		Content: contentsvc.New(contentsvc.Deps{}),
		Auth:    authsvc.NewAuthService(authtest.New(), authtest.NewRoles()),
	}
}

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := BuildRouter(testApp())
	require.NoError(t, err)

	do := func(method, path string, header http.Header) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for k, v := range header {
			req.Header[k] = v
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"db":"disabled"`)
	assert.Contains(t, w.Body.String(), `"version":"9.9.9"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/metrics", nil).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/about", nil).Code)

	w = do(http.MethodGet, "/api/admin/services", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(http.MethodGet, "/api/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"not found"}`, w.Body.String())

	w = do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	// Inquiries are not mounted without Postgres.
	assert.Equal(t, http.StatusNotFound, do(http.MethodPost, "/api/contact", nil).Code)

	w = do(http.MethodOptions, "/api/admin/services", http.Header{
		"Origin":                        {"https://dashboard.example.test"},
		"Access-Control-Request-Method": {"POST"},
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://dashboard.example.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestSessionEndpointIsRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := BuildRouter(testApp())
	require.NoError(t, err)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := BuildRouter(testApp())
	require.NoError(t, err)

	limited := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 9, limited)
}

func TestTrustedProxyForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := testApp()
	app.Config.Server.TrustedProxies = []string{"192.0.2.0/24"}
	r, err := BuildRouter(app)
	require.NoError(t, err)

	post := func(client string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		req.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusBadRequest, post("203.0.113.1"))
	assert.Equal(t, http.StatusBadRequest, post("203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, post("203.0.113.1"))
}

func TestBuildRouterRejectsBadProxy(t *testing.T) {
	app := testApp()
	app.Config.Server.TrustedProxies = []string{"not-an-ip"}
	_, err := BuildRouter(app)
	assert.ErrorContains(t, err, "trusted proxies")
}

func TestAppCloseRunsInReverse(t *testing.T) {
	var order []int
	app := &App{}
	app.onClose(func() error { order = append(order, 1); return nil })
	app.onClose(func() error { order = append(order, 2); return nil })
	require.NoError(t, app.Close())
	assert.Equal(t, []int{2, 1}, order)
}
