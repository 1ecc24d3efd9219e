package bootstrap

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/bytedocker/site/internal/api/http"
	"github.com/bytedocker/site/internal/api/http/middleware"
	"github.com/bytedocker/site/internal/api/http/routes"
	authhttp "github.com/bytedocker/site/internal/auth/http"
	contenthttp "github.com/bytedocker/site/internal/content/http"
	inqhttp "github.com/bytedocker/site/internal/inquiries/http"
	"github.com/bytedocker/site/internal/metrics"
	"github.com/bytedocker/site/internal/site"
)

const serviceName = "bytedocker-site"

func BuildRouter(app *App) (*gin.Engine, error) {
	cfg := app.Config

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(
		middleware.RequestLogger(app.Log),
		middleware.Recovery(),
		metrics.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	var dbPing, cachePing httpapi.Pinger
	if app.Pool != nil {
		dbPing = app.Pool.Pool
	}
	if app.Redis != nil {
		cachePing = app.Cache
	}
	httpapi.NewHealthHandler(serviceName, cfg.App.Version, dbPing, cachePing).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	dep := routes.APIDeps{
		Auth:    app.Auth,
		Session: authhttp.New(app.Auth, !strings.EqualFold(cfg.App.Environment, "development")),
		Content: contenthttp.New(app.Content, app.InquiryCounter()),
		Limiter: middleware.NewIPRateLimiter(cfg.Server.PublicRateLimit, cfg.Server.PublicBurst),

		AdminMaxBody: cfg.Storage.MaxBodyBytes,
	}
	if app.Inquiries != nil {
		dep.Inquiries = inqhttp.New(app.Inquiries)
	}
	routes.RegisterAPI(r, dep)

	pages, err := site.New(app.Content)
	if err != nil {
		return nil, err
	}
	pages.Register(r)
	if cfg.App.StaticDir != "" {
		r.Static("/static/img", cfg.App.StaticDir)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
			return
		}
		pages.NotFound(c)
	})

	return r, nil
}
