package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/bytedocker/site/internal/api/http/middleware"
	authhttp "github.com/bytedocker/site/internal/auth/http"
	authmw "github.com/bytedocker/site/internal/auth/middleware"
	authsvc "github.com/bytedocker/site/internal/auth/service"
	contenthttp "github.com/bytedocker/site/internal/content/http"
	inqhttp "github.com/bytedocker/site/internal/inquiries/http"
)

type APIDeps struct {
	Auth      *authsvc.AuthService
	Session   *authhttp.Handler
	Content   *contenthttp.Handler
	Inquiries *inqhttp.Handler // nil when Postgres is not configured
	Limiter   *middleware.IPRateLimiter
	// Admin request body cap in bytes; zero leaves bodies uncapped.
	AdminMaxBody int64
}

// RegisterAPI mounts the JSON API under /api.
func RegisterAPI(r *gin.Engine, dep APIDeps) {
	api := r.Group("/api")

	var limited []gin.HandlerFunc
	if dep.Limiter != nil {
		limited = append(limited, dep.Limiter.Middleware())
	}

	dep.Session.Register(api, limited...)
	if dep.Inquiries != nil {
		dep.Inquiries.RegisterPublic(api, limited...)
	}

	dep.Content.RegisterPublic(api.Group("/content"))

	admin := api.Group("/admin")
	admin.Use(authmw.FirebaseAuthMiddleware(dep.Auth), authmw.RequireAdmin(dep.Auth))
	if dep.AdminMaxBody > 0 {
		admin.Use(middleware.MaxBodyBytes(dep.AdminMaxBody))
	}
	dep.Content.RegisterAdmin(admin)
	if dep.Inquiries != nil {
		dep.Inquiries.RegisterAdmin(admin)
	}
}
