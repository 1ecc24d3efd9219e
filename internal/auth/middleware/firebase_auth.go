package middleware

import (
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	fbauth "github.com/bytedocker/site/internal/auth"
	"github.com/bytedocker/site/internal/auth/domain"
	"github.com/bytedocker/site/internal/auth/service"
	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/requestctx"
)

// FirebaseAuthMiddleware validates a Firebase ID token or session cookie and
// extracts user info
func FirebaseAuthMiddleware(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(domain.SessionCookieName)
		decodedToken, err := svc.Verify(c.Request.Context(), extractToken(c), cookie)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, domain.ErrMissingToken) {
				msg = "missing authorization token"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
			c.Abort()
			return
		}

		// Store user info in context
		c.Set(fbauth.CtxFirebaseUID, decodedToken.UID)
		if email, ok := decodedToken.Claims["email"].(string); ok {
			c.Set(fbauth.CtxEmail, email)
		}
		c.Set(fbauth.CtxFirebaseToken, decodedToken)

		ctx := requestctx.WithUserID(c.Request.Context(), decodedToken.UID)
		ctx = logging.WithContext(ctx, logging.FromContext(ctx).With(zap.String("uid", decodedToken.UID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin must run after FirebaseAuthMiddleware.
func RequireAdmin(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := c.Get(fbauth.CtxFirebaseToken)
		decoded, _ := tok.(*auth.Token)
		if !ok || decoded == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			c.Abort()
			return
		}

		isAdmin, err := svc.IsAdmin(c.Request.Context(), decoded)
		if err != nil {
			logging.Op(c.Request.Context(), "auth.require_admin").Error("role lookup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not verify admin role"})
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You do not have admin access."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
