package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/auth/domain"
	"github.com/bytedocker/site/internal/auth/service"
	"github.com/bytedocker/site/internal/logging"
)

type sessionReq struct {
	IDToken string `json:"idToken"`
}

// CreateSession trades a freshly issued ID token for an HttpOnly session
// cookie, admins only.
func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "idToken is required"})
		return
	}

	cookie, err := h.authService.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrStaleLogin):
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, domain.ErrNotAdmin):
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You do not have admin access."})
		default:
			logging.Op(c.Request.Context(), "auth.session").Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "login failed"})
		}
		return
	}

	h.setCookie(c, cookie, int(service.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteSession clears the session cookie.
func (h *Handler) DeleteSession(c *gin.Context) {
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(domain.SessionCookieName, value, maxAge, "/", "", h.secureCookie, true)
}
