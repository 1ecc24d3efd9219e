package http

import "github.com/gin-gonic/gin"

// Register mounts the session endpoints. extra runs before the handlers,
// typically a per-IP rate limiter.
func (h *Handler) Register(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	rg.POST("/session", append(extra, h.CreateSession)...)
	rg.DELETE("/session", h.DeleteSession)
}
