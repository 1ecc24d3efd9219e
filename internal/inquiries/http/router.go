package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts the contact endpoint. extra runs before the handler,
// typically a rate limiter.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup, extra ...gin.HandlerFunc) {
	rg.POST("/contact", append(extra, h.submit)...)
}

// RegisterAdmin mounts the inquiry inbox on an already authorised group.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/inquiries", h.list)
	rg.PATCH("/inquiries/:id", h.patch)
}
