package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) publicServices(c *gin.Context) {
	items, err := h.svc.PublicServices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "services": items})
}

func (h *Handler) publicServicePage(c *gin.Context) {
	page, err := h.svc.PublicServicePage(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": page.Service, "detail": page.Detail, "logos": page.Logos})
}

func (h *Handler) publicClients(c *gin.Context) {
	items, err := h.svc.PublicClients(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "clients": items})
}

func (h *Handler) publicProjects(c *gin.Context) {
	items, err := h.svc.PublicProjects(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) publicLogos(c *gin.Context) {
	items, err := h.svc.PublicLogos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "logos": items})
}
