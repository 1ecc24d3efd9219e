package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/inquiries/domain"
	"github.com/bytedocker/site/internal/inquiries/service"
	"github.com/bytedocker/site/internal/logging"
)

type Handler struct {
	svc *service.InquiryService
}

func New(svc *service.InquiryService) *Handler {
	return &Handler{svc: svc}
}

type contactReq struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Company string `json:"company" form:"company"`
	Message string `json:"message" form:"message"`
}

func (h *Handler) submit(c *gin.Context) {
	var req contactReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	in := &domain.Inquiry{
		Name:       req.Name,
		Email:      req.Email,
		Company:    req.Company,
		Message:    req.Message,
		RemoteAddr: c.ClientIP(),
	}
	if err := h.svc.Submit(c.Request.Context(), in); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ve.Message})
			return
		}
		serverError(c, "inquiries.submit", err, "could not send your message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": in.ID})
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	openOnly := c.Query("open") == "true"

	items, err := h.svc.List(c.Request.Context(), limit, openOnly)
	if err != nil {
		serverError(c, "inquiries.list", err, "could not load inquiries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "inquiries": items})
}

type patchReq struct {
	Handled *bool `json:"handled"`
}

func (h *Handler) patch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid inquiry id"})
		return
	}

	var req patchReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Handled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "handled is required"})
		return
	}

	if err := h.svc.MarkHandled(c.Request.Context(), id, *req.Handled); err != nil {
		if errors.Is(err, domain.ErrInquiryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
			return
		}
		serverError(c, "inquiries.patch", err, "could not update inquiry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// serverError logs err and answers with msg so storage errors stay server side.
func serverError(c *gin.Context, op string, err error, msg string) {
	logging.Op(c.Request.Context(), op).Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msg})
}
