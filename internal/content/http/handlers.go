package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/content/service"
	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/media"
)

type Handler struct {
	svc       *service.ContentService
	inquiries service.InquiryCounter
}

// New builds the content handlers. inquiries feeds the dashboard overview
// and may be nil when Postgres is not configured.
func New(svc *service.ContentService, inquiries service.InquiryCounter) *Handler {
	return &Handler{svc: svc, inquiries: inquiries}
}

// writeError maps service errors onto the JSON error envelope.
func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ve.Message})
	case errors.Is(err, domain.ErrImageRequired):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Please upload the required image(s)."})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrServiceNotFound),
		errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrServiceDetailNotFound),
		errors.Is(err, domain.ErrLogoNotFound),
		errors.Is(err, domain.ErrContentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, media.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "Image is too large."})
	case errors.Is(err, media.ErrNotImage):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"ok": false, "error": "Only image uploads are allowed."})
	case errors.Is(err, media.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Uploaded file is empty."})
	default:
		logging.Op(c.Request.Context(), "content.http").Error("request failed",
			zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Something went wrong. Please try again."})
	}
}

// uploads opens multipart files for the life of one request.
type uploads struct {
	c       *gin.Context
	closers []io.Closer
}

func newUploads(c *gin.Context) *uploads {
	return &uploads{c: c}
}

func (u *uploads) open(fh *multipart.FileHeader) (media.File, error) {
	f, err := fh.Open()
	if err != nil {
		return media.File{}, err
	}
	u.closers = append(u.closers, f)
	return media.File{Name: fh.Filename, Body: f}, nil
}

// file returns the upload in field, or nil when the field is absent.
func (u *uploads) file(field string) (*media.File, error) {
	fh, err := u.c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := u.open(fh)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (u *uploads) files(field string) ([]media.File, error) {
	form, err := u.c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]media.File, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		f, err := u.open(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (u *uploads) close() {
	for _, c := range u.closers {
		_ = c.Close()
	}
}

func badUpload(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "Request body is too large."})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid multipart body"})
}

// postFormList reads a repeated form field, also accepting a single
// comma-separated value.
func postFormList(c *gin.Context, field string) []string {
	vals := c.PostFormArray(field)
	if len(vals) == 1 && strings.Contains(vals[0], ",") {
		vals = strings.Split(vals[0], ",")
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
