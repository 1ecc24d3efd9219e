package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bytedocker/site/internal/logging"
	"github.com/bytedocker/site/internal/metrics"
)

var (
	ErrTooLarge  = errors.New("upload exceeds size limit")
	ErrNotImage  = errors.New("upload is not an image")
	ErrEmptyFile = errors.New("upload is empty")
)

// Object is a stored file. Path is the bucket-relative name, URL the address
// pages reference.
type Object struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Store is a bucket backend.
type Store interface {
	Put(ctx context.Context, objectPath, contentType string, body io.Reader) (Object, error)
	Delete(ctx context.Context, objectPath string) error
	// PathFromURL maps a URL produced by Put back to its object path. ok is
	// false for URLs the store does not manage.
	PathFromURL(rawURL string) (objectPath string, ok bool)
}

// File is an incoming upload.
type File struct {
	Name string
	Body io.Reader
}

type Service struct {
	store    Store
	maxBytes int64
	now      func() time.Time
	newID    func() string
}

func NewService(store Store, maxBytes int64) *Service {
	return &Service{
		store:    store,
		maxBytes: maxBytes,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Upload stores f as "<prefix>/<uuid>-<name>".
func (s *Service) Upload(ctx context.Context, prefix string, f File) (Object, error) {
	return s.put(ctx, path.Join(prefix, s.newID()+"-"+cleanName(f.Name)), f)
}

// UploadTimestamped stores f as "<prefix>/<stem><millis>_<name>".
func (s *Service) UploadTimestamped(ctx context.Context, prefix, stem string, f File) (Object, error) {
	name := fmt.Sprintf("%s%d_%s", stem, s.now().UnixMilli(), cleanName(f.Name))
	return s.put(ctx, path.Join(prefix, name), f)
}

func (s *Service) put(ctx context.Context, objectPath string, f File) (Object, error) {
	data, err := io.ReadAll(io.LimitReader(f.Body, s.maxBytes+1))
	if err != nil {
		return Object{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Object{}, ErrEmptyFile
	}
	if int64(len(data)) > s.maxBytes {
		return Object{}, ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Object{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	obj, err := s.store.Put(ctx, objectPath, mt.String(), bytes.NewReader(data))
	if err != nil {
		return Object{}, fmt.Errorf("store %s: %w", objectPath, err)
	}
	obj.Size = int64(len(data))
	obj.ContentType = mt.String()

	metrics.ObserveUpload(obj.Size)
	logging.Op(ctx, "media.upload").Debug("object stored",
		zap.String("path", obj.Path), zap.Int64("bytes", obj.Size))
	return obj, nil
}

// DeleteByURL removes the object behind rawURL. URLs the store does not
// manage (placeholders, site assets) are left alone, and failures are only
// logged since the object may already be gone.
func (s *Service) DeleteByURL(ctx context.Context, rawURL string) {
	if rawURL == "" {
		return
	}
	p, ok := s.store.PathFromURL(rawURL)
	if !ok {
		return
	}
	if err := s.store.Delete(ctx, p); err != nil {
		logging.Op(ctx, "media.delete").Warn("failed to delete image (it may have already been removed)",
			zap.String("path", p), zap.Error(err))
	}
}

// DeletePath removes an object by path, logging instead of failing.
func (s *Service) DeletePath(ctx context.Context, objectPath string) {
	if objectPath == "" {
		return
	}
	if err := s.store.Delete(ctx, objectPath); err != nil {
		logging.Op(ctx, "media.delete").Warn("deleteObject failed",
			zap.String("path", objectPath), zap.Error(err))
	}
}

func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
