package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/content/service"
	"github.com/bytedocker/site/internal/media"
)

var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

const objectBase = "https://cdn.example.test/"

type objectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *objectStore) Put(_ context.Context, p, _ string, body io.Reader) (media.Object, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return media.Object{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[p] = b
	return media.Object{Path: p, URL: objectBase + p}, nil
}

func (s *objectStore) Delete(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, p)
	return nil
}

func (s *objectStore) PathFromURL(u string) (string, bool) {
	return strings.CutPrefix(u, objectBase)
}

type cardStore struct {
	mu     sync.Mutex
	cards  []domain.Service
	exists bool
}

func (c *cardStore) Cards(context.Context) ([]domain.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.exists {
		return nil, domain.ErrContentNotFound
	}
	return append([]domain.Service(nil), c.cards...), nil
}

func (c *cardStore) Append(_ context.Context, card domain.Service) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exists = true
	c.cards = append(c.cards, card)
	return nil
}

func (c *cardStore) Mutate(_ context.Context, fn func([]domain.Service) ([]domain.Service, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.exists {
		return domain.ErrContentNotFound
	}
	next, err := fn(append([]domain.Service(nil), c.cards...))
	if err != nil {
		return err
	}
	c.cards = next
	return nil
}

func (c *cardStore) Seed(_ context.Context, cards []domain.Service) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exists {
		return false, nil
	}
	c.exists, c.cards = true, cards
	return true, nil
}

type clientStore struct {
	mu    sync.Mutex
	items map[string]domain.Client
	err   error
}

func (s *clientStore) List(context.Context) ([]domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Client, 0, len(s.items))
	for _, c := range s.items {
		out = append(out, c)
	}
	return out, nil
}

func (s *clientStore) Get(_ context.Context, id string) (*domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return &c, nil
}

func (s *clientStore) Create(_ context.Context, c *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[c.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.items[c.ID] = *c
	return nil
}

func (s *clientStore) Update(_ context.Context, c *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[c.ID] = *c
	return nil
}

func (s *clientStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *clientStore) Empty(ctx context.Context) (bool, error) {
	l, _ := s.List(ctx)
	return len(l) == 0, nil
}

func (s *clientStore) SeedMany(_ context.Context, cs []domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cs {
		s.items[c.ID] = c
	}
	return nil
}

type env struct {
	router  *gin.Engine
	cards   *cardStore
	clients *clientStore
	objects *objectStore
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &env{
		cards:   &cardStore{},
		clients: &clientStore{items: map[string]domain.Client{}},
		objects: &objectStore{objects: map[string][]byte{}},
	}
	svc := service.New(service.Deps{
		Services: e.cards,
		Clients:  e.clients,
		Media:    media.NewService(e.objects, 1024),
	})
	h := New(svc, nil)

	e.router = gin.New()
	h.RegisterPublic(e.router.Group("/api/content"))
	h.RegisterAdmin(e.router.Group("/api/admin"))
	return e
}

type part struct {
	field, filename string
	body            []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = fw.Write(f.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (e *env) do(t *testing.T, method, path string, body io.Reader, contentType string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

var serviceFields = map[string]string{"title": "Cloud", "alt": "Cloud alt", "description": "We run clouds"}

func TestCreateService(t *testing.T) {
	e := setup(t)

	t.Run("missing image", func(t *testing.T) {
		body, ct := multipartBody(t, serviceFields)
		code, out := e.do(t, http.MethodPost, "/api/admin/services", body, ct)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, false, out["ok"])
	})

	t.Run("missing title", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"alt": "a", "description": "d"},
			part{"image", "a.png", pngBytes})
		code, out := e.do(t, http.MethodPost, "/api/admin/services", body, ct)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Title is required.", out["error"])
	})

	t.Run("not an image", func(t *testing.T) {
		body, ct := multipartBody(t, serviceFields, part{"image", "a.png", []byte("plain text")})
		code, _ := e.do(t, http.MethodPost, "/api/admin/services", body, ct)
		assert.Equal(t, http.StatusUnsupportedMediaType, code)
	})

	t.Run("too large", func(t *testing.T) {
		big := append(append([]byte(nil), pngBytes...), make([]byte, 2048)...)
		body, ct := multipartBody(t, serviceFields, part{"image", "a.png", big})
		code, _ := e.do(t, http.MethodPost, "/api/admin/services", body, ct)
		assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	})

	t.Run("created", func(t *testing.T) {
		body, ct := multipartBody(t, serviceFields, part{"image", "cloud.png", pngBytes})
		code, out := e.do(t, http.MethodPost, "/api/admin/services", body, ct)
		require.Equal(t, http.StatusCreated, code)
		svc := out["service"].(map[string]interface{})
		assert.Equal(t, "Cloud", svc["title"])
		assert.True(t, strings.HasPrefix(svc["src"].(string), objectBase+"services/"))
		assert.Len(t, e.objects.objects, 1)
	})
}

func TestUpdateAndDeleteService(t *testing.T) {
	e := setup(t)
	e.cards.exists = true
	e.cards.cards = []domain.Service{{ID: "a", Title: "A", Alt: "A", Description: "d", Src: "/static/a.png"}}

	body, ct := multipartBody(t, map[string]string{"title": "A2", "alt": "A2", "description": "d2"})
	code, out := e.do(t, http.MethodPut, "/api/admin/services/a", body, ct)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "/static/a.png", out["service"].(map[string]interface{})["src"])

	body, ct = multipartBody(t, serviceFields)
	code, out = e.do(t, http.MethodPut, "/api/admin/services/missing", body, ct)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "service not found", out["error"])

	code, _ = e.do(t, http.MethodDelete, "/api/admin/services/a", nil, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = e.do(t, http.MethodDelete, "/api/admin/services/a", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateClient_Conflict(t *testing.T) {
	e := setup(t)
	fields := map[string]string{
		"companyName":     "Nexus Fintech",
		"industry":        "Fintech",
		"product":         "Payments",
		"scopeOfWork":     "Backend",
		"description":     "Ledger",
		"feedbackMessage": "Great",
		"feedbackRating":  "5",
	}

	body, ct := multipartBody(t, fields, part{"logo", "l.png", pngBytes}, part{"image", "i.png", pngBytes})
	code, out := e.do(t, http.MethodPost, "/api/admin/clients", body, ct)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "nexus-fintech", out["client"].(map[string]interface{})["id"])

	body, ct = multipartBody(t, fields, part{"logo", "l.png", pngBytes}, part{"image", "i.png", pngBytes})
	code, out = e.do(t, http.MethodPost, "/api/admin/clients", body, ct)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, `Client "Nexus Fintech" already exists.`, out["error"])

	fields["feedbackRating"] = "9"
	body, ct = multipartBody(t, fields, part{"logo", "l.png", pngBytes}, part{"image", "i.png", pngBytes})
	code, out = e.do(t, http.MethodPost, "/api/admin/clients", body, ct)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Rating must be between 1 and 5.", out["error"])
}

func TestInternalErrorIsGeneric(t *testing.T) {
	e := setup(t)
	e.clients.err = errors.New("rpc error: code = Unavailable desc = firestore down")

	code, out := e.do(t, http.MethodGet, "/api/admin/clients", nil, "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Something went wrong. Please try again.", out["error"])
}

func TestPublicContent(t *testing.T) {
	e := setup(t)

	code, out := e.do(t, http.MethodGet, "/api/content/services", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["services"], 2, "defaults are seeded on first read")

	code, out = e.do(t, http.MethodGet, "/api/content/clients", nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["clients"], 5)
}

func TestPostFormList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("techStack=go,%20redis&techStack2=x"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	assert.Equal(t, []string{"go", "redis"}, postFormList(c, "techStack"))
	assert.Empty(t, postFormList(c, "missing"))
}

func TestKeepImagesField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	read := func(fields map[string][]string) []string {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for k, vs := range fields {
			for _, v := range vs {
				require.NoError(t, w.WriteField(k, v))
			}
		}
		require.NoError(t, w.Close())

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", &buf)
		c.Request.Header.Set("Content-Type", w.FormDataContentType())
		return keepImagesField(c)
	}

	assert.Nil(t, read(map[string][]string{"description": {"text only"}}))

	got := read(map[string][]string{"keepImages": {""}})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Equal(t, []string{"a", "b"}, read(map[string][]string{"keepImages": {"a", " b "}}))
}

func TestBadUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	badUpload(c, fmt.Errorf("multipart: %w", &http.MaxBytesError{Limit: 16}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	badUpload(c, errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
