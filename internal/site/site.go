// Package site renders the public marketing pages.
package site

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/content/service"
	"github.com/bytedocker/site/internal/logging"
)

// Content is the read side of *service.ContentService the pages use.
type Content interface {
	PublicServices(ctx context.Context) ([]domain.Service, error)
	PublicClients(ctx context.Context) ([]domain.Client, error)
	PublicProjects(ctx context.Context) ([]domain.Project, error)
	PublicServicePage(ctx context.Context, id string) (*service.ServicePage, error)
}

const (
	homeServices = 3
	homeClients  = 3
	homeProjects = 3
)

type Handler struct {
	content  Content
	pages    map[string]*template.Template
	markdown *Markdown
}

func New(content Content) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{content: content, pages: pages, markdown: NewMarkdown()}, nil
}

type page struct {
	Title       string
	Description string
	Active      string
	Data        any
}

type homeData struct {
	Services []domain.Service
	Clients  []domain.Client
	Projects []domain.Project
}

type serviceData struct {
	Title     string
	Alt       string
	Thumbnail string
	Body      template.HTML
	Images    []string
	Logos     []domain.Logo
}

// Register mounts the HTML pages and their stylesheet.
func (h *Handler) Register(r gin.IRouter) {
	r.StaticFS("/static/css", http.FS(mustSub(staticAssets(), "css")))

	r.GET("/", h.Home)
	r.GET("/services", h.Services)
	r.GET("/services/:slug", h.Service)
	r.GET("/clients", h.Clients)
	r.GET("/projects", h.Projects)
	r.GET("/about", h.static("about", "About", "About Bytedocker"))
	r.GET("/contact", h.static("contact", "Contact", "Get in touch with Bytedocker"))
}

// Home fetches the three highlight sections concurrently.
func (h *Handler) Home(c *gin.Context) {
	var data homeData
	g, ctx := errgroup.WithContext(c.Request.Context())

	g.Go(func() error {
		cards, err := h.content.PublicServices(ctx)
		data.Services = head(cards, homeServices)
		return err
	})
	g.Go(func() error {
		clients, err := h.content.PublicClients(ctx)
		var withFeedback []domain.Client
		for _, cl := range clients {
			if cl.Feedback.Message != "" {
				withFeedback = append(withFeedback, cl)
			}
		}
		data.Clients = head(withFeedback, homeClients)
		return err
	})
	g.Go(func() error {
		projects, err := h.content.PublicProjects(ctx)
		data.Projects = head(projects, homeProjects)
		return err
	})

	if err := g.Wait(); err != nil {
		h.fail(c, "site.home", err)
		return
	}
	h.render(c, http.StatusOK, "home", page{Title: "", Description: "Bytedocker builds ERP, CRM and e-commerce software.", Data: data})
}

func (h *Handler) Services(c *gin.Context) {
	cards, err := h.content.PublicServices(c.Request.Context())
	if err != nil {
		h.fail(c, "site.services", err)
		return
	}
	h.render(c, http.StatusOK, "services", page{Title: "Services", Active: "services", Data: cards})
}

func (h *Handler) Service(c *gin.Context) {
	sp, err := h.content.PublicServicePage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			h.notFound(c)
			return
		}
		h.fail(c, "site.service", err)
		return
	}

	data := serviceData{
		Title:     sp.Service.Title,
		Alt:       sp.Service.Alt,
		Thumbnail: sp.Service.Src,
		Logos:     sp.Logos,
	}
	src := sp.Service.Description
	if d := sp.Detail; d != nil {
		if d.Src != "" {
			data.Thumbnail = d.Src
		}
		if d.Description != "" {
			src = d.Description
		}
		data.Images = d.Images
	}
	data.Body, err = h.markdown.Render(src)
	if err != nil {
		h.fail(c, "site.service", err)
		return
	}

	h.render(c, http.StatusOK, "service", page{Title: sp.Service.Title, Active: "services", Description: sp.Service.Alt, Data: data})
}

func (h *Handler) Clients(c *gin.Context) {
	clients, err := h.content.PublicClients(c.Request.Context())
	if err != nil {
		h.fail(c, "site.clients", err)
		return
	}
	h.render(c, http.StatusOK, "clients", page{Title: "Clients", Active: "clients", Data: clients})
}

func (h *Handler) Projects(c *gin.Context) {
	projects, err := h.content.PublicProjects(c.Request.Context())
	if err != nil {
		h.fail(c, "site.projects", err)
		return
	}
	h.render(c, http.StatusOK, "projects", page{Title: "Projects", Active: "projects", Data: projects})
}

func (h *Handler) static(name, title, description string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, http.StatusOK, name, page{Title: title, Active: name, Description: description})
	}
}

// NotFound renders the 404 page; it is also used as the engine NoRoute.
func (h *Handler) NotFound(c *gin.Context) {
	h.notFound(c)
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error", page{Title: "Page not found", Data: "The page you are looking for does not exist."})
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	logging.Op(c.Request.Context(), op).Error("render page", zap.Error(err))
	h.render(c, http.StatusInternalServerError, "error", page{Title: "Something went wrong", Data: "Please try again in a moment."})
}

func (h *Handler) render(c *gin.Context, status int, name string, p page) {
	t, ok := h.pages[name]
	if !ok {
		c.String(http.StatusInternalServerError, "unknown page %q", name)
		return
	}
	templ.Handler(templ.FromGoHTML(t, p), templ.WithStatus(status)).ServeHTTP(c.Writer, c.Request)
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
