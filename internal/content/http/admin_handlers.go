package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bytedocker/site/internal/content/domain"
)

// services

func (h *Handler) listServices(c *gin.Context) {
	items, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "services": items})
}

func (h *Handler) getService(c *gin.Context) {
	s, err := h.svc.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": s})
}

func serviceForm(c *gin.Context) domain.ServiceForm {
	return domain.ServiceForm{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Alt:         strings.TrimSpace(c.PostForm("alt")),
		Description: strings.TrimSpace(c.PostForm("description")),
	}
}

func (h *Handler) createService(c *gin.Context) {
	up := newUploads(c)
	defer up.close()
	image, err := up.file("image")
	if err != nil {
		badUpload(c, err)
		return
	}

	s, err := h.svc.AddService(c.Request.Context(), serviceForm(c), image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "service": s})
}

func (h *Handler) updateService(c *gin.Context) {
	up := newUploads(c)
	defer up.close()
	image, err := up.file("image")
	if err != nil {
		badUpload(c, err)
		return
	}

	s, err := h.svc.UpdateService(c.Request.Context(), c.Param("id"), serviceForm(c), image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": s})
}

func (h *Handler) deleteService(c *gin.Context) {
	if err := h.svc.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// clients

func (h *Handler) listClients(c *gin.Context) {
	items, err := h.svc.ListClients(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "clients": items})
}

func (h *Handler) getClient(c *gin.Context) {
	cl, err := h.svc.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "client": cl})
}

func clientForm(c *gin.Context) domain.ClientForm {
	rating, _ := strconv.Atoi(c.PostForm("feedbackRating"))
	return domain.ClientForm{
		CompanyName: strings.TrimSpace(c.PostForm("companyName")),
		Industry:    strings.TrimSpace(c.PostForm("industry")),
		Product:     strings.TrimSpace(c.PostForm("product")),
		ScopeOfWork: strings.TrimSpace(c.PostForm("scopeOfWork")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Feedback: domain.Feedback{
			Message: strings.TrimSpace(c.PostForm("feedbackMessage")),
			Rating:  rating,
		},
	}
}

func (h *Handler) createClient(c *gin.Context) {
	up := newUploads(c)
	defer up.close()
	logo, err := up.file("logo")
	if err != nil {
		badUpload(c, err)
		return
	}
	image, err := up.file("image")
	if err != nil {
		badUpload(c, err)
		return
	}

	cl, err := h.svc.CreateClient(c.Request.Context(), clientForm(c), logo, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "client": cl})
}

func (h *Handler) updateClient(c *gin.Context) {
	up := newUploads(c)
	defer up.close()
	logo, err := up.file("logo")
	if err != nil {
		badUpload(c, err)
		return
	}
	image, err := up.file("image")
	if err != nil {
		badUpload(c, err)
		return
	}

	cl, err := h.svc.UpdateClient(c.Request.Context(), c.Param("id"), clientForm(c), logo, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "client": cl})
}

func (h *Handler) deleteClient(c *gin.Context) {
	if err := h.svc.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// projects

func (h *Handler) listProjects(c *gin.Context) {
	items, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) getProject(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func projectForm(c *gin.Context) domain.ProjectForm {
	year, _ := strconv.Atoi(strings.TrimSpace(c.PostForm("year")))
	return domain.ProjectForm{
		ClientName:  strings.TrimSpace(c.PostForm("clientName")),
		ProjectType: strings.TrimSpace(c.PostForm("projectType")),
		Year:        year,
		Description: strings.TrimSpace(c.PostForm("description")),
	}
}

func (h *Handler) createProject(c *gin.Context) {
	up := newUploads(c)
	defer up.close()
	image, err := up.file("image")
	if err != nil {
		badUpload(c, err)
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), projectForm(c), image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) updateProject(c *gin.Context) {
	up := newUploads(c)
	defer up.close()
	image, err := up.file("image")
	if err != nil {
		badUpload(c, err)
		return
	}

	p, err := h.svc.UpdateProject(c.Request.Context(), c.Param("id"), projectForm(c), image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) deleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// service details

func (h *Handler) listServiceDetails(c *gin.Context) {
	items, err := h.svc.ListServiceDetails(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "serviceDetails": items})
}

func (h *Handler) getServiceDetail(c *gin.Context) {
	d, err := h.svc.GetServiceDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "serviceDetail": d})
}

func (h *Handler) syncServiceDetails(c *gin.Context) {
	res, err := h.svc.SyncServiceDetails(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sync": res})
}

func (h *Handler) saveServiceDetail(c *gin.Context) {
	up := newUploads(c)
	defer up.close()
	thumbnail, err := up.file("thumbnail")
	if err != nil {
		badUpload(c, err)
		return
	}
	images, err := up.files("images")
	if err != nil {
		badUpload(c, err)
		return
	}

	form := domain.ServiceDetailForm{
		Description: c.PostForm("description"),
		TechStack:   postFormList(c, "techStack"),
		KeepImages:  keepImagesField(c),
	}
	d, err := h.svc.SaveServiceDetail(c.Request.Context(), c.Param("id"), form, thumbnail, images)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "serviceDetail": d})
}

// keepImagesField returns nil when the form omits keepImages, so a text-only
// save leaves the gallery alone. A lone empty value clears it.
func keepImagesField(c *gin.Context) []string {
	vals, ok := c.GetPostFormArray("keepImages")
	if !ok {
		return nil
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// logos

func (h *Handler) listLogos(c *gin.Context) {
	items, err := h.svc.ListLogos(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "logos": items})
}

func (h *Handler) addLogo(c *gin.Context) {
	up := newUploads(c)
	defer up.close()
	file, err := up.file("file")
	if err != nil {
		badUpload(c, err)
		return
	}

	form := domain.LogoForm{Title: c.PostForm("title"), URL: c.PostForm("url")}
	l, err := h.svc.AddLogo(c.Request.Context(), form, file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "logo": l})
}

func (h *Handler) deleteLogo(c *gin.Context) {
	if err := h.svc.DeleteLogo(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) overview(c *gin.Context) {
	recent, _ := strconv.Atoi(c.DefaultQuery("recent", "10"))
	ov, err := h.svc.Overview(c.Request.Context(), h.inquiries, recent)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "overview": ov})
}
