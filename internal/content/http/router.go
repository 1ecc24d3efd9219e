package http

import "github.com/gin-gonic/gin"

// RegisterPublic mounts the read-only content API.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/services", h.publicServices)
	rg.GET("/services/:id", h.publicServicePage)
	rg.GET("/clients", h.publicClients)
	rg.GET("/projects", h.publicProjects)
	rg.GET("/logos", h.publicLogos)
}

// RegisterAdmin mounts the dashboard API on a group that already enforces
// admin access.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/overview", h.overview)

	rg.GET("/services", h.listServices)
	rg.GET("/services/:id", h.getService)
	rg.POST("/services", h.createService)
	rg.PUT("/services/:id", h.updateService)
	rg.DELETE("/services/:id", h.deleteService)

	rg.GET("/clients", h.listClients)
	rg.GET("/clients/:id", h.getClient)
	rg.POST("/clients", h.createClient)
	rg.PUT("/clients/:id", h.updateClient)
	rg.DELETE("/clients/:id", h.deleteClient)

	rg.GET("/projects", h.listProjects)
	rg.GET("/projects/:id", h.getProject)
	rg.POST("/projects", h.createProject)
	rg.PUT("/projects/:id", h.updateProject)
	rg.DELETE("/projects/:id", h.deleteProject)

	rg.GET("/service-details", h.listServiceDetails)
	rg.POST("/service-details/sync", h.syncServiceDetails)
	rg.GET("/service-details/:id", h.getServiceDetail)
	rg.POST("/service-details/:id", h.saveServiceDetail)

	rg.GET("/logos", h.listLogos)
	rg.POST("/logos", h.addLogo)
	rg.DELETE("/logos/:id", h.deleteLogo)
}
