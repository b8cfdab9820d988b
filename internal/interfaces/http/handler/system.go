package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/dto"
	"github.com/guidebooker/invoice-service/internal/interfaces/http/router"
)

// SystemHandler serves the liveness and service information endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string) *SystemHandler {
	if name == "" {
		name = "invoice-service"
	}
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Root answers GET / with the greeting body load balancers probe for
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Status:  "Success",
		Message: "Hello World",
	})
}

// Health answers GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Status:  "healthy",
		Message: "invoice-service",
	})
}

// GetSystemInfo returns build and uptime information
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// SystemRoutes mounts the liveness endpoints at the root and the info
// endpoint under /system.
func SystemRoutes(h *SystemHandler) *router.DomainGroup {
	dg := router.NewDomainGroup("system", "")
	dg.GET("/", h.Root)
	dg.GET("/health", h.Health)
	dg.Group("info", "/system").GET("/info", h.GetSystemInfo)
	return dg
}
