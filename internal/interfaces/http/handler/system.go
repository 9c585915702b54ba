package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lotledger/backend/internal/infrastructure/persistence"
	"github.com/lotledger/backend/internal/interfaces/http/dto"
)

// HealthChecker reports database connectivity and pool statistics
type HealthChecker interface {
	Ping() error
	Stats() (persistence.ConnectionStats, error)
}

// SystemHandler serves liveness, readiness and build info endpoints
type SystemHandler struct {
	BaseHandler
	db        HealthChecker
	appName   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db HealthChecker, appName string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/ping", h.Ping)
		system.GET("/info", h.Info)
		system.GET("/health", h.Health)
	}
}

// Ping answers liveness probes
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// InfoResponse reports process build info and uptime
type InfoResponse struct {
	Name      string `json:"name"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Info returns process information
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, InfoResponse{
		Name:      h.appName,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Health answers readiness probes: the process is ready when the database
// responds to a ping
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			"DATABASE_UNAVAILABLE", "Database ping failed",
		))
		return
	}

	payload := gin.H{"status": "healthy"}
	if stats, err := h.db.Stats(); err == nil {
		payload["database"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"wait_count":       stats.WaitCount,
		}
	}
	h.Success(c, payload)
}
