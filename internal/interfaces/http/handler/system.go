package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/infrastructure/persistence"
	"github.com/ledgerline/backend/internal/interfaces/http/dto"
)

// SystemHandler serves liveness and readiness probes
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	appName   string
	env       string
	startedAt time.Time
}

// NewSystemHandler creates a system handler
func NewSystemHandler(db *persistence.Database, appName, env string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		env:       env,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ping", h.Ping)
	rg.GET("/info", h.Info)
}

// Health reports readiness, including database connectivity and pool usage
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	httpStatus := http.StatusOK

	dbStatus := "ok"
	if err := h.db.Ping(); err != nil {
		dbStatus = "unreachable"
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	payload := gin.H{
		"status":   status,
		"database": dbStatus,
	}
	if pool, err := h.db.Stats(); err == nil {
		payload["pool"] = pool
	}

	c.JSON(httpStatus, dto.NewSuccessResponse(payload))
}

// Ping is a trivial liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Info reports build/runtime information
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":   h.appName,
		"env":    h.env,
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}
