package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/services"
)

type HealthHandler struct {
	db       *gorm.DB
	pipeline *services.Pipeline
	store    string
}

func NewHealthHandler(db *gorm.DB, pipeline *services.Pipeline, store string) *HealthHandler {
	return &HealthHandler{db: db, pipeline: pipeline, store: store}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Health reports the model provider, the role catalog and whether the
// database answers.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	dbStatus := "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			status, dbStatus = "degraded", "unreachable"
		}
	}
	body := gin.H{
		"status":       status,
		"database":     dbStatus,
		"resume_store": h.store,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}
	if h.pipeline != nil {
		body["provider"] = h.pipeline.Provider()
		body["available_roles"] = h.pipeline.Catalog().Names()
	}
	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, body)
}
