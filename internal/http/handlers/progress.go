package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/careercoach-backend/internal/http/response"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/services"
)

type ProgressHandler struct {
	log      *logger.Logger
	progress services.ProgressService
	charts   services.ChartService
}

func NewProgressHandler(log *logger.Logger, progress services.ProgressService, charts services.ChartService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress, charts: charts}
}

func (h *ProgressHandler) Update(c *gin.Context) {
	var req services.ProgressUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.progress.UpdateProgress(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *ProgressHandler) UpdateModule(c *gin.Context) {
	var req services.ModuleProgressUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.progress.UpdateModuleProgress(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

func (h *ProgressHandler) LogSession(c *gin.Context) {
	var req services.SessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := h.progress.LogSession(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"session": session})
}

// Summary accepts ?role= and ?days= (default 30).
func (h *ProgressHandler) Summary(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("days must be a positive number"))
			return
		}
		days = n
	}
	summary, err := h.progress.Summary(c.Request.Context(), c.Query("role"), days)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, summary)
}

func (h *ProgressHandler) Chart(c *gin.Context) {
	png, err := h.charts.ProgressChart(c.Request.Context(), c.Query("role"))
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
