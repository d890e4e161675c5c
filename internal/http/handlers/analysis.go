package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/careercoach-backend/internal/http/response"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/services"
)

type AnalysisHandler struct {
	log            *logger.Logger
	analysis       services.AnalysisService
	maxUploadBytes int64
}

func NewAnalysisHandler(log *logger.Logger, analysis services.AnalysisService, maxUploadBytes int64) *AnalysisHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &AnalysisHandler{
		log:            log.With("handler", "AnalysisHandler"),
		analysis:       analysis,
		maxUploadBytes: maxUploadBytes,
	}
}

// AnalyzeUpload takes a multipart form with "resume" (or "file") and "target_role".
func (h *AnalysisHandler) AnalyzeUpload(c *gin.Context) {
	if err := parseMultipart(c, h.maxUploadBytes+(1<<20)); err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	form := c.Request.MultipartForm
	role := strings.TrimSpace(c.Request.FormValue("target_role"))
	files := form.File["resume"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("resume file is required"))
		return
	}
	up, err := readUpload(files[0], h.maxUploadBytes)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	out, err := h.analysis.AnalyzeUpload(c.Request.Context(), role, up)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *AnalysisHandler) AnalyzeText(c *gin.Context) {
	var req struct {
		ResumeText string `json:"resume_text"`
		TargetRole string `json:"target_role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.analysis.AnalyzeText(c.Request.Context(), req.TargetRole, req.ResumeText)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, out)
}

func (h *AnalysisHandler) GetLatest(c *gin.Context) {
	a, err := h.analysis.GetLatest(c.Request.Context(), c.Query("role"))
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"analysis": a})
}
