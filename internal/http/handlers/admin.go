package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/careercoach-backend/internal/http/response"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/services"
)

type AdminHandler struct {
	log            *logger.Logger
	bulk           services.BulkService
	maxUploadBytes int64
}

func NewAdminHandler(log *logger.Logger, bulk services.BulkService, maxUploadBytes int64) *AdminHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &AdminHandler{log: log.With("handler", "AdminHandler"), bulk: bulk, maxUploadBytes: maxUploadBytes}
}

// RunBulk accepts either JSON {"target_role", "user_ids"} or a multipart form
// with "target_role" and one or more "files".
func (h *AdminHandler) RunBulk(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.runBulkFiles(c)
		return
	}
	var req struct {
		TargetRole string   `json:"target_role"`
		UserIDs    []string `json:"user_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("user_ids must be UUIDs"))
			return
		}
		ids = append(ids, id)
	}
	rep, err := h.bulk.RunForUsers(c.Request.Context(), req.TargetRole, ids)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, rep)
}

func (h *AdminHandler) runBulkFiles(c *gin.Context) {
	limit := h.maxUploadBytes*int64(services.MaxBulkItems) + (1 << 20)
	if err := parseMultipart(c, limit); err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	headers := c.Request.MultipartForm.File["files"]
	if len(headers) == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("files are required"))
		return
	}
	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh, h.maxUploadBytes)
		if err != nil {
			response.RespondServiceError(c, h.log, err)
			return
		}
		uploads = append(uploads, up)
	}
	rep, err := h.bulk.RunForFiles(c.Request.Context(), c.Request.FormValue("target_role"), uploads)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, rep)
}

func (h *AdminHandler) GetBulkReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid run id"))
		return
	}
	rep, err := h.bulk.GetReport(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, rep)
}
