package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/careercoach-backend/internal/http/response"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/services"
)

type PlanHandler struct {
	log   *logger.Logger
	plans services.PlanService
}

func NewPlanHandler(log *logger.Logger, plans services.PlanService) *PlanHandler {
	return &PlanHandler{log: log.With("handler", "PlanHandler"), plans: plans}
}

func (h *PlanHandler) Regenerate(c *gin.Context) {
	var req struct {
		TargetRole string   `json:"target_role"`
		SkillsGap  []string `json:"skills_gap"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	plan, err := h.plans.Regenerate(c.Request.Context(), req.TargetRole, req.SkillsGap)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan})
}

func (h *PlanHandler) GetLatest(c *gin.Context) {
	plan, err := h.plans.GetLatest(c.Request.Context(), c.Query("role"))
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan})
}
