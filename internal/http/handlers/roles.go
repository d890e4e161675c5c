package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/careercoach-backend/internal/http/response"
	"github.com/yungbote/careercoach-backend/internal/modules/coaching/prompts"
)

type RolesHandler struct {
	catalog *prompts.Catalog
}

func NewRolesHandler(catalog *prompts.Catalog) *RolesHandler {
	return &RolesHandler{catalog: catalog}
}

func (h *RolesHandler) ListRoles(c *gin.Context) {
	response.RespondOK(c, gin.H{"roles": h.catalog.Roles()})
}
