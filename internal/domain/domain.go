package domain

import (
	"github.com/yungbote/careercoach-backend/internal/domain/admin"
	"github.com/yungbote/careercoach-backend/internal/domain/chat"
	"github.com/yungbote/careercoach-backend/internal/domain/coaching"
	"github.com/yungbote/careercoach-backend/internal/domain/progress"
	"github.com/yungbote/careercoach-backend/internal/domain/user"
)

const (
	RoleAdmin    = user.RoleAdmin
	RoleStandard = user.RoleStandard

	ChatRoleUser      = chat.RoleUser
	ChatRoleAssistant = chat.RoleAssistant

	BulkStatusSucceeded = admin.StatusSucceeded
	BulkStatusFailed    = admin.StatusFailed
)

type (
	User = user.User

	TemplateKind   = coaching.TemplateKind
	Resume         = coaching.Resume
	AnalysisResult = coaching.AnalysisResult
	LearningPlan   = coaching.LearningPlan
	PlanPhase      = coaching.PlanPhase
	PlanModule     = coaching.PlanModule

	ChatTurn = chat.ChatTurn

	LearningSession = progress.LearningSession
	Achievement     = progress.Achievement

	BulkRun    = admin.BulkRun
	BulkResult = admin.BulkResult
)

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&Resume{},
		&AnalysisResult{},
		&LearningPlan{},
		&PlanPhase{},
		&PlanModule{},
		&ChatTurn{},
		&LearningSession{},
		&Achievement{},
		&BulkRun{},
		&BulkResult{},
	}
}
