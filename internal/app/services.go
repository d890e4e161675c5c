package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/careercoach-backend/internal/platform/llm"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
	"github.com/yungbote/careercoach-backend/internal/services"
)

type Services struct {
	Pipeline *services.Pipeline

	Auth services.AuthService
	User services.UserService

	Analysis services.AnalysisService
	Plan     services.PlanService
	Progress services.ProgressService
	Chart    services.ChartService
	Chat     services.ChatService
	Bulk     services.BulkService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	model := llm.NewClient(clients.Model, log, llm.WithRetryBackoff(cfg.ModelRetryBackoff))
	pipeline := services.NewPipeline(log, model, nil)

	progress := services.NewProgressService(db, log, repos.Plan, repos.LearningSession, repos.Achievement)

	return Services{
		Pipeline: pipeline,
		Auth:     services.NewAuthService(db, log, repos.User, clients.Revocations, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User:     services.NewUserService(db, log, repos.User),
		Analysis: services.NewAnalysisService(db, log, pipeline, repos.Resume, repos.Analysis, repos.Plan, clients.Resumes),
		Plan:     services.NewPlanService(db, log, pipeline, repos.Resume, repos.Analysis, repos.Plan),
		Progress: progress,
		Chart:    services.NewChartService(log, progress),
		Chat:     services.NewChatService(db, log, pipeline, repos.ChatTurn, repos.User, repos.Analysis, repos.Plan),
		Bulk:     services.NewBulkService(db, log, pipeline, repos.User, repos.Resume, repos.Analysis, repos.Bulk, cfg.BulkSelectThreshold),
	}
}
