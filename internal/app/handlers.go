package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/careercoach-backend/internal/http/handlers"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Roles    *httpH.RolesHandler
	Analysis *httpH.AnalysisHandler
	Plan     *httpH.PlanHandler
	Progress *httpH.ProgressHandler
	Chat     *httpH.ChatHandler
	Admin    *httpH.AdminHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db, services.Pipeline, clients.Resumes.Mode()),
		Auth:     httpH.NewAuthHandler(log, services.Auth),
		User:     httpH.NewUserHandler(log, services.User),
		Roles:    httpH.NewRolesHandler(services.Pipeline.Catalog()),
		Analysis: httpH.NewAnalysisHandler(log, services.Analysis, cfg.MaxUploadBytes),
		Plan:     httpH.NewPlanHandler(log, services.Plan),
		Progress: httpH.NewProgressHandler(log, services.Progress, services.Chart),
		Chat:     httpH.NewChatHandler(log, services.Chat),
		Admin:    httpH.NewAdminHandler(log, services.Bulk, cfg.MaxUploadBytes),
	}
}
