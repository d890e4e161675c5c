package app

import (
	"github.com/yungbote/careercoach-backend/internal/http"
	"github.com/yungbote/careercoach-backend/internal/observability"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) http.RouterConfig {
	return http.RouterConfig{
		Log:         log,
		Metrics:     metrics,
		OTelEnabled: cfg.OTelEnabled,
		ServiceName: cfg.OTelServiceName,
		CORSOrigins: cfg.CORSOrigins,

		AuthMiddleware: middleware.Auth,

		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		UserHandler:     handlers.User,
		RolesHandler:    handlers.Roles,
		AnalysisHandler: handlers.Analysis,
		PlanHandler:     handlers.Plan,
		ProgressHandler: handlers.Progress,
		ChatHandler:     handlers.Chat,
		AdminHandler:    handlers.Admin,
	}
}
