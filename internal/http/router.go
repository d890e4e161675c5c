package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/careercoach-backend/internal/http/handlers"
	httpMW "github.com/yungbote/careercoach-backend/internal/http/middleware"
	"github.com/yungbote/careercoach-backend/internal/observability"
	"github.com/yungbote/careercoach-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	OTelEnabled bool
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	AuthHandler     *httpH.AuthHandler
	UserHandler     *httpH.UserHandler
	RolesHandler    *httpH.RolesHandler
	AnalysisHandler *httpH.AnalysisHandler
	PlanHandler     *httpH.PlanHandler
	ProgressHandler *httpH.ProgressHandler
	ChatHandler     *httpH.ChatHandler
	AdminHandler    *httpH.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.OTelEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "careercoach-api"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/health", cfg.HealthHandler.Health)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
		if cfg.RolesHandler != nil {
			api.GET("/roles", cfg.RolesHandler.ListRoles)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Analysis
		if cfg.AnalysisHandler != nil {
			protected.POST("/analyze", cfg.AnalysisHandler.AnalyzeUpload)
			protected.POST("/analyze-resume", cfg.AnalysisHandler.AnalyzeText)
			protected.GET("/analyses/latest", cfg.AnalysisHandler.GetLatest)
		}

		// Learning plan
		if cfg.PlanHandler != nil {
			protected.POST("/learning-plan", cfg.PlanHandler.Regenerate)
			protected.GET("/plans/latest", cfg.PlanHandler.GetLatest)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.POST("/progress", cfg.ProgressHandler.Update)
			protected.POST("/progress/module", cfg.ProgressHandler.UpdateModule)
			protected.POST("/progress/sessions", cfg.ProgressHandler.LogSession)
			protected.GET("/progress", cfg.ProgressHandler.Summary)
			protected.GET("/progress/chart.png", cfg.ProgressHandler.Chart)
		}

		// Coach
		if cfg.ChatHandler != nil {
			protected.POST("/chat", cfg.ChatHandler.Send)
			protected.GET("/chat/history", cfg.ChatHandler.History)
			protected.GET("/chat/summary", cfg.ChatHandler.Summary)
			protected.POST("/chat/follow-ups", cfg.ChatHandler.FollowUps)
			protected.POST("/coach/:tool", cfg.ChatHandler.CoachingTool)
			protected.POST("/career-guidance", cfg.ChatHandler.CareerGuidance)
		}
	}

	admin := protected.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}
		if cfg.UserHandler != nil {
			admin.GET("/users", cfg.UserHandler.ListUsers)
		}
		if cfg.AdminHandler != nil {
			admin.POST("/bulk", cfg.AdminHandler.RunBulk)
			admin.GET("/bulk/:id", cfg.AdminHandler.GetBulkReport)
		}
	}

	return r
}
