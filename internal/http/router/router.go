package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/venture-backend/internal/config"
	"github.com/ignatzorin/venture-backend/internal/http/handlers"
	"github.com/ignatzorin/venture-backend/internal/http/middleware"
	"github.com/ignatzorin/venture-backend/internal/models"
	"github.com/ignatzorin/venture-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	ideaHandler *handlers.IdeaHandler,
	accessRequestHandler *handlers.AccessRequestHandler,
	proposalHandler *handlers.ProposalHandler,
	notificationHandler *handlers.NotificationHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/me", authHandler.Me)
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)
		protectedAuth.DELETE("/sessions", authHandler.DeleteAllSessionsExcept)
	}

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		// Идеи
		protected.POST("/ideas", middleware.RequireRole(models.RoleFounder), ideaHandler.CreateIdea)
		protected.GET("/ideas", ideaHandler.ListIdeas)
		protected.GET("/ideas/:id", middleware.UUIDValidator("id"), ideaHandler.GetIdea)
		protected.POST("/ideas/:id/publish", middleware.UUIDValidator("id"), ideaHandler.PublishIdea)
		protected.GET("/ideas/:id/audit", middleware.UUIDValidator("id"), ideaHandler.GetAuditTrail)

		// Запросы доступа
		protected.POST("/access-requests", middleware.RequireRole(models.RoleInvestor), accessRequestHandler.CreateAccessRequest)
		protected.GET("/access-requests", accessRequestHandler.ListAccessRequests)
		protected.POST("/access-requests/:id/respond", middleware.UUIDValidator("id"), accessRequestHandler.RespondToAccessRequest)

		// Инвестиционные предложения
		protected.POST("/proposals", middleware.RequireRole(models.RoleInvestor), proposalHandler.CreateProposal)
		protected.GET("/proposals", proposalHandler.ListProposals)
		protected.POST("/proposals/:id/accept", middleware.UUIDValidator("id"), proposalHandler.AcceptProposal)
		protected.POST("/proposals/:id/reject", middleware.UUIDValidator("id"), proposalHandler.RejectProposal)
		protected.POST("/proposals/:id/counter", middleware.UUIDValidator("id"), proposalHandler.CounterProposal)

		// Уведомления
		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)

		// Дашборд
		protected.GET("/dashboard/:role", dashboardHandler.GetMetrics)
	}

	return r
}
