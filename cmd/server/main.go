package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/venture-backend/internal/ai"
	"github.com/ignatzorin/venture-backend/internal/config"
	"github.com/ignatzorin/venture-backend/internal/db"
	httpHandlers "github.com/ignatzorin/venture-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/venture-backend/internal/http/router"
	"github.com/ignatzorin/venture-backend/internal/logger"
	"github.com/ignatzorin/venture-backend/internal/repository"
	"github.com/ignatzorin/venture-backend/internal/service"
	"github.com/ignatzorin/venture-backend/internal/webhook"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	cacheService := service.NewCacheService()
	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIModel)
	webhookClient := webhook.NewClient(cfg.WebhookURL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	ideaRepo := repository.NewIdeaRepository(dbConn)
	accessRepo := repository.NewAccessRequestRepository(dbConn)
	proposalRepo := repository.NewProposalRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	ideaService := service.NewIdeaService(ideaRepo, accessRepo, userRepo, aiClient, webhookClient, cacheService)
	accessService := service.NewAccessService(accessRepo, ideaRepo, userRepo, webhookClient, cacheService)
	proposalService := service.NewProposalService(proposalRepo, accessRepo, ideaRepo, userRepo, webhookClient, cacheService)
	notificationService := service.NewNotificationService(notificationRepo)
	dashboardService := service.NewDashboardService(ideaRepo, accessRepo, proposalRepo, cacheService, cfg.DashboardCacheTTL)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	ideaHandler := httpHandlers.NewIdeaHandler(ideaService)
	accessRequestHandler := httpHandlers.NewAccessRequestHandler(accessService)
	proposalHandler := httpHandlers.NewProposalHandler(proposalService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	dashboardHandler := httpHandlers.NewDashboardHandler(dashboardService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, ideaHandler, accessRequestHandler, proposalHandler, notificationHandler, dashboardHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
