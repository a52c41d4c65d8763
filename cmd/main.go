package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/repositories"
	api "github.com/Dosada05/league-system/routes"
	"github.com/Dosada05/league-system/services"
	"github.com/Dosada05/league-system/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	handlers.SetLogger(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация репозиториев
	txRunner := repositories.NewTxRunner(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerStatsRepo := repositories.NewPostgresPlayerStatsRepository(dbConn)
	auditRepo := repositories.NewPostgresAuditRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Подписчики доменных событий
	publishers := []events.Publisher{wsHub}

	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(events.AMQPPublisherConfig{
			URL:      cfg.AMQPURL,
			Exchange: cfg.AMQPExchange,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to AMQP broker", slog.Any("error", err))
			os.Exit(1)
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
		logger.Info("AMQP publisher initialized")
	}

	r2Config := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
		Endpoint:        cfg.R2Endpoint,
	}
	if r2Config.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2Config)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		publishers = append(publishers, services.NewSnapshotArchiver(uploader, competitionRepo, fixtureRepo, logger))
		logger.Info("snapshot archiver initialized", slog.String("bucket", cfg.R2BucketName))
	}

	publisher := events.NewFanout(logger, publishers...)

	// Инициализация сервисов
	locks := services.NewCompetitionLocks()
	resultService := services.NewFixtureResultService(
		txRunner,
		fixtureRepo,
		competitionRepo,
		playerStatsRepo,
		auditRepo,
		publisher,
		locks,
		logger,
	)
	competitionService := services.NewCompetitionService(
		txRunner,
		competitionRepo,
		fixtureRepo,
		teamRepo,
		auditRepo,
		publisher,
		locks,
		logger,
	)
	integrityService := services.NewIntegrityService(competitionRepo, fixtureRepo, logger)
	logger.Info("services initialized")

	if cfg.IntegrityCheckInterval > 0 {
		scheduler, err := services.StartIntegrityScheduler(integrityService, cfg.IntegrityCheckInterval, logger)
		if err != nil {
			logger.Error("failed to start integrity scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				logger.Error("failed to stop integrity scheduler", slog.Any("error", err))
			}
		}()
	}

	// Инициализация обработчиков HTTP
	competitionHandler := handlers.NewCompetitionHandler(competitionService, integrityService)
	fixtureHandler := handlers.NewFixtureHandler(resultService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, cfg.CORSAllowedOrigins)

	var resultLimiter *middleware.RateLimiter
	if rps := cfg.RatePerSecond(); rps > 0 {
		resultLimiter = middleware.NewRateLimiter(rps, cfg.RateLimitRequests)
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		ResultLimiter:  resultLimiter,
	}, competitionHandler, fixtureHandler, webSocketHandler)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
