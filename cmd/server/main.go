package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alktbihd/mentalhealth/internal/cache"
	"github.com/alktbihd/mentalhealth/internal/config"
	"github.com/alktbihd/mentalhealth/internal/events"
	"github.com/alktbihd/mentalhealth/internal/handlers"
	"github.com/alktbihd/mentalhealth/internal/repositories"
	"github.com/alktbihd/mentalhealth/internal/repositories/postgres"
	"github.com/alktbihd/mentalhealth/internal/services"
	"github.com/alktbihd/mentalhealth/internal/utils"
	"github.com/alktbihd/mentalhealth/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	// Database connects in the background; the service starts serving
	// immediately and degrades to defaults until the store is reachable.
	conn := repositories.NewConnection(logger)
	conn.ConnectAsync(func() (*gorm.DB, error) {
		return pkg.InitDatabase(cfg)
	})
	defer conn.Close()

	repo := postgres.NewAssessmentPostgreSQL(conn)

	var cacheService cache.CacheService = cache.NoopCache{}
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("redis unavailable, stats caching disabled", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, logger)
		defer redisClient.Close()
	}

	var publisher events.EventPublisher = events.NoopEventPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: cfg.KafkaBrokers,
			TopicName:    cfg.KafkaTopic,
			Logger:       utils.ToSlogLogger(logger),
		})
		if err != nil {
			logger.Warn("kafka unavailable, submitted events will not be mirrored", "error", err)
		} else {
			publisher = kafkaPublisher
			defer kafkaPublisher.Close()
		}
	}

	validator := utils.NewValidator()
	scoringService := services.NewScoringService()
	statsService := services.NewStatsService(repo, cacheService, logger)

	queueCtx, cancelQueue := context.WithCancel(context.Background())
	defer cancelQueue()

	queue := events.NewPersistenceQueue(repo, statsService, publisher, logger)
	if err := queue.Start(queueCtx); err != nil {
		logger.LogError(err, "failed to start persistence queue")
		os.Exit(1)
	}
	defer queue.Close()

	assessmentService := services.NewAssessmentService(
		repo, scoringService, statsService, queue, publisher, validator, logger)
	exportService := services.NewExportService(repo, logger)
	quoteService := services.NewQuoteService(cfg.QuoteAPIURL, logger)

	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger), gin.Recovery())

	handlerManager := handlers.NewHandlerManager(
		assessmentService, statsService, exportService, quoteService, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "server shutdown failed")
	}
}
