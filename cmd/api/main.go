package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unidash/unidash-api/internal/config"
	"github.com/unidash/unidash-api/internal/database"
	"github.com/unidash/unidash-api/internal/handler"
	"github.com/unidash/unidash-api/internal/middleware"
	"github.com/unidash/unidash-api/internal/models"
	"github.com/unidash/unidash-api/internal/repository"
	"github.com/unidash/unidash-api/internal/router"
	"github.com/unidash/unidash-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Batch{},
		&models.StudentProfile{},
		&models.Module{},
		&models.ModuleContentVersion{},
		&models.PastPaperStructure{},
		&models.ContinuousAssessment{},
		&models.EditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	profileRepo := repository.NewStudentProfileRepository(db)
	moduleRepo := repository.NewModuleRepository(db)
	contentRepo := repository.NewContentVersionRepository(db)
	paperRepo := repository.NewPastPaperRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	editLogRepo := repository.NewEditLogRepository(db)

	policyCfg := cfg.Policy()

	batchService := service.NewBatchService(profileRepo, moduleRepo, contentRepo, paperRepo, assessmentRepo, policyCfg, logger)
	contentService := service.NewContentService(profileRepo, contentRepo, paperRepo, assessmentRepo, editLogRepo, validate, policyCfg, logger)
	catalogService := service.NewModuleCatalogService(moduleRepo, redisClient, cfg.CatalogCacheTTL, validate, logger)
	historyService := service.NewEditHistoryService(editLogRepo, profileRepo, logger)

	contentHandler := handler.NewModuleContentHandler(batchService, contentService, logger)
	catalogHandler := handler.NewModuleCatalogHandler(catalogService, logger)
	historyHandler := handler.NewHistoryHandler(historyService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, router.Dependencies{
		Config:  cfg,
		Content: contentHandler,
		Catalog: catalogHandler,
		History: historyHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
