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

	"github.com/praxislab/praxis-go-api/internal/config"
	"github.com/praxislab/praxis-go-api/internal/database"
	"github.com/praxislab/praxis-go-api/internal/handler"
	"github.com/praxislab/praxis-go-api/internal/middleware"
	"github.com/praxislab/praxis-go-api/internal/models"
	"github.com/praxislab/praxis-go-api/internal/repository"
	"github.com/praxislab/praxis-go-api/internal/router"
	"github.com/praxislab/praxis-go-api/internal/service"
	"github.com/praxislab/praxis-go-api/pkg/ai"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
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
		&models.User{},
		&models.Course{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Problem{},
		&models.Rubric{},
		&models.RubricCriterion{},
		&models.Project{},
		&models.Assessment{},
		&models.AssessmentScore{},
		&models.Notification{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	policy := service.NewAccessPolicy(userRepo, teamRepo, courseRepo, projectRepo, logger)
	activity := service.NewActivityService(activityRepo, logger)
	projectService := service.NewProjectService(projectRepo, policy, validate, activity, logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, projectRepo, policy, validate, activity, logger)
	inviteService := service.NewInviteService(teamRepo, policy, activity, service.InviteConfig{
		Secret:   cfg.InviteSecret,
		Issuer:   cfg.InviteIssuer,
		Audience: cfg.InviteAudience,
		TTL:      cfg.InviteTTL,
	}, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)

	var reviewer ai.Reviewer
	if cfg.OpenAIAPIKey != "" {
		openaiReviewer, err := ai.NewOpenAIReviewer(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.AIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create ai reviewer: %v", err)
		}
		reviewer = openaiReviewer
	}
	aiReviewService := service.NewAIReviewService(reviewer, projectRepo, assessmentRepo, policy, logger)

	fanoutCtx, stopFanout := context.WithCancel(context.Background())
	defer stopFanout()
	notificationService.Start(fanoutCtx)

	projectHandler := handler.NewProjectHandler(projectService, logger)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, aiReviewService, logger)
	inviteHandler := handler.NewInviteHandler(inviteService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.StreamKeepAlive)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ProjectHandler:      projectHandler,
		AssessmentHandler:   assessmentHandler,
		InviteHandler:       inviteHandler,
		NotificationHandler: notificationHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		PrincipalMiddleware: middleware.ResolvePrincipal(policy),
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
