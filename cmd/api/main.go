package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/scholara/scholara-api/api/swagger"
	"github.com/scholara/scholara-api/internal/handler"
	"github.com/scholara/scholara-api/internal/repository"
	"github.com/scholara/scholara-api/internal/service"
	"github.com/scholara/scholara-api/pkg/cache"
	"github.com/scholara/scholara-api/pkg/config"
	"github.com/scholara/scholara-api/pkg/database"
	"github.com/scholara/scholara-api/pkg/export"
	"github.com/scholara/scholara-api/pkg/logger"
	corsmiddleware "github.com/scholara/scholara-api/pkg/middleware/cors"
	reqidmiddleware "github.com/scholara/scholara-api/pkg/middleware/requestid"
)

// @title Scholara API
// @version 1.0.0
// @description Role-scoped school management API
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, message push and contact caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	parentRepo := repository.NewParentRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	resultRepo := repository.NewResultRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	classRequestRepo := repository.NewClassRequestRepository(db)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "scholara-api",
	})
	studentService := service.NewStudentService(studentRepo, validate, logr)
	teacherService := service.NewTeacherService(teacherRepo, validate, logr)
	parentService := service.NewParentService(parentRepo, validate, logr)
	classService := service.NewClassService(classRepo, validate, logr)
	subjectService := service.NewSubjectService(subjectRepo, validate, logr)
	lessonService := service.NewLessonService(lessonRepo, validate, logr)
	assessmentService := service.NewAssessmentService(assessmentRepo, validate, logr)
	resultService := service.NewResultService(resultRepo, export.NewCSVExporter(), export.NewPDFExporter(), validate, logr)
	calendarService := service.NewCalendarService(calendarRepo, validate, logr)
	messageService := service.NewMessageService(messageRepo, userRepo, redisClient, cfg.Messaging.InboxLimit, validate, logr)
	classRequestService := service.NewClassRequestService(classRequestRepo, validate, logr)
	directoryService := service.NewDirectoryService(userRepo, redisClient, cfg.Contacts.CacheTTL, logr)

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Student:      handler.NewStudentHandler(studentService),
		Teacher:      handler.NewTeacherHandler(teacherService),
		Parent:       handler.NewParentHandler(parentService),
		Class:        handler.NewClassHandler(classService),
		Subject:      handler.NewSubjectHandler(subjectService),
		Lesson:       handler.NewLessonHandler(lessonService),
		Assessment:   handler.NewAssessmentHandler(assessmentService),
		Result:       handler.NewResultHandler(resultService),
		Calendar:     handler.NewCalendarHandler(calendarService),
		Message:      handler.NewMessageHandler(messageService, directoryService, metricsService, cfg.Messaging.StreamHeartbeat),
		ClassRequest: handler.NewClassRequestHandler(classRequestService),
		Metrics:      handler.NewMetricsHandler(metricsService),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(r, handler.RouterConfig{
		Prefix:         cfg.APIPrefix,
		StreamEnabled:  cfg.Messaging.StreamEnabled && redisClient != nil,
		ExportsEnabled: cfg.Exports.Enabled,
	}, handlers, authService, metricsService)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	logr.Sugar().Infow("server stopped")
}
