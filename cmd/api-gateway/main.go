package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/teach-assist-api/api/swagger"
	"github.com/noah-isme/teach-assist-api/internal/handler"
	"github.com/noah-isme/teach-assist-api/internal/llm"
	internalmiddleware "github.com/noah-isme/teach-assist-api/internal/middleware"
	"github.com/noah-isme/teach-assist-api/internal/models"
	"github.com/noah-isme/teach-assist-api/internal/repository"
	"github.com/noah-isme/teach-assist-api/internal/service"
	"github.com/noah-isme/teach-assist-api/pkg/cache"
	"github.com/noah-isme/teach-assist-api/pkg/config"
	"github.com/noah-isme/teach-assist-api/pkg/database"
	"github.com/noah-isme/teach-assist-api/pkg/export"
	"github.com/noah-isme/teach-assist-api/pkg/jobs"
	"github.com/noah-isme/teach-assist-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/teach-assist-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/teach-assist-api/pkg/middleware/requestid"
	"github.com/noah-isme/teach-assist-api/pkg/storage"
)

// @title Teach Assist API
// @version 1.0.0
// @description Exam generation, grading, announcements and lesson plans for teachers
// @BasePath /api/v1
// @schemes http https

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
		logr.Info("database schema applied")
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, stats cache disabled", zap.Error(err))
	}
	var cacheClient redis.UniversalClient
	if redisClient != nil {
		cacheClient = redisClient
		defer redisClient.Close()
	}

	metricsSvc := service.NewMetricsService()

	provider, err := llm.New(ctx, cfg.LLM, metricsSvc, logr)
	if err != nil {
		logr.Fatal("failed to init completion client", zap.Error(err))
	}
	defer provider.Close() //nolint:errcheck
	assistant := llm.NewAssistant(provider, logr)
	logr.Info("completion client ready", zap.String("provider", provider.Name))

	validate := validator.New()

	examRepo := repository.NewExamRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	lessonPlanRepo := repository.NewLessonPlanRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(cacheClient)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled && cacheClient != nil)
	examSvc := service.NewExamService(examRepo, questionRepo, sessionRepo, assistant, db, validate, logr, cfg.Exams)
	gradingSvc := service.NewGradingService(examRepo, questionRepo, responseRepo, marksRepo, sessionRepo, assistant, cacheSvc, db, validate, logr)
	marksSvc := service.NewMarksService(marksRepo, cacheSvc, logr)
	questionSvc := service.NewQuestionService(examRepo, questionRepo, db, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, validate, logr)
	lessonPlanSvc := service.NewLessonPlanService(lessonPlanRepo, validate, logr)

	paperStore, err := storage.NewLocalStorage(cfg.Papers.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare paper storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Papers.SignedURLSecret, cfg.Papers.SignedURLTTL)

	var paperSvc *service.PaperService
	paperQueue := jobs.NewQueue("paper-export", func(jobCtx context.Context, job jobs.Job) error {
		return paperSvc.HandleJob(jobCtx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Papers.WorkerConcurrency,
		MaxRetries: cfg.Papers.WorkerRetries,
		RetryDelay: 2 * time.Second,
		Logger:     logr,
		OnGiveUp: func(job jobs.Job, err error) {
			paperSvc.ExportFailed(job, err)
		},
	})
	paperSvc = service.NewPaperService(examRepo, questionRepo, export.NewPaperRenderer(), paperStore, signer, paperQueue, metricsSvc, logr, service.PaperConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Papers.SignedURLTTL,
	})
	paperQueue.Start(ctx)
	defer paperQueue.Stop()

	go runCleanup(ctx, cfg.Papers.CleanupInterval, paperSvc, examSvc, metricsSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
		"database": db,
		"cache":    handler.PingFunc(cacheRepo.Ping),
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	exportHandler := handler.NewExportHandler(paperSvc)
	// Download links are bearer-less; the signed token is the credential.
	api.GET("/exports/:token", exportHandler.Download)

	secured := api.Group("")
	secured.Use(internalmiddleware.Identity(internalmiddleware.IdentityConfig{
		Secret: cfg.JWT.Secret,
		Fallback: models.Actor{
			UserID:  cfg.Identity.DefaultTeacherID,
			ClassID: cfg.Identity.DefaultClassID,
			Role:    models.RoleTeacher,
		},
	}, userRepo))

	registerRoutes(secured,
		handler.NewExamHandler(examSvc, gradingSvc, marksSvc, paperSvc),
		handler.NewQuestionHandler(questionSvc, paperSvc),
		handler.NewAnnouncementHandler(announcementSvc),
		handler.NewLessonPlanHandler(lessonPlanSvc),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func registerRoutes(rg *gin.RouterGroup, exams *handler.ExamHandler, questions *handler.QuestionHandler, announcements *handler.AnnouncementHandler, plans *handler.LessonPlanHandler) {
	examGroup := rg.Group("/exams")
	examGroup.POST("/generate", exams.Generate)
	examGroup.POST("/generate/ai", exams.GenerateWithLLM)
	examGroup.GET("/:exam_id", exams.Get)
	examGroup.POST("/:exam_id/publish", exams.Publish)
	examGroup.POST("/:exam_id/complete", exams.Complete)
	examGroup.POST("/:exam_id/start", exams.Start)
	examGroup.POST("/:exam_id/submit", exams.Submit)
	examGroup.POST("/:exam_id/grade", exams.Grade)
	examGroup.GET("/:exam_id/student/:student_id", exams.StudentResult)
	examGroup.GET("/:exam_id/download", exams.Download)
	examGroup.GET("/:exam_id/stats", exams.Stats)
	examGroup.POST("/:exam_id/paper/export", exams.ExportPaper)

	questionGroup := rg.Group("/questions")
	questionGroup.POST("", questions.Create)
	questionGroup.GET("/exam/:exam_id", questions.ListByExam)
	questionGroup.GET("/exam/:exam_id/pdf", questions.PaperPDF)
	questionGroup.GET("/:question_id", questions.Get)

	announceGroup := rg.Group("/announce")
	announceGroup.POST("/generate", announcements.Generate)
	announceGroup.POST("/send", announcements.Send)

	planGroup := rg.Group("/lesson-plans")
	planGroup.POST("", plans.Create)
	planGroup.GET("", plans.List)
	planGroup.GET("/:id", plans.Get)
}

// runCleanup prunes expired paper exports and exam sessions until ctx ends.
func runCleanup(ctx context.Context, interval time.Duration, papers *service.PaperService, exams *service.ExamService, metrics *service.MetricsService, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := papers.CleanupExports()
			if err != nil {
				logr.Warn("paper cleanup failed", zap.Error(err))
			} else if len(removed) > 0 {
				logr.Info("expired papers removed", zap.Int("count", len(removed)))
			}

			start := time.Now()
			purged, err := exams.PurgeExpiredSessions(ctx)
			metrics.ObserveDBQuery("purge_expired_sessions", time.Since(start))
			if err != nil {
				logr.Warn("session purge failed", zap.Error(err))
			} else if purged > 0 {
				logr.Info("expired sessions purged", zap.Int64("count", purged))
			}
		}
	}
}
