package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/uniterm/uniterm-api/api/swagger"
	"github.com/uniterm/uniterm-api/internal/handler"
	"github.com/uniterm/uniterm-api/internal/middleware"
	"github.com/uniterm/uniterm-api/internal/repository"
	"github.com/uniterm/uniterm-api/internal/service"
	"github.com/uniterm/uniterm-api/pkg/cache"
	"github.com/uniterm/uniterm-api/pkg/config"
	"github.com/uniterm/uniterm-api/pkg/database"
	"github.com/uniterm/uniterm-api/pkg/logger"
	corsmiddleware "github.com/uniterm/uniterm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/uniterm/uniterm-api/pkg/middleware/requestid"
)

// @title UniTerm API
// @version 1.0.0
// @description Exam term scheduling and conflict validation engine
// @BasePath /api/v1
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

	// Redis is optional: without it session windows are recomputed per request.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, session window cache disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	validate := validator.New()

	subjectRepo := repository.NewSubjectRepository(db)
	examRepo := repository.NewExamRepository(db)
	termRepo := repository.NewExamTermRepository(db)
	sessionRepo := repository.NewSessionPeriodRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	demoUserRepo := repository.NewDemoUserRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	var audit *service.AuditTrail
	if cfg.Audit.Enabled {
		audit = service.NewAuditTrail(auditRepo, cfg.Audit.Workers, cfg.Audit.BufferSize, logr)
		audit.Start(context.Background())
		defer audit.Stop()
	}

	sessionSvc := service.NewSessionService(sessionRepo, cacheRepo, cfg.Sessions.CacheTTL, validate, logr)
	termSvc := service.NewTermService(termRepo, examRepo, roomRepo, sessionSvc, validate, logr, metricsSvc, audit)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	examSvc := service.NewExamService(examRepo, subjectRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, validate, logr)
	demoUserSvc := service.NewDemoUserService(demoUserRepo, logr)
	maintenanceSvc := service.NewMaintenanceService(maintenanceRepo, logr, metricsSvc, audit)

	termHandler := handler.NewTermHandler(termSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	examHandler := handler.NewExamHandler(examSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	demoUserHandler := handler.NewDemoUserHandler(demoUserSvc)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/exam-terms", termHandler.List)
		api.POST("/exam-terms", termHandler.Propose)
		api.GET("/exam-terms/:id", termHandler.Get)
		api.PUT("/exam-terms/:id/decision", termHandler.Decide)

		api.GET("/exam-terms/validation/room", termHandler.CheckRoom)
		api.GET("/exam-terms/validation/students", termHandler.CheckStudents)
		api.GET("/exam-terms/validation/room-capacity", termHandler.CheckRoomCapacity)
		api.GET("/exam-terms/validation/session-date", sessionHandler.CheckDate)

		api.GET("/session-periods", sessionHandler.List)
		api.POST("/session-periods", sessionHandler.Create)
		api.GET("/session-periods/current", sessionHandler.Current)

		api.GET("/subjects", subjectHandler.List)
		api.POST("/subjects", subjectHandler.Create)

		api.GET("/exams", examHandler.List)
		api.POST("/exams", examHandler.Create)
		api.GET("/exams/:id", examHandler.Get)

		api.GET("/rooms", roomHandler.List)
		api.POST("/rooms", roomHandler.Create)

		api.GET("/demo-users", demoUserHandler.List)

		api.DELETE("/admin/duplicates", maintenanceHandler.RemoveDuplicates)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
