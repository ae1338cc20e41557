package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/maarif-dev/school-ops-api/api/swagger"
	"github.com/maarif-dev/school-ops-api/internal/handler"
	"github.com/maarif-dev/school-ops-api/internal/middleware"
	"github.com/maarif-dev/school-ops-api/internal/models"
	"github.com/maarif-dev/school-ops-api/internal/repository"
	"github.com/maarif-dev/school-ops-api/internal/service"
	"github.com/maarif-dev/school-ops-api/pkg/cache"
	"github.com/maarif-dev/school-ops-api/pkg/config"
	"github.com/maarif-dev/school-ops-api/pkg/database"
	"github.com/maarif-dev/school-ops-api/pkg/jobs"
	"github.com/maarif-dev/school-ops-api/pkg/logger"
	corsmiddleware "github.com/maarif-dev/school-ops-api/pkg/middleware/cors"
	reqidmiddleware "github.com/maarif-dev/school-ops-api/pkg/middleware/requestid"
	"github.com/maarif-dev/school-ops-api/pkg/storage"
)

// @title School Ops API
// @version 0.1.0
// @description School operations server with schedule conflict checking, substitutions, daily attendance and session completion
// @BasePath /
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
		logr.Sugar().Warnw("redis unavailable, completion cache disabled", "error", err)
		redisClient = nil
	}

	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	substitutionSvc := service.NewSubstitutionService(scheduleRepo, teacherRepo, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, scheduleRepo, validate, logr)
	completionSvc := service.NewCompletionService(scheduleRepo, studentRepo, attendanceRepo, cacheRepo, metricsSvc, cfg.Completion.CacheTTL, logr)
	attendanceSvc.SetCompletionInvalidator(completionSvc)

	var archive *service.ReportArchive
	if cfg.Reports.Enabled {
		store, err := storage.NewArchive(cfg.Reports.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare report archive", "error", err)
		}
		signer := storage.NewDownloadSigner(cfg.JWT.Secret, cfg.Reports.DownloadTTL)
		archive = service.NewReportArchive(store, signer, jobs.QueueConfig{Workers: 2, Logger: logr}, cfg.Reports.DownloadTTL, logr)
		archive.Start(context.Background())
		defer archive.Stop()
	}
	reportSvc := service.NewReportService(attendanceSvc, completionSvc, scheduleRepo, archive, cfg.Reports.Enabled, cfg.Reports.SchoolName, logr)
	rosterSvc := service.NewRosterService(studentRepo, teacherRepo, logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	substitutionHandler := handler.NewSubstitutionHandler(substitutionSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	completionHandler := handler.NewCompletionHandler(completionSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	verifier := middleware.NewTokenVerifier(cfg.JWT.Secret)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(verifier))

	staff := api.Group("")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	{
		staff.GET("/schedule", scheduleHandler.List)
		staff.GET("/schedule/:id", scheduleHandler.Get)
		staff.GET("/schedule/:id/substitute/candidates", substitutionHandler.Candidates)
		staff.GET("/schedule/:id/day-sheet", attendanceHandler.DaySheet)
		staff.GET("/schedule/:id/completion", completionHandler.SlotCompletion)
		staff.POST("/schedule/:id/report", reportHandler.SendBulkReport)
		staff.GET("/reports/download", reportHandler.Download)
		staff.GET("/attendance", attendanceHandler.List)
		staff.PATCH("/attendance/records", attendanceHandler.ApplyFieldEdit)
		staff.POST("/attendance/day-sheet", attendanceHandler.SaveDaySheet)
		staff.GET("/completion", completionHandler.CompletedSet)
		staff.GET("/students", rosterHandler.ListStudents)
		staff.GET("/teachers", rosterHandler.ListTeachers)
	}

	admin := api.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/schedule", scheduleHandler.Create)
		admin.PUT("/schedule/:id", scheduleHandler.Update)
		admin.DELETE("/schedule/:id", scheduleHandler.Delete)
		admin.POST("/schedule/:id/substitute", substitutionHandler.Assign)
		admin.DELETE("/schedule/:id/substitute", substitutionHandler.Remove)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
