package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/hrms-suite/ledger-api/internal/handler"
	internalmiddleware "github.com/hrms-suite/ledger-api/internal/middleware"
	"github.com/hrms-suite/ledger-api/internal/repository"
	"github.com/hrms-suite/ledger-api/internal/service"
	"github.com/hrms-suite/ledger-api/pkg/cache"
	"github.com/hrms-suite/ledger-api/pkg/config"
	"github.com/hrms-suite/ledger-api/pkg/database"
	"github.com/hrms-suite/ledger-api/pkg/logger"
	corsmiddleware "github.com/hrms-suite/ledger-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hrms-suite/ledger-api/pkg/middleware/requestid"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	employeeRepo := repository.NewEmployeeRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	reportCache := service.NewReportCache(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, redisClient != nil)
	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	}, logr)

	calendarSvc := service.NewCalendarService(holidayRepo, settingsRepo, reportCache, cfg.Ledger, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, calendarSvc, reportCache, metricsSvc, cfg.Ledger, logr)
	leaveSvc := service.NewLeaveService(leaveRepo, reportCache, metricsSvc, cfg.Ledger, logr)
	reportSvc := service.NewReportService(calendarSvc, attendanceRepo, leaveRepo, reportCache, *cfg, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, validate, logr)
	policySvc := service.NewPolicyService(policyRepo, validate, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, reportCache, validate, logr)

	handlers := handler.Handlers{
		Calendar:   handler.NewCalendarHandler(calendarSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Leave:      handler.NewLeaveHandler(leaveSvc),
		Report:     handler.NewReportHandler(reportSvc),
		Employee:   handler.NewEmployeeHandler(employeeSvc),
		Policy:     handler.NewPolicyHandler(policySvc),
		Settings:   handler.NewSettingsHandler(settingsSvc),
		Metrics:    handler.NewMetricsHandler(metricsSvc, db),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(internalmiddleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, cfg.APIPrefix, tokenSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
