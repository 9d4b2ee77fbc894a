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

	_ "github.com/noah-isme/mustang-stride-api/api/swagger"
	"github.com/noah-isme/mustang-stride-api/internal/handler"
	"github.com/noah-isme/mustang-stride-api/internal/middleware"
	"github.com/noah-isme/mustang-stride-api/internal/models"
	"github.com/noah-isme/mustang-stride-api/internal/repository"
	"github.com/noah-isme/mustang-stride-api/internal/service"
	"github.com/noah-isme/mustang-stride-api/internal/state"
	"github.com/noah-isme/mustang-stride-api/internal/store"
	"github.com/noah-isme/mustang-stride-api/pkg/cache"
	"github.com/noah-isme/mustang-stride-api/pkg/config"
	"github.com/noah-isme/mustang-stride-api/pkg/database"
	"github.com/noah-isme/mustang-stride-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mustang-stride-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mustang-stride-api/pkg/middleware/requestid"
)

// @title Mustang Stride API
// @version 0.1.0
// @description Assignment tracking backend with offline-first caching
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStore(ctx, cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to open state store", "driver", cfg.Store.Driver, "error", err)
	}
	defer st.Close() //nolint:errcheck

	var cacheRepo *repository.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, summary cache disabled", "error", err)
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	metricsSvc := service.NewMetricsService()

	var seedUsers []models.User
	if cfg.Seed.Enabled {
		seedUsers = []models.User{{
			Username: cfg.Seed.Username,
			Password: cfg.Seed.Password,
			Name:     cfg.Seed.Name,
			Role:     models.RoleAdmin,
			Section:  models.SectionNone,
		}}
	}

	ctrl := state.New(st, logr, state.Config{
		LoginErrorTTL: cfg.Login.ErrorTTL,
		QueueSize:     cfg.Persist.QueueSize,
		Observer:      metricsSvc,
		SeedUsers:     seedUsers,
	})
	ctrl.Start(ctx)
	ctrl.Hydrate(ctx)

	validate := validator.New()

	authSvc := service.NewAuthService(ctrl, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(ctrl, validate, logr)
	assignmentSvc := service.NewAssignmentService(ctrl, validate, logr)
	submissionSvc := service.NewSubmissionService(ctrl, validate, logr)
	summarySvc := service.NewSummaryService(ctrl, cacheRepo, cfg.Summary, logr)
	exportSvc := service.NewExportService(summarySvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	submissionHandler := handler.NewSubmissionHandler(submissionSvc)
	summaryHandler := handler.NewSummaryHandler(summarySvc)
	reportHandler := handler.NewReportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if !ctrl.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "hydrating"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
		auth.GET("/login-error", authHandler.LoginError)
		auth.DELETE("/login-error", authHandler.ClearLoginError)
	}

	users := api.Group("/users")
	users.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	assignments := api.Group("/assignments")
	assignments.Use(middleware.JWT(authSvc))
	{
		assignments.GET("", assignmentHandler.List)
		assignments.POST("", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), assignmentHandler.Create)
		assignments.PUT("/:id", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), assignmentHandler.Update)
		assignments.DELETE("/:id", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), assignmentHandler.Delete)
	}

	submissions := api.Group("/submissions")
	submissions.Use(middleware.JWT(authSvc))
	{
		submissions.GET("", submissionHandler.List)
		submissions.POST("", middleware.RequireRoles(models.RoleStudent), submissionHandler.Create)
	}

	summary := api.Group("/summary")
	summary.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	{
		summary.GET("", summaryHandler.Analyze)
	}

	reports := api.Group("/reports")
	reports.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		reports.GET("/usage.csv", reportHandler.UsageCSV)
		reports.GET("/usage.pdf", reportHandler.UsagePDF)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("server shutdown failed", "error", err)
	}
	ctrl.Close(shutdownCtx)
}

// newStore opens the configured state store driver.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close() //nolint:errcheck
			return nil, err
		}
		return pg, nil
	case "file", "":
		return store.NewFileStore(cfg.Store.BaseDir)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
