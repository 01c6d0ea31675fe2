// Package server assembles the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thunderbolt-trucking/dispatch-api/internal/config"
	"github.com/thunderbolt-trucking/dispatch-api/internal/constants"
	"github.com/thunderbolt-trucking/dispatch-api/internal/handlers"
	"github.com/thunderbolt-trucking/dispatch-api/internal/metrics"
	"github.com/thunderbolt-trucking/dispatch-api/internal/middleware"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
	"gorm.io/gorm"
)

// Options carries everything NewRouter needs. AIService and LoginLimiter may be nil.
type Options struct {
	Config       *config.Config
	DB           *gorm.DB
	Log          logrus.FieldLogger
	SessionStore sessions.Store
	LoginLimiter *middleware.RateLimiter
	AIService    *services.AIService
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(opts Options) *gin.Engine {
	cfg := opts.Config

	userRepo := repository.NewUserRepository(opts.DB)
	jobRepo := repository.NewJobRepository(opts.DB)
	assetRepo := repository.NewAssetRepository(opts.DB)
	auditRepo := repository.NewAuditRepository(opts.DB)

	tokens := services.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	authService := services.NewAuthService(userRepo)
	adminService := services.NewAdminService(userRepo, auditRepo, opts.Log)
	reportService := services.NewReportService(jobRepo, userRepo, cfg.RevenuePerJob)
	jobService := services.NewJobService(jobRepo, userRepo, cfg.EnforceStatusTransitions, opts.Log)
	assetService := services.NewAssetService(assetRepo)

	authHandler := handlers.NewAuthHandler(authService, tokens)
	adminHandler := handlers.NewAdminHandler(adminService)
	reportHandler := handlers.NewReportHandler(reportService)
	jobHandler := handlers.NewJobHandler(jobService, opts.AIService)
	assetHandler := handlers.NewAssetHandler(assetService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(opts.Log))
	r.Use(metrics.Instrument())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", constants.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", constants.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, opts.SessionStore))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Dispatch API is running",
		})
	})
	r.GET("/metrics", metrics.Handler())

	requireAuth := middleware.RequireAuth(tokens, authService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleDispatcher)

	auth := r.Group("/auth")
	{
		login := []gin.HandlerFunc{authHandler.Login}
		if opts.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{opts.LoginLimiter.Handler()}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
	}

	admin := r.Group("/admin")
	admin.Use(requireAuth, staff)
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.POST("/users", adminOnly, adminHandler.CreateUser)
		admin.PUT("/users/:id", adminOnly, adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminOnly, adminHandler.DeleteUser)

		admin.GET("/stats", reportHandler.DashboardStats)
		admin.GET("/activity", adminHandler.ListActivity)
		admin.POST("/activity", adminHandler.LogActivity)

		reports := admin.Group("/reports")
		{
			reports.GET("/jobs", reportHandler.JobsReport)
			reports.GET("/jobs/export", reportHandler.ExportJobsReport)
			reports.GET("/drivers", reportHandler.DriversReport)
			reports.GET("/drivers/export", reportHandler.ExportDriversReport)
			reports.GET("/revenue", reportHandler.RevenueReport)
			reports.GET("/revenue/export", reportHandler.ExportRevenueReport)
		}
	}

	jobs := r.Group("/jobs")
	jobs.Use(requireAuth)
	{
		jobs.GET("", jobHandler.ListJobs)
		jobs.POST("", jobHandler.CreateJob)
		jobs.POST("/draft", jobHandler.DraftJobs)
		jobs.GET("/:id", jobHandler.GetJob)
		jobs.PUT("/:id", jobHandler.UpdateJob)
		jobs.DELETE("/:id", staff, jobHandler.DeleteJob)
	}

	assets := r.Group("/assets")
	assets.Use(requireAuth)
	{
		assets.GET("", assetHandler.ListAssets)
		assets.GET("/:id", assetHandler.GetAsset)
		assets.POST("", staff, assetHandler.CreateAsset)
		assets.PUT("/:id", staff, assetHandler.UpdateAsset)
		assets.DELETE("/:id", adminOnly, assetHandler.DeleteAsset)
	}

	return r
}
