package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/thunderbolt-trucking/dispatch-api/internal/constants"
	"github.com/thunderbolt-trucking/dispatch-api/internal/database"
	apierrors "github.com/thunderbolt-trucking/dispatch-api/internal/errors"
	"github.com/thunderbolt-trucking/dispatch-api/internal/logger"
	"github.com/thunderbolt-trucking/dispatch-api/internal/middleware"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testPassword = "Password1"

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerTestEnv struct {
	db     *gorm.DB
	tokens *services.TokenService
	router *gin.Engine
}

// setupHandlerTestEnv mounts every handler on a router backed by in-memory
// sqlite. aiService may be nil.
func setupHandlerTestEnv(t *testing.T, enforceTransitions bool, aiService *services.AIService) handlerTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	log := logger.Discard()
	userRepo := repository.NewUserRepository(db)
	jobRepo := repository.NewJobRepository(db)
	tokens := services.NewTokenService("test-secret", time.Hour)

	authService := services.NewAuthService(userRepo)
	authHandler := NewAuthHandler(authService, tokens)
	adminHandler := NewAdminHandler(services.NewAdminService(userRepo, repository.NewAuditRepository(db), log))
	reportHandler := NewReportHandler(services.NewReportService(jobRepo, userRepo, 0))
	jobHandler := NewJobHandler(services.NewJobService(jobRepo, userRepo, enforceTransitions, log), aiService)
	assetHandler := NewAssetHandler(services.NewAssetService(repository.NewAssetRepository(db)))

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)

	authed := r.Group("/", middleware.RequireAuth(tokens, authService))
	authed.GET("/auth/me", authHandler.GetCurrentUser)

	authed.GET("/admin/users", adminHandler.ListUsers)
	authed.GET("/admin/users/:id", adminHandler.GetUser)
	authed.POST("/admin/users", adminHandler.CreateUser)
	authed.PUT("/admin/users/:id", adminHandler.UpdateUser)
	authed.DELETE("/admin/users/:id", adminHandler.DeleteUser)
	authed.GET("/admin/activity", adminHandler.ListActivity)
	authed.POST("/admin/activity", adminHandler.LogActivity)
	authed.GET("/admin/stats", reportHandler.DashboardStats)
	authed.GET("/admin/reports/jobs", reportHandler.JobsReport)
	authed.GET("/admin/reports/jobs/export", reportHandler.ExportJobsReport)
	authed.GET("/admin/reports/drivers", reportHandler.DriversReport)
	authed.GET("/admin/reports/drivers/export", reportHandler.ExportDriversReport)
	authed.GET("/admin/reports/revenue", reportHandler.RevenueReport)
	authed.GET("/admin/reports/revenue/export", reportHandler.ExportRevenueReport)

	authed.GET("/jobs", jobHandler.ListJobs)
	authed.POST("/jobs", jobHandler.CreateJob)
	authed.POST("/jobs/draft", jobHandler.DraftJobs)
	authed.GET("/jobs/:id", jobHandler.GetJob)
	authed.PUT("/jobs/:id", jobHandler.UpdateJob)
	authed.DELETE("/jobs/:id", jobHandler.DeleteJob)

	authed.GET("/assets", assetHandler.ListAssets)
	authed.GET("/assets/:id", assetHandler.GetAsset)
	authed.POST("/assets", assetHandler.CreateAsset)
	authed.PUT("/assets/:id", assetHandler.UpdateAsset)
	authed.DELETE("/assets/:id", assetHandler.DeleteAsset)

	return handlerTestEnv{
		db:     db,
		tokens: tokens,
		router: r,
	}
}

func (e handlerTestEnv) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: username, PasswordHash: string(hash), Role: role, Email: username + "@example.com"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e handlerTestEnv) createJob(t *testing.T, status models.JobStatus, driverID *uint64) *models.Job {
	t.Helper()
	job := &models.Job{Status: status, TruckType: "dump_truck", DriverID: driverID}
	require.NoError(t, e.db.Create(job).Error)
	return job
}

// do sends a JSON request, authenticated as user when user is non-nil.
func (e handlerTestEnv) do(t *testing.T, method, path string, body interface{}, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := e.tokens.Issue(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func requireAPIError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	var apiErr apierrors.APIError
	decode(t, w, &apiErr)
	require.Equal(t, code, apiErr.Code)
}
