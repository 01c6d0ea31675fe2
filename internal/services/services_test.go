package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thunderbolt-trucking/dispatch-api/internal/database"
	"github.com/thunderbolt-trucking/dispatch-api/internal/logger"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	jobRepo   repository.JobRepository
	assetRepo repository.AssetRepository
	auditRepo repository.AuditRepository
}

func setupTestEnv(t *testing.T) testEnv {
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

	return testEnv{
		db:        db,
		userRepo:  repository.NewUserRepository(db),
		jobRepo:   repository.NewJobRepository(db),
		assetRepo: repository.NewAssetRepository(db),
		auditRepo: repository.NewAuditRepository(db),
	}
}

func (e testEnv) adminService() *AdminService {
	return NewAdminService(e.userRepo, e.auditRepo, logger.Discard())
}

func (e testEnv) jobService(enforce bool) *JobService {
	return NewJobService(e.jobRepo, e.userRepo, enforce, logger.Discard())
}

func (e testEnv) reportService(now time.Time) *ReportService {
	s := NewReportService(e.jobRepo, e.userRepo, 0)
	s.now = func() time.Time { return now }
	return s
}

func (e testEnv) createUser(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	hashed, err := hashPassword("Password1")
	require.NoError(t, err)
	user := &models.User{Username: username, PasswordHash: hashed, Role: role, Email: username + "@example.com"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e testEnv) createJob(t *testing.T, status models.JobStatus, driverID *uint64) *models.Job {
	t.Helper()
	job := &models.Job{Status: status, TruckType: "dump_truck", DriverID: driverID}
	require.NoError(t, e.db.Create(job).Error)
	return job
}

func (e testEnv) setUpdatedAt(t *testing.T, job *models.Job, at time.Time) {
	t.Helper()
	require.NoError(t, e.db.Model(job).UpdateColumn("updated_at", at).Error)
}
