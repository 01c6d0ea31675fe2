package repository

import (
	"time"

	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns users newest first, optionally restricted to one role
	List(role *models.UserRole) ([]models.User, error)

	// CountByRole counts users holding the given role
	CountByRole(role models.UserRole) (int64, error)

	// Update saves all user fields
	Update(user *models.User) error

	// Delete removes the user and clears every job and audit reference to it
	Delete(id uint64) error
}

// JobFilter holds filtering options for listing jobs
type JobFilter struct {
	Status      *models.JobStatus
	DriverID    *uint64
	CreatedFrom *time.Time
	// CreatedBefore is exclusive
	CreatedBefore *time.Time
	Preload       []string
	// Pagination is optional; nil returns every match
	Pagination *utils.PaginationParams
}

// StatusCount is one row of the grouped dashboard query.
type StatusCount struct {
	Status models.JobStatus
	Total  int64
	// UpdatedSinceDay and UpdatedSinceMonth count rows whose updated_at is at
	// or after the respective cutoffs passed to StatusBreakdown.
	UpdatedSinceDay   int64
	UpdatedSinceMonth int64
}

// DriverJobCounts aggregates the jobs assigned to one driver
type DriverJobCounts struct {
	DriverID  uint64
	Total     int64
	Completed int64
	Active    int64
}

// JobRepository defines the interface for job data access
type JobRepository interface {
	// Create creates a new job
	Create(job *models.Job) error

	// FindByID finds a job by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Job, error)

	// List retrieves jobs newest first with filtering and optional pagination
	List(filter JobFilter) ([]models.Job, int64, error)

	// Update saves all job columns without touching associations
	Update(job *models.Job) error

	// Delete soft deletes a job
	Delete(id uint64) error

	// StatusBreakdown counts jobs per status in a single grouped query
	StatusBreakdown(daySince, monthSince time.Time) ([]StatusCount, error)

	// ListCompletedSince returns completed jobs updated at or after since
	ListCompletedSince(since time.Time) ([]models.Job, error)

	// CountsByDriver aggregates job counts for each of the given drivers
	CountsByDriver(driverIDs []uint64) (map[uint64]DriverJobCounts, error)
}

// AssetFilter holds filtering options for listing assets
type AssetFilter struct {
	Type      *models.AssetType
	Available *bool
}

// AssetRepository defines the interface for asset data access
type AssetRepository interface {
	Create(asset *models.Asset) error
	FindByID(id uint64) (*models.Asset, error)
	List(filter AssetFilter) ([]models.Asset, error)
	Update(asset *models.Asset) error
	Delete(id uint64) error
}

// AuditRepository defines the interface for the append-only activity log
type AuditRepository interface {
	// Create appends an entry
	Create(audit *models.Audit) error

	// ListRecent returns the newest entries with their user preloaded
	ListRecent(limit int) ([]models.Audit, error)
}
