package repository

import (
	"time"

	"github.com/thunderbolt-trucking/dispatch-api/internal/database"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobRepository is a GORM implementation of JobRepository
type GormJobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &GormJobRepository{db: db}
}

// Create creates a new job
func (r *GormJobRepository) Create(job *models.Job) error {
	return r.db.Omit(clause.Associations).Create(job).Error
}

// FindByID finds a job by ID with optional preloading
func (r *GormJobRepository) FindByID(id uint64, preload ...string) (*models.Job, error) {
	var job models.Job
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&job, id).Error; err != nil {
		return nil, err
	}

	return &job, nil
}

// List retrieves jobs newest first with filtering and optional pagination
func (r *GormJobRepository) List(filter JobFilter) ([]models.Job, int64, error) {
	var jobs []models.Job

	query := r.db.Model(&models.Job{})

	if filter.Status != nil {
		query = query.Where("jobs.status = ?", *filter.Status)
	}
	if filter.DriverID != nil {
		query = query.Where("jobs.driver_id = ?", *filter.DriverID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("jobs.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("jobs.created_at < ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("jobs.created_at DESC").Order("jobs.id DESC")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}
	for _, p := range filter.Preload {
		listQuery = listQuery.Preload(p)
	}

	if err := listQuery.Find(&jobs).Error; err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

// Update saves all job columns. Associations are omitted so a preloaded
// Driver or Approver cannot overwrite a cleared foreign key.
func (r *GormJobRepository) Update(job *models.Job) error {
	return r.db.Omit(clause.Associations).Save(job).Error
}

// Delete soft deletes a job
func (r *GormJobRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Job{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StatusBreakdown counts jobs per status in a single grouped query
func (r *GormJobRepository) StatusBreakdown(daySince, monthSince time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&models.Job{}).
		Select(
			"status, COUNT(*) AS total, "+
				"COUNT(CASE WHEN updated_at >= ? THEN 1 END) AS updated_since_day, "+
				"COUNT(CASE WHEN updated_at >= ? THEN 1 END) AS updated_since_month",
			daySince, monthSince,
		).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCompletedSince returns completed jobs updated at or after since
func (r *GormJobRepository) ListCompletedSince(since time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.
		Where("status = ? AND updated_at >= ?", models.JobStatusComplete, since).
		Order("updated_at ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// CountsByDriver aggregates job counts for each of the given drivers.
// Drivers without jobs are absent from the result.
func (r *GormJobRepository) CountsByDriver(driverIDs []uint64) (map[uint64]DriverJobCounts, error) {
	out := make(map[uint64]DriverJobCounts, len(driverIDs))
	if len(driverIDs) == 0 {
		return out, nil
	}

	var rows []DriverJobCounts
	err := r.db.Model(&models.Job{}).
		Select(
			"driver_id, COUNT(*) AS total, "+
				"COUNT(CASE WHEN status = ? THEN 1 END) AS completed, "+
				"COUNT(CASE WHEN status NOT IN ? THEN 1 END) AS active",
			models.JobStatusComplete,
			[]models.JobStatus{models.JobStatusComplete, models.JobStatusCancelled},
		).
		Where("driver_id IN ?", driverIDs).
		Group("driver_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.DriverID] = row
	}
	return out, nil
}
