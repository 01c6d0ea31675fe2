package repository

import (
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"gorm.io/gorm"
)

// GormAuditRepository is a GORM implementation of AuditRepository
type GormAuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &GormAuditRepository{db: db}
}

// Create appends an entry
func (r *GormAuditRepository) Create(audit *models.Audit) error {
	return r.db.Omit("User").Create(audit).Error
}

// ListRecent returns the newest entries with their user preloaded
func (r *GormAuditRepository) ListRecent(limit int) ([]models.Audit, error) {
	var audits []models.Audit
	err := r.db.Preload("User").
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Find(&audits).Error
	if err != nil {
		return nil, err
	}
	return audits, nil
}
