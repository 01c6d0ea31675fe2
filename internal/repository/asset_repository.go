package repository

import (
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"gorm.io/gorm"
)

// GormAssetRepository is a GORM implementation of AssetRepository
type GormAssetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &GormAssetRepository{db: db}
}

func (r *GormAssetRepository) Create(asset *models.Asset) error {
	return r.db.Create(asset).Error
}

func (r *GormAssetRepository) FindByID(id uint64) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *GormAssetRepository) List(filter AssetFilter) ([]models.Asset, error) {
	var assets []models.Asset
	query := r.db.Model(&models.Asset{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Available != nil {
		query = query.Where("availability = ?", *filter.Available)
	}
	if err := query.Order("name ASC").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *GormAssetRepository) Update(asset *models.Asset) error {
	return r.db.Save(asset).Error
}

// Delete soft deletes an asset
func (r *GormAssetRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.Asset{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
