package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrAssetNameRequired  = errors.New("name is required")
	ErrInvalidAssetType   = errors.New("invalid asset type")
	ErrAssetTypeImmutable = errors.New("asset type cannot be changed")
)

// AssetService manages the fleet list
type AssetService struct {
	assetRepo repository.AssetRepository
}

func NewAssetService(assetRepo repository.AssetRepository) *AssetService {
	return &AssetService{assetRepo: assetRepo}
}

type CreateAssetInput struct {
	Name     string
	Type     models.AssetType
	GeotabID string
	// Availability defaults to true when nil
	Availability *bool
}

type UpdateAssetInput struct {
	Name         *string
	Type         *models.AssetType
	GeotabID     *string
	Availability *bool
}

func (s *AssetService) ListAssets(filter repository.AssetFilter) ([]models.Asset, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, ErrInvalidAssetType
	}
	assets, err := s.assetRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

func (s *AssetService) GetAsset(id uint64) (*models.Asset, error) {
	asset, err := s.assetRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to find asset: %w", err)
	}
	return asset, nil
}

func (s *AssetService) CreateAsset(input CreateAssetInput) (*models.Asset, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrAssetNameRequired
	}
	if !input.Type.Valid() {
		return nil, ErrInvalidAssetType
	}

	available := true
	if input.Availability != nil {
		available = *input.Availability
	}

	asset := &models.Asset{
		Name:         name,
		Type:         input.Type,
		GeotabID:     strings.TrimSpace(input.GeotabID),
		Availability: available,
	}
	if err := s.assetRepo.Create(asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return asset, nil
}

// UpdateAsset changes name, geotab id or availability. Sending the current
// type is accepted; any other type is rejected.
func (s *AssetService) UpdateAsset(id uint64, input UpdateAssetInput) (*models.Asset, error) {
	asset, err := s.GetAsset(id)
	if err != nil {
		return nil, err
	}

	if input.Type != nil && *input.Type != asset.Type {
		return nil, ErrAssetTypeImmutable
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrAssetNameRequired
		}
		asset.Name = name
	}
	if input.GeotabID != nil {
		asset.GeotabID = strings.TrimSpace(*input.GeotabID)
	}
	if input.Availability != nil {
		asset.Availability = *input.Availability
	}

	if err := s.assetRepo.Update(asset); err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}
	return asset, nil
}

func (s *AssetService) DeleteAsset(id uint64) error {
	if err := s.assetRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssetNotFound
		}
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	return nil
}
