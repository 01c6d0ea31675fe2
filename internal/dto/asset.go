package dto

import (
	"time"

	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
)

// AssetDTO represents a fleet asset in API responses
type AssetDTO struct {
	ID           uint64           `json:"id"`
	Name         string           `json:"name"`
	Type         models.AssetType `json:"type"`
	GeotabID     string           `json:"geotab_id"`
	Availability bool             `json:"availability"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func ToAssetDTO(asset models.Asset) AssetDTO {
	return AssetDTO{
		ID:           asset.ID,
		Name:         asset.Name,
		Type:         asset.Type,
		GeotabID:     asset.GeotabID,
		Availability: asset.Availability,
		CreatedAt:    asset.CreatedAt,
		UpdatedAt:    asset.UpdatedAt,
	}
}

func ToAssetDTOs(assets []models.Asset) []AssetDTO {
	out := make([]AssetDTO, len(assets))
	for i, a := range assets {
		out[i] = ToAssetDTO(a)
	}
	return out
}
