package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
)

func TestAssetService_CreateAndUpdate(t *testing.T) {
	env := setupTestEnv(t)
	service := NewAssetService(env.assetRepo)

	asset, err := service.CreateAsset(CreateAssetInput{Name: "TB-900", Type: models.AssetSweeper, GeotabID: "GEO900"})
	require.NoError(t, err)
	assert.True(t, asset.Availability)

	unavailable := false
	name := "TB-900 Sweeper"
	updated, err := service.UpdateAsset(asset.ID, UpdateAssetInput{Name: &name, Availability: &unavailable})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.False(t, updated.Availability)

	reloaded, err := service.GetAsset(asset.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Availability)

	sameType := models.AssetSweeper
	_, err = service.UpdateAsset(asset.ID, UpdateAssetInput{Type: &sameType})
	assert.NoError(t, err)

	otherType := models.AssetFloat
	_, err = service.UpdateAsset(asset.ID, UpdateAssetInput{Type: &otherType})
	assert.ErrorIs(t, err, ErrAssetTypeImmutable)
}

func TestAssetService_Validation(t *testing.T) {
	env := setupTestEnv(t)
	service := NewAssetService(env.assetRepo)

	_, err := service.CreateAsset(CreateAssetInput{Name: "", Type: models.AssetFloat})
	assert.ErrorIs(t, err, ErrAssetNameRequired)

	_, err = service.CreateAsset(CreateAssetInput{Name: "X", Type: "tank"})
	assert.ErrorIs(t, err, ErrInvalidAssetType)

	bad := models.AssetType("tank")
	_, err = service.ListAssets(repository.AssetFilter{Type: &bad})
	assert.ErrorIs(t, err, ErrInvalidAssetType)

	_, err = service.GetAsset(1)
	assert.ErrorIs(t, err, ErrAssetNotFound)
	assert.ErrorIs(t, service.DeleteAsset(1), ErrAssetNotFound)
}
