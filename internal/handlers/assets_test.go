package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thunderbolt-trucking/dispatch-api/internal/dto"
	apierrors "github.com/thunderbolt-trucking/dispatch-api/internal/errors"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
)

func TestAssetHandler_CreateAndList(t *testing.T) {
	env := setupHandlerTestEnv(t, false, nil)
	admin := env.createUser(t, "admin", models.RoleAdmin)

	w := env.do(t, http.MethodPost, "/assets", map[string]interface{}{
		"name":      "Truck 12",
		"type":      "dump_truck",
		"geotab_id": "G-12",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created dto.AssetDTO
	decode(t, w, &created)
	assert.True(t, created.Availability)

	w = env.do(t, http.MethodPost, "/assets", map[string]interface{}{
		"name":         "Sweeper 1",
		"type":         "sweeper",
		"availability": false,
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		Assets []dto.AssetDTO `json:"assets"`
	}
	w = env.do(t, http.MethodGet, "/assets?available=true", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &response)
	require.Len(t, response.Assets, 1)
	assert.Equal(t, "Truck 12", response.Assets[0].Name)

	w = env.do(t, http.MethodGet, "/assets?type=sweeper", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &response)
	require.Len(t, response.Assets, 1)
	assert.Equal(t, models.AssetSweeper, response.Assets[0].Type)

	w = env.do(t, http.MethodGet, "/assets?available=maybe", nil, admin)
	requireAPIError(t, w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)

	w = env.do(t, http.MethodPost, "/assets", map[string]interface{}{"name": "Boat", "type": "boat"}, admin)
	requireAPIError(t, w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput)
}

func TestAssetHandler_UpdateTypeIsImmutable(t *testing.T) {
	env := setupHandlerTestEnv(t, false, nil)
	admin := env.createUser(t, "admin", models.RoleAdmin)
	asset := &models.Asset{Name: "Float 3", Type: models.AssetFloat, Availability: true}
	require.NoError(t, env.db.Create(asset).Error)
	path := fmt.Sprintf("/assets/%d", asset.ID)

	w := env.do(t, http.MethodPut, path, map[string]interface{}{"type": "water_truck"}, admin)
	requireAPIError(t, w, http.StatusConflict, apierrors.ErrCodeInvalidOperation)

	w = env.do(t, http.MethodPut, path, map[string]interface{}{
		"type":         "float",
		"availability": false,
		"geotab_id":    "G-3",
	}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated dto.AssetDTO
	decode(t, w, &updated)
	assert.False(t, updated.Availability)
	assert.Equal(t, "G-3", updated.GeotabID)
	assert.Equal(t, models.AssetFloat, updated.Type)
}

func TestAssetHandler_GetAndDelete(t *testing.T) {
	env := setupHandlerTestEnv(t, false, nil)
	admin := env.createUser(t, "admin", models.RoleAdmin)
	asset := &models.Asset{Name: "Hydro 1", Type: models.AssetHydroseeder, Availability: true}
	require.NoError(t, env.db.Create(asset).Error)
	path := fmt.Sprintf("/assets/%d", asset.ID)

	w := env.do(t, http.MethodGet, path, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, path, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, path, nil, admin)
	requireAPIError(t, w, http.StatusNotFound, apierrors.ErrCodeNotFound)
}
