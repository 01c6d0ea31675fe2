package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thunderbolt-trucking/dispatch-api/internal/dto"
	apierrors "github.com/thunderbolt-trucking/dispatch-api/internal/errors"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
)

type AssetHandler struct {
	assetService *services.AssetService
}

func NewAssetHandler(assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	var filter repository.AssetFilter
	if raw := c.Query("type"); raw != "" {
		assetType := models.AssetType(raw)
		filter.Type = &assetType
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid available")
			return
		}
		filter.Available = &available
	}

	assets, err := h.assetService.ListAssets(filter)
	if err != nil {
		respondAssetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assets": dto.ToAssetDTOs(assets)})
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(id)
	if err != nil {
		respondAssetError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssetDTO(*asset))
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	type CreateAssetRequest struct {
		Name         string `json:"name" binding:"required,max=255"`
		Type         string `json:"type" binding:"required"`
		GeotabID     string `json:"geotab_id"`
		Availability *bool  `json:"availability"`
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	asset, err := h.assetService.CreateAsset(services.CreateAssetInput{
		Name:         req.Name,
		Type:         models.AssetType(req.Type),
		GeotabID:     req.GeotabID,
		Availability: req.Availability,
	})
	if err != nil {
		respondAssetError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssetDTO(*asset))
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateAssetRequest struct {
		Name         *string `json:"name" binding:"omitempty,max=255"`
		Type         *string `json:"type"`
		GeotabID     *string `json:"geotab_id"`
		Availability *bool   `json:"availability"`
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateAssetInput{
		Name:         req.Name,
		GeotabID:     req.GeotabID,
		Availability: req.Availability,
	}
	if req.Type != nil {
		assetType := models.AssetType(*req.Type)
		input.Type = &assetType
	}

	asset, err := h.assetService.UpdateAsset(id, input)
	if err != nil {
		respondAssetError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssetDTO(*asset))
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.assetService.DeleteAsset(id); err != nil {
		respondAssetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

func respondAssetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAssetNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAssetNameRequired),
		errors.Is(err, services.ErrInvalidAssetType):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAssetTypeImmutable):
		apierrors.InvalidOperation(c, err.Error())
	default:
		internalError(c, err)
	}
}
