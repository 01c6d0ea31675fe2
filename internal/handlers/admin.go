package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thunderbolt-trucking/dispatch-api/internal/constants"
	"github.com/thunderbolt-trucking/dispatch-api/internal/dto"
	apierrors "github.com/thunderbolt-trucking/dispatch-api/internal/errors"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
)

// AdminHandler serves user management and the activity log.
type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers returns users newest first, optionally filtered by ?role=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var role *models.UserRole
	if raw := c.Query("role"); raw != "" {
		r := models.UserRole(raw)
		role = &r
	}

	users, err := h.adminService.ListUsers(role)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserListResponse{Users: dto.ToUserDTOs(users)})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.adminService.GetUser(id)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Password string `json:"password" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Role     string `json:"role" binding:"required"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.adminService.CreateUser(services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Username *string `json:"username" binding:"omitempty,min=3,max=50"`
		Password *string `json:"password"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Role     *string `json:"role"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.adminService.UpdateUser(id, input)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(id); err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ListActivity returns the newest audit entries; ?limit= defaults to 10.
func (h *AdminHandler) ListActivity(c *gin.Context) {
	limit := constants.DefaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = v
	}

	audits, err := h.adminService.RecentActivity(limit)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditDTOs(audits))
}

func (h *AdminHandler) LogActivity(c *gin.Context) {
	type LogActivityRequest struct {
		Action  string  `json:"action" binding:"required"`
		UserID  *uint64 `json:"user_id"`
		Details string  `json:"details"`
	}

	var req LogActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.adminService.LogActivity(services.LogActivityInput{
		Action:  req.Action,
		UserID:  req.UserID,
		Details: req.Details,
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAuditDTO(*entry))
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrActionRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	default:
		internalError(c, err)
	}
}
