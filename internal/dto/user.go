package dto

import (
	"time"

	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never included.
type UserDTO struct {
	ID        uint64          `json:"id"`
	Username  string          `json:"username"`
	Role      models.UserRole `json:"role"`
	Email     string          `json:"email"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UserSummaryDTO is the short form embedded in jobs and audit entries.
type UserSummaryDTO struct {
	ID       uint64          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

// UserListResponse wraps a list of users
type UserListResponse struct {
	Users []UserDTO `json:"users"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToUserSummaryDTO returns nil when the relation was not loaded.
func ToUserSummaryDTO(user *models.User) *UserSummaryDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	return &UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}
