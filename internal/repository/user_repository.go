package repository

import (
	"fmt"

	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users newest first, optionally restricted to one role
func (r *GormUserRepository) List(role *models.UserRole) ([]models.User, error) {
	var users []models.User
	query := r.db.Model(&models.User{})
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByRole counts users holding the given role
func (r *GormUserRepository) CountByRole(role models.UserRole) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// Update saves all user fields
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes the user. Job driver/approver and audit user references are
// set to NULL in the same transaction, including on soft-deleted jobs, so the
// result does not depend on the engine enforcing ON DELETE SET NULL.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Job{}).Where("driver_id = ?", id).UpdateColumn("driver_id", nil).Error; err != nil {
			return fmt.Errorf("clear job drivers: %w", err)
		}
		if err := tx.Unscoped().Model(&models.Job{}).Where("approver_id = ?", id).UpdateColumn("approver_id", nil).Error; err != nil {
			return fmt.Errorf("clear job approvers: %w", err)
		}
		if err := tx.Model(&models.Audit{}).Where("user_id = ?", id).UpdateColumn("user_id", nil).Error; err != nil {
			return fmt.Errorf("clear audit users: %w", err)
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
