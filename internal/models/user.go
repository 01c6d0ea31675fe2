package models

import "time"

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleDispatcher UserRole = "dispatcher"
	RoleDriver     UserRole = "driver"
	RoleCustomer   UserRole = "customer"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleDispatcher, RoleDriver, RoleCustomer:
		return true
	}
	return false
}

// User rows are hard deleted; jobs and audits keep their rows with a null reference.
type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null;index" json:"role"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
