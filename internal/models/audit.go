package models

import "time"

// Audit is append-only. UserID is nulled when the referenced user is deleted.
type Audit struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Action    string    `gorm:"type:varchar(255);not null" json:"action"`
	UserID    *uint64   `gorm:"index" json:"user_id"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
	Details   string    `gorm:"type:text" json:"details"`

	// Relations
	User *User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"user,omitempty"`
}
