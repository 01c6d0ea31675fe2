package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Job struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Status       JobStatus      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TruckType    string         `gorm:"type:varchar(50);not null" json:"truck_type"`
	Material     string         `gorm:"type:varchar(255)" json:"material"`
	Quantity     *float64       `json:"quantity"`
	LocationLat  *float64       `json:"location_lat"`
	LocationLong *float64       `json:"location_long"`
	TimingStart  *time.Time     `json:"timing_start"`
	TimingEnd    *time.Time     `json:"timing_end"`
	PhotosJSON   datatypes.JSON `gorm:"column:photos_json" json:"photos_json"`
	Signature    string         `gorm:"type:text" json:"signature"`
	TicketPDFURL string         `gorm:"column:ticket_pdf_url;type:varchar(512)" json:"ticket_pdf_url"`
	DriverID     *uint64        `gorm:"index" json:"driver_id"`
	ApproverID   *uint64        `gorm:"index" json:"approver_id"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Driver   *User `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"driver,omitempty"`
	Approver *User `gorm:"foreignKey:ApproverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"approver,omitempty"`
}
