package models

import (
	"time"

	"gorm.io/gorm"
)

type AssetType string

const (
	AssetDumpTruck   AssetType = "dump_truck"
	AssetWaterTruck  AssetType = "water_truck"
	AssetFloat       AssetType = "float"
	AssetHydroseeder AssetType = "hydroseeder"
	AssetSweeper     AssetType = "sweeper"
)

func (t AssetType) Valid() bool {
	switch t {
	case AssetDumpTruck, AssetWaterTruck, AssetFloat, AssetHydroseeder, AssetSweeper:
		return true
	}
	return false
}

// Asset is a fleet vehicle. It is not linked to jobs.
type Asset struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Type         AssetType      `gorm:"type:varchar(30);not null;index" json:"type"`
	GeotabID     string         `gorm:"column:geotab_id;type:varchar(100)" json:"geotab_id"`
	Availability bool           `gorm:"not null" json:"availability"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
