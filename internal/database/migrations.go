package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the dashboard and report
// queries. Single-column indexes come from the model tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// completed-since-cutoff scans
		{"jobs", "idx_jobs_status_updated_at", "status, updated_at"},
		// per-driver grouped counts
		{"jobs", "idx_jobs_driver_status", "driver_id, status"},
		{"audits", "idx_audits_user_timestamp", "user_id, timestamp"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
