package dto

import (
	"time"

	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
)

// AuditDTO represents an activity log entry
type AuditDTO struct {
	ID        uint64          `json:"id"`
	Action    string          `json:"action"`
	UserID    *uint64         `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
	Details   string          `json:"details"`
	User      *UserSummaryDTO `json:"user,omitempty"`
}

func ToAuditDTO(audit models.Audit) AuditDTO {
	return AuditDTO{
		ID:        audit.ID,
		Action:    audit.Action,
		UserID:    audit.UserID,
		Timestamp: audit.Timestamp,
		Details:   audit.Details,
		User:      ToUserSummaryDTO(audit.User),
	}
}

func ToAuditDTOs(audits []models.Audit) []AuditDTO {
	out := make([]AuditDTO, len(audits))
	for i, a := range audits {
		out[i] = ToAuditDTO(a)
	}
	return out
}
