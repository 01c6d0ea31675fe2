package dto

import (
	"time"

	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/utils"
	"gorm.io/datatypes"
)

// JobDTO represents a job in API responses
type JobDTO struct {
	ID           uint64           `json:"id"`
	Status       models.JobStatus `json:"status"`
	TruckType    string           `json:"truck_type"`
	Material     string           `json:"material"`
	Quantity     *float64         `json:"quantity"`
	LocationLat  *float64         `json:"location_lat"`
	LocationLong *float64         `json:"location_long"`
	TimingStart  *time.Time       `json:"timing_start"`
	TimingEnd    *time.Time       `json:"timing_end"`
	PhotosJSON   datatypes.JSON   `json:"photos_json"`
	Signature    string           `json:"signature"`
	TicketPDFURL string           `json:"ticket_pdf_url"`
	DriverID     *uint64          `json:"driver_id"`
	ApproverID   *uint64          `json:"approver_id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Driver       *UserSummaryDTO  `json:"driver,omitempty"`
	Approver     *UserSummaryDTO  `json:"approver,omitempty"`
}

// JobListResponse represents a paginated list of jobs
type JobListResponse struct {
	Jobs       []JobDTO                 `json:"jobs"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToJobDTO converts a Job model to JobDTO
func ToJobDTO(job models.Job) JobDTO {
	return JobDTO{
		ID:           job.ID,
		Status:       job.Status,
		TruckType:    job.TruckType,
		Material:     job.Material,
		Quantity:     job.Quantity,
		LocationLat:  job.LocationLat,
		LocationLong: job.LocationLong,
		TimingStart:  job.TimingStart,
		TimingEnd:    job.TimingEnd,
		PhotosJSON:   job.PhotosJSON,
		Signature:    job.Signature,
		TicketPDFURL: job.TicketPDFURL,
		DriverID:     job.DriverID,
		ApproverID:   job.ApproverID,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
		Driver:       ToUserSummaryDTO(job.Driver),
		Approver:     ToUserSummaryDTO(job.Approver),
	}
}

// ToJobDTOs converts a slice of jobs
func ToJobDTOs(jobs []models.Job) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i, j := range jobs {
		out[i] = ToJobDTO(j)
	}
	return out
}
