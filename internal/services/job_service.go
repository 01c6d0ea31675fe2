package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thunderbolt-trucking/dispatch-api/internal/metrics"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
	"github.com/thunderbolt-trucking/dispatch-api/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrJobNotFound             = errors.New("job not found")
	ErrTruckTypeRequired       = errors.New("truck_type is required")
	ErrInvalidJobStatus        = errors.New("invalid job status")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrDriverNotFound          = errors.New("driver does not exist")
	ErrApproverNotFound        = errors.New("approver does not exist")
	ErrInvalidTiming           = errors.New("timing_end must not be before timing_start")
)

// jobDetailPreloads are the relations returned with a single job.
var jobDetailPreloads = []string{"Driver", "Approver"}

// JobService handles job business logic
type JobService struct {
	jobRepo            repository.JobRepository
	userRepo           repository.UserRepository
	enforceTransitions bool
	log                logrus.FieldLogger
}

// NewJobService creates a new JobService. When enforceTransitions is false any
// enumerated status may follow any other.
func NewJobService(jobRepo repository.JobRepository, userRepo repository.UserRepository, enforceTransitions bool, log logrus.FieldLogger) *JobService {
	return &JobService{
		jobRepo:            jobRepo,
		userRepo:           userRepo,
		enforceTransitions: enforceTransitions,
		log:                log,
	}
}

// ListJobsInput represents filters for listing jobs
type ListJobsInput struct {
	Status     *models.JobStatus
	DriverID   *uint64
	Pagination utils.PaginationParams
}

// CreateJobInput represents input for creating a job
type CreateJobInput struct {
	Status       models.JobStatus
	TruckType    string
	Material     string
	Quantity     *float64
	LocationLat  *float64
	LocationLong *float64
	TimingStart  *time.Time
	TimingEnd    *time.Time
	PhotosJSON   datatypes.JSON
	Signature    string
	TicketPDFURL string
	DriverID     *uint64
	ApproverID   *uint64
}

// UpdateJobInput represents a partial update. DriverID and ApproverID are
// only applied when the matching Set flag is true, so a nil value clears the
// assignment.
type UpdateJobInput struct {
	Status        *models.JobStatus
	TruckType     *string
	Material      *string
	Quantity      *float64
	LocationLat   *float64
	LocationLong  *float64
	TimingStart   *time.Time
	TimingEnd     *time.Time
	PhotosJSON    datatypes.JSON
	Signature     *string
	TicketPDFURL  *string
	DriverIDSet   bool
	DriverID      *uint64
	ApproverIDSet bool
	ApproverID    *uint64
}

// ListJobs returns a page of jobs, newest first
func (s *JobService) ListJobs(input ListJobsInput) ([]models.Job, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidJobStatus
	}

	pagination := input.Pagination
	jobs, total, err := s.jobRepo.List(repository.JobFilter{
		Status:     input.Status,
		DriverID:   input.DriverID,
		Preload:    []string{"Driver"},
		Pagination: &pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, total, nil
}

// GetJob returns a job with driver and approver loaded
func (s *JobService) GetJob(id uint64) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(id, jobDetailPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return job, nil
}

// CreateJob validates and stores a new job. Status defaults to pending.
func (s *JobService) CreateJob(input CreateJobInput) (*models.Job, error) {
	truckType := strings.TrimSpace(input.TruckType)
	if truckType == "" {
		return nil, ErrTruckTypeRequired
	}

	if input.Status == "" {
		input.Status = models.JobStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidJobStatus
	}
	if err := validateTiming(input.TimingStart, input.TimingEnd); err != nil {
		return nil, err
	}
	if err := s.ensureUserExists(input.DriverID, ErrDriverNotFound); err != nil {
		return nil, err
	}
	if err := s.ensureUserExists(input.ApproverID, ErrApproverNotFound); err != nil {
		return nil, err
	}

	job := &models.Job{
		Status:       input.Status,
		TruckType:    truckType,
		Material:     input.Material,
		Quantity:     input.Quantity,
		LocationLat:  input.LocationLat,
		LocationLong: input.LocationLong,
		TimingStart:  input.TimingStart,
		TimingEnd:    input.TimingEnd,
		PhotosJSON:   input.PhotosJSON,
		Signature:    input.Signature,
		TicketPDFURL: input.TicketPDFURL,
		DriverID:     input.DriverID,
		ApproverID:   input.ApproverID,
	}

	if err := s.jobRepo.Create(job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	metrics.RecordJobCreated()

	return s.GetJob(job.ID)
}

// UpdateJob applies a partial update. Concurrent updates are last-writer-wins.
func (s *JobService) UpdateJob(id uint64, input UpdateJobInput) (*models.Job, error) {
	job, err := s.GetJob(id)
	if err != nil {
		return nil, err
	}

	previous := job.Status
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidJobStatus
		}
		if s.enforceTransitions && !job.Status.CanTransitionTo(*input.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, job.Status, *input.Status)
		}
		job.Status = *input.Status
	}

	if input.TruckType != nil {
		truckType := strings.TrimSpace(*input.TruckType)
		if truckType == "" {
			return nil, ErrTruckTypeRequired
		}
		job.TruckType = truckType
	}
	if input.Material != nil {
		job.Material = *input.Material
	}
	if input.Quantity != nil {
		job.Quantity = input.Quantity
	}
	if input.LocationLat != nil {
		job.LocationLat = input.LocationLat
	}
	if input.LocationLong != nil {
		job.LocationLong = input.LocationLong
	}
	if input.TimingStart != nil {
		job.TimingStart = input.TimingStart
	}
	if input.TimingEnd != nil {
		job.TimingEnd = input.TimingEnd
	}
	if err := validateTiming(job.TimingStart, job.TimingEnd); err != nil {
		return nil, err
	}
	if input.PhotosJSON != nil {
		job.PhotosJSON = input.PhotosJSON
	}
	if input.Signature != nil {
		job.Signature = *input.Signature
	}
	if input.TicketPDFURL != nil {
		job.TicketPDFURL = *input.TicketPDFURL
	}
	if input.DriverIDSet {
		if err := s.ensureUserExists(input.DriverID, ErrDriverNotFound); err != nil {
			return nil, err
		}
		job.DriverID = input.DriverID
	}
	if input.ApproverIDSet {
		if err := s.ensureUserExists(input.ApproverID, ErrApproverNotFound); err != nil {
			return nil, err
		}
		job.ApproverID = input.ApproverID
	}

	if err := s.jobRepo.Update(job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	if job.Status != previous {
		metrics.RecordJobStatusChange(string(job.Status))
		s.log.WithFields(logrus.Fields{
			"job_id": job.ID,
			"from":   previous,
			"to":     job.Status,
		}).Info("job status changed")
	}

	return s.GetJob(job.ID)
}

// DeleteJob soft deletes a job
func (s *JobService) DeleteJob(id uint64) error {
	if err := s.jobRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotFound
		}
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

func (s *JobService) ensureUserExists(id *uint64, notFound error) error {
	if id == nil {
		return nil
	}
	if _, err := s.userRepo.FindByID(*id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return nil
}

func validateTiming(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidTiming
	}
	return nil
}
