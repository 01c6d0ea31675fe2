package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thunderbolt-trucking/dispatch-api/internal/dto"
	apierrors "github.com/thunderbolt-trucking/dispatch-api/internal/errors"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
	"github.com/thunderbolt-trucking/dispatch-api/internal/utils"
	"gorm.io/datatypes"
)

// JobHandler serves the job endpoints.
type JobHandler struct {
	jobService *services.JobService
	aiService  *services.AIService
}

// NewJobHandler creates a new JobHandler. aiService may be nil.
func NewJobHandler(jobService *services.JobService, aiService *services.AIService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		aiService:  aiService,
	}
}

// ListJobs returns a page of jobs filtered by ?status= and ?driver_id=
func (h *JobHandler) ListJobs(c *gin.Context) {
	input := services.ListJobsInput{
		Pagination: utils.GetPaginationParams(c),
	}
	if raw := c.Query("status"); raw != "" {
		status := models.JobStatus(raw)
		input.Status = &status
	}
	driverID, ok := parseOptionalUintQuery(c, "driver_id")
	if !ok {
		return
	}
	input.DriverID = driverID

	jobs, total, err := h.jobService.ListJobs(input)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobListResponse{
		Jobs:       dto.ToJobDTOs(jobs),
		Pagination: utils.NewPaginationResponse(input.Pagination, total),
	})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(id)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobDTO(*job))
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	type CreateJobRequest struct {
		Status       string         `json:"status"`
		TruckType    string         `json:"truck_type" binding:"required"`
		Material     string         `json:"material"`
		Quantity     *float64       `json:"quantity" binding:"omitempty,gte=0"`
		LocationLat  *float64       `json:"location_lat" binding:"omitempty,gte=-90,lte=90"`
		LocationLong *float64       `json:"location_long" binding:"omitempty,gte=-180,lte=180"`
		TimingStart  *time.Time     `json:"timing_start"`
		TimingEnd    *time.Time     `json:"timing_end"`
		PhotosJSON   datatypes.JSON `json:"photos_json"`
		Signature    string         `json:"signature"`
		TicketPDFURL string         `json:"ticket_pdf_url"`
		DriverID     *uint64        `json:"driver_id"`
		ApproverID   *uint64        `json:"approver_id"`
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobService.CreateJob(services.CreateJobInput{
		Status:       models.JobStatus(req.Status),
		TruckType:    req.TruckType,
		Material:     req.Material,
		Quantity:     req.Quantity,
		LocationLat:  req.LocationLat,
		LocationLong: req.LocationLong,
		TimingStart:  req.TimingStart,
		TimingEnd:    req.TimingEnd,
		PhotosJSON:   req.PhotosJSON,
		Signature:    req.Signature,
		TicketPDFURL: req.TicketPDFURL,
		DriverID:     req.DriverID,
		ApproverID:   req.ApproverID,
	})
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToJobDTO(*job))
}

// UpdateJob applies a partial update. An explicit null driver_id or
// approver_id clears that assignment.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateJobRequest struct {
		Status       *string            `json:"status"`
		TruckType    *string            `json:"truck_type"`
		Material     *string            `json:"material"`
		Quantity     *float64           `json:"quantity" binding:"omitempty,gte=0"`
		LocationLat  *float64           `json:"location_lat" binding:"omitempty,gte=-90,lte=90"`
		LocationLong *float64           `json:"location_long" binding:"omitempty,gte=-180,lte=180"`
		TimingStart  *time.Time         `json:"timing_start"`
		TimingEnd    *time.Time         `json:"timing_end"`
		PhotosJSON   datatypes.JSON     `json:"photos_json"`
		Signature    *string            `json:"signature"`
		TicketPDFURL *string            `json:"ticket_pdf_url"`
		DriverID     dto.OptionalUint64 `json:"driver_id"`
		ApproverID   dto.OptionalUint64 `json:"approver_id"`
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateJobInput{
		TruckType:     req.TruckType,
		Material:      req.Material,
		Quantity:      req.Quantity,
		LocationLat:   req.LocationLat,
		LocationLong:  req.LocationLong,
		TimingStart:   req.TimingStart,
		TimingEnd:     req.TimingEnd,
		PhotosJSON:    req.PhotosJSON,
		Signature:     req.Signature,
		TicketPDFURL:  req.TicketPDFURL,
		DriverIDSet:   req.DriverID.Set,
		DriverID:      req.DriverID.Value,
		ApproverIDSet: req.ApproverID.Set,
		ApproverID:    req.ApproverID.Value,
	}
	if req.Status != nil {
		status := models.JobStatus(*req.Status)
		input.Status = &status
	}

	job, err := h.jobService.UpdateJob(id, input)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJobDTO(*job))
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(id); err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

// DraftJobs turns free-text order notes into unsaved job drafts.
func (h *JobHandler) DraftJobs(c *gin.Context) {
	type DraftJobsRequest struct {
		Text string `json:"text" binding:"required,max=10000"`
	}

	var req DraftJobsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if h.aiService == nil || !h.aiService.Configured() {
		apierrors.ServiceUnavailable(c, "AI service is not available")
		return
	}

	drafts, err := h.aiService.DraftJobs(c.Request.Context(), req.Text)
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

func respondJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTruckTypeRequired),
		errors.Is(err, services.ErrInvalidJobStatus),
		errors.Is(err, services.ErrDriverNotFound),
		errors.Is(err, services.ErrApproverNotFound),
		errors.Is(err, services.ErrInvalidTiming):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidStatusTransition):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not available")
	case errors.Is(err, services.ErrAINoDraftsGenerated),
		errors.Is(err, services.ErrAINoValidDrafts):
		apierrors.BadRequest(c, err.Error())
	default:
		internalError(c, err)
	}
}
