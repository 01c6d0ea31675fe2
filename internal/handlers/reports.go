package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thunderbolt-trucking/dispatch-api/internal/dto"
	apierrors "github.com/thunderbolt-trucking/dispatch-api/internal/errors"
	"github.com/thunderbolt-trucking/dispatch-api/internal/export"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
	"github.com/thunderbolt-trucking/dispatch-api/internal/utils"
)

// ReportHandler serves the dashboard and the admin reports.
type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// JobsReportResponse is the JSON body of the jobs report.
type JobsReportResponse struct {
	Jobs    []dto.JobDTO               `json:"jobs"`
	Summary services.JobsReportSummary `json:"summary"`
}

// DriverReportItem is one driver in the drivers report.
type DriverReportItem struct {
	dto.UserDTO
	Stats services.DriverStats `json:"stats"`
}

func (h *ReportHandler) DashboardStats(c *gin.Context) {
	stats, err := h.reportService.DashboardStats()
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// JobsReport accepts optional startDate and endDate query bounds.
func (h *ReportHandler) JobsReport(c *gin.Context) {
	report, ok := h.buildJobsReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, JobsReportResponse{
		Jobs:    dto.ToJobDTOs(report.Jobs),
		Summary: report.Summary,
	})
}

func (h *ReportHandler) ExportJobsReport(c *gin.Context) {
	report, ok := h.buildJobsReport(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteJobsReport(&buf, report); err != nil {
		internalError(c, err)
		return
	}
	sendWorkbook(c, "jobs-report", buf.Bytes())
}

func (h *ReportHandler) DriversReport(c *gin.Context) {
	entries, err := h.reportService.DriversReport()
	if err != nil {
		respondReportError(c, err)
		return
	}

	items := make([]DriverReportItem, len(entries))
	for i, entry := range entries {
		items[i] = DriverReportItem{
			UserDTO: dto.ToUserDTO(entry.Driver),
			Stats:   entry.Stats,
		}
	}

	c.JSON(http.StatusOK, items)
}

func (h *ReportHandler) ExportDriversReport(c *gin.Context) {
	entries, err := h.reportService.DriversReport()
	if err != nil {
		respondReportError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteDriversReport(&buf, entries); err != nil {
		internalError(c, err)
		return
	}
	sendWorkbook(c, "drivers-report", buf.Bytes())
}

// RevenueReport accepts ?period=week|month|year; anything else means month.
func (h *ReportHandler) RevenueReport(c *gin.Context) {
	report, err := h.reportService.RevenueReport(services.ParseRevenuePeriod(c.Query("period")))
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) ExportRevenueReport(c *gin.Context) {
	report, err := h.reportService.RevenueReport(services.ParseRevenuePeriod(c.Query("period")))
	if err != nil {
		respondReportError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteRevenueReport(&buf, report); err != nil {
		internalError(c, err)
		return
	}
	sendWorkbook(c, "revenue-report", buf.Bytes())
}

func (h *ReportHandler) buildJobsReport(c *gin.Context) (*services.JobsReport, bool) {
	var input services.JobsReportInput
	if raw := c.Query("startDate"); raw != "" {
		from, err := utils.ParseDateBound(raw, false)
		if err != nil {
			apierrors.BadRequest(c, "Invalid startDate")
			return nil, false
		}
		input.From = &from
	}
	if raw := c.Query("endDate"); raw != "" {
		before, err := utils.ParseDateBound(raw, true)
		if err != nil {
			apierrors.BadRequest(c, "Invalid endDate")
			return nil, false
		}
		input.Before = &before
	}

	report, err := h.reportService.JobsReport(input)
	if err != nil {
		respondReportError(c, err)
		return nil, false
	}
	return report, true
}

func sendWorkbook(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, data)
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequest(c, err.Error())
	default:
		internalError(c, err)
	}
}
