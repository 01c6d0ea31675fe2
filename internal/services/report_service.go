package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/thunderbolt-trucking/dispatch-api/internal/constants"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
	"github.com/thunderbolt-trucking/dispatch-api/internal/utils"
)

var ErrInvalidDateRange = errors.New("startDate must be before endDate")

// RevenuePeriod selects the look-back window of the revenue report.
type RevenuePeriod string

const (
	RevenuePeriodWeek  RevenuePeriod = "week"
	RevenuePeriodMonth RevenuePeriod = "month"
	RevenuePeriodYear  RevenuePeriod = "year"
)

// ParseRevenuePeriod maps unknown or empty values to month.
func ParseRevenuePeriod(value string) RevenuePeriod {
	switch p := RevenuePeriod(value); p {
	case RevenuePeriodWeek, RevenuePeriodMonth, RevenuePeriodYear:
		return p
	default:
		return RevenuePeriodMonth
	}
}

// cutoff returns now minus one period in calendar terms.
func (p RevenuePeriod) cutoff(now time.Time) time.Time {
	switch p {
	case RevenuePeriodWeek:
		return now.AddDate(0, 0, -7)
	case RevenuePeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// JobsByStatus buckets jobs for the dashboard. InProgress is the union of the
// field statuses; the buckets always sum to TotalJobs.
type JobsByStatus struct {
	Pending    int64 `json:"pending"`
	Dispatched int64 `json:"dispatched"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}

type DashboardStats struct {
	TotalJobs      int64        `json:"totalJobs"`
	ActiveDrivers  int64        `json:"activeDrivers"`
	CompletedToday int64        `json:"completedToday"`
	MonthlyRevenue int64        `json:"monthlyRevenue"`
	JobsByStatus   JobsByStatus `json:"jobsByStatus"`
}

// JobsReportInput bounds the report on created_at. Before is exclusive.
type JobsReportInput struct {
	From   *time.Time
	Before *time.Time
}

type JobsReportSummary struct {
	Total    int                      `json:"total"`
	ByStatus map[models.JobStatus]int `json:"byStatus"`
}

type JobsReport struct {
	Jobs    []models.Job
	Summary JobsReportSummary
}

type DriverStats struct {
	TotalJobs      int64  `json:"totalJobs"`
	CompletedJobs  int64  `json:"completedJobs"`
	ActiveJobs     int64  `json:"activeJobs"`
	CompletionRate string `json:"completionRate"`
}

type DriverReportEntry struct {
	Driver models.User
	Stats  DriverStats
}

type RevenueReport struct {
	Period          RevenuePeriod    `json:"period"`
	TotalRevenue    int64            `json:"totalRevenue"`
	AveragePerJob   float64          `json:"averagePerJob"`
	JobsCompleted   int              `json:"jobsCompleted"`
	RevenueByPeriod map[string]int64 `json:"revenueByPeriod"`
}

// ReportService computes the dashboard and admin reports on demand.
type ReportService struct {
	jobRepo       repository.JobRepository
	userRepo      repository.UserRepository
	revenuePerJob int64
	now           func() time.Time
}

// NewReportService creates a new ReportService. revenuePerJob is the flat
// per-job price used for revenue figures; zero or negative selects the default.
func NewReportService(jobRepo repository.JobRepository, userRepo repository.UserRepository, revenuePerJob int64) *ReportService {
	if revenuePerJob <= 0 {
		revenuePerJob = constants.DefaultRevenuePerJob
	}
	return &ReportService{
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		revenuePerJob: revenuePerJob,
		now:           time.Now,
	}
}

// DashboardStats aggregates job counts with one grouped query plus a driver count.
func (s *ReportService) DashboardStats() (*DashboardStats, error) {
	now := s.now()

	rows, err := s.jobRepo.StatusBreakdown(utils.StartOfDay(now), utils.StartOfMonth(now))
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	drivers, err := s.userRepo.CountByRole(models.RoleDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to count drivers: %w", err)
	}

	stats := &DashboardStats{ActiveDrivers: drivers}
	for _, row := range rows {
		stats.TotalJobs += row.Total

		switch {
		case row.Status == models.JobStatusPending:
			stats.JobsByStatus.Pending += row.Total
		case row.Status == models.JobStatusDispatched:
			stats.JobsByStatus.Dispatched += row.Total
		case row.Status.InProgress():
			stats.JobsByStatus.InProgress += row.Total
		case row.Status == models.JobStatusComplete:
			stats.JobsByStatus.Completed += row.Total
			stats.CompletedToday = row.UpdatedSinceDay
			stats.MonthlyRevenue = row.UpdatedSinceMonth * s.revenuePerJob
		case row.Status == models.JobStatusCancelled:
			stats.JobsByStatus.Cancelled += row.Total
		}
	}

	return stats, nil
}

// JobsReport lists jobs created within the optional bounds, newest first,
// with a per-status summary.
func (s *ReportService) JobsReport(input JobsReportInput) (*JobsReport, error) {
	if input.From != nil && input.Before != nil && !input.From.Before(*input.Before) {
		return nil, ErrInvalidDateRange
	}

	jobs, _, err := s.jobRepo.List(repository.JobFilter{
		CreatedFrom:   input.From,
		CreatedBefore: input.Before,
		Preload:       []string{"Driver", "Approver"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	byStatus := make(map[models.JobStatus]int)
	for _, job := range jobs {
		byStatus[job.Status]++
	}

	return &JobsReport{
		Jobs: jobs,
		Summary: JobsReportSummary{
			Total:    len(jobs),
			ByStatus: byStatus,
		},
	}, nil
}

// DriversReport returns every driver with job totals and a completion rate
// formatted to one decimal place ("0" for drivers without jobs).
func (s *ReportService) DriversReport() ([]DriverReportEntry, error) {
	role := models.RoleDriver
	drivers, err := s.userRepo.List(&role)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	ids := make([]uint64, len(drivers))
	for i, d := range drivers {
		ids[i] = d.ID
	}

	counts, err := s.jobRepo.CountsByDriver(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count driver jobs: %w", err)
	}

	entries := make([]DriverReportEntry, len(drivers))
	for i, d := range drivers {
		c := counts[d.ID]
		entries[i] = DriverReportEntry{
			Driver: d,
			Stats: DriverStats{
				TotalJobs:      c.Total,
				CompletedJobs:  c.Completed,
				ActiveJobs:     c.Active,
				CompletionRate: CompletionRate(c.Completed, c.Total),
			},
		}
	}

	return entries, nil
}

// CompletionRate formats completed/total as a percentage with one decimal.
func CompletionRate(completed, total int64) string {
	if total == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(completed)/float64(total)*100)
}

// RevenueReport totals completed jobs updated since the period cutoff and
// buckets revenue by UTC calendar day.
func (s *ReportService) RevenueReport(period RevenuePeriod) (*RevenueReport, error) {
	period = ParseRevenuePeriod(string(period))

	jobs, err := s.jobRepo.ListCompletedSince(period.cutoff(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to list completed jobs: %w", err)
	}

	report := &RevenueReport{
		Period:          period,
		JobsCompleted:   len(jobs),
		RevenueByPeriod: make(map[string]int64),
	}
	for _, job := range jobs {
		report.TotalRevenue += s.revenuePerJob
		report.RevenueByPeriod[job.UpdatedAt.UTC().Format("2006-01-02")] += s.revenuePerJob
	}
	if report.JobsCompleted > 0 {
		report.AveragePerJob = float64(report.TotalRevenue) / float64(report.JobsCompleted)
	}

	return report, nil
}
