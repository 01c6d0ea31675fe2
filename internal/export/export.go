// Package export renders admin reports as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04"

// WriteJobsReport writes a "Jobs" sheet with one row per job and a "Summary"
// sheet with per-status counts.
func WriteJobsReport(w io.Writer, report *services.JobsReport) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Jobs"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []interface{}{"ID", "Status", "Truck Type", "Material", "Quantity", "Driver", "Approver", "Timing Start", "Timing End", "Created At"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}

	for i, job := range report.Jobs {
		row := []interface{}{
			job.ID,
			string(job.Status),
			job.TruckType,
			job.Material,
			optionalFloat(job.Quantity),
			"",
			"",
			"",
			"",
			job.CreatedAt.Format(timeLayout),
		}
		if job.Driver != nil {
			row[5] = job.Driver.Username
		}
		if job.Approver != nil {
			row[6] = job.Approver.Username
		}
		if job.TimingStart != nil {
			row[7] = job.TimingStart.Format(timeLayout)
		}
		if job.TimingEnd != nil {
			row[8] = job.TimingEnd.Format(timeLayout)
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}
	if err := writeHeader(f, summary, []interface{}{"Status", "Jobs"}); err != nil {
		return err
	}

	statuses := make([]models.JobStatus, 0, len(report.Summary.ByStatus))
	for status := range report.Summary.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	rowIndex := 2
	for _, status := range statuses {
		row := []interface{}{string(status), report.Summary.ByStatus[status]}
		if err := setRow(f, summary, rowIndex, row); err != nil {
			return err
		}
		rowIndex++
	}
	if err := setRow(f, summary, rowIndex, []interface{}{"Total", report.Summary.Total}); err != nil {
		return err
	}

	return finish(f, w)
}

// WriteDriversReport writes one row per driver with job totals.
func WriteDriversReport(w io.Writer, entries []services.DriverReportEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Drivers"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []interface{}{"ID", "Username", "Email", "Total Jobs", "Completed Jobs", "Active Jobs", "Completion Rate (%)"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}

	for i, e := range entries {
		row := []interface{}{
			e.Driver.ID,
			e.Driver.Username,
			e.Driver.Email,
			e.Stats.TotalJobs,
			e.Stats.CompletedJobs,
			e.Stats.ActiveJobs,
			e.Stats.CompletionRate,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	return finish(f, w)
}

// WriteRevenueReport writes the daily revenue buckets followed by the totals.
func WriteRevenueReport(w io.Writer, report *services.RevenueReport) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Revenue"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	if err := writeHeader(f, sheet, []interface{}{"Date", "Revenue"}); err != nil {
		return err
	}

	days := make([]string, 0, len(report.RevenueByPeriod))
	for day := range report.RevenueByPeriod {
		days = append(days, day)
	}
	sort.Strings(days)

	rowIndex := 2
	for _, day := range days {
		if err := setRow(f, sheet, rowIndex, []interface{}{day, report.RevenueByPeriod[day]}); err != nil {
			return err
		}
		rowIndex++
	}

	rowIndex++
	totals := [][]interface{}{
		{"Period", string(report.Period)},
		{"Jobs Completed", report.JobsCompleted},
		{"Total Revenue", report.TotalRevenue},
		{"Average Per Job", report.AveragePerJob},
	}
	for _, row := range totals {
		if err := setRow(f, sheet, rowIndex, row); err != nil {
			return err
		}
		rowIndex++
	}

	return finish(f, w)
}

func writeHeader(f *excelize.File, sheet string, headers []interface{}) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func finish(f *excelize.File, w io.Writer) error {
	f.SetActiveSheet(0)
	_, err := f.WriteTo(w)
	return err
}

func optionalFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
