package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/services"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteJobsReport(t *testing.T) {
	qty := 12.5
	report := &services.JobsReport{
		Jobs: []models.Job{
			{ID: 2, Status: models.JobStatusComplete, TruckType: "dump_truck", Material: "gravel", Quantity: &qty,
				Driver: &models.User{ID: 5, Username: "driver"}, CreatedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)},
			{ID: 1, Status: models.JobStatusPending, TruckType: "float", CreatedAt: time.Date(2024, 5, 30, 8, 0, 0, 0, time.UTC)},
		},
		Summary: services.JobsReportSummary{
			Total:    2,
			ByStatus: map[models.JobStatus]int{models.JobStatusComplete: 1, models.JobStatusPending: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJobsReport(&buf, report))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{"Jobs", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Jobs")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Status", rows[0][1])
	assert.Equal(t, []string{"2", "complete", "dump_truck", "gravel", "12.5", "driver"}, rows[1][:6])
	assert.Equal(t, "2024-06-01 08:00", rows[1][9])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, []string{"complete", "1"}, summary[1])
	assert.Equal(t, []string{"pending", "1"}, summary[2])
	assert.Equal(t, []string{"Total", "2"}, summary[3])
}

func TestWriteDriversReport(t *testing.T) {
	entries := []services.DriverReportEntry{
		{
			Driver: models.User{ID: 3, Username: "driver", Email: "driver@example.com"},
			Stats:  services.DriverStats{TotalJobs: 2, CompletedJobs: 1, ActiveJobs: 1, CompletionRate: "50.0"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDriversReport(&buf, entries))

	rows, err := openWorkbook(t, &buf).GetRows("Drivers")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"3", "driver", "driver@example.com", "2", "1", "1", "50.0"}, rows[1])
}

func TestWriteRevenueReport(t *testing.T) {
	report := &services.RevenueReport{
		Period:          services.RevenuePeriodWeek,
		TotalRevenue:    1500,
		AveragePerJob:   500,
		JobsCompleted:   3,
		RevenueByPeriod: map[string]int64{"2024-06-14": 1000, "2024-06-10": 500},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRevenueReport(&buf, report))

	rows, err := openWorkbook(t, &buf).GetRows("Revenue")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-10", "500"}, rows[1])
	assert.Equal(t, []string{"2024-06-14", "1000"}, rows[2])
	assert.Equal(t, []string{"Period", "week"}, rows[4])
	assert.Equal(t, []string{"Total Revenue", "1500"}, rows[6])
}
