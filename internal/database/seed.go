package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedUser struct {
	Username string
	Password string
	Role     models.UserRole
	Email    string
}

var demoUsers = []seedUser{
	{Username: "admin", Password: "Password1", Role: models.RoleAdmin, Email: "admin@thunderbolt.local"},
	{Username: "driver", Password: "Password1", Role: models.RoleDriver, Email: "driver@thunderbolt.local"},
	{Username: "dispatcher", Password: "Password1", Role: models.RoleDispatcher, Email: "dispatcher@thunderbolt.local"},
	{Username: "orderentry", Password: "Password1", Role: models.RoleCustomer, Email: "orderentry@thunderbolt.local"},
}

var demoFleet = []models.Asset{
	{Name: "TB-101 Tri-Axel", Type: models.AssetDumpTruck, GeotabID: "GEOTAB_TB101", Availability: true},
	{Name: "TB-102 Tri-Axel", Type: models.AssetDumpTruck, GeotabID: "GEOTAB_TB102", Availability: true},
	{Name: "TB-103 Tri-Axel", Type: models.AssetDumpTruck, GeotabID: "GEOTAB_TB103", Availability: true},
	{Name: "TB-104 Tri-Axel", Type: models.AssetDumpTruck, GeotabID: "GEOTAB_TB104", Availability: true},
	{Name: "TB-105 Tri-Axel", Type: models.AssetDumpTruck, GeotabID: "GEOTAB_TB105", Availability: false},
	{Name: "TB-106 Tri-Axel", Type: models.AssetDumpTruck, GeotabID: "GEOTAB_TB106", Availability: true},
	{Name: "TB-201 Water Truck", Type: models.AssetWaterTruck, GeotabID: "GEOTAB_TB201", Availability: true},
	{Name: "TB-202 Water Truck", Type: models.AssetWaterTruck, GeotabID: "GEOTAB_TB202", Availability: true},
	{Name: "TB-301 Float", Type: models.AssetFloat, GeotabID: "GEOTAB_TB301", Availability: true},
	{Name: "TB-302 Float", Type: models.AssetFloat, GeotabID: "GEOTAB_TB302", Availability: true},
	{Name: "TB-401 Hydroseeder", Type: models.AssetHydroseeder, GeotabID: "GEOTAB_TB401", Availability: true},
	{Name: "TB-501 Street Sweeper", Type: models.AssetSweeper, GeotabID: "GEOTAB_TB501", Availability: true},
}

type seedJob struct {
	Status    models.JobStatus
	TruckType string
	Material  string
	Quantity  float64
	Lat, Long float64
	// start relative to seeding time; duration zero leaves timing_end empty
	Start    time.Duration
	Duration time.Duration
}

const day = 24 * time.Hour

var demoJobs = []seedJob{
	{models.JobStatusComplete, "dump_truck", "Topsoil - Triple Mix", 15.5, 43.6467, -79.9333, -7 * day, 2 * time.Hour},
	{models.JobStatusComplete, "dump_truck", `Gravel - 3/4" Clear Stone`, 18.0, 43.6550, -79.9200, -6 * day, 3 * time.Hour},
	{models.JobStatusComplete, "dump_truck", "Sand - Concrete Sand", 20.0, 43.5448, -80.2482, -5 * day, 150 * time.Minute},
	{models.JobStatusInTransit, "dump_truck", "Gravel - Granular A", 17.5, 43.6389, -79.8711, -2 * time.Hour, 0},
	{models.JobStatusLoading, "dump_truck", "Topsoil - Screened", 16.0, 43.6500, -79.9400, -30 * time.Minute, 0},
	{models.JobStatusOnSite, "dump_truck", "Aggregate - Crusher Run", 19.0, 43.6420, -79.9280, -45 * time.Minute, 0},
	{models.JobStatusEnRoute, "dump_truck", "Sand - Fill Sand", 18.5, 43.6330, -79.9100, -15 * time.Minute, 0},
	{models.JobStatusDispatched, "dump_truck", "Stone - Armour Stone", 14.0, 43.6580, -79.9450, 30 * time.Minute, 0},
	{models.JobStatusPending, "dump_truck", `Gravel - 1.5" Clear Stone`, 20.0, 43.6400, -79.9500, 2 * time.Hour, 0},
	{models.JobStatusPending, "dump_truck", "Topsoil - Garden Mix", 12.5, 43.5500, -80.2500, day, 0},
	{models.JobStatusComplete, "water_truck", "Water - Dust Control", 5000, 43.6467, -79.9333, -3 * day, 4 * time.Hour},
	{models.JobStatusDispatched, "water_truck", "Water - Site Preparation", 6000, 43.6389, -79.8711, time.Hour, 0},
	{models.JobStatusPending, "float", "Equipment Transport - Excavator", 1, 43.6467, -79.9333, 3 * day, 0},
	{models.JobStatusPending, "hydroseeder", "Hydroseed - Erosion Control Mix", 2000, 43.5448, -80.2482, 2 * day, 0},
}

// SeedDemoData inserts the demo accounts, fleet and jobs. Each step is
// idempotent, so it is safe to run on every start.
func SeedDemoData(db *gorm.DB, log logrus.FieldLogger) error {
	if err := SeedDemoUsers(db, log); err != nil {
		return err
	}
	if err := seedDemoFleet(db, log); err != nil {
		return err
	}
	return seedDemoJobs(db, log, time.Now())
}

// SeedDemoUsers creates the demo accounts, skipping usernames that exist.
func SeedDemoUsers(db *gorm.DB, log logrus.FieldLogger) error {
	for _, u := range demoUsers {
		var existing models.User
		err := db.Where("username = ?", u.Username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check seed user %s: %w", u.Username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}

		user := models.User{
			Username:     u.Username,
			PasswordHash: string(hash),
			Role:         u.Role,
			Email:        u.Email,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create seed user %s: %w", u.Username, err)
		}
		log.WithFields(logrus.Fields{"username": u.Username, "role": u.Role}).Info("created seed user")
	}

	return nil
}

// seedDemoFleet only inserts into an empty assets table.
func seedDemoFleet(db *gorm.DB, log logrus.FieldLogger) error {
	var assetCount int64
	if err := db.Model(&models.Asset{}).Count(&assetCount).Error; err != nil {
		return fmt.Errorf("failed to count assets: %w", err)
	}
	if assetCount > 0 {
		return nil
	}

	fleet := make([]models.Asset, len(demoFleet))
	copy(fleet, demoFleet)
	if err := db.Create(&fleet).Error; err != nil {
		return fmt.Errorf("failed to seed fleet: %w", err)
	}
	log.WithField("assets", len(fleet)).Info("seeded demo fleet")

	return nil
}

// seedDemoJobs only inserts into an empty jobs table. Jobs the driver has
// picked up are assigned to the demo driver; completed ones are approved by
// the demo dispatcher.
func seedDemoJobs(db *gorm.DB, log logrus.FieldLogger, now time.Time) error {
	var jobCount int64
	if err := db.Model(&models.Job{}).Count(&jobCount).Error; err != nil {
		return fmt.Errorf("failed to count jobs: %w", err)
	}
	if jobCount > 0 {
		return nil
	}

	var driver, dispatcher models.User
	if err := db.Where("username = ?", "driver").First(&driver).Error; err != nil {
		return fmt.Errorf("failed to find demo driver: %w", err)
	}
	if err := db.Where("username = ?", "dispatcher").First(&dispatcher).Error; err != nil {
		return fmt.Errorf("failed to find demo dispatcher: %w", err)
	}

	jobs := make([]models.Job, 0, len(demoJobs))
	for _, d := range demoJobs {
		quantity, lat, long := d.Quantity, d.Lat, d.Long
		start := now.Add(d.Start)
		job := models.Job{
			Status:       d.Status,
			TruckType:    d.TruckType,
			Material:     d.Material,
			Quantity:     &quantity,
			LocationLat:  &lat,
			LocationLong: &long,
			TimingStart:  &start,
		}
		if d.Duration > 0 {
			end := start.Add(d.Duration)
			job.TimingEnd = &end
		}
		if d.Status != models.JobStatusPending && d.Status != models.JobStatusCancelled {
			job.DriverID = &driver.ID
		}
		if d.Status == models.JobStatusComplete {
			job.ApproverID = &dispatcher.ID
		}
		jobs = append(jobs, job)
	}

	if err := db.Omit(clause.Associations).Create(&jobs).Error; err != nil {
		return fmt.Errorf("failed to seed jobs: %w", err)
	}
	log.WithField("jobs", len(jobs)).Info("seeded demo jobs")

	return nil
}
