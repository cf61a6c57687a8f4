package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	availabilityModel "csmanager_backend/internals/features/availability/model"
	locationModel "csmanager_backend/internals/features/catalog/locations/model"
	formModel "csmanager_backend/internals/features/forms/model"
	sectionModel "csmanager_backend/internals/features/scheduling/sections/model"
	sessionModel "csmanager_backend/internals/features/scheduling/sessions/model"
	templateModel "csmanager_backend/internals/features/scheduling/templates/model"
	timeslotModel "csmanager_backend/internals/features/scheduling/timeslots/model"
	userModel "csmanager_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=csmanager&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // plays nice with PgBouncer transaction pooling
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

// Migrate creates/updates all domain tables plus the uniqueness backstops
// that application-level checks rely on.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&userModel.CandidateProfileModel{},
		&sessionModel.SessionModel{},
		&sectionModel.CandidateSectionModel{},
		&timeslotModel.SessionTimeSlotModel{},
		&timeslotModel.SessionAttendeeModel{},
		&templateModel.TimeSlotTemplateModel{},
		&locationModel.LocationTypeModel{},
		&locationModel.LocationModel{},
		&formModel.FormModel{},
		&formModel.FormFieldModel{},
		&formModel.FormFieldOptionModel{},
		&formModel.FormAssignmentModel{},
		&formModel.FormSubmissionModel{},
		&availabilityModel.FacultyAvailabilityModel{},
		&availabilityModel.AvailabilityTimeSlotModel{},
		&availabilityModel.AvailabilityInvitationModel{},
	); err != nil {
		return err
	}

	// At most one *completed* submission per (form, user). Partial index so
	// drafts stay unconstrained.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_completed_submission
		ON form_submissions (form_id, submitted_by_id) WHERE is_completed`).Error
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
