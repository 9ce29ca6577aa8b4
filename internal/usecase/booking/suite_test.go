package booking

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/marmushop/booking-api/internal/db"
	domain "github.com/marmushop/booking-api/internal/domain/booking"
	infraRepo "github.com/marmushop/booking-api/internal/infra/repository"
	"github.com/marmushop/booking-api/internal/models"
)

// newTestEnv spins up an isolated in-memory database with the full
// schema and a repository on top of it.
func newTestEnv(t *testing.T) (*gorm.DB, domain.Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db, infraRepo.NewBookingGormRepository(db)
}

func seedClient(t *testing.T, db *gorm.DB, username, fullName string) *models.Client {
	t.Helper()

	account := models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleClient,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}

	client := models.Client{AccountID: account.ID, FullName: fullName}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return &client
}

func seedStaff(t *testing.T, db *gorm.DB, username, fullName, specialization string) *models.Staff {
	t.Helper()

	account := models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         specialization,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}

	staff := models.Staff{
		AccountID:      account.ID,
		FullName:       fullName,
		Specialization: specialization,
	}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	return &staff
}

// fixedNow pins use-case clocks to a known instant: Tuesday 2026-09-01,
// 08:00 local.
func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
}

// recordingNotifier captures status notifications for assertions.
type recordingNotifier struct {
	emails   []string
	statuses []string
}

func (n *recordingNotifier) AppointmentStatusChanged(
	email, fullname, status, service, date, timeLabel, staffName string,
) {
	n.emails = append(n.emails, email)
	n.statuses = append(n.statuses, status)
}
