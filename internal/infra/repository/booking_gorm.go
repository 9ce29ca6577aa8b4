package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/marmushop/booking-api/internal/domain/booking"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Client / Staff
// --------------------------------------------------

func (r *BookingGormRepository) GetClientByID(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *BookingGormRepository) GetStaffByID(
	ctx context.Context,
	id uint,
) (*models.Staff, error) {

	var staff models.Staff
	if err := r.db.WithContext(ctx).First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *BookingGormRepository) GetClientContact(
	ctx context.Context,
	clientID uint,
) (string, string, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, clientID).Error; err != nil {
		return "", "", err
	}

	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, client.AccountID).Error; err != nil {
		return "", "", err
	}

	return account.Email, client.FullName, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) ListUnavailableTimes(
	ctx context.Context,
	staffID uint,
	date string,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.StaffUnavailability{}).
		Where("staff_id = ? AND date = ? AND time IS NOT NULL", staffID, date).
		Order("time ASC").
		Pluck("time", &times).Error; err != nil {
		return nil, err
	}

	return times, nil
}

func (r *BookingGormRepository) ListBookedTimes(
	ctx context.Context,
	staffID uint,
	date string,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"staff_id = ? AND date = ? AND status != ?",
			staffID, date, string(domain.StatusCancelled),
		).
		Order("time ASC").
		Pluck("time", &times).Error; err != nil {
		return nil, err
	}

	return times, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *BookingGormRepository) IsSlotTaken(
	ctx context.Context,
	staffID uint,
	date string,
	timeValue string,
) (bool, error) {

	var taken int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"staff_id = ? AND date = ? AND time = ? AND status != ?",
			staffID, date, timeValue, string(domain.StatusCancelled),
		).
		Count(&taken).Error; err != nil {
		return false, err
	}
	if taken > 0 {
		return true, nil
	}

	var blocked int64
	if err := r.db.WithContext(ctx).
		Model(&models.StaffUnavailability{}).
		Where(
			"staff_id = ? AND date = ? AND time = ? AND is_booked = ?",
			staffID, date, timeValue, false,
		).
		Count(&blocked).Error; err != nil {
		return false, err
	}

	return blocked > 0, nil
}

// lockForUpdate row-locks a scan on postgres. sqlite has no FOR UPDATE;
// its transaction write lock serializes the same section in tests.
func lockForUpdate(q *gorm.DB) *gorm.DB {
	if q.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// appointmentConflictScan selects the ids of non-cancelled appointments
// holding the slot, row-locked. The scan plucks ids rather than counting
// because postgres rejects FOR UPDATE combined with aggregates.
func appointmentConflictScan(tx *gorm.DB, staffID uint, date, timeValue string) *gorm.DB {
	return lockForUpdate(tx.Model(&models.Appointment{})).
		Where(
			"staff_id = ? AND date = ? AND time = ? AND status != ?",
			staffID, date, timeValue, string(domain.StatusCancelled),
		)
}

// unavailabilityConflictScan selects the ids of staff-declared blocks at
// the slot, row-locked, same id-scan shape as appointmentConflictScan.
func unavailabilityConflictScan(tx *gorm.DB, staffID uint, date, timeValue string) *gorm.DB {
	return lockForUpdate(tx.Model(&models.StaffUnavailability{})).
		Where(
			"staff_id = ? AND date = ? AND time = ? AND is_booked = ?",
			staffID, date, timeValue, false,
		)
}

// CreateAppointmentIfFree closes the check-then-act race: the conflict
// re-check and the insert run in one transaction, with the conflict scans
// row-locked on postgres.
func (r *BookingGormRepository) CreateAppointmentIfFree(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var takenIDs []uint
		if err := appointmentConflictScan(tx, ap.StaffID, ap.Date, ap.Time).
			Pluck("id", &takenIDs).Error; err != nil {
			return err
		}
		if len(takenIDs) > 0 {
			return httperr.ErrBusiness("slot_taken")
		}

		var blockedIDs []uint
		if err := unavailabilityConflictScan(tx, ap.StaffID, ap.Date, ap.Time).
			Pluck("id", &blockedIDs).Error; err != nil {
			return err
		}
		if len(blockedIDs) > 0 {
			return httperr.ErrBusiness("slot_taken")
		}

		if err := tx.Create(ap).Error; err != nil {
			return err
		}

		// Record the consumed slot so future resolver calls exclude it
		// even before the appointment row itself would.
		res := tx.Model(&models.StaffUnavailability{}).
			Where("staff_id = ? AND date = ? AND time = ?", ap.StaffID, ap.Date, ap.Time).
			Update("is_booked", true)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			t := ap.Time
			row := models.StaffUnavailability{
				StaffID:  ap.StaffID,
				Date:     ap.Date,
				Time:     &t,
				IsBooked: true,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *BookingGormRepository) CountRecentServiceBookings(
	ctx context.Context,
	clientID uint,
	service string,
	sinceDate string,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"client_id = ? AND service = ? AND date >= ? AND status != ?",
			clientID, service, sinceDate, string(domain.StatusCancelled),
		).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Unavailability bookkeeping
// --------------------------------------------------

func (r *BookingGormRepository) ClearUnavailabilityTime(
	ctx context.Context,
	staffID uint,
	date string,
	timeValue string,
) error {

	return r.db.WithContext(ctx).
		Model(&models.StaffUnavailability{}).
		Where("staff_id = ? AND date = ? AND time = ?", staffID, date, timeValue).
		Update("time", nil).Error
}

func (r *BookingGormRepository) ReplaceUnavailability(
	ctx context.Context,
	staffID uint,
	date string,
	times []string,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Where("staff_id = ? AND date = ?", staffID, date).
			Delete(&models.StaffUnavailability{}).Error; err != nil {
			return err
		}

		for _, t := range times {
			t := t
			row := models.StaffUnavailability{
				StaffID: staffID,
				Date:    date,
				Time:    &t,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) ListAppointmentsForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC, time DESC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
