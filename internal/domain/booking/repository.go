package booking

import (
	"context"

	"github.com/marmushop/booking-api/internal/models"
)

type Repository interface {
	// -------- Client / Staff --------
	GetClientByID(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	GetStaffByID(
		ctx context.Context,
		id uint,
	) (*models.Staff, error)

	// -------- Availability --------
	ListUnavailableTimes(
		ctx context.Context,
		staffID uint,
		date string,
	) ([]string, error)

	ListBookedTimes(
		ctx context.Context,
		staffID uint,
		date string,
	) ([]string, error)

	// -------- Appointment (create / conflict) --------

	// IsSlotTaken reports whether a non-cancelled appointment or a
	// staff-declared block already holds (staff, date, time). Advisory
	// only; CreateAppointmentIfFree repeats the check authoritatively.
	IsSlotTaken(
		ctx context.Context,
		staffID uint,
		date string,
		timeValue string,
	) (bool, error)

	// CreateAppointmentIfFree re-checks the slot and inserts in one
	// transaction, then marks the matching unavailability row as booked.
	// Returns slot_taken when the slot is held by a non-cancelled
	// appointment or a staff-declared block.
	CreateAppointmentIfFree(
		ctx context.Context,
		ap *models.Appointment,
	) error

	CountRecentServiceBookings(
		ctx context.Context,
		clientID uint,
		service string,
		sinceDate string,
	) (int64, error)

	// -------- Appointment (state change) --------
	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Unavailability bookkeeping --------
	ClearUnavailabilityTime(
		ctx context.Context,
		staffID uint,
		date string,
		timeValue string,
	) error

	ReplaceUnavailability(
		ctx context.Context,
		staffID uint,
		date string,
		times []string,
	) error

	// -------- Listing --------
	ListAppointmentsForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)

	GetClientContact(
		ctx context.Context,
		clientID uint,
	) (email string, fullname string, err error)
}
