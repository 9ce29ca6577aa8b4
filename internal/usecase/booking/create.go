package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	domain "github.com/marmushop/booking-api/internal/domain/booking"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/models"
	"github.com/marmushop/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ClientID uint
	StaffID  uint

	Service string
	Date    string
	Time    string
	Remarks string
}

// frequencyWindowDays limits a client to one booking of a given service
// per rolling window.
const frequencyWindowDays = 14

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo domain.Repository
	now  func() time.Time
}

func NewCreateBooking(repo domain.Repository) *CreateBooking {
	return &CreateBooking{
		repo: repo,
		now:  timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Input shape
	// --------------------------------------------------
	if in.Service != models.ServiceHaircut && in.Service != models.ServiceTattoo {
		return nil, httperr.ErrBusiness("invalid_input")
	}

	if _, err := time.ParseInLocation(domain.DateLayout, in.Date, timezone.Location()); err != nil {
		return nil, httperr.ErrBusiness("invalid_input")
	}

	slotTime, err := domain.NormalizeStorage(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_input")
	}

	// --------------------------------------------------
	// 2. Client
	// --------------------------------------------------
	client, err := uc.repo.GetClientByID(ctx, in.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("client_not_found")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 3. Staff
	// --------------------------------------------------
	staff, err := uc.repo.GetStaffByID(ctx, in.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("staff_not_found")
		}
		return nil, err
	}

	// --------------------------------------------------
	// 4. Slot conflict (advisory; re-checked at write time)
	// --------------------------------------------------
	taken, err := uc.repo.IsSlotTaken(ctx, in.StaffID, in.Date, slotTime)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.ErrBusiness("slot_taken")
	}

	// --------------------------------------------------
	// 5. Frequency rule: one booking per service per window.
	// Fails open: an infrastructure error here must not block the
	// booking, only lose the policy check.
	// --------------------------------------------------
	since := uc.now().AddDate(0, 0, -frequencyWindowDays).Format(domain.DateLayout)
	recent, err := uc.repo.CountRecentServiceBookings(ctx, in.ClientID, in.Service, since)
	if err != nil {
		log.Printf("booking: frequency check failed for client %d: %v", in.ClientID, err)
	} else if recent >= 1 {
		return nil, httperr.ErrBusiness("booking_frequency")
	}

	// --------------------------------------------------
	// 6. Insert (authoritative conflict re-check inside)
	// --------------------------------------------------
	ap := &models.Appointment{
		ClientID:   in.ClientID,
		StaffID:    in.StaffID,
		ClientName: client.FullName,
		StaffName:  staff.FullName,
		Service:    in.Service,
		Date:       in.Date,
		Time:       slotTime,
		Remarks:    in.Remarks,
		Status:     string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateAppointmentIfFree(ctx, ap); err != nil {
		return nil, err
	}

	return ap, nil
}
