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

type CancelAppointment struct {
	repo     domain.Repository
	notifier Notifier
	now      func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	notifier Notifier,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		notifier: notifier,
		now:      timezone.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	clientID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}

	if ap.ClientID != clientID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	if err := domain.Cancel(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// Best-effort: free the matching unavailability slot. The
	// cancellation itself already committed, so failures are only logged.
	if err := uc.repo.ClearUnavailabilityTime(ctx, ap.StaffID, ap.Date, ap.Time); err != nil {
		log.Printf("booking: could not clear unavailability for appointment %d: %v", ap.ID, err)
	}

	uc.notifyCancelled(ctx, ap)

	return ap, nil
}

func (uc *CancelAppointment) notifyCancelled(ctx context.Context, ap *models.Appointment) {
	email, fullname, err := uc.repo.GetClientContact(ctx, ap.ClientID)
	if err != nil || email == "" {
		return
	}

	timeLabel := ap.Time
	if c, err := domain.ParseClock(ap.Time); err == nil {
		timeLabel = c.Label()
	}

	uc.notifier.AppointmentStatusChanged(
		email,
		fullname,
		string(domain.StatusCancelled),
		ap.Service,
		ap.Date,
		timeLabel,
		ap.StaffName,
	)
}
