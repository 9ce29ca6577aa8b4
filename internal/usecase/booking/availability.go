package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	domain "github.com/marmushop/booking-api/internal/domain/booking"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	hours domain.BusinessHours
	now   func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		hours: domain.DefaultBusinessHours(),
		now:   timezone.Now,
	}
}

// Execute resolves the open slots for one staff member on one date and
// returns them as ordered 12-hour labels.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	staffID uint,
	dateStr string,
) ([]string, error) {

	if _, err := uc.repo.GetStaffByID(ctx, staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("staff_not_found")
		}
		return nil, err
	}

	// Malformed dates yield an empty list, not an error.
	date, err := time.ParseInLocation(domain.DateLayout, dateStr, timezone.Location())
	if err != nil {
		return []string{}, nil
	}

	defaults := uc.hours.DefaultSlots(date)
	if len(defaults) == 0 {
		return []string{}, nil
	}

	unavailable, err := uc.repo.ListUnavailableTimes(ctx, staffID, dateStr)
	if err != nil {
		return nil, err
	}

	booked, err := uc.repo.ListBookedTimes(ctx, staffID, dateStr)
	if err != nil {
		return nil, err
	}

	// Union of blocked and booked times, keyed by the canonical storage
	// form so mixed 24h/12h representations collapse into one slot.
	taken := make(map[string]struct{}, len(unavailable)+len(booked))
	for _, raw := range append(unavailable, booked...) {
		c, err := domain.ParseClock(raw)
		if err != nil {
			log.Printf("availability: skipping unparseable time %q for staff %d", raw, staffID)
			continue
		}
		taken[c.Storage()] = struct{}{}
	}

	now := uc.now()
	isToday := dateStr == now.Format(domain.DateLayout)
	nowMinutes := now.Hour()*60 + now.Minute()

	slots := make([]string, 0, len(defaults))
	for _, c := range defaults {
		if _, held := taken[c.Storage()]; held {
			continue
		}
		if isToday && c.Minutes() < nowMinutes {
			continue
		}
		slots = append(slots, c.Label())
	}

	return slots, nil
}
