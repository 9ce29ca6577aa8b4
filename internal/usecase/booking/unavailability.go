package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/marmushop/booking-api/internal/domain/booking"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/timezone"
)

type SetUnavailability struct {
	repo domain.Repository
}

func NewSetUnavailability(repo domain.Repository) *SetUnavailability {
	return &SetUnavailability{repo: repo}
}

// Execute replaces the staff member's blocked slots for one date
// wholesale: previous rows for that staff+date are dropped first.
func (uc *SetUnavailability) Execute(
	ctx context.Context,
	staffID uint,
	dateStr string,
	times []string,
) error {

	if _, err := uc.repo.GetStaffByID(ctx, staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrBusiness("staff_not_found")
		}
		return err
	}

	if _, err := time.ParseInLocation(domain.DateLayout, dateStr, timezone.Location()); err != nil {
		return httperr.ErrBusiness("invalid_input")
	}

	normalized := make([]string, 0, len(times))
	for _, raw := range times {
		storage, err := domain.NormalizeStorage(raw)
		if err != nil {
			return httperr.ErrBusiness("invalid_input")
		}
		normalized = append(normalized, storage)
	}

	return uc.repo.ReplaceUnavailability(ctx, staffID, dateStr, normalized)
}
