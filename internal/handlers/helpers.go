package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/marmushop/booking-api/internal/domain/booking"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/models"
)

// writeBusinessError maps domain failure codes onto HTTP statuses.
// Anything that is not a BusinessError is an infrastructure failure and
// surfaces as a 500, never as a domain outcome.
func writeBusinessError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "An error occurred while processing your request.")
		return
	}

	switch code {
	case "client_not_found", "staff_not_found", "appointment_not_found":
		httperr.NotFound(c, code, "Referenced record not found.")
	case "slot_taken":
		httperr.Conflict(c, code, "This time slot is already booked.")
	case "booking_frequency":
		httperr.TooManyRequests(c, code, "You can only book one of each service every 2 weeks.")
	case "forbidden":
		httperr.Forbidden(c, code, "Not authorized for this appointment.")
	case "invalid_state":
		httperr.BadRequest(c, code, "Appointment is already in a terminal state.")
	case "invalid_input":
		httperr.BadRequest(c, code, "Invalid date, time or service.")
	default:
		httperr.BadRequest(c, code, "Request could not be processed.")
	}
}

func clientForAccount(db *gorm.DB, accountID uint) (*models.Client, error) {
	var client models.Client
	if err := db.Where("account_id = ?", accountID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// displayTime renders a stored 24h clock value as the 12-hour label used
// on every outward surface.
func displayTime(stored string) string {
	c, err := domain.ParseClock(stored)
	if err != nil {
		return stored
	}
	return c.Label()
}
