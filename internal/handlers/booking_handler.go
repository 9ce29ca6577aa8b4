package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/marmushop/booking-api/internal/domain/booking"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/httpresp"
	"github.com/marmushop/booking-api/internal/middleware"
	"github.com/marmushop/booking-api/internal/models"
	usecase "github.com/marmushop/booking-api/internal/usecase/booking"
)

type BookingHandler struct {
	db           *gorm.DB
	repo         domain.Repository
	availability *usecase.GetAvailability
	create       *usecase.CreateBooking
	cancel       *usecase.CancelAppointment
}

func NewBookingHandler(
	db *gorm.DB,
	repo domain.Repository,
	availability *usecase.GetAvailability,
	create *usecase.CreateBooking,
	cancel *usecase.CancelAppointment,
) *BookingHandler {
	return &BookingHandler{
		db:           db,
		repo:         repo,
		availability: availability,
		create:       create,
		cancel:       cancel,
	}
}

// --------- Requests ---------

type CreateBookingRequest struct {
	StaffID uint   `json:"staff_id" binding:"required"`
	Service string `json:"service" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	Remarks string `json:"remarks"`
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

// AvailableSlots answers GET /appointments/slots?staff_id=&date=.
func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "A numeric staff_id is required.")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "A date is required.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), uint(staffID), date)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uint)

	client, err := clientForAccount(h.db, accountID)
	if err != nil {
		httperr.Forbidden(c, "not_a_client", "Only clients can book appointments.")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Staff, service, date and time are required.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), usecase.CreateBookingInput{
		ClientID: client.ID,
		StaffID:  req.StaffID,
		Service:  req.Service,
		Date:     req.Date,
		Time:     req.Time,
		Remarks:  req.Remarks,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment booked successfully!",
		"appointment": appointmentPayload(ap),
	})
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uint)

	client, err := clientForAccount(h.db, accountID)
	if err != nil {
		httperr.Forbidden(c, "not_a_client", "Only clients can cancel their appointments.")
		return
	}

	appointmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "A numeric appointment id is required.")
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), client.ID, uint(appointmentID))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment cancelled.",
		"appointment": appointmentPayload(ap),
	})
}

// ======================================================
// LIST (own appointments)
// ======================================================

func (h *BookingHandler) ListForUser(c *gin.Context) {
	accountID := c.MustGet(middleware.ContextAccountID).(uint)

	client, err := clientForAccount(h.db, accountID)
	if err != nil {
		httperr.Forbidden(c, "not_a_client", "Only clients have appointments to list.")
		return
	}

	appointments, err := h.repo.ListAppointmentsForClient(c.Request.Context(), client.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_list", "Could not load appointments.")
		return
	}

	data := make([]gin.H, 0, len(appointments))
	for i := range appointments {
		data = append(data, appointmentPayload(&appointments[i]))
	}

	httpresp.List(c, data)
}

// ======================================================
// HELPERS
// ======================================================

// appointmentPayload is the outward shape of an appointment. Times go
// out as 12-hour labels regardless of the stored form.
func appointmentPayload(ap *models.Appointment) gin.H {
	return gin.H{
		"id":          ap.ID,
		"client_id":   ap.ClientID,
		"staff_id":    ap.StaffID,
		"client_name": ap.ClientName,
		"staff_name":  ap.StaffName,
		"service":     ap.Service,
		"date":        ap.Date,
		"time":        displayTime(ap.Time),
		"remarks":     ap.Remarks,
		"status":      ap.Status,
		"created_at":  ap.CreatedAt,
	}
}
