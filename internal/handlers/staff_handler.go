package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/httpresp"
	"github.com/marmushop/booking-api/internal/middleware"
	"github.com/marmushop/booking-api/internal/models"
	usecase "github.com/marmushop/booking-api/internal/usecase/booking"
)

type StaffHandler struct {
	db             *gorm.DB
	unavailability *usecase.SetUnavailability
}

func NewStaffHandler(db *gorm.DB, unavailability *usecase.SetUnavailability) *StaffHandler {
	return &StaffHandler{
		db:             db,
		unavailability: unavailability,
	}
}

// --------- Requests ---------

type SetUnavailabilityRequest struct {
	Date  string   `json:"date" binding:"required"`
	Times []string `json:"times"`
}

// ======================================================
// LIST BY SERVICE (public)
// ======================================================

// ListByService answers GET /staff?service=haircut|tattoo. Without a
// service it lists everyone.
func (h *StaffHandler) ListByService(c *gin.Context) {
	service := strings.ToLower(strings.TrimSpace(c.Query("service")))

	query := h.db.Model(&models.Staff{})
	switch service {
	case "":
		// no filter
	case models.ServiceHaircut:
		query = query.Where("specialization = ?", models.RoleBarber)
	case models.ServiceTattoo:
		query = query.Where("specialization = ?", models.RoleTattooArtist)
	default:
		httperr.BadRequest(c, "invalid_service", "Service must be haircut or tattoo.")
		return
	}

	var staff []models.Staff
	if err := query.Order("full_name ASC").Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not load staff.")
		return
	}

	data := make([]gin.H, 0, len(staff))
	for _, s := range staff {
		data = append(data, gin.H{
			"id":             s.ID,
			"fullname":       s.FullName,
			"specialization": s.Specialization,
		})
	}

	httpresp.List(c, data)
}

// ======================================================
// UNAVAILABILITY (staff-only)
// ======================================================

// SetUnavailability replaces the caller's blocked slots for one date.
func (h *StaffHandler) SetUnavailability(c *gin.Context) {
	staff, ok := h.staffForCaller(c)
	if !ok {
		return
	}

	var req SetUnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A date is required.")
		return
	}

	err := h.unavailability.Execute(c.Request.Context(), staff.ID, req.Date, req.Times)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unavailability saved."})
}

// ListUnavailability returns the caller's blocked slots, optionally for
// one date.
func (h *StaffHandler) ListUnavailability(c *gin.Context) {
	staff, ok := h.staffForCaller(c)
	if !ok {
		return
	}

	query := h.db.Model(&models.StaffUnavailability{}).
		Where("staff_id = ?", staff.ID)

	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var rows []models.StaffUnavailability
	if err := query.Order("date ASC, time ASC").Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not load unavailability.")
		return
	}

	data := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		var timeLabel *string
		if row.Time != nil {
			label := displayTime(*row.Time)
			timeLabel = &label
		}
		data = append(data, gin.H{
			"id":        row.ID,
			"date":      row.Date,
			"time":      timeLabel,
			"is_booked": row.IsBooked,
		})
	}

	httpresp.List(c, data)
}

// ======================================================
// APPOINTMENTS (staff-only)
// ======================================================

// ListAppointments returns the appointments assigned to the caller.
func (h *StaffHandler) ListAppointments(c *gin.Context) {
	staff, ok := h.staffForCaller(c)
	if !ok {
		return
	}

	query := h.db.Model(&models.Appointment{}).
		Where("staff_id = ?", staff.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var appointments []models.Appointment
	if err := query.Order("date ASC, time ASC").Find(&appointments).Error; err != nil {
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

func (h *StaffHandler) staffForCaller(c *gin.Context) (*models.Staff, bool) {
	accountID := c.MustGet(middleware.ContextAccountID).(uint)

	var staff models.Staff
	if err := h.db.Where("account_id = ?", accountID).First(&staff).Error; err != nil {
		httperr.Forbidden(c, "not_staff", "Only staff members can access this resource.")
		return nil, false
	}
	return &staff, true
}
