package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	domain "github.com/marmushop/booking-api/internal/domain/booking"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/httpresp"
	"github.com/marmushop/booking-api/internal/models"
	"github.com/marmushop/booking-api/internal/notify"
	"github.com/marmushop/booking-api/internal/timezone"
	"github.com/marmushop/booking-api/internal/validators"
)

type AdminHandler struct {
	db         *gorm.DB
	repo       domain.Repository
	dispatcher *notify.Dispatcher
}

func NewAdminHandler(db *gorm.DB, repo domain.Repository, dispatcher *notify.Dispatcher) *AdminHandler {
	return &AdminHandler{
		db:         db,
		repo:       repo,
		dispatcher: dispatcher,
	}
}

// --------- Requests ---------

type AddUserRequest struct {
	FullName       string `json:"fullname" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	Role           string `json:"role" binding:"required"`
	Specialization string `json:"specialization"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ReplyFeedbackRequest struct {
	Reply     string `json:"reply" binding:"required"`
	SendEmail bool   `json:"send_email"`
}

// sort maps: whitelisted column expressions per list endpoint, so the
// sort parameter never reaches SQL verbatim.
var userSortColumns = map[string]string{
	"id":       "accounts.id",
	"username": "accounts.username",
	"email":    "accounts.email",
	"role":     "accounts.role",
	"fullname": "full_name",
	"created":  "accounts.created_at",
}

var appointmentSortColumns = map[string]string{
	"id":      "id",
	"date":    "date",
	"time":    "time",
	"status":  "status",
	"service": "service",
	"client":  "client_name",
	"artist":  "staff_name",
	"created": "created_at",
}

// ======================================================
// DASHBOARD
// ======================================================

// DashboardData aggregates the admin landing-page counters.
func (h *AdminHandler) DashboardData(c *gin.Context) {
	today := timezone.Today()

	var pending, approvedToday, totalClients, totalStaff, unresolvedFeedback int64

	h.db.Model(&models.Appointment{}).
		Where("status = ?", string(domain.StatusPending)).
		Count(&pending)

	h.db.Model(&models.Appointment{}).
		Where("status = ? AND date = ?", string(domain.StatusApproved), today).
		Count(&approvedToday)

	h.db.Model(&models.Client{}).Count(&totalClients)
	h.db.Model(&models.Staff{}).Count(&totalStaff)

	h.db.Model(&models.Feedback{}).
		Where("resolved = ?", false).
		Count(&unresolvedFeedback)

	type artistPerformance struct {
		StaffName string `json:"staff_name"`
		Completed int64  `json:"completed"`
	}
	var topArtists []artistPerformance
	h.db.Model(&models.Appointment{}).
		Select("staff_name, COUNT(*) AS completed").
		Where("status IN ?", []string{
			string(domain.StatusCompleted),
			string(domain.StatusDone),
		}).
		Group("staff_name").
		Order("completed DESC").
		Limit(10).
		Find(&topArtists)

	c.JSON(http.StatusOK, gin.H{
		"pending_appointments": pending,
		"approved_today":       approvedToday,
		"total_clients":        totalClients,
		"total_staff":          totalStaff,
		"unresolved_feedback":  unresolvedFeedback,
		"top_artists":          topArtists,
	})
}

// AppointmentsSummary breaks down appointment counts per status.
func (h *AdminHandler) AppointmentsSummary(c *gin.Context) {
	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	var rows []statusCount
	if err := h.db.Model(&models.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error; err != nil {

		httperr.Internal(c, "failed_to_aggregate", "Could not load summary.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": rows})
}

// MonthlyReport counts appointments per service for one month
// (?month=2026-08, defaults to the current month).
func (h *AdminHandler) MonthlyReport(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = timezone.Now().Format("2006-01")
	}
	if len(month) != 7 || month[4] != '-' {
		httperr.BadRequest(c, "invalid_month", "Month must look like 2026-08.")
		return
	}

	type serviceCount struct {
		Service string `json:"service"`
		Status  string `json:"status"`
		Count   int64  `json:"count"`
	}

	var rows []serviceCount
	if err := h.db.Model(&models.Appointment{}).
		Select("service, status, COUNT(*) AS count").
		Where("date LIKE ?", month+"%").
		Group("service, status").
		Find(&rows).Error; err != nil {

		httperr.Internal(c, "failed_to_aggregate", "Could not build report.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"month":  month,
		"report": rows,
	})
}

// ======================================================
// USERS
// ======================================================

type adminUserRow struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FullName  string    `json:"fullname"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsers joins the three profile tables so every account carries a
// display name, whatever its role.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, perPage := pagination(c)

	query := h.db.Model(&models.Account{}).
		Select(`accounts.id, accounts.username, accounts.email, accounts.role,
			COALESCE(clients.full_name, staff.full_name, admins.full_name, '') AS full_name,
			accounts.created_at`).
		Joins("LEFT JOIN clients ON clients.account_id = accounts.id").
		Joins("LEFT JOIN staff ON staff.account_id = accounts.id").
		Joins("LEFT JOIN admins ON admins.account_id = accounts.id")

	if role := c.Query("role"); role != "" {
		query = query.Where("accounts.role = ?", role)
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			`LOWER(accounts.username) LIKE ? OR LOWER(accounts.email) LIKE ?
			 OR LOWER(COALESCE(clients.full_name, staff.full_name, admins.full_name, '')) LIKE ?`,
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not load users.")
		return
	}

	order := sortOrder(c, userSortColumns, "accounts.id")

	var rows []adminUserRow
	if err := query.
		Order(order).
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error; err != nil {

		httperr.Internal(c, "failed_to_list", "Could not load users.")
		return
	}

	httpresp.Page(c, rows, total, page, perPage)
}

// AddUser creates an account plus its role-specific profile in one
// transaction.
func (h *AdminHandler) AddUser(c *gin.Context) {
	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields are required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if !validators.IsValidEmail(email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email format.")
		return
	}
	if !validators.IsStrongPassword(req.Password) {
		httperr.BadRequest(c, "weak_password", "Password must be at least 8 characters and include letters and numbers.")
		return
	}

	switch req.Role {
	case models.RoleClient, models.RoleBarber, models.RoleTattooArtist, models.RoleAdmin:
	default:
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	var count int64
	h.db.Model(&models.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "account_exists", "Username or email already exists.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not create user.")
		return
	}

	fullName := strings.TrimSpace(req.FullName)

	err = h.db.Transaction(func(tx *gorm.DB) error {
		account := models.Account{
			Username:     username,
			Email:        email,
			PasswordHash: string(hashed),
			Role:         req.Role,
		}
		if err := tx.Create(&account).Error; err != nil {
			return err
		}

		switch req.Role {
		case models.RoleClient:
			return tx.Create(&models.Client{
				AccountID: account.ID,
				FullName:  fullName,
			}).Error
		case models.RoleBarber, models.RoleTattooArtist:
			specialization := req.Specialization
			if specialization == "" {
				specialization = req.Role
			}
			return tx.Create(&models.Staff{
				AccountID:      account.ID,
				FullName:       fullName,
				Specialization: specialization,
			}).Error
		default:
			return tx.Create(&models.Admin{
				AccountID: account.ID,
				FullName:  fullName,
			}).Error
		}
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_user", "Could not create user.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!"})
}

// ======================================================
// APPOINTMENTS
// ======================================================

// ListAppointments is the admin view over every appointment, with
// status/artist/text filters. history=true restricts to terminal states.
func (h *AdminHandler) ListAppointments(c *gin.Context) {
	page, perPage := pagination(c)

	query := h.db.Model(&models.Appointment{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if artist := c.Query("artist"); artist != "" {
		query = query.Where("staff_name = ?", artist)
	}
	if service := c.Query("service"); service != "" {
		query = query.Where("service = ?", service)
	}
	if c.Query("history") == "true" {
		query = query.Where("status IN ?", []string{
			string(domain.StatusDenied),
			string(domain.StatusCancelled),
			string(domain.StatusCompleted),
			string(domain.StatusAbandoned),
			string(domain.StatusDone),
		})
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			`LOWER(client_name) LIKE ? OR LOWER(staff_name) LIKE ?
			 OR CAST(id AS TEXT) LIKE ?`,
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not load appointments.")
		return
	}

	order := sortOrder(c, appointmentSortColumns, "date")

	var appointments []models.Appointment
	if err := query.
		Order(order).
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&appointments).Error; err != nil {

		httperr.Internal(c, "failed_to_list", "Could not load appointments.")
		return
	}

	data := make([]gin.H, 0, len(appointments))
	for i := range appointments {
		data = append(data, appointmentPayload(&appointments[i]))
	}

	httpresp.Page(c, data, total, page, perPage)
}

// UpdateAppointmentStatus moves an appointment through the state
// machine and emails the client on Approved / Denied.
func (h *AdminHandler) UpdateAppointmentStatus(c *gin.Context) {
	appointmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "A numeric appointment id is required.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A status is required.")
		return
	}

	to := domain.Status(req.Status)
	if !to.Valid() {
		httperr.BadRequest(c, "invalid_status", "Unknown status.")
		return
	}

	var ap models.Appointment
	if err := h.db.First(&ap, uint(appointmentID)).Error; err != nil {
		if isRecordNotFound(err) {
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
			return
		}
		httperr.Internal(c, "failed_to_load", "Could not load appointment.")
		return
	}

	if err := domain.Transition(&ap, to, timezone.Now()); err != nil {
		writeBusinessError(c, err)
		return
	}

	if err := h.db.Save(&ap).Error; err != nil {
		httperr.Internal(c, "failed_to_update", "Could not update appointment.")
		return
	}

	// Freed slot bookkeeping goes through the same repository call as
	// client cancellation. Best-effort, the status change already stuck.
	if to == domain.StatusCancelled || to == domain.StatusDenied {
		if err := h.repo.ClearUnavailabilityTime(c.Request.Context(), ap.StaffID, ap.Date, ap.Time); err != nil {
			log.Printf("admin: could not clear unavailability for appointment %d: %v", ap.ID, err)
		}
	}

	if to == domain.StatusApproved || to == domain.StatusDenied || to == domain.StatusCancelled {
		h.notifyStatusChange(&ap)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Appointment %s.", strings.ToLower(string(to))),
		"appointment": appointmentPayload(&ap),
	})
}

func (h *AdminHandler) notifyStatusChange(ap *models.Appointment) {
	var row struct {
		Email    string
		FullName string
	}
	err := h.db.Model(&models.Client{}).
		Select("accounts.email, clients.full_name").
		Joins("JOIN accounts ON accounts.id = clients.account_id").
		Where("clients.id = ?", ap.ClientID).
		Scan(&row).Error
	if err != nil || row.Email == "" {
		return
	}

	h.dispatcher.AppointmentStatusChanged(
		row.Email,
		row.FullName,
		ap.Status,
		ap.Service,
		ap.Date,
		displayTime(ap.Time),
		ap.StaffName,
	)
}

// ListUnavailability is the admin view over every staff schedule block,
// with staff names resolved.
func (h *AdminHandler) ListUnavailability(c *gin.Context) {
	type unavailabilityRow struct {
		ID        uint    `json:"id"`
		StaffID   uint    `json:"staff_id"`
		StaffName string  `json:"staff_name"`
		Date      string  `json:"date"`
		Time      *string `json:"time"`
		IsBooked  bool    `json:"is_booked"`
	}

	query := h.db.Model(&models.StaffUnavailability{}).
		Select(`staff_unavailabilities.id, staff_unavailabilities.staff_id,
			staff.full_name AS staff_name, staff_unavailabilities.date,
			staff_unavailabilities.time, staff_unavailabilities.is_booked`).
		Joins("JOIN staff ON staff.id = staff_unavailabilities.staff_id")

	if date := c.Query("date"); date != "" {
		query = query.Where("staff_unavailabilities.date = ?", date)
	}
	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_unavailabilities.staff_id = ?", staffID)
	}

	var rows []unavailabilityRow
	if err := query.
		Order("staff_unavailabilities.date ASC, staff_unavailabilities.time ASC").
		Find(&rows).Error; err != nil {

		httperr.Internal(c, "failed_to_list", "Could not load unavailability.")
		return
	}

	for i := range rows {
		if rows[i].Time != nil {
			label := displayTime(*rows[i].Time)
			rows[i].Time = &label
		}
	}

	httpresp.List(c, rows)
}

// ======================================================
// FEEDBACK
// ======================================================

func (h *AdminHandler) ListFeedback(c *gin.Context) {
	page, perPage := pagination(c)

	query := h.db.Model(&models.Feedback{})

	if resolved := c.Query("resolved"); resolved != "" {
		query = query.Where("resolved = ?", resolved == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list", "Could not load feedback.")
		return
	}

	var rows []models.Feedback
	if err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&rows).Error; err != nil {

		httperr.Internal(c, "failed_to_list", "Could not load feedback.")
		return
	}

	httpresp.Page(c, rows, total, page, perPage)
}

// ReplyFeedback records the reply and, when requested, emails it to the
// feedback author.
func (h *AdminHandler) ReplyFeedback(c *gin.Context) {
	feedbackID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "A numeric feedback id is required.")
		return
	}

	var req ReplyFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A reply is required.")
		return
	}

	var feedback models.Feedback
	if err := h.db.First(&feedback, uint(feedbackID)).Error; err != nil {
		if isRecordNotFound(err) {
			httperr.NotFound(c, "feedback_not_found", "Feedback not found.")
			return
		}
		httperr.Internal(c, "failed_to_load", "Could not load feedback.")
		return
	}

	feedback.Reply = strings.TrimSpace(req.Reply)
	if err := h.db.Save(&feedback).Error; err != nil {
		httperr.Internal(c, "failed_to_update", "Could not save reply.")
		return
	}

	if req.SendEmail {
		var account models.Account
		if err := h.db.First(&account, feedback.AccountID).Error; err == nil && account.Email != "" {
			h.dispatcher.FeedbackReplied(account.Email, feedback.Username, feedback.Reply)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply saved."})
}

// ResolveFeedback toggles the resolved flag.
func (h *AdminHandler) ResolveFeedback(c *gin.Context) {
	feedbackID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "A numeric feedback id is required.")
		return
	}

	var feedback models.Feedback
	if err := h.db.First(&feedback, uint(feedbackID)).Error; err != nil {
		if isRecordNotFound(err) {
			httperr.NotFound(c, "feedback_not_found", "Feedback not found.")
			return
		}
		httperr.Internal(c, "failed_to_load", "Could not load feedback.")
		return
	}

	feedback.Resolved = !feedback.Resolved
	if err := h.db.Model(&feedback).Update("resolved", feedback.Resolved).Error; err != nil {
		httperr.Internal(c, "failed_to_update", "Could not update feedback.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Feedback updated.",
		"resolved": feedback.Resolved,
	})
}

// ======================================================
// HELPERS
// ======================================================

func pagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	return page, perPage
}

// sortOrder resolves ?sort= / ?dir= against a whitelist.
func sortOrder(c *gin.Context, columns map[string]string, fallback string) string {
	column, ok := columns[c.Query("sort")]
	if !ok {
		column = fallback
	}

	dir := "ASC"
	if strings.EqualFold(c.Query("dir"), "desc") {
		dir = "DESC"
	}
	return column + " " + dir
}
