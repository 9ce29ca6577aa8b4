package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/marmushop/booking-api/internal/db"
	infraRepo "github.com/marmushop/booking-api/internal/infra/repository"
	"github.com/marmushop/booking-api/internal/middleware"
	"github.com/marmushop/booking-api/internal/models"
	"github.com/marmushop/booking-api/internal/notify"
	usecase "github.com/marmushop/booking-api/internal/usecase/booking"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// asAccount fakes an authenticated session without minting a token.
func asAccount(account *models.Account) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextAccountID, account.ID)
		c.Set(middleware.ContextUsername, account.Username)
		c.Set(middleware.ContextRole, account.Role)
		c.Next()
	}
}

func seedAccount(t *testing.T, db *gorm.DB, username, role string) *models.Account {
	t.Helper()

	account := models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return &account
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAvailableSlotsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	staffAccount := seedAccount(t, db, "marco", models.RoleBarber)
	staff := models.Staff{AccountID: staffAccount.ID, FullName: "Marco Reyes", Specialization: models.RoleBarber}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatal(err)
	}

	repo := infraRepo.NewBookingGormRepository(db)
	h := NewBookingHandler(db, repo,
		usecase.NewGetAvailability(repo),
		usecase.NewCreateBooking(repo),
		nil,
	)

	r := gin.New()
	r.GET("/api/appointments/slots", h.AvailableSlots)

	// 2027-05-04 is a Tuesday, far enough out that no slot has passed.
	w := doJSON(t, r, http.MethodGet, "/api/appointments/slots?staff_id=1&date=2027-05-04", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Slots []string `json:"slots"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Slots) != 12 {
		t.Fatalf("expected 12 slots, got %d: %v", len(resp.Slots), resp.Slots)
	}

	// Missing parameters are a 400, not a 500.
	w = doJSON(t, r, http.MethodGet, "/api/appointments/slots?date=2027-05-04", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing staff_id: status = %d", w.Code)
	}
}

func TestCreateBookingEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	clientAccount := seedAccount(t, db, "ana", models.RoleClient)
	client := models.Client{AccountID: clientAccount.ID, FullName: "Ana Cruz"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatal(err)
	}

	staffAccount := seedAccount(t, db, "marco", models.RoleBarber)
	staff := models.Staff{AccountID: staffAccount.ID, FullName: "Marco Reyes", Specialization: models.RoleBarber}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatal(err)
	}

	repo := infraRepo.NewBookingGormRepository(db)
	h := NewBookingHandler(db, repo,
		usecase.NewGetAvailability(repo),
		usecase.NewCreateBooking(repo),
		nil,
	)

	r := gin.New()
	r.POST("/api/appointments", asAccount(clientAccount), h.Create)

	body := gin.H{
		"staff_id": staff.ID,
		"service":  "haircut",
		"date":     "2027-05-04",
		"time":     "10:00 AM",
	}

	w := doJSON(t, r, http.MethodPost, "/api/appointments", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// The same slot again conflicts.
	w = doJSON(t, r, http.MethodPost, "/api/appointments", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate: status = %d, body = %s", w.Code, w.Body.String())
	}
}

type nullMailer struct{}

func (nullMailer) Send(to, subject, htmlBody string) error { return nil }

func TestAdminCancelReleasesSlot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	clientAccount := seedAccount(t, db, "ana", models.RoleClient)
	client := models.Client{AccountID: clientAccount.ID, FullName: "Ana Cruz"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatal(err)
	}

	staffAccount := seedAccount(t, db, "marco", models.RoleBarber)
	staff := models.Staff{AccountID: staffAccount.ID, FullName: "Marco Reyes", Specialization: models.RoleBarber}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatal(err)
	}

	adminAccount := seedAccount(t, db, "root", models.RoleAdmin)

	repo := infraRepo.NewBookingGormRepository(db)
	createUC := usecase.NewCreateBooking(repo)

	ap, err := createUC.Execute(context.Background(), usecase.CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  models.ServiceHaircut,
		Date:     "2027-05-04",
		Time:     "10:00",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	h := NewAdminHandler(db, repo, notify.NewDispatcher(nullMailer{}))

	r := gin.New()
	r.PUT("/api/admin/appointments/:id/status", asAccount(adminAccount), h.UpdateAppointmentStatus)

	w := doJSON(t, r, http.MethodPut,
		"/api/admin/appointments/"+strconv.FormatUint(uint64(ap.ID), 10)+"/status",
		gin.H{"status": "Cancelled"},
	)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	// The consumed schedule slot is released the same way a client
	// cancellation releases it.
	var row models.StaffUnavailability
	if err := db.Where("staff_id = ? AND date = ?", staff.ID, "2027-05-04").First(&row).Error; err != nil {
		t.Fatalf("unavailability row: %v", err)
	}
	if row.Time != nil {
		t.Errorf("expected time cleared, got %v", *row.Time)
	}
}

func TestFeedbackEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	account := seedAccount(t, db, "ana", models.RoleClient)

	h := NewFeedbackHandler(db)

	r := gin.New()
	r.GET("/api/feedback", h.List)
	r.POST("/api/feedback", asAccount(account), h.Create)

	w := doJSON(t, r, http.MethodPost, "/api/feedback", gin.H{
		"stars":   5,
		"message": "Great cut!",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}

	// Out-of-range stars are rejected.
	w = doJSON(t, r, http.MethodPost, "/api/feedback", gin.H{
		"stars":   6,
		"message": "??",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("stars=6: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/feedback", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}

	var resp struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 {
		t.Fatalf("expected one feedback entry, got %+v", resp)
	}
	if resp.Data[0]["username"] != "ana" {
		t.Errorf("username = %v, want ana", resp.Data[0]["username"])
	}
}
