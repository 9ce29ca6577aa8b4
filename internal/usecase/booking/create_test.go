package booking

import (
	"context"
	"testing"

	domain "github.com/marmushop/booking-api/internal/domain/booking"
	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/models"
)

func TestCreateBookingSuccess(t *testing.T) {
	db, repo := newTestEnv(t)
	client := seedClient(t, db, "ana", "Ana Cruz")
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	uc := NewCreateBooking(repo)
	uc.now = fixedNow

	ap, err := uc.Execute(context.Background(), CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     "2026-09-02",
		Time:     "10:00 AM",
		Remarks:  "fade",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.ID == 0 {
		t.Error("appointment was not persisted")
	}
	if ap.Status != string(domain.StatusPending) {
		t.Errorf("status = %q, want Pending", ap.Status)
	}
	if ap.Time != "10:00" {
		t.Errorf("stored time = %q, want canonical 10:00", ap.Time)
	}
	if ap.ClientName != "Ana Cruz" || ap.StaffName != "Marco Reyes" {
		t.Errorf("denormalized names wrong: %q / %q", ap.ClientName, ap.StaffName)
	}

	// The consumed slot is recorded against the staff schedule.
	var row models.StaffUnavailability
	err = db.Where("staff_id = ? AND date = ?", staff.ID, "2026-09-02").First(&row).Error
	if err != nil {
		t.Fatalf("expected unavailability row: %v", err)
	}
	if !row.IsBooked || row.Time == nil || *row.Time != "10:00" {
		t.Errorf("slot row not marked booked: %+v", row)
	}
}

func TestCreateBookingDuplicateSlot(t *testing.T) {
	db, repo := newTestEnv(t)
	first := seedClient(t, db, "ana", "Ana Cruz")
	second := seedClient(t, db, "ben", "Ben Lim")
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	uc := NewCreateBooking(repo)
	uc.now = fixedNow
	ctx := context.Background()

	in := CreateBookingInput{
		ClientID: first.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     "2026-09-02",
		Time:     "10:00",
	}
	if _, err := uc.Execute(ctx, in); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Same slot in the 12-hour form still collides.
	in.ClientID = second.ID
	in.Time = "10:00 AM"
	_, err := uc.Execute(ctx, in)
	if code, ok := httperr.BusinessCode(err); !ok || code != "slot_taken" {
		t.Fatalf("expected slot_taken, got %v", err)
	}

	var count int64
	db.Model(&models.Appointment{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 appointment, found %d", count)
	}
}

func TestCreateBookingBlockedByUnavailability(t *testing.T) {
	db, repo := newTestEnv(t)
	client := seedClient(t, db, "ana", "Ana Cruz")
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	ctx := context.Background()

	setUC := NewSetUnavailability(repo)
	if err := setUC.Execute(ctx, staff.ID, "2026-09-02", []string{"11:00"}); err != nil {
		t.Fatalf("SetUnavailability: %v", err)
	}

	uc := NewCreateBooking(repo)
	uc.now = fixedNow

	_, err := uc.Execute(ctx, CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     "2026-09-02",
		Time:     "11:00",
	})
	if code, ok := httperr.BusinessCode(err); !ok || code != "slot_taken" {
		t.Fatalf("expected slot_taken, got %v", err)
	}
}

func TestCreateBookingFrequencyRule(t *testing.T) {
	db, repo := newTestEnv(t)
	client := seedClient(t, db, "ana", "Ana Cruz")
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	uc := NewCreateBooking(repo)
	uc.now = fixedNow
	ctx := context.Background()

	if _, err := uc.Execute(ctx, CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     "2026-09-02",
		Time:     "10:00",
	}); err != nil {
		t.Fatalf("first haircut: %v", err)
	}

	// Second haircut inside the window is rejected.
	_, err := uc.Execute(ctx, CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     "2026-09-09",
		Time:     "10:00",
	})
	if code, ok := httperr.BusinessCode(err); !ok || code != "booking_frequency" {
		t.Fatalf("expected booking_frequency, got %v", err)
	}

	// A different service is a separate budget.
	if _, err := uc.Execute(ctx, CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "tattoo",
		Date:     "2026-09-09",
		Time:     "11:00",
	}); err != nil {
		t.Fatalf("tattoo should be allowed: %v", err)
	}
}

func TestCreateBookingFrequencyIgnoresCancelled(t *testing.T) {
	db, repo := newTestEnv(t)
	client := seedClient(t, db, "ana", "Ana Cruz")
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	createUC := NewCreateBooking(repo)
	createUC.now = fixedNow
	ctx := context.Background()

	ap, err := createUC.Execute(ctx, CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     "2026-09-02",
		Time:     "10:00",
	})
	if err != nil {
		t.Fatalf("first haircut: %v", err)
	}

	cancelUC := NewCancelAppointment(repo, &recordingNotifier{})
	cancelUC.now = fixedNow
	if _, err := cancelUC.Execute(ctx, client.ID, ap.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Cancelled bookings do not count against the window.
	if _, err := createUC.Execute(ctx, CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     "2026-09-09",
		Time:     "10:00",
	}); err != nil {
		t.Fatalf("rebooking after cancel should be allowed: %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	db, repo := newTestEnv(t)
	client := seedClient(t, db, "ana", "Ana Cruz")
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	uc := NewCreateBooking(repo)
	uc.now = fixedNow
	ctx := context.Background()

	base := CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     "2026-09-02",
		Time:     "10:00",
	}

	cases := []struct {
		name   string
		mutate func(*CreateBookingInput)
		code   string
	}{
		{"unknown service", func(in *CreateBookingInput) { in.Service = "massage" }, "invalid_input"},
		{"bad date", func(in *CreateBookingInput) { in.Date = "02/09/2026" }, "invalid_input"},
		{"bad time", func(in *CreateBookingInput) { in.Time = "noon" }, "invalid_input"},
		{"unknown client", func(in *CreateBookingInput) { in.ClientID = 999 }, "client_not_found"},
		{"unknown staff", func(in *CreateBookingInput) { in.StaffID = 999 }, "staff_not_found"},
	}

	for _, tc := range cases {
		in := base
		tc.mutate(&in)
		_, err := uc.Execute(ctx, in)
		if code, ok := httperr.BusinessCode(err); !ok || code != tc.code {
			t.Errorf("%s: expected %s, got %v", tc.name, tc.code, err)
		}
	}
}
