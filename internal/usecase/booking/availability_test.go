package booking

import (
	"context"
	"testing"
	"time"

	"github.com/marmushop/booking-api/internal/httperr"
)

func TestAvailabilityFullOpenDay(t *testing.T) {
	db, repo := newTestEnv(t)
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	uc := NewGetAvailability(repo)
	uc.now = fixedNow

	slots, err := uc.Execute(context.Background(), staff.ID, "2026-09-02")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(slots) != 12 {
		t.Fatalf("expected 12 slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != "9:00 AM" || slots[len(slots)-1] != "8:00 PM" {
		t.Errorf("unexpected slot range: %v", slots)
	}

	seen := make(map[string]bool)
	for _, s := range slots {
		if seen[s] {
			t.Errorf("duplicate slot %q", s)
		}
		seen[s] = true
	}
}

func TestAvailabilitySubtractsBlockedAndBooked(t *testing.T) {
	db, repo := newTestEnv(t)
	client := seedClient(t, db, "ana", "Ana Cruz")
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	ctx := context.Background()
	date := "2026-09-02"

	// Blocked by the staff member, in 24h form.
	setUC := NewSetUnavailability(repo)
	if err := setUC.Execute(ctx, staff.ID, date, []string{"10:00"}); err != nil {
		t.Fatalf("SetUnavailability: %v", err)
	}

	// Consumed by a booking, submitted in 12h form.
	createUC := NewCreateBooking(repo)
	createUC.now = fixedNow
	if _, err := createUC.Execute(ctx, CreateBookingInput{
		ClientID: client.ID,
		StaffID:  staff.ID,
		Service:  "haircut",
		Date:     date,
		Time:     "2:00 PM",
	}); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	uc := NewGetAvailability(repo)
	uc.now = fixedNow

	slots, err := uc.Execute(ctx, staff.ID, date)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(slots) != 10 {
		t.Fatalf("expected 10 slots, got %d: %v", len(slots), slots)
	}
	for _, s := range slots {
		if s == "10:00 AM" || s == "2:00 PM" {
			t.Errorf("slot %q should have been excluded", s)
		}
	}

	// The resolver reads, never writes: same answer on a second call.
	again, err := uc.Execute(ctx, staff.ID, date)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if len(again) != len(slots) {
		t.Errorf("resolver not idempotent: %d then %d slots", len(slots), len(again))
	}
}

func TestAvailabilityFiltersPastSlotsToday(t *testing.T) {
	db, repo := newTestEnv(t)
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	uc := NewGetAvailability(repo)
	// 14:30 on the requested date: slots through 2:00 PM are gone.
	uc.now = func() time.Time {
		return time.Date(2026, 9, 2, 14, 30, 0, 0, time.UTC)
	}

	slots, err := uc.Execute(context.Background(), staff.ID, "2026-09-02")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(slots) != 6 {
		t.Fatalf("expected 6 remaining slots, got %d: %v", len(slots), slots)
	}
	if slots[0] != "3:00 PM" {
		t.Errorf("first remaining slot = %q, want 3:00 PM", slots[0])
	}
}

func TestAvailabilityOffDayAndBadDate(t *testing.T) {
	db, repo := newTestEnv(t)
	staff := seedStaff(t, db, "marco", "Marco Reyes", "Barber")

	uc := NewGetAvailability(repo)
	uc.now = fixedNow
	ctx := context.Background()

	// Sunday.
	slots, err := uc.Execute(ctx, staff.ID, "2026-09-06")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no Sunday slots, got %v", slots)
	}

	// Malformed date yields an empty list, not an error.
	slots, err = uc.Execute(ctx, staff.ID, "06-09-2026")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Errorf("expected empty slice for malformed date, got %v", slots)
	}
}

func TestAvailabilityUnknownStaff(t *testing.T) {
	_, repo := newTestEnv(t)

	uc := NewGetAvailability(repo)
	uc.now = fixedNow

	_, err := uc.Execute(context.Background(), 999, "2026-09-02")
	if code, ok := httperr.BusinessCode(err); !ok || code != "staff_not_found" {
		t.Fatalf("expected staff_not_found, got %v", err)
	}
}
