package booking

import (
	"testing"
	"time"

	"github.com/marmushop/booking-api/internal/httperr"
	"github.com/marmushop/booking-api/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusApproved},
		{StatusPending, StatusDenied},
		{StatusPending, StatusCancelled},
		{StatusApproved, StatusCancelled},
		{StatusApproved, StatusCompleted},
		{StatusApproved, StatusAbandoned},
		{StatusApproved, StatusDone},
	}
	for _, tc := range allowed {
		if err := CanTransition(tc.from, tc.to); err != nil {
			t.Errorf("CanTransition(%s, %s): unexpected error %v", tc.from, tc.to, err)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusCompleted},
		{StatusApproved, StatusPending},
		{StatusCancelled, StatusApproved},
		{StatusDenied, StatusApproved},
		{StatusDone, StatusCancelled},
		{StatusCompleted, StatusDone},
	}
	for _, tc := range denied {
		err := CanTransition(tc.from, tc.to)
		if err == nil {
			t.Errorf("CanTransition(%s, %s): expected error", tc.from, tc.to)
			continue
		}
		if code, ok := httperr.BusinessCode(err); !ok || code != "invalid_state" {
			t.Errorf("CanTransition(%s, %s): expected invalid_state, got %v", tc.from, tc.to, err)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	terminal := []Status{StatusDenied, StatusCancelled, StatusCompleted, StatusAbandoned, StatusDone}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusApproved} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestCancelSetsTimestamp(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusApproved)}
	if err := Cancel(ap, now); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if ap.Status != string(StatusCancelled) {
		t.Errorf("status = %q, want Cancelled", ap.Status)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Errorf("CancelledAt = %v, want %v", ap.CancelledAt, now)
	}

	// Second cancel is rejected and leaves the record untouched.
	if err := Cancel(ap, now.Add(time.Hour)); err == nil {
		t.Fatal("expected error on double cancel")
	}
	if !ap.CancelledAt.Equal(now) {
		t.Errorf("CancelledAt moved on failed cancel")
	}
}
