package booking

import "github.com/marmushop/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusDenied    Status = "Denied"
	StatusCancelled Status = "Cancelled"
	StatusCompleted Status = "Completed"
	StatusAbandoned Status = "Abandoned"
	StatusDone      Status = "Done"
)

func InitialStatus() Status {
	return StatusPending
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusCancelled,
		StatusCompleted, StatusAbandoned, StatusDone:
		return true
	}
	return false
}

// Terminal states admit no further transition.
func (s Status) Terminal() bool {
	switch s {
	case StatusDenied, StatusCancelled, StatusCompleted, StatusAbandoned, StatusDone:
		return true
	}
	return false
}

// ===============================
// Validations
// ===============================

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusDenied, StatusCancelled},
	StatusApproved: {StatusCancelled, StatusCompleted, StatusAbandoned, StatusDone},
}

// CanTransition enforces the monotonic state machine: once an appointment
// leaves Pending it never returns, and terminal states are final.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_state")
}

// CanCancel reports whether a client may still cancel the appointment.
func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}
