package booking

// Notifier delivers appointment status emails. Implementations are
// fire-and-forget: delivery failure never propagates into a booking or
// cancellation outcome.
type Notifier interface {
	AppointmentStatusChanged(
		email string,
		fullname string,
		status string,
		service string,
		date string,
		timeLabel string,
		staffName string,
	)
}
