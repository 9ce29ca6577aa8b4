package notify

import (
	"fmt"
	"log"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher decouples email delivery from request handling: messages go
// through a buffered channel to a worker goroutine, and a full queue
// drops the message rather than block the API.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		if err := d.mailer.Send(msg.To, msg.Subject, msg.Body); err != nil {
			log.Println("mail error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
		// queued
	default:
		log.Println("mail queue full, dropping message")
	}
}

// --------------------------------------------------
// High-level notifications
// --------------------------------------------------

func (d *Dispatcher) AppointmentStatusChanged(
	email string,
	fullname string,
	status string,
	service string,
	date string,
	timeLabel string,
	staffName string,
) {
	d.Dispatch(Message{
		To:      email,
		Subject: fmt.Sprintf("Your Appointment has been %s", status),
		Body:    statusBody(fullname, status, service, date, timeLabel, staffName),
	})
}

func (d *Dispatcher) FeedbackReplied(email, username, reply string) {
	d.Dispatch(Message{
		To:      email,
		Subject: "Reply to Your Feedback - " + shopName,
		Body:    feedbackReplyBody(username, reply),
	})
}

// OTPBody renders the one-time-code email. OTP delivery stays
// synchronous in the auth handlers so send failures reach the caller.
func OTPBody(code string, expiryMinutes int) string {
	return otpBody(code, expiryMinutes)
}
