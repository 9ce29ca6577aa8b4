package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

type Mailer interface {
	Send(to string, subject string, htmlBody string) error
}

// SMTPMailer sends HTML email through a single SMTP relay (Gmail app
// password in production, Mailpit locally).
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@marmushop.local"
	}
	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%s", host, port),
		host:     host,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) Send(to string, subject string, htmlBody string) error {
	msg := buildMessage(m.from, to, subject, htmlBody)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(m.addr, auth, envelopeAddress(m.from), []string{to}, []byte(msg))
}

func buildMessage(from, to, subject, htmlBody string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		htmlBody,
	)
}

// envelopeAddress strips an RFC 5322 display name: the SMTP envelope
// wants the bare address.
func envelopeAddress(from string) string {
	if open := strings.LastIndex(from, "<"); open >= 0 {
		if close := strings.LastIndex(from, ">"); close > open {
			return from[open+1 : close]
		}
	}
	return from
}
