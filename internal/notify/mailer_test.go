package notify

import (
	"strings"
	"testing"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage(
		"Marmu Barber & Tattoo Shop <no-reply@marmushop.local>",
		"ana@example.com",
		"Your OTP",
		"<p>123456</p>",
	)

	for _, want := range []string{
		"From: Marmu Barber & Tattoo Shop <no-reply@marmushop.local>\r\n",
		"To: ana@example.com\r\n",
		"Subject: Your OTP\r\n",
		"Content-Type: text/html; charset=utf-8\r\n",
		"\r\n\r\n<p>123456</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestEnvelopeAddress(t *testing.T) {
	cases := map[string]string{
		"Marmu Barber & Tattoo Shop <no-reply@marmushop.local>": "no-reply@marmushop.local",
		"no-reply@marmushop.local":                              "no-reply@marmushop.local",
	}
	for in, want := range cases {
		if got := envelopeAddress(in); got != want {
			t.Errorf("envelopeAddress(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusBodyMentionsDetails(t *testing.T) {
	body := statusBody("Ana Cruz", "Approved", "haircut", "2026-09-02", "10:00 AM", "Marco Reyes")

	for _, want := range []string{"Ana Cruz", "Approved", "haircut", "2026-09-02", "10:00 AM", "Marco Reyes"} {
		if !strings.Contains(body, want) {
			t.Errorf("status body missing %q", want)
		}
	}
}
