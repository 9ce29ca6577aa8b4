package booking

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used everywhere a date is
// stored or compared. Lexicographic order equals chronological order.
const DateLayout = "2006-01-02"

// Clock is a time-of-day normalized to one internal representation.
// Slot times reach the system both as 24h strings ("14:00") and as 12h
// labels ("2:00 PM"); routing every value through Clock makes both forms
// compare as the same slot.
type Clock struct {
	Hour   int
	Minute int
}

var clockLayouts = []string{"15:04", "3:04 PM", "03:04 PM", "15:04:05"}

func ParseClock(s string) (Clock, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return Clock{}, fmt.Errorf("unrecognized clock value %q", s)
}

// Storage is the canonical 24h form persisted in the database.
func (c Clock) Storage() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Label is the display form returned to clients: "9:00 AM", "2:00 PM".
func (c Clock) Label() string {
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if c.Hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute, suffix)
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// NormalizeStorage parses any accepted clock form and returns the
// canonical storage form.
func NormalizeStorage(s string) (string, error) {
	c, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return c.Storage(), nil
}
