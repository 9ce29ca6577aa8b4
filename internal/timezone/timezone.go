package timezone

import "time"

// The shop is single-tenant; all dates and clock values are interpreted
// in its local timezone.
const DefaultTimezone = "Asia/Manila"

func Location() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location())
}

// Today returns the current date in the shop timezone, ISO formatted.
func Today() string {
	return Now().Format("2006-01-02")
}
