package booking

import "time"

// BusinessHours is the shop's weekly schedule. Off-day and half-day are
// configuration values, not inferred logic.
type BusinessHours struct {
	OpenHour    int
	CloseHour   int
	HalfDayHour int
	HalfDay     time.Weekday
	OffDay      time.Weekday
}

func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		OpenHour:    9,
		CloseHour:   21,
		HalfDayHour: 17,
		HalfDay:     time.Saturday,
		OffDay:      time.Sunday,
	}
}

// DefaultSlots enumerates hourly slot starts for the date's weekday, in
// chronological order. Open hour inclusive, closing hour exclusive.
// The off-day yields no slots.
func (b BusinessHours) DefaultSlots(date time.Time) []Clock {
	wd := date.Weekday()
	if wd == b.OffDay {
		return nil
	}

	end := b.CloseHour
	if wd == b.HalfDay {
		end = b.HalfDayHour
	}

	slots := make([]Clock, 0, end-b.OpenHour)
	for h := b.OpenHour; h < end; h++ {
		slots = append(slots, Clock{Hour: h})
	}
	return slots
}
