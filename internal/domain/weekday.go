package domain

import (
	"strings"
	"time"
)

// Weekday is a day of the week with Monday = 0 .. Sunday = 6,
// matching the numbering in the best-time table.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[string]Weekday{
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
	"sunday":    Sunday,
}

func (w Weekday) String() string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if w < Monday || w > Sunday {
		return "Unknown"
	}
	return names[w]
}

// ParseWeekday parses a full English weekday name, case-insensitively.
func ParseWeekday(name string) (Weekday, error) {
	w, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, ErrUnknownWeekday
	}
	return w, nil
}

// WeekdayOf returns the Monday-based weekday of t.
// time.Weekday counts from Sunday, the schedule tables count from Monday.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}
