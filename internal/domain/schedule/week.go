package schedule

import "time"

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Week is an inclusive calendar-week boundary [Start, End].
// Both ends are dates at UTC midnight.
type Week struct {
	Start time.Time
	End   time.Time
}

// DateOf truncates t to its calendar date (in t's own location) at UTC midnight
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekOf returns the week containing date, starting on firstDay
func WeekOf(date time.Time, firstDay time.Weekday) Week {
	d := DateOf(date)
	offset := (int(d.Weekday()) - int(firstDay) + 7) % 7
	start := d.AddDate(0, 0, -offset)
	return Week{Start: start, End: start.AddDate(0, 0, 6)}
}

// Contains reports whether date falls inside the week
func (w Week) Contains(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the seven dates of the week in order
func (w Week) Days() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}
