package league

import (
	"time"
)

// Season is the calendar the league scores against
type Season struct {
	Year  int
	Start time.Time
}

// NewSeason normalizes start to UTC midnight
func NewSeason(year int, start time.Time) Season {
	return Season{Year: year, Start: Day(start)}
}

// DaysElapsed returns whole days between season start and date (0 on opening day)
func (s Season) DaysElapsed(date time.Time) int {
	return int(Day(date).Sub(s.Start).Hours() / 24)
}

// WeekNumber returns the 1-based week index for date.
// Opening day through day six is week 1 and day seven starts week 2: floor(days/7)+1.
// For any time after midnight this equals the ceiling of elapsed time over seven days;
// whole calendar days are used so the label never depends on when the job runs.
// Dates before the start also report week 1.
func (s Season) WeekNumber(date time.Time) int {
	days := s.DaysElapsed(date)
	if days < 0 {
		return 1
	}
	return days/7 + 1
}

// Dates enumerates every calendar day from season start through end, inclusive
func (s Season) Dates(end time.Time) []time.Time {
	return Dates(s.Start, end)
}

// Dates enumerates every calendar day from start through end, inclusive.
// Reversed bounds are swapped.
func Dates(start, end time.Time) []time.Time {
	if end.Before(start) {
		start, end = end, start
	}

	var dates []time.Time
	current := Day(start)
	final := Day(end)

	for !current.After(final) {
		dates = append(dates, current)
		current = current.AddDate(0, 0, 1)
	}

	return dates
}

// Day truncates t to its calendar date at UTC midnight
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
