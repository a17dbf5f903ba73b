package settlement

import "time"

// Month is the settlement target month. It carries the UTC midnight of the
// first day and is the only time boundary the engine knows about; callers
// decide what "current month" means.
type Month struct {
	start time.Time
}

// ParseMonth parses a YYYY-MM string into a Month.
func ParseMonth(value string) (Month, error) {
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{start: time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)}, nil
}

// MonthOf returns the Month containing the given instant.
func MonthOf(at time.Time) Month {
	at = at.UTC()
	return Month{start: time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// Start returns the first day of the month at UTC midnight.
func (m Month) Start() time.Time { return m.start }

// End returns the last day of the month at UTC midnight. The boundary is
// inclusive for date-only comparisons.
func (m Month) End() time.Time {
	return m.start.AddDate(0, 1, -1)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.End().Day()
}

// Contains reports whether a date (compared date-only) falls inside the month.
func (m Month) Contains(date time.Time) bool {
	if m.IsZero() || date.IsZero() {
		return false
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(m.start) && !day.After(m.End())
}

// IsZero reports whether the month is unset.
func (m Month) IsZero() bool { return m.start.IsZero() }

// String returns the YYYY-MM form.
func (m Month) String() string { return m.start.Format("2006-01") }
