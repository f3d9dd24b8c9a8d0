package domain

import "time"

const DateLayout = "2006-01-02"

// DailyReport summarizes the sales of one calendar day.
type DailyReport struct {
	Date         time.Time
	TotalRevenue float64
	TotalItems   int64
}

// DayBounds returns the first and last instant of day's calendar date in
// day's own location: 00:00:00 and 23:59:59.999999. No zone conversion
// is applied.
func DayBounds(day time.Time) (start, end time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	end = time.Date(y, m, d, 23, 59, 59, 999999000, loc)
	return start, end
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, NewValidationError("date", "must be an ISO date (YYYY-MM-DD)", s)
	}
	return t, nil
}
