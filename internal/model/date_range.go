package model

import (
	"fmt"
	"time"
)

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := truncateDay(start), truncateDay(end)
	if s.After(e) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidPeriod, s.Format(DisplayLayout), e.Format(DisplayLayout))
	}
	return DateRange{Start: s, End: e}, nil
}

const secondsPerDay = 24 * 60 * 60

// Len counts calendar days from Unix seconds; time.Duration would saturate
// on ranges longer than about 292 years.
func (dr DateRange) Len() int {
	return int((dr.End.Unix()-dr.Start.Unix())/secondsPerDay) + 1
}

// Days returns a new ascending slice on every call.
func (dr DateRange) Days() []time.Time {
	n := dr.Len()
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, dr.Start.AddDate(0, 0, i))
	}
	return days
}

func (dr DateRange) String() string {
	return dr.Start.Format(DisplayLayout) + " - " + dr.End.Format(DisplayLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
