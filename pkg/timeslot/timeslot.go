// Package timeslot is the calendar model of the reservation system: civil dates
// and minute-of-day times quantized to a fixed slot step.
//
// Dates are carried as time.Time values at 00:00 UTC holding the year, month
// and day of the deployment's civil calendar, so they compare and store without
// timezone drift. Times of day are minutes since midnight; 24:00 exists only as
// the end of an interval and nothing ever wraps into the next day.
package timeslot

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinutesPerDay = 24 * 60

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidTimeOfDay = errors.New("INVALID_TIME_OF_DAY")
	ErrInvalidDate      = errors.New("INVALID_DATE")
)

// TimeOfDay is a number of minutes since midnight in [0, 1440].
type TimeOfDay int

// At builds a TimeOfDay from wall-clock components.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM". "24:00" is accepted as the end of the day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if s == "24:00" {
		return MinutesPerDay, nil
	}

	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}

	return At(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t <= MinutesPerDay
}

// Aligned reports whether t falls on a slot boundary of step minutes.
func (t TimeOfDay) Aligned(step int) bool {
	return step > 0 && t.Valid() && int(t)%step == 0
}

// Slot returns the index of the slot starting at t (0..47 for 30-minute steps).
func (t TimeOfDay) Slot(step int) int {
	return int(t) / step
}

// Date returns the civil date y-m-d.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Civil returns the calendar day t falls on in loc.
func Civil(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return Date(t.Year(), t.Month(), t.Day())
}

// Normalize strips the clock and zone from d, keeping its calendar fields.
func Normalize(d time.Time) time.Time {
	return Date(d.Year(), d.Month(), d.Day())
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Instant places t on date in loc's wall clock.
func Instant(date time.Time, t TimeOfDay, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(t)/60, int(t)%60, 0, 0, loc)
}

// WeekRange returns the Monday and Sunday of the ISO week containing d.
func WeekRange(d time.Time) (time.Time, time.Time) {
	d = Normalize(d)
	offset := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// Interval is the half-open range [Start, End) on a single day.
type Interval struct {
	Date  time.Time
	Start TimeOfDay
	End   TimeOfDay
}

func (iv Interval) Minutes() int {
	return int(iv.End - iv.Start)
}

func (iv Interval) Duration() time.Duration {
	return time.Duration(iv.Minutes()) * time.Minute
}

// Overlaps reports whether two intervals share any instant. Intervals that only
// touch at an endpoint do not overlap, and intervals on different days never do.
func (iv Interval) Overlaps(other Interval) bool {
	return SameDay(iv.Date, other.Date) && iv.Start < other.End && other.Start < iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("%s %s-%s", FormatDate(iv.Date), iv.Start, iv.End)
}
