package timeslot_test

import (
	"testing"
	"time"

	"github.com/kamgaa/lab-reservation/pkg/timeslot"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    timeslot.TimeOfDay
		wantErr error
	}{
		{name: "midnight", in: "00:00", want: 0},
		{name: "half past nine", in: "09:30", want: 570},
		{name: "last slot", in: "23:30", want: 1410},
		{name: "end of day", in: "24:00", want: timeslot.MinutesPerDay},
		{name: "unaligned but well formed", in: "09:15", want: 555},
		{name: "garbage", in: "nine", wantErr: timeslot.ErrInvalidTimeOfDay},
		{name: "out of range", in: "25:00", wantErr: timeslot.ErrInvalidTimeOfDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timeslot.ParseTimeOfDay(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_StringAndAlignment(t *testing.T) {
	require.Equal(t, "09:05", timeslot.At(9, 5).String())
	require.Equal(t, "24:00", timeslot.TimeOfDay(timeslot.MinutesPerDay).String())

	require.True(t, timeslot.At(10, 30).Aligned(30))
	require.True(t, timeslot.TimeOfDay(timeslot.MinutesPerDay).Aligned(30))
	require.False(t, timeslot.At(9, 15).Aligned(30))
	require.True(t, timeslot.At(9, 15).Aligned(15))
	require.False(t, timeslot.TimeOfDay(-30).Aligned(30))
	require.False(t, timeslot.TimeOfDay(1470).Aligned(30))
	require.False(t, timeslot.At(9, 0).Aligned(0))

	require.Equal(t, 0, timeslot.At(0, 0).Slot(30))
	require.Equal(t, 47, timeslot.At(23, 30).Slot(30))
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		day        time.Time
		wantMonday time.Time
	}{
		{name: "monday", day: timeslot.Date(2024, time.June, 10), wantMonday: timeslot.Date(2024, time.June, 10)},
		{name: "wednesday", day: timeslot.Date(2024, time.June, 12), wantMonday: timeslot.Date(2024, time.June, 10)},
		{name: "sunday belongs to previous monday", day: timeslot.Date(2024, time.June, 16), wantMonday: timeslot.Date(2024, time.June, 10)},
		{name: "across month boundary", day: timeslot.Date(2024, time.July, 2), wantMonday: timeslot.Date(2024, time.July, 1)},
		{name: "across year boundary", day: timeslot.Date(2025, time.January, 1), wantMonday: timeslot.Date(2024, time.December, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monday, sunday := timeslot.WeekRange(tt.day)
			require.Equal(t, tt.wantMonday, monday)
			require.Equal(t, tt.wantMonday.AddDate(0, 0, 6), sunday)
			require.Equal(t, time.Sunday, sunday.Weekday())
		})
	}
}

func TestCivil(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)

	// 2024-06-10 20:00 UTC is already the 11th in Seoul.
	instant := time.Date(2024, time.June, 10, 20, 0, 0, 0, time.UTC)
	require.Equal(t, timeslot.Date(2024, time.June, 11), timeslot.Civil(instant, seoul))
	require.Equal(t, timeslot.Date(2024, time.June, 10), timeslot.Civil(instant, time.UTC))

	at := timeslot.Instant(timeslot.Date(2024, time.June, 11), timeslot.At(9, 30), seoul)
	require.Equal(t, time.Date(2024, time.June, 11, 0, 30, 0, 0, time.UTC), at.UTC())
}

func TestInterval_Overlaps(t *testing.T) {
	day := timeslot.Date(2024, time.June, 10)
	existing := timeslot.Interval{Date: day, Start: timeslot.At(9, 0), End: timeslot.At(10, 0)}

	tests := []struct {
		name string
		iv   timeslot.Interval
		want bool
	}{
		{name: "partial overlap", iv: timeslot.Interval{Date: day, Start: timeslot.At(9, 30), End: timeslot.At(10, 30)}, want: true},
		{name: "contained", iv: timeslot.Interval{Date: day, Start: timeslot.At(9, 0), End: timeslot.At(9, 30)}, want: true},
		{name: "containing", iv: timeslot.Interval{Date: day, Start: timeslot.At(8, 0), End: timeslot.At(11, 0)}, want: true},
		{name: "touching after", iv: timeslot.Interval{Date: day, Start: timeslot.At(10, 0), End: timeslot.At(11, 0)}, want: false},
		{name: "touching before", iv: timeslot.Interval{Date: day, Start: timeslot.At(8, 0), End: timeslot.At(9, 0)}, want: false},
		{name: "other day", iv: timeslot.Interval{Date: day.AddDate(0, 0, 1), Start: timeslot.At(9, 0), End: timeslot.At(10, 0)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, existing.Overlaps(tt.iv))
			require.Equal(t, tt.want, tt.iv.Overlaps(existing))
		})
	}

	require.Equal(t, 60, existing.Minutes())
	require.Equal(t, time.Hour, existing.Duration())
}
