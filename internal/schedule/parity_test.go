package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRecyclingWeek_Blocks(t *testing.T) {
	for year := 2020; year <= 2032; year++ {
		assert.False(t, IsRecyclingWeek(Date(year, time.January, 1)), "%d: week of January 1", year)

		start := WeekStart(year)
		assert.Equal(t, time.Sunday, start.Weekday())
		assert.False(t, start.After(Date(year, time.January, 1)))

		for d := Date(year, time.January, 1); d.Year() == year; d = d.AddDate(0, 0, 1) {
			block := int(d.Sub(start)/day) / 7
			blockStart := start.AddDate(0, 0, block*7)

			// constant within the block, computed against the block's Sunday
			if blockStart.Year() == year {
				assert.Equal(t, IsRecyclingWeek(blockStart), IsRecyclingWeek(d), d)
			}
			// alternates with the previous block
			prev := d.AddDate(0, 0, -7)
			if prev.Year() == year {
				assert.NotEqual(t, IsRecyclingWeek(prev), IsRecyclingWeek(d), d)
			}
		}
	}
}

func TestIsRecyclingWeek_2025(t *testing.T) {
	tests := []struct {
		date time.Time
		want bool
	}{
		{Date(2025, time.January, 1), false},
		{Date(2025, time.January, 4), false},
		{Date(2025, time.January, 5), true},
		{Date(2025, time.January, 11), true},
		{Date(2025, time.January, 12), false},
		{Date(2025, time.November, 27), true},
		{Date(2025, time.November, 28), true},
		{Date(2025, time.December, 31), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRecyclingWeek(tt.date), tt.date.Format("2006-01-02"))
	}
}

func TestWeekNumber(t *testing.T) {
	assert.Equal(t, 1, WeekNumber(Date(2025, time.January, 1)))
	assert.Equal(t, 2, WeekNumber(Date(2025, time.January, 5)))
	// 2023 starts on a Sunday
	assert.Equal(t, 1, WeekNumber(Date(2023, time.January, 7)))
	assert.Equal(t, 2, WeekNumber(Date(2023, time.January, 8)))
	assert.Equal(t, 53, WeekNumber(Date(2025, time.December, 31)))
}

func TestIsRecyclingWeek_IgnoresDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// the week after the March switch to daylight time
	local := time.Date(2025, time.March, 9, 0, 30, 0, 0, ny)
	assert.Equal(t, IsRecyclingWeek(Date(2025, time.March, 9)), IsRecyclingWeek(local))
}
