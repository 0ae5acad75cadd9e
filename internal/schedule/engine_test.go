package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// years joins several single-year tables into one source
type years map[int]*Table

func (y years) HolidayOn(date time.Time) (Holiday, bool) {
	return y[date.Year()].HolidayOn(date)
}

func mustTable(t *testing.T, year int, holidays ...Holiday) *Table {
	t.Helper()
	table, err := NewTable(year, holidays)
	require.NoError(t, err)
	return table
}

func townHolidays(t *testing.T) years {
	t.Helper()
	return years{
		2024: mustTable(t, 2024,
			Holiday{"New Year's Day", time.January, 1},
			Holiday{"Memorial Day", time.May, 27},
			Holiday{"Independence Day", time.July, 4},
			Holiday{"Labor Day", time.September, 2},
			Holiday{"Thanksgiving Day", time.November, 28},
			Holiday{"Christmas Day", time.December, 25},
		),
		2025: mustTable(t, 2025,
			Holiday{"New Year's Day", time.January, 1},
			Holiday{"Memorial Day", time.May, 26},
			Holiday{"Independence Day", time.July, 4},
			Holiday{"Labor Day", time.September, 1},
			Holiday{"Thanksgiving Day", time.November, 27},
			Holiday{"Christmas Day", time.December, 25},
		),
		2026: mustTable(t, 2026,
			Holiday{"New Year's Day", time.January, 1},
			Holiday{"Memorial Day", time.May, 25},
			Holiday{"Independence Day", time.July, 4},
			Holiday{"Labor Day", time.September, 7},
			Holiday{"Thanksgiving Day", time.November, 26},
			Holiday{"Christmas Day", time.December, 25},
		),
	}
}

func dates(events []Event) []time.Time {
	out := make([]time.Time, len(events))
	for i, e := range events {
		out[i] = e.Date
	}
	return out
}

func TestGenerateEvents_Thanksgiving2025(t *testing.T) {
	engine := NewEngine(townHolidays(t))

	events, err := engine.GenerateEvents(time.Thursday, 2025, time.November, time.November)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		Date(2025, time.November, 6),
		Date(2025, time.November, 13),
		Date(2025, time.November, 20),
		Date(2025, time.November, 28),
	}, dates(events))

	last := events[len(events)-1]
	assert.True(t, last.IsAdjusted)
	for _, e := range events[:3] {
		assert.False(t, e.IsAdjusted, e.Date)
	}

	// parity follows the original Thursday
	assert.Equal(t, IsRecyclingWeek(Date(2025, time.November, 27)), last.IsRecycling)
	assert.Equal(t, IsRecyclingWeek(Date(2025, time.November, 27)), IsRecyclingWeek(Date(2025, time.November, 28)))

	thanksgiving, err := engine.Classify(Date(2025, time.November, 27), time.Thursday)
	require.NoError(t, err)
	assert.False(t, thanksgiving.IsPickup)
	assert.True(t, thanksgiving.IsPostponed)
	assert.True(t, thanksgiving.IsHoliday)
	assert.True(t, thanksgiving.IsHolidayAffectingPickup)
	assert.Equal(t, "Thanksgiving Day", thanksgiving.HolidayName)
}

func TestGenerateEvents_NewYear2025(t *testing.T) {
	engine := NewEngine(townHolidays(t))

	events, err := engine.GenerateEvents(time.Wednesday, 2025, time.January, time.January)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		Date(2025, time.January, 2),
		Date(2025, time.January, 8),
		Date(2025, time.January, 15),
		Date(2025, time.January, 22),
		Date(2025, time.January, 29),
	}, dates(events))

	assert.True(t, events[0].IsAdjusted)
	assert.False(t, events[0].IsRecycling, "week 1 is trash only")
	assert.True(t, events[1].IsRecycling)
	assert.False(t, events[2].IsRecycling)
}

func TestIsShiftedPickupDay(t *testing.T) {
	engine := NewEngine(townHolidays(t))

	tests := []struct {
		name   string
		date   time.Time
		pickup time.Weekday
		want   PickupStatus
	}{
		{
			name:   "Plain pickup day",
			date:   Date(2025, time.March, 12),
			pickup: time.Wednesday,
			want:   PickupStatus{IsPickup: true},
		},
		{
			name:   "Day after plain pickup",
			date:   Date(2025, time.March, 13),
			pickup: time.Wednesday,
			want:   PickupStatus{},
		},
		{
			name:   "Memorial Day on the pickup day",
			date:   Date(2025, time.May, 26),
			pickup: time.Monday,
			want:   PickupStatus{Postponed: true},
		},
		{
			name:   "Tuesday after Memorial Day",
			date:   Date(2025, time.May, 27),
			pickup: time.Monday,
			want:   PickupStatus{IsPickup: true, IsAdjusted: true},
		},
		{
			name:   "Friday pickup in Memorial Day week",
			date:   Date(2025, time.May, 30),
			pickup: time.Friday,
			want:   PickupStatus{Postponed: true},
		},
		{
			name:   "Saturday collection after Memorial Day week",
			date:   Date(2025, time.May, 31),
			pickup: time.Friday,
			want:   PickupStatus{IsPickup: true, IsAdjusted: true},
		},
		{
			name:   "Holiday after the pickup day does not shift",
			date:   Date(2025, time.November, 25),
			pickup: time.Tuesday,
			want:   PickupStatus{IsPickup: true},
		},
		{
			name:   "Weekend holiday does not shift",
			date:   Date(2026, time.July, 3),
			pickup: time.Friday,
			want:   PickupStatus{IsPickup: true},
		},
		{
			name:   "Unrelated weekday",
			date:   Date(2025, time.November, 24),
			pickup: time.Thursday,
			want:   PickupStatus{},
		},
		{
			name:   "Saturday pickup shifts into Sunday",
			date:   Date(2025, time.November, 30),
			pickup: time.Saturday,
			want:   PickupStatus{IsPickup: true, IsAdjusted: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.IsShiftedPickupDay(tt.date, tt.pickup)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsShiftedPickupDay_IgnoresClock(t *testing.T) {
	engine := NewEngine(townHolidays(t))
	loc := time.FixedZone("EST", -5*60*60)

	got, err := engine.IsShiftedPickupDay(time.Date(2025, time.November, 28, 23, 30, 0, 0, loc), time.Thursday)
	require.NoError(t, err)
	assert.Equal(t, PickupStatus{IsPickup: true, IsAdjusted: true}, got)
}

func TestIsHolidayAffectingPickup(t *testing.T) {
	engine := NewEngine(townHolidays(t))

	assert.True(t, engine.IsHolidayAffectingPickup(Date(2025, time.July, 4)))
	assert.False(t, engine.IsHolidayAffectingPickup(Date(2026, time.July, 4)), "Saturday")
	assert.False(t, engine.IsHolidayAffectingPickup(Date(2025, time.July, 3)))
	assert.False(t, NewEngine(nil).IsHolidayAffectingPickup(Date(2025, time.July, 4)))
}

func TestGenerateEvents_OneCollectionPerWeek(t *testing.T) {
	holidays := townHolidays(t)
	engine := NewEngine(holidays)

	for _, year := range []int{2024, 2025, 2026} {
		for pickup := time.Monday; pickup <= time.Friday; pickup++ {
			events, err := engine.GenerateEvents(pickup, year, time.January, time.December)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, len(events), 50, "%d %s", year, pickup)
			assert.LessOrEqual(t, len(events), 53, "%d %s", year, pickup)

			var want []Event
			for sunday := WeekStart(year); sunday.Year() <= year; sunday = sunday.AddDate(0, 0, 7) {
				nominal := sunday.AddDate(0, 0, int(pickup))
				shifted := false
				for d := sunday; !d.After(nominal); d = d.AddDate(0, 0, 1) {
					if _, ok := holidays.HolidayOn(d); ok && d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
						shifted = true
					}
				}
				actual := nominal
				if shifted {
					actual = nominal.AddDate(0, 0, 1)
				}
				if actual.Year() != year {
					continue
				}
				want = append(want, Event{
					Date:        actual,
					IsRecycling: IsRecyclingWeek(nominal),
					IsAdjusted:  shifted,
				})
			}

			assert.Equal(t, want, events, "%d %s", year, pickup)

			perWeek := map[int]int{}
			for _, e := range events {
				perWeek[WeekNumber(e.Date)]++
			}
			for week, n := range perWeek {
				assert.Equal(t, 1, n, "%d %s week %d", year, pickup, week)
			}
		}
	}
}

func TestGenerateEvents_Deterministic(t *testing.T) {
	engine := NewEngine(townHolidays(t))

	first, err := engine.GenerateEvents(time.Tuesday, 2025, time.March, time.December)
	require.NoError(t, err)
	second, err := engine.GenerateEvents(time.Tuesday, 2025, time.March, time.December)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Date(2025, time.March, 4), first[0].Date)
}

func TestGenerateEvents_ShiftFromPreviousMonth(t *testing.T) {
	holidays := years{
		2025: mustTable(t, 2025, Holiday{"Halloween", time.October, 31}),
	}
	engine := NewEngine(holidays)

	// Friday Oct 31 pushes collection to Saturday Nov 1
	events, err := engine.GenerateEvents(time.Friday, 2025, time.November, time.November)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, Date(2025, time.November, 1), events[0].Date)
	assert.True(t, events[0].IsAdjusted)
}

func TestGenerateEvents_SecondHolidayInWeekKeepsSingleShift(t *testing.T) {
	holidays := years{
		2025: mustTable(t, 2025,
			Holiday{"Thanksgiving Day", time.November, 27},
			Holiday{"Day after Thanksgiving", time.November, 28},
		),
	}
	engine := NewEngine(holidays)

	events, err := engine.GenerateEvents(time.Thursday, 2025, time.November, time.November)
	require.NoError(t, err)
	assert.Equal(t, Date(2025, time.November, 28), events[len(events)-1].Date)
	assert.True(t, events[len(events)-1].IsAdjusted)
}

func TestGenerateEvents_WeekendPickupDoesNotFail(t *testing.T) {
	engine := NewEngine(townHolidays(t))

	for _, pickup := range []time.Weekday{time.Saturday, time.Sunday} {
		events, err := engine.GenerateEvents(pickup, 2025, time.January, time.December)
		require.NoError(t, err)
		assert.NotEmpty(t, events)
	}
}

func TestGenerateEvents_InvalidInput(t *testing.T) {
	engine := NewEngine(nil)

	tests := []struct {
		name   string
		pickup time.Weekday
		from   time.Month
		to     time.Month
	}{
		{"Weekday too large", 7, time.January, time.December},
		{"Negative weekday", -1, time.January, time.December},
		{"Month zero", time.Monday, 0, time.December},
		{"Month thirteen", time.Monday, time.January, 13},
		{"Reversed range", time.Monday, time.June, time.May},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.GenerateEvents(tt.pickup, 2025, tt.from, tt.to)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := engine.IsShiftedPickupDay(Date(2025, time.May, 1), 9)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = engine.Month(2025, 0, time.Monday)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMonth(t *testing.T) {
	engine := NewEngine(townHolidays(t))

	days, err := engine.Month(2025, time.July, time.Friday)
	require.NoError(t, err)
	require.Len(t, days, 31)

	july4 := days[3]
	assert.Equal(t, Date(2025, time.July, 4), july4.Date)
	assert.True(t, july4.IsHoliday)
	assert.True(t, july4.IsPostponed)
	assert.False(t, july4.IsPickup)

	july5 := days[4]
	assert.True(t, july5.IsPickup)
	assert.True(t, july5.IsAdjusted)

	pickups := 0
	for _, d := range days {
		if d.IsPickup {
			pickups++
		}
	}
	assert.Equal(t, 4, pickups)
}
