package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	table, err := NewTable(2025, []Holiday{
		{"Christmas Day", time.December, 25},
		{"New Year's Day", time.January, 1},
		{"Independence Day", time.July, 4},
	})
	require.NoError(t, err)

	assert.Equal(t, 2025, table.Year())
	assert.Equal(t, []Holiday{
		{"New Year's Day", time.January, 1},
		{"Independence Day", time.July, 4},
		{"Christmas Day", time.December, 25},
	}, table.Holidays())
	assert.Equal(t, []Holiday{{"Independence Day", time.July, 4}}, table.InMonth(time.July))
	assert.Empty(t, table.InMonth(time.March))

	h, ok := table.HolidayOn(Date(2025, time.July, 4))
	assert.True(t, ok)
	assert.Equal(t, "Independence Day", h.Name)

	_, ok = table.HolidayOn(Date(2026, time.July, 4))
	assert.False(t, ok, "tables are scoped to one year")
}

func TestNewTable_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		holidays []Holiday
	}{
		{"Month out of range", []Holiday{{"Bad", 13, 1}}},
		{"Day zero", []Holiday{{"Bad", time.March, 0}}},
		{"No leap day", []Holiday{{"Leap", time.February, 29}}},
		{"Duplicate date", []Holiday{{"A", time.May, 1}, {"B", time.May, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(2025, tt.holidays)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestTable_HolidaysIsACopy(t *testing.T) {
	table, err := NewTable(2025, []Holiday{{"New Year's Day", time.January, 1}})
	require.NoError(t, err)

	got := table.Holidays()
	got[0].Name = "changed"
	assert.Equal(t, "New Year's Day", table.Holidays()[0].Name)
}
