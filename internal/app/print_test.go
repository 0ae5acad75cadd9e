package app

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

func TestGeneratePrintHTML(t *testing.T) {
	table, err := schedule.NewTable(2025, []schedule.Holiday{
		{Name: "Thanksgiving Day", Month: time.November, Day: 27},
		{Name: "Christmas Day", Month: time.December, Day: 25},
	})
	require.NoError(t, err)
	engine := schedule.NewEngine(table)

	var b strings.Builder
	err = GeneratePrintHTML(&b, engine, Street{Name: "OAK AVE", Day: "Thursday"}, 2025, time.November)
	require.NoError(t, err)

	out := b.String()
	assert.Contains(t, out, "Oak Ave - Thursday Pickup")
	assert.Contains(t, out, "November 2025")
	assert.Contains(t, out, "December 2025")
	assert.NotContains(t, out, "October 2025")
	assert.Equal(t, 2, strings.Count(out, `class="month-calendar"`))

	// November 2025 starts on a Saturday, December on a Monday
	assert.Equal(t, 6+1, strings.Count(out, `class="print-day empty"`))

	assert.Contains(t, out, `<div class="print-day holiday">27</div>`)
	assert.Contains(t, out, `<div class="print-day pickup recycling">28</div>`)
}

func TestGeneratePrintHTMLUnknownDay(t *testing.T) {
	var b strings.Builder
	err := GeneratePrintHTML(&b, schedule.NewEngine(nil), Street{Name: "Oak Ave", Day: "Sunday"}, 2025, time.January)
	assert.Error(t, err)
}

func TestPrintClasses(t *testing.T) {
	assert.Equal(t, "print-day", printClasses(schedule.Day{IsRecycling: true}))
	assert.Equal(t, "print-day pickup recycling", printClasses(schedule.Day{IsPickup: true, IsRecycling: true}))
	assert.Equal(t, "print-day holiday", printClasses(schedule.Day{IsHoliday: true}))
}
