package holidays

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

// DefaultRules are the holidays that move curbside collection
var DefaultRules = []*cal.Holiday{
	us.NewYear,
	us.MemorialDay,
	us.IndependenceDay,
	us.LaborDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// ResolveObservedDate returns the concrete date of rule in year.
// The actual date is used: a holiday on a weekend is not moved to a weekday,
// it simply never shifts collection. ok is false when the rule does not apply that year.
func ResolveObservedDate(rule *cal.Holiday, year int) (month time.Month, day int, ok bool) {
	actual, _ := rule.Calc(year)
	if actual.IsZero() {
		return 0, 0, false
	}
	return actual.Month(), actual.Day(), true
}

// BuildTable resolves every rule for year into a holiday table
func BuildTable(year int, rules []*cal.Holiday) (*schedule.Table, error) {
	list := make([]schedule.Holiday, 0, len(rules))
	for _, rule := range rules {
		month, day, ok := ResolveObservedDate(rule, year)
		if !ok {
			continue
		}
		list = append(list, schedule.Holiday{Name: rule.Name, Month: month, Day: day})
	}
	return schedule.NewTable(year, list)
}
