package schedule

import (
	"fmt"
	"sort"
	"time"
)

// Holiday is a fixed calendar date for one year
type Holiday struct {
	Name  string     `json:"name"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// HolidaySource answers whether a civil date is a holiday
type HolidaySource interface {
	HolidayOn(date time.Time) (Holiday, bool)
}

type monthDay struct {
	month time.Month
	day   int
}

// Table is the read-only holiday list of a single year
type Table struct {
	year     int
	holidays []Holiday
	byDate   map[monthDay]Holiday
}

// NewTable validates the holidays against the year and builds a table
func NewTable(year int, holidays []Holiday) (*Table, error) {
	t := &Table{
		year:     year,
		holidays: make([]Holiday, 0, len(holidays)),
		byDate:   make(map[monthDay]Holiday, len(holidays)),
	}

	for _, h := range holidays {
		if h.Month < time.January || h.Month > time.December {
			return nil, fmt.Errorf("%w: holiday %q has month %d", ErrInvalidInput, h.Name, h.Month)
		}
		// time.Date normalizes Feb 30 to Mar 2, so compare after the round trip
		d := time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
		if h.Day < 1 || d.Month() != h.Month {
			return nil, fmt.Errorf("%w: holiday %q has no day %d in %s %d", ErrInvalidInput, h.Name, h.Day, h.Month, year)
		}

		key := monthDay{h.Month, h.Day}
		if prev, dup := t.byDate[key]; dup {
			return nil, fmt.Errorf("%w: %q and %q share %s %d", ErrInvalidInput, prev.Name, h.Name, h.Month, h.Day)
		}
		t.byDate[key] = h
		t.holidays = append(t.holidays, h)
	}

	sort.Slice(t.holidays, func(i, j int) bool {
		if t.holidays[i].Month != t.holidays[j].Month {
			return t.holidays[i].Month < t.holidays[j].Month
		}
		return t.holidays[i].Day < t.holidays[j].Day
	})

	return t, nil
}

// Year returns the year the table is valid for
func (t *Table) Year() int {
	return t.year
}

// Holidays returns a copy of the holidays ordered by date
func (t *Table) Holidays() []Holiday {
	out := make([]Holiday, len(t.holidays))
	copy(out, t.holidays)
	return out
}

// InMonth returns the holidays of one month
func (t *Table) InMonth(month time.Month) []Holiday {
	var out []Holiday
	for _, h := range t.holidays {
		if h.Month == month {
			out = append(out, h)
		}
	}
	return out
}

// HolidayOn reports the holiday on date. Dates outside the table's year never match.
func (t *Table) HolidayOn(date time.Time) (Holiday, bool) {
	if t == nil || date.Year() != t.year {
		return Holiday{}, false
	}
	h, ok := t.byDate[monthDay{date.Month(), date.Day()}]
	return h, ok
}
