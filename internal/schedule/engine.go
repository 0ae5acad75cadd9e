package schedule

import (
	"fmt"
	"time"
)

// PickupStatus classifies one date under a nominal pickup weekday
type PickupStatus struct {
	IsPickup   bool
	IsAdjusted bool
	// Postponed marks a nominal pickup day whose collection moved to the next day
	Postponed bool
}

// Event is a single collection day
type Event struct {
	Date        time.Time `json:"date"`
	IsRecycling bool      `json:"isRecycling"`
	IsAdjusted  bool      `json:"isAdjusted"`
}

// Day is everything a calendar cell needs to know about a date
type Day struct {
	Date                     time.Time `json:"date"`
	IsPickup                 bool      `json:"isPickup"`
	IsAdjusted               bool      `json:"isAdjusted"`
	IsPostponed              bool      `json:"isPostponed"`
	IsHoliday                bool      `json:"isHoliday"`
	IsHolidayAffectingPickup bool      `json:"isHolidayAffectingPickup"`
	HolidayName              string    `json:"holidayName,omitempty"`
	IsRecycling              bool      `json:"isRecycling"`
}

// Engine resolves pickup dates against a holiday source.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	holidays HolidaySource
}

// NewEngine creates an engine. A nil source means no holidays.
func NewEngine(holidays HolidaySource) *Engine {
	return &Engine{holidays: holidays}
}

func (e *Engine) holidayOn(date time.Time) (Holiday, bool) {
	if e.holidays == nil {
		return Holiday{}, false
	}
	return e.holidays.HolidayOn(civil(date))
}

// IsHolidayAffectingPickup reports whether date is a holiday on Monday through Friday
func (e *Engine) IsHolidayAffectingPickup(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, ok := e.holidayOn(date)
	return ok
}

// shiftedWeek scans from a nominal pickup date back to that week's Sunday
// and reports whether a qualifying holiday pushes collection one day later.
func (e *Engine) shiftedWeek(nominal time.Time, pickup time.Weekday) bool {
	for i := 0; i <= int(pickup); i++ {
		if e.IsHolidayAffectingPickup(nominal.AddDate(0, 0, -i)) {
			return true
		}
	}
	return false
}

// IsShiftedPickupDay classifies candidate under the nominal pickup weekday.
// Only a single one-day shift is modeled.
func (e *Engine) IsShiftedPickupDay(candidate time.Time, pickup time.Weekday) (PickupStatus, error) {
	if err := validateWeekday(pickup); err != nil {
		return PickupStatus{}, err
	}
	candidate = civil(candidate)

	switch candidate.Weekday() {
	case pickup:
		if e.shiftedWeek(candidate, pickup) {
			return PickupStatus{Postponed: true}, nil
		}
		return PickupStatus{IsPickup: true}, nil
	case (pickup + 1) % 7:
		prev := candidate.AddDate(0, 0, -1)
		if prev.Weekday() == pickup && e.shiftedWeek(prev, pickup) {
			return PickupStatus{IsPickup: true, IsAdjusted: true}, nil
		}
	}
	return PickupStatus{}, nil
}

// Classify returns the calendar cell for date
func (e *Engine) Classify(date time.Time, pickup time.Weekday) (Day, error) {
	status, err := e.IsShiftedPickupDay(date, pickup)
	if err != nil {
		return Day{}, err
	}

	date = civil(date)
	d := Day{
		Date:                     date,
		IsPickup:                 status.IsPickup,
		IsAdjusted:               status.IsAdjusted,
		IsPostponed:              status.Postponed,
		IsHolidayAffectingPickup: e.IsHolidayAffectingPickup(date),
		IsRecycling:              IsRecyclingWeek(nominalDate(date, status)),
	}
	if h, ok := e.holidayOn(date); ok {
		d.IsHoliday = true
		d.HolidayName = h.Name
	}
	return d, nil
}

// Month returns one cell per day of the month
func (e *Engine) Month(year int, month time.Month, pickup time.Weekday) ([]Day, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	if err := validateWeekday(pickup); err != nil {
		return nil, err
	}

	first := Date(year, month, 1)
	days := make([]Day, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		cell, err := e.Classify(d, pickup)
		if err != nil {
			return nil, err
		}
		days = append(days, cell)
	}
	return days, nil
}

// GenerateEvents lists the collection days from fromMonth through toMonth inclusive
func (e *Engine) GenerateEvents(pickup time.Weekday, year int, fromMonth, toMonth time.Month) ([]Event, error) {
	if err := validateWeekday(pickup); err != nil {
		return nil, err
	}
	if err := validateMonth(fromMonth); err != nil {
		return nil, err
	}
	if err := validateMonth(toMonth); err != nil {
		return nil, err
	}
	if fromMonth > toMonth {
		return nil, fmt.Errorf("%w: month range %d-%d is reversed", ErrInvalidInput, int(fromMonth), int(toMonth))
	}

	var events []Event
	end := Date(year, toMonth, 1).AddDate(0, 1, 0)
	for d := Date(year, fromMonth, 1); d.Before(end); d = d.AddDate(0, 0, 1) {
		status, err := e.IsShiftedPickupDay(d, pickup)
		if err != nil {
			return nil, err
		}
		if !status.IsPickup {
			continue
		}
		events = append(events, Event{
			Date:        d,
			IsRecycling: IsRecyclingWeek(nominalDate(d, status)),
			IsAdjusted:  status.IsAdjusted,
		})
	}
	return events, nil
}

// nominalDate maps an adjusted pickup back onto the day it was shifted from,
// so parity always follows the original week.
func nominalDate(date time.Time, status PickupStatus) time.Time {
	if status.IsAdjusted {
		return date.AddDate(0, 0, -1)
	}
	return date
}
