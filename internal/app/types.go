package app

import (
	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

// Street is one row of the street schedule
type Street struct {
	Name string `json:"name"`
	Day  string `json:"day"`
}

// EventView is a collection event as exported to clients
type EventView struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsRecycling bool   `json:"isRecycling"`
	IsAdjusted  bool   `json:"isAdjusted"`
}

// DayView is one cell of the calendar grid
type DayView struct {
	Date        string `json:"date"`
	Day         int    `json:"day"`
	Weekday     int    `json:"weekday"`
	IsPickup    bool   `json:"isPickup"`
	IsAdjusted  bool   `json:"isAdjusted"`
	IsHoliday   bool   `json:"isHoliday"`
	IsRecycling bool   `json:"isRecycling"`
	IsToday     bool   `json:"isToday"`
	Title       string `json:"title,omitempty"`
}

// EventTitle returns the calendar summary of an event
func EventTitle(e schedule.Event) string {
	if e.IsRecycling {
		return "Trash & Recycling Collection"
	}
	return "Trash Collection"
}

// EventDescription explains the event, mentioning holiday adjustments first
func EventDescription(e schedule.Event) string {
	switch {
	case e.IsAdjusted:
		return "Collection day adjusted due to holiday"
	case e.IsRecycling:
		return "Trash and recycling collection"
	default:
		return "Trash collection only"
	}
}

// NewEventView converts an engine event for JSON output
func NewEventView(e schedule.Event) EventView {
	return EventView{
		Date:        e.Date.Format("2006-01-02"),
		Title:       EventTitle(e),
		Description: EventDescription(e),
		IsRecycling: e.IsRecycling,
		IsAdjusted:  e.IsAdjusted,
	}
}

// dayTitle is the tooltip of a grid cell
func dayTitle(d schedule.Day) string {
	switch {
	case d.IsHolidayAffectingPickup:
		return d.HolidayName + " - Pickup pushed back 1 day"
	case d.IsHoliday:
		return d.HolidayName
	case d.IsPickup:
		title := "Trash Collection Only"
		if d.IsRecycling {
			title = "Trash & Recycling Collection"
		}
		if d.IsAdjusted {
			title += " (Adjusted for holiday)"
		}
		return title
	}
	return ""
}
