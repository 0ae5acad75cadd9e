package app

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

// writeJSON encodes v and logs encoding failures
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
	}
}

// engineError maps core errors to a response
func engineError(w http.ResponseWriter, err error) {
	if errors.Is(err, schedule.ErrInvalidInput) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("Error resolving schedule: %v", err)
	http.Error(w, ErrInternalServer, http.StatusInternalServerError)
}

// resolveStreet looks up the street query parameter (or name) and its weekday
func (s *Server) resolveStreet(w http.ResponseWriter, name string) (Street, time.Weekday, bool) {
	if name == "" {
		http.Error(w, ErrMissingStreet, http.StatusBadRequest)
		return Street{}, 0, false
	}
	street, ok := s.streets.Lookup(name)
	if !ok {
		http.Error(w, ErrStreetNotFound, http.StatusNotFound)
		return Street{}, 0, false
	}
	_, weekday, err := ParseCollectionDay(street.Day)
	if err != nil {
		log.Printf("Error in street schedule for %q: %v", street.Name, err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return Street{}, 0, false
	}
	return street, weekday, true
}

// defaultFromMonth starts the current year at the current month and other years in January
func (s *Server) defaultFromMonth(year int) time.Month {
	today := s.today()
	if year == today.Year() {
		return today.Month()
	}
	return time.January
}

// ServeIndex serves the lookup page
func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(s.assets.IndexHTML); err != nil {
		log.Printf("Error writing index HTML: %v", err)
	}
}

// GetConfig returns the collection days and the holidays of the requested year
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	year, ok := parseYear(r, today.Year())
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return
	}

	table, err := s.holidays.TableFor(year)
	if err != nil {
		log.Printf("Error loading holidays: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"collectionDays": CollectionDays,
		"currentYear":    today.Year(),
		"currentMonth":   int(today.Month()),
		"year":           year,
		"holidays":       table.Holidays(),
		"editMode":       s.cfg.EditMode,
	})
}

// ListStreets returns every street with its collection day
func (s *Server) ListStreets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.streets.List())
}

// GetSchedule returns the collection day of one street
// Query param: street (exact name, case-insensitive)
func (s *Server) GetSchedule(w http.ResponseWriter, r *http.Request) {
	street, weekday, ok := s.resolveStreet(w, r.URL.Query().Get("street"))
	if !ok {
		return
	}
	writeJSON(w, map[string]interface{}{
		"street":  FormatStreetName(street.Name),
		"day":     street.Day,
		"weekday": int(weekday),
	})
}

// GetMonth returns the calendar grid of one month
// URL: /api/calendar/{month}?street=...&year=2025
func (s *Server) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(mux.Vars(r)["month"], 0)
	if !ok {
		http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
		return
	}
	today := s.today()
	year, ok := parseYear(r, today.Year())
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return
	}
	street, weekday, ok := s.resolveStreet(w, r.URL.Query().Get("street"))
	if !ok {
		return
	}

	days, err := s.engine.Month(year, month, weekday)
	if err != nil {
		engineError(w, err)
		return
	}

	cells := make([]DayView, len(days))
	for i, d := range days {
		cells[i] = DayView{
			Date:        d.Date.Format("2006-01-02"),
			Day:         d.Date.Day(),
			Weekday:     int(d.Date.Weekday()),
			IsPickup:    d.IsPickup,
			IsAdjusted:  d.IsAdjusted,
			IsHoliday:   d.IsHolidayAffectingPickup,
			IsRecycling: d.IsPickup && d.IsRecycling,
			IsToday:     d.Date.Equal(today),
			Title:       dayTitle(d),
		}
	}

	var notice string
	if table, err := s.holidays.TableFor(year); err == nil && len(table.InMonth(month)) > 0 {
		notice = "Pickup days may be pushed back 1 day due to holidays."
	}

	writeJSON(w, map[string]interface{}{
		"street":        FormatStreetName(street.Name),
		"year":          year,
		"month":         int(month),
		"leadingBlanks": int(schedule.Date(year, month, 1).Weekday()),
		"holidayNotice": notice,
		"days":          cells,
	})
}

// eventsForRequest resolves street, year and month range shared by the export endpoints
func (s *Server) eventsForRequest(w http.ResponseWriter, r *http.Request) (Street, int, []schedule.Event, bool) {
	q := r.URL.Query()
	year, ok := parseYear(r, s.today().Year())
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return Street{}, 0, nil, false
	}
	from, okFrom := parseMonth(q.Get("from"), s.defaultFromMonth(year))
	to, okTo := parseMonth(q.Get("to"), time.December)
	if !okFrom || !okTo {
		http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
		return Street{}, 0, nil, false
	}
	street, weekday, ok := s.resolveStreet(w, q.Get("street"))
	if !ok {
		return Street{}, 0, nil, false
	}

	events, err := s.engine.GenerateEvents(weekday, year, from, to)
	if err != nil {
		engineError(w, err)
		return Street{}, 0, nil, false
	}
	return street, year, events, true
}

// GetEvents returns the collection events of a street
// Query params: street, year, from, to (months 1-12)
func (s *Server) GetEvents(w http.ResponseWriter, r *http.Request) {
	street, year, events, ok := s.eventsForRequest(w, r)
	if !ok {
		return
	}

	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = NewEventView(e)
	}
	writeJSON(w, map[string]interface{}{
		"street": FormatStreetName(street.Name),
		"day":    street.Day,
		"year":   year,
		"events": views,
	})
}

// HandleDownload handles export downloads in ICS, CSV, JSON or XLSX format
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, okDays := parseBounded(q.Get("reminderDays"), s.cfg.ReminderDays, 0, 7)
	hour, okHour := parseBounded(q.Get("reminderHour"), s.cfg.ReminderHour, 0, 23)
	if !okDays || !okHour {
		http.Error(w, ErrInvalidReminder, http.StatusBadRequest)
		return
	}

	format := q.Get("format")
	switch format {
	case "ics", "csv", "json", "xlsx":
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
		return
	}

	street, year, events, ok := s.eventsForRequest(w, r)
	if !ok {
		return
	}

	switch format {
	case "ics":
		GenerateICS(w, street.Name, year, events, Reminder{DaysBefore: days, Hour: hour}, s.now())
	case "csv":
		GenerateCSV(w, street.Name, year, events)
	case "json":
		GenerateJSON(w, street, year, events)
	case "xlsx":
		GenerateXLSX(w, street.Name, year, events)
	}
}

// HandlePrint renders the print view from the current month through December
func (s *Server) HandlePrint(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(r, s.today().Year())
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return
	}
	street, _, ok := s.resolveStreet(w, r.URL.Query().Get("street"))
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := GeneratePrintHTML(w, s.engine, street, year, s.defaultFromMonth(year)); err != nil {
		log.Printf("Error rendering print view: %v", err)
		http.Error(w, ErrFailedToGenerate, http.StatusInternalServerError)
	}
}

// HandleSubscribe serves an ICS feed covering the current and the next year
// URL: /api/subscribe/{street}
func (s *Server) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	street, weekday, ok := s.resolveStreet(w, mux.Vars(r)["street"])
	if !ok {
		return
	}

	year := s.today().Year()
	var events []schedule.Event
	for _, y := range []int{year, year + 1} {
		evs, err := s.engine.GenerateEvents(weekday, y, time.January, time.December)
		if err != nil {
			engineError(w, err)
			return
		}
		events = append(events, evs...)
	}

	GenerateSubscriptionICS(w, street.Name, events, s.now())
}

// RequireEditMode validates that edit mode is enabled
func (s *Server) RequireEditMode(w http.ResponseWriter) bool {
	if !s.cfg.EditMode {
		http.Error(w, ErrEditModeDisabled, http.StatusForbidden)
		return false
	}
	return true
}

// AddStreet adds a street or changes its collection day (edit mode only)
func (s *Server) AddStreet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) || !s.RequireEditMode(w) {
		return
	}

	var req Street
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, ErrMissingStreet, http.StatusBadRequest)
		return
	}
	if _, _, err := ParseCollectionDay(req.Day); err != nil {
		http.Error(w, ErrInvalidDay, http.StatusBadRequest)
		return
	}

	changed, err := s.streets.Add(req.Name, req.Day)
	if err != nil {
		log.Printf("Error saving tmp street schedule: %v", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}

	status := "ok"
	if !changed {
		status = "exists"
	}
	writeJSON(w, map[string]string{"status": status})
}

// DeleteStreet removes a street (edit mode only)
func (s *Server) DeleteStreet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) || !s.RequireEditMode(w) {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	removed, err := s.streets.Delete(req.Name)
	if err != nil {
		log.Printf("Error saving tmp street schedule: %v", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}
	if !removed {
		http.Error(w, ErrStreetNotFound, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// HandleStreetsCommit commits temporary changes
func (s *Server) HandleStreetsCommit(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) || !s.RequireEditMode(w) {
		return
	}

	if err := s.streets.Commit(); err != nil {
		log.Printf("Error committing street schedule: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// HandleStreetsRevert reverts temporary changes
func (s *Server) HandleStreetsRevert(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) || !s.RequireEditMode(w) {
		return
	}

	if err := s.streets.Revert(); err != nil {
		log.Printf("Error reverting street schedule: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// HandleStreetsStatus returns whether there are unsaved changes
func (s *Server) HandleStreetsStatus(w http.ResponseWriter, r *http.Request) {
	if !s.RequireEditMode(w) {
		return
	}
	writeJSON(w, map[string]bool{"has_changes": s.streets.HasTmp()})
}
