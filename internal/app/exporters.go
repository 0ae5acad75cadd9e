package app

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

// Reminder configures the alarm attached to downloaded ICS events
type Reminder struct {
	DaysBefore int
	Hour       int
	Minute     int
}

// Text describes when the collection happens relative to the alarm
func (r Reminder) Text() string {
	switch r.DaysBefore {
	case 0:
		return "Reminder: Trash collection today"
	case 1:
		return "Reminder: Trash collection tomorrow"
	default:
		return fmt.Sprintf("Reminder: Trash collection in %d days", r.DaysBefore)
	}
}

// maxLineOctets is the longest content line RFC 5545 allows before folding
const maxLineOctets = 75

// writeLine writes one CRLF terminated ICS line and logs any error
func writeLine(w io.Writer, format string, args ...interface{}) {
	if _, err := io.WriteString(w, foldLine(fmt.Sprintf(format, args...))+"\r\n"); err != nil {
		log.Printf("Error writing to response: %v", err)
	}
}

// foldLine splits a content line into chunks of at most 75 octets joined by CRLF and a space.
// A chunk never ends inside a multi-byte UTF-8 sequence.
func foldLine(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}

	var b strings.Builder
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// the leading space counts against the limit
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	return b.String()
}

// setAttachment marks the response as a download named filename
func setAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// escapeText escapes an ICS TEXT value
func escapeText(s string) string {
	return strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`).Replace(s)
}

// eventUID is stable across downloads so re-imports update instead of duplicate
func eventUID(street string, e schedule.Event) string {
	key := strings.ToLower(street) + "/" + e.Date.Format("2006-01-02")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@" + ICSDomain
}

func writeEvent(w io.Writer, street string, e schedule.Event, stamp time.Time) {
	writeLine(w, "BEGIN:VEVENT")
	writeLine(w, "UID:%s", eventUID(street, e))
	writeLine(w, "DTSTAMP:%s", stamp.UTC().Format("20060102T150405Z"))
	writeLine(w, "DTSTART;VALUE=DATE:%s", e.Date.Format("20060102"))
	writeLine(w, "DTEND;VALUE=DATE:%s", e.Date.AddDate(0, 0, 1).Format("20060102"))
	writeLine(w, "SUMMARY:%s", escapeText(EventTitle(e)))
	writeLine(w, "DESCRIPTION:%s", escapeText(EventDescription(e)))
	writeLine(w, "LOCATION:%s", escapeText(FormatStreetName(street)+", "+ICSLocation))
	writeLine(w, "STATUS:CONFIRMED")
	writeLine(w, "TRANSP:TRANSPARENT")
}

// GenerateICS writes a downloadable iCalendar file with one reminder per event
func GenerateICS(w http.ResponseWriter, street string, year int, events []schedule.Event, reminder Reminder, stamp time.Time) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	setAttachment(w, fmt.Sprintf("mt-lebo-trash-%s-%d.ics", slug(street), year))

	writeLine(w, "BEGIN:VCALENDAR")
	writeLine(w, "VERSION:2.0")
	writeLine(w, "PRODID:%s", ICSProductID)
	writeLine(w, "CALSCALE:GREGORIAN")
	writeLine(w, "METHOD:PUBLISH")
	writeLine(w, "X-WR-CALNAME:Trash Collection %s %d", escapeText(FormatStreetName(street)), year)

	for _, e := range events {
		writeEvent(w, street, e, stamp)
		AddAlarm(w, reminder, reminder.Text())
		writeLine(w, "END:VEVENT")
	}

	writeLine(w, "END:VCALENDAR")
}

// AddAlarm adds a display alarm relative to the all-day event's midnight start
func AddAlarm(w io.Writer, reminder Reminder, description string) {
	offset := time.Duration(reminder.Hour)*time.Hour +
		time.Duration(reminder.Minute)*time.Minute -
		time.Duration(reminder.DaysBefore)*24*time.Hour

	totalMinutes := int(offset.Minutes())
	sign := ""
	if totalMinutes < 0 {
		sign = "-"
		totalMinutes = -totalMinutes
	}

	days := totalMinutes / (24 * 60)
	hours := totalMinutes % (24 * 60) / 60
	minutes := totalMinutes % 60

	writeLine(w, "BEGIN:VALARM")
	writeLine(w, "ACTION:DISPLAY")
	writeLine(w, "DESCRIPTION:%s", escapeText(description))
	writeLine(w, "TRIGGER:%sP%dDT%dH%dM", sign, days, hours, minutes)
	writeLine(w, "END:VALARM")
}

// GenerateSubscriptionICS writes an inline feed for calendar subscriptions.
// Unlike GenerateICS it has no attachment header and no alarms.
func GenerateSubscriptionICS(w http.ResponseWriter, street string, events []schedule.Event, stamp time.Time) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")

	writeLine(w, "BEGIN:VCALENDAR")
	writeLine(w, "VERSION:2.0")
	writeLine(w, "PRODID:%s", ICSProductID)
	writeLine(w, "METHOD:PUBLISH")
	writeLine(w, "X-WR-CALNAME:Trash Collection %s", escapeText(FormatStreetName(street)))
	writeLine(w, "CALSCALE:GREGORIAN")
	writeLine(w, "X-PUBLISHED-TTL:PT12H")

	for _, e := range events {
		writeEvent(w, street, e, stamp)
		writeLine(w, "END:VEVENT")
	}

	writeLine(w, "END:VCALENDAR")
}

// GenerateCSV writes the events as CSV
func GenerateCSV(w http.ResponseWriter, street string, year int, events []schedule.Event) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	setAttachment(w, fmt.Sprintf("mt-lebo-trash-%s-%d.csv", slug(street), year))

	writer := csv.NewWriter(w)
	rows := [][]string{{"date", "title", "recycling", "adjusted"}}
	for _, e := range events {
		rows = append(rows, []string{
			e.Date.Format("2006-01-02"),
			EventTitle(e),
			fmt.Sprint(e.IsRecycling),
			fmt.Sprint(e.IsAdjusted),
		})
	}
	if err := writer.WriteAll(rows); err != nil {
		log.Printf("Error writing CSV export: %v", err)
	}
}

// GenerateJSON writes the events as a JSON document
func GenerateJSON(w http.ResponseWriter, street Street, year int, events []schedule.Event) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	setAttachment(w, fmt.Sprintf("mt-lebo-trash-%s-%d.json", slug(street.Name), year))

	views := make([]EventView, len(events))
	for i, e := range events {
		views[i] = NewEventView(e)
	}

	data := map[string]interface{}{
		"street": FormatStreetName(street.Name),
		"day":    street.Day,
		"year":   year,
		"events": views,
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON export: %v", err)
		http.Error(w, ErrFailedToGenerate, http.StatusInternalServerError)
	}
}

// GenerateXLSX writes the events as a spreadsheet
func GenerateXLSX(w http.ResponseWriter, street string, year int, events []schedule.Event) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing workbook: %v", err)
		}
	}()

	const sheet = "Sheet1"
	rows := [][]interface{}{{"Date", "Weekday", "Collection", "Adjusted for holiday"}}
	for _, e := range events {
		rows = append(rows, []interface{}{
			e.Date.Format("2006-01-02"),
			e.Date.Weekday().String(),
			EventTitle(e),
			e.IsAdjusted,
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			log.Printf("Error building XLSX export: %v", err)
			http.Error(w, ErrFailedToGenerate, http.StatusInternalServerError)
			return
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Printf("Error building XLSX export: %v", err)
			http.Error(w, ErrFailedToGenerate, http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	setAttachment(w, fmt.Sprintf("mt-lebo-trash-%s-%d.xlsx", slug(street), year))
	if err := f.Write(w); err != nil {
		log.Printf("Error writing XLSX export: %v", err)
	}
}
