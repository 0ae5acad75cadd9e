package app

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

func TestGenerateSubscriptionICS(t *testing.T) {
	events := []schedule.Event{
		{Date: schedule.Date(2025, time.January, 15)},
		{Date: schedule.Date(2025, time.January, 22), IsRecycling: true},
	}

	w := httptest.NewRecorder()
	GenerateSubscriptionICS(w, "Main St", events, testStamp)

	resp := w.Result()
	body := w.Body.String()

	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if contentType := resp.Header.Get("Content-Type"); !strings.Contains(contentType, "text/calendar") {
		t.Errorf("Expected Content-Type text/calendar, got %s", contentType)
	}

	// Subscriptions are displayed inline, not downloaded
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		t.Errorf("Subscription should not have Content-Disposition header, got: %s", cd)
	}

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ICSProductID,
		"METHOD:PUBLISH",
		"X-PUBLISHED-TTL:PT12H",
		"BEGIN:VEVENT",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		if !strings.Contains(body, field) {
			t.Errorf("ICS subscription output missing required field: %s", field)
		}
	}

	if !strings.Contains(body, "DTSTART;VALUE=DATE:20250115") {
		t.Error("Event should be all-day (DTSTART;VALUE=DATE)")
	}
	if !strings.Contains(body, "DTEND;VALUE=DATE:20250116") {
		t.Error("All-day event should end on next day")
	}
	if !strings.Contains(body, "SUMMARY:Trash Collection\r\n") {
		t.Error("Missing summary for trash-only event")
	}
	if !strings.Contains(body, "SUMMARY:Trash & Recycling Collection\r\n") {
		t.Error("Missing summary for recycling event")
	}

	// Calendar apps ignore alarms in subscriptions
	if alarmCount := strings.Count(body, "BEGIN:VALARM"); alarmCount != 0 {
		t.Errorf("Subscription should not contain alarms, found %d", alarmCount)
	}

	if eventCount := strings.Count(body, "BEGIN:VEVENT"); eventCount != 2 {
		t.Errorf("Expected 2 events, found %d", eventCount)
	}
}

func TestSubscriptionUIDsMatchDownload(t *testing.T) {
	events := []schedule.Event{{Date: schedule.Date(2025, time.January, 15)}}

	sub := httptest.NewRecorder()
	GenerateSubscriptionICS(sub, "Main St", events, testStamp)

	dl := httptest.NewRecorder()
	GenerateICS(dl, "Main St", 2025, events, Reminder{DaysBefore: 1, Hour: 18}, testStamp)

	uid := "UID:" + eventUID("Main St", events[0])
	if !strings.Contains(sub.Body.String(), uid) || !strings.Contains(dl.Body.String(), uid) {
		t.Errorf("Expected %s in both feeds", uid)
	}
}
