package calendar

import (
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/example/booking-mediator/internal/booking"
	"github.com/example/booking-mediator/internal/interval"
)

func TestOwnerTagRoundTrip(t *testing.T) {
	description := BuildDescription("U1234", "dental", "初診です")
	if got := OwnerTagFromDescription(description); got != "U1234" {
		t.Fatalf("owner tag = %q, want U1234", got)
	}
	if OwnerTagFromDescription("通常のメモだけ") != "" {
		t.Fatal("expected empty owner tag for untagged description")
	}
}

func TestBuildDescriptionTrimsEmptyNotes(t *testing.T) {
	got := BuildDescription("U1234", "dental", "")
	if got != "LINE_USER_ID:U1234\nMODE:dental" {
		t.Fatalf("description = %q", got)
	}
}

func TestToExistingEventTimed(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	item := &gcal.Event{
		Id:          "ev-1",
		Status:      "confirmed",
		Description: "LINE_USER_ID:U1234\nMODE:dental",
		Start:       &gcal.EventDateTime{DateTime: "2025-06-02T10:00:00+09:00"},
		End:         &gcal.EventDateTime{DateTime: "2025-06-02T11:00:00+09:00"},
	}

	got, err := toExistingEvent(item, loc)
	if err != nil {
		t.Fatalf("toExistingEvent: %v", err)
	}
	if got.ID != "ev-1" || got.Status != booking.StatusActive || got.OwnerTag != "U1234" {
		t.Fatalf("unexpected event %+v", got)
	}
	want := time.Date(2025, time.June, 2, 10, 0, 0, 0, loc)
	if !got.Range.Start.Equal(want) {
		t.Fatalf("start = %v, want %v", got.Range.Start, want)
	}
	if got.Range.Duration() != time.Hour {
		t.Fatalf("duration = %v", got.Range.Duration())
	}
}

func TestToExistingEventAllDay(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	item := &gcal.Event{
		Id:    "ev-2",
		Start: &gcal.EventDateTime{Date: "2025-06-02"},
		End:   &gcal.EventDateTime{Date: "2025-06-03"},
	}

	got, err := toExistingEvent(item, loc)
	if err != nil {
		t.Fatalf("toExistingEvent: %v", err)
	}
	wantStart := time.Date(2025, time.June, 2, 0, 0, 0, 0, loc)
	if !got.Range.Start.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", got.Range.Start, wantStart)
	}
	if got.Range.Duration() != 24*time.Hour {
		t.Fatalf("duration = %v, want 24h", got.Range.Duration())
	}
}

func TestToExistingEventCancelled(t *testing.T) {
	loc := time.UTC
	item := &gcal.Event{
		Id:     "ev-3",
		Status: "cancelled",
		Start:  &gcal.EventDateTime{DateTime: "2025-06-02T10:00:00Z"},
		End:    &gcal.EventDateTime{DateTime: "2025-06-02T11:00:00Z"},
	}

	got, err := toExistingEvent(item, loc)
	if err != nil {
		t.Fatalf("toExistingEvent: %v", err)
	}
	if !got.Cancelled() {
		t.Fatal("expected cancelled status")
	}
}

func TestToExistingEventMissingBounds(t *testing.T) {
	if _, err := toExistingEvent(&gcal.Event{Id: "ev-4"}, time.UTC); err == nil {
		t.Fatal("expected error for event without bounds")
	}
}

func TestToAPIEvent(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	start := time.Date(2025, time.June, 2, 10, 0, 0, 0, loc)
	appt := Appointment{
		Summary:  "歯科検診",
		OwnerTag: "U1234",
		Mode:     "dental",
		Notes:    "初診です",
		Range:    interval.TimeRange{Start: start, End: start.Add(time.Hour)},
		Timezone: "Asia/Tokyo",
	}

	got := toAPIEvent(appt)

	if got.Summary != "歯科検診" {
		t.Fatalf("summary = %q", got.Summary)
	}
	if OwnerTagFromDescription(got.Description) != "U1234" {
		t.Fatalf("description lost owner tag: %q", got.Description)
	}
	if got.Start.DateTime != start.Format(time.RFC3339) || got.Start.TimeZone != "Asia/Tokyo" {
		t.Fatalf("unexpected start %+v", got.Start)
	}
	if got.End.DateTime != start.Add(time.Hour).Format(time.RFC3339) {
		t.Fatalf("unexpected end %+v", got.End)
	}
}
