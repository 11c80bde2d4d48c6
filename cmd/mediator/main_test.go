package main

import (
	"testing"
	"time"

	"github.com/example/booking-mediator/internal/application"
	"github.com/example/booking-mediator/internal/interval"
)

func TestToCalendarAppointment(t *testing.T) {
	start := time.Date(2025, time.June, 2, 14, 0, 0, 0, time.UTC)
	appt := application.Appointment{
		Summary:  "歯科検診",
		OwnerTag: "LINE_USER_ID:U123",
		Mode:     "dental",
		Notes:    "初診",
		Range:    interval.TimeRange{Start: start, End: start.Add(time.Hour)},
		Timezone: "Asia/Tokyo",
	}

	converted := toCalendarAppointment(appt)

	if converted.Summary != appt.Summary {
		t.Errorf("expected summary %q, got %q", appt.Summary, converted.Summary)
	}
	if converted.OwnerTag != appt.OwnerTag {
		t.Errorf("expected owner tag %q, got %q", appt.OwnerTag, converted.OwnerTag)
	}
	if converted.Mode != appt.Mode {
		t.Errorf("expected mode %q, got %q", appt.Mode, converted.Mode)
	}
	if converted.Notes != appt.Notes {
		t.Errorf("expected notes %q, got %q", appt.Notes, converted.Notes)
	}
	if !converted.Range.Start.Equal(appt.Range.Start) || !converted.Range.End.Equal(appt.Range.End) {
		t.Errorf("expected range %v, got %v", appt.Range, converted.Range)
	}
	if converted.Timezone != appt.Timezone {
		t.Errorf("expected timezone %q, got %q", appt.Timezone, converted.Timezone)
	}
}
