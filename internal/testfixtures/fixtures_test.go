package testfixtures

import (
	"testing"
	"time"

	"github.com/example/booking-mediator/internal/booking"
)

func TestNewEventFixtureYieldsDisjointSlots(t *testing.T) {
	first := NewEventFixture()
	second := NewEventFixture()

	if first.ID == second.ID {
		t.Fatalf("expected distinct identifiers, got %q twice", first.ID)
	}
	if second.Start.Before(first.End) {
		t.Errorf("expected non-overlapping slots, got %v before %v", second.Start, first.End)
	}
	if got := first.End.Sub(first.Start); got != time.Hour {
		t.Errorf("expected one hour default duration, got %v", got)
	}
	if first.Status != booking.StatusActive {
		t.Errorf("expected active status, got %q", first.Status)
	}
}

func TestNewEventFixtureOverrides(t *testing.T) {
	start := ReferenceTime().Add(48 * time.Hour)
	fixture := NewEventFixture(
		WithEventID("ev-custom"),
		WithEventRange(start, start.Add(30*time.Minute)),
		WithEventStatus(booking.StatusCancelled),
		WithEventOwner("LINE_USER_ID:U42"),
	)

	existing := fixture.Existing()
	if existing.ID != "ev-custom" {
		t.Errorf("expected overridden ID, got %q", existing.ID)
	}
	if !existing.Range.Start.Equal(start) || !existing.Range.End.Equal(start.Add(30*time.Minute)) {
		t.Errorf("expected overridden range, got %v", existing.Range)
	}
	if !existing.Cancelled() {
		t.Error("expected cancelled event")
	}
	if existing.OwnerTag != "LINE_USER_ID:U42" {
		t.Errorf("expected owner tag override, got %q", existing.OwnerTag)
	}
}

func TestDefaultBookingConfigWindow(t *testing.T) {
	cfg := DefaultBookingConfig()
	window := cfg.WorkingWindow(ReferenceTime())

	if window.Start.Hour() != 9 || window.End.Hour() != 18 {
		t.Fatalf("expected a 09:00-18:00 window, got %v", window)
	}
	if cfg.DefaultDuration != time.Hour {
		t.Errorf("expected one hour default duration, got %v", cfg.DefaultDuration)
	}
}
