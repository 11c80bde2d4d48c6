// Package testfixtures provides deterministic clocks, identifier generators
// and event builders shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/booking-mediator/internal/booking"
	"github.com/example/booking-mediator/internal/interval"
)

var eventCounter uint64

var referenceTime = time.Date(2025, time.June, 2, 10, 0, 0, 0, time.FixedZone("JST", 9*60*60))

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// EventFixture represents a deterministic calendar event for engine and
// application tests.
type EventFixture struct {
	ID       string
	Start    time.Time
	End      time.Time
	Status   booking.EventStatus
	OwnerTag string
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic one-hour event with optional
// overrides. Successive calls without overrides yield consecutive,
// non-overlapping slots starting from ReferenceTime.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := EventFixture{
		ID:     fmt.Sprintf("event-%03d", idx),
		Start:  start,
		End:    start.Add(time.Hour),
		Status: booking.StatusActive,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventID overrides the generated identifier.
func WithEventID(id string) EventOption {
	return func(f *EventFixture) { f.ID = id }
}

// WithEventRange overrides the start and end instants.
func WithEventRange(start, end time.Time) EventOption {
	return func(f *EventFixture) {
		f.Start = start
		f.End = end
	}
}

// WithEventStatus overrides the event status.
func WithEventStatus(status booking.EventStatus) EventOption {
	return func(f *EventFixture) { f.Status = status }
}

// WithEventOwner overrides the owner tag.
func WithEventOwner(tag string) EventOption {
	return func(f *EventFixture) { f.OwnerTag = tag }
}

// Existing materialises the fixture as a booking.ExistingEvent.
func (f EventFixture) Existing() booking.ExistingEvent {
	return booking.ExistingEvent{
		ID:       f.ID,
		Range:    interval.TimeRange{Start: f.Start, End: f.End},
		Status:   f.Status,
		OwnerTag: f.OwnerTag,
	}
}

// DefaultBookingConfig returns a booking configuration with a 09:00-18:00
// JST work window and a one hour default duration, matching the values most
// tests exercise.
func DefaultBookingConfig() booking.Config {
	return booking.Config{
		WorkStart:       booking.DayTime{Hour: 9},
		WorkEnd:         booking.DayTime{Hour: 18},
		DefaultDuration: time.Hour,
		Location:        referenceTime.Location(),
	}
}
