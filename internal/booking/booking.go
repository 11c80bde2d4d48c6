// Package booking implements the conflict-resolution and booking-decision
// engine. It turns a structured scheduling intent plus a snapshot of existing
// calendar events into exactly one decision: create, update, delete, refuse
// with alternative slots, or not-found.
//
// The engine performs no network I/O of its own. Event snapshots are read
// through the EventSource interface supplied by the caller, and every
// decision is returned to the caller to apply; the engine never mutates the
// calendar. Each invocation is independent, so concurrent use requires no
// coordination.
package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/booking-mediator/internal/interval"
)

// IntentKind classifies a scheduling request.
type IntentKind string

const (
	// IntentNew requests a fresh appointment.
	IntentNew IntentKind = "new"
	// IntentChange moves an existing appointment to a new range.
	IntentChange IntentKind = "change"
	// IntentCancel removes an existing appointment.
	IntentCancel IntentKind = "cancel"
)

// Intent is the structured form of a user's scheduling request. Start and
// End are required for new/change and carry a zero value when the upstream
// extraction could not determine them. TargetStart optionally points at the
// appointment a change/cancel refers to.
type Intent struct {
	Kind        IntentKind
	Start       time.Time
	End         time.Time
	TargetStart time.Time
	Summary     string
	Notes       string
	Timezone    string
	Confidence  float64
}

// EventStatus mirrors the lifecycle state of a stored calendar event.
type EventStatus string

const (
	// StatusActive marks an event that still occupies its range.
	StatusActive EventStatus = "active"
	// StatusCancelled marks an event that no longer blocks bookings.
	StatusCancelled EventStatus = "cancelled"
)

// ExistingEvent is the engine's view of one calendar event. OwnerTag encodes
// the requester identity embedded when the event was created; it is used for
// attribution during target lookup only, never for access control.
type ExistingEvent struct {
	ID       string
	Range    interval.TimeRange
	Status   EventStatus
	OwnerTag string
}

// Cancelled reports whether the event no longer occupies its range.
func (e ExistingEvent) Cancelled() bool {
	return e.Status == StatusCancelled
}

// Outcome enumerates the terminal states of the decision machine.
type Outcome string

const (
	// OutcomeCreated books the proposed range as a new event.
	OutcomeCreated Outcome = "created"
	// OutcomeUpdated moves the resolved event to the proposed range.
	OutcomeUpdated Outcome = "updated"
	// OutcomeDeleted cancels the resolved event.
	OutcomeDeleted Outcome = "deleted"
	// OutcomeNotFound means no event matched a change/cancel request.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeRefused rejects the proposal because the range is taken.
	OutcomeRefused Outcome = "refused"
)

// Decision is the single structured result of one engine pass. EventID is
// set for updated/deleted, Range for created/updated, and Alternatives for
// refused (chronological free slots on the requested day).
type Decision struct {
	Outcome      Outcome
	EventID      string
	Range        interval.TimeRange
	Alternatives []interval.TimeRange
}

// DayTime is a time of day within the working-window configuration.
type DayTime struct {
	Hour   int
	Minute int
}

// ParseDayTime parses an "HH:MM" clock value.
func ParseDayTime(value string) (DayTime, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return DayTime{}, fmt.Errorf("booking: invalid time of day %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return DayTime{}, fmt.Errorf("booking: invalid time of day %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return DayTime{}, fmt.Errorf("booking: invalid time of day %q", value)
	}
	return DayTime{Hour: hour, Minute: minute}, nil
}

// At anchors the time of day on the civil date of day in loc.
func (d DayTime) At(day time.Time, loc *time.Location) time.Time {
	y, m, dd := day.In(loc).Date()
	return time.Date(y, m, dd, d.Hour, d.Minute, 0, 0, loc)
}

// Config carries the working-window parameters the engine needs. It is
// loaded once at startup and passed in explicitly so tests can inject
// arbitrary configurations deterministically.
type Config struct {
	WorkStart       DayTime
	WorkEnd         DayTime
	DefaultDuration time.Duration
	Location        *time.Location
}

// WorkingWindow builds the bookable window on the civil date of day.
func (c Config) WorkingWindow(day time.Time) interval.TimeRange {
	return interval.TimeRange{
		Start: c.WorkStart.At(day, c.Location),
		End:   c.WorkEnd.At(day, c.Location),
	}
}
