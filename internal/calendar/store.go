// Package calendar adapts the Google Calendar API to the booking engine's
// event model. It provides the snapshot source the engine reads and the
// mutations the mediation service applies once a decision is made.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/example/booking-mediator/internal/booking"
	"github.com/example/booking-mediator/internal/interval"
)

// ownerMarker prefixes the requester id embedded in event descriptions. The
// marker is advisory attribution only, never access control.
const ownerMarker = "LINE_USER_ID:"

// Appointment is the write model for calendar mutations. OwnerTag, Mode and
// Notes are folded into the event description so the requester can be
// attributed during later lookups.
type Appointment struct {
	Summary  string
	OwnerTag string
	Mode     string
	Notes    string
	Range    interval.TimeRange
	Timezone string
}

// Store wraps the Google Calendar API for a single calendar.
type Store struct {
	service    *gcal.Service
	calendarID string
	location   *time.Location
}

// NewStore authenticates with a service-account credentials file and binds
// the store to calendarID. All-day events are anchored in loc.
func NewStore(ctx context.Context, credentials []byte, calendarID string, loc *time.Location) (*Store, error) {
	jwt, err := google.JWTConfigFromJSON(credentials, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("calendar: parse service account credentials: %w", err)
	}
	service, err := gcal.NewService(ctx, option.WithTokenSource(jwt.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}
	return &Store{service: service, calendarID: calendarID, location: loc}, nil
}

// Events lists the events overlapping [from, to) in start order, expanded to
// single instances, converted to the engine's event model. It satisfies
// booking.EventSource.
func (s *Store) Events(ctx context.Context, from, to time.Time) ([]booking.ExistingEvent, error) {
	list, err := s.service.Events.List(s.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: list events: %w", err)
	}

	events := make([]booking.ExistingEvent, 0, len(list.Items))
	for _, item := range list.Items {
		converted, err := toExistingEvent(item, s.location)
		if err != nil {
			return nil, err
		}
		events = append(events, converted)
	}
	return events, nil
}

// Insert books a new event and returns its id.
func (s *Store) Insert(ctx context.Context, appt Appointment) (string, error) {
	created, err := s.service.Events.Insert(s.calendarID, toAPIEvent(appt)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert event: %w", err)
	}
	return created.Id, nil
}

// Update moves an existing event to the appointment's range.
func (s *Store) Update(ctx context.Context, eventID string, appt Appointment) error {
	_, err := s.service.Events.Update(s.calendarID, eventID, toAPIEvent(appt)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("calendar: update event: %w", err)
	}
	return nil
}

// Delete removes an event.
func (s *Store) Delete(ctx context.Context, eventID string) error {
	if err := s.service.Events.Delete(s.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: delete event: %w", err)
	}
	return nil
}

func toAPIEvent(appt Appointment) *gcal.Event {
	return &gcal.Event{
		Summary:     appt.Summary,
		Description: BuildDescription(appt.OwnerTag, appt.Mode, appt.Notes),
		Start: &gcal.EventDateTime{
			DateTime: appt.Range.Start.Format(time.RFC3339),
			TimeZone: appt.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: appt.Range.End.Format(time.RFC3339),
			TimeZone: appt.Timezone,
		},
	}
}

// toExistingEvent converts an API event. Timed events carry RFC3339 bounds;
// all-day events carry civil dates and expand to midnight boundaries in loc.
func toExistingEvent(item *gcal.Event, loc *time.Location) (booking.ExistingEvent, error) {
	r, err := eventRange(item, loc)
	if err != nil {
		return booking.ExistingEvent{}, err
	}

	status := booking.StatusActive
	if item.Status == "cancelled" {
		status = booking.StatusCancelled
	}

	return booking.ExistingEvent{
		ID:       item.Id,
		Range:    r,
		Status:   status,
		OwnerTag: OwnerTagFromDescription(item.Description),
	}, nil
}

func eventRange(item *gcal.Event, loc *time.Location) (interval.TimeRange, error) {
	if item.Start == nil || item.End == nil {
		return interval.TimeRange{}, fmt.Errorf("calendar: event %s has no bounds", item.Id)
	}

	if item.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return interval.TimeRange{}, fmt.Errorf("calendar: parse event %s start: %w", item.Id, err)
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return interval.TimeRange{}, fmt.Errorf("calendar: parse event %s end: %w", item.Id, err)
		}
		return interval.TimeRange{Start: start, End: end}, nil
	}

	start, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
	if err != nil {
		return interval.TimeRange{}, fmt.Errorf("calendar: parse event %s date: %w", item.Id, err)
	}
	end, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
	if err != nil {
		return interval.TimeRange{}, fmt.Errorf("calendar: parse event %s end date: %w", item.Id, err)
	}
	return interval.TimeRange{Start: start, End: end}, nil
}

// BuildDescription embeds the owner marker and mode ahead of the free-form
// notes so later lookups can attribute the event to its requester.
func BuildDescription(ownerTag, mode, notes string) string {
	return strings.TrimSpace(fmt.Sprintf("%s%s\nMODE:%s\n%s", ownerMarker, ownerTag, mode, notes))
}

// OwnerTagFromDescription extracts the requester id embedded at creation
// time, or "" when the event carries none.
func OwnerTagFromDescription(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, ownerMarker); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
