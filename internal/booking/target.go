package booking

import (
	"time"

	"github.com/example/booking-mediator/internal/interval"
)

const (
	// targetSlack widens the search window around a stated target time.
	targetSlack = 4 * time.Hour
	// targetLookahead bounds the forward search when no time was stated.
	targetLookahead = 30 * 24 * time.Hour
	// startProximity is how close an event's start must be to a stated
	// target time to count as the referenced appointment.
	startProximity = time.Hour
)

// TargetWindow returns the snapshot range to search for the event a
// change/cancel request refers to: ±4h around the stated target time, or a
// 30-day forward lookahead from now when no time was stated. The broad
// lookahead catches "cancel my appointment" without a date.
func TargetWindow(targetStart, now time.Time) interval.TimeRange {
	if !targetStart.IsZero() {
		return interval.TimeRange{
			Start: targetStart.Add(-targetSlack),
			End:   targetStart.Add(targetSlack),
		}
	}
	return interval.TimeRange{Start: now, End: now.Add(targetLookahead)}
}

// FindTargetEvent locates the event a change/cancel request refers to.
// Events are scanned in their natural chronological order; when ownerTag is
// non-empty, events tagged for a different requester are skipped. With a
// stated target time the first event starting within an hour of it wins;
// without one the requester's earliest event wins.
//
// The first-match policy is a known ambiguity when several candidates
// qualify; callers must not rely on closest-match semantics.
func FindTargetEvent(events []ExistingEvent, ownerTag string, targetStart time.Time) (ExistingEvent, bool) {
	for _, ev := range events {
		if ownerTag != "" && ev.OwnerTag != ownerTag {
			continue
		}
		if targetStart.IsZero() {
			return ev, true
		}
		offset := ev.Range.Start.Sub(targetStart)
		if offset < 0 {
			offset = -offset
		}
		if offset <= startProximity {
			return ev, true
		}
	}
	return ExistingEvent{}, false
}
