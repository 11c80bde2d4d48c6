package booking

import (
	"time"

	"github.com/example/booking-mediator/internal/interval"
)

// ComputeFreeSlots derives the bookable gaps inside the working window given
// the day's events. Cancelled events never occupy time; the rest are clipped
// to the window, merged, and the remaining gaps of at least minDuration are
// returned in chronological order. The input slice is not modified and the
// result is deterministic for identical inputs.
func ComputeFreeSlots(events []ExistingEvent, window interval.TimeRange, minDuration time.Duration) []interval.TimeRange {
	var busy []interval.TimeRange
	for _, ev := range events {
		if ev.Cancelled() {
			continue
		}
		clipped, ok := ev.Range.Clip(window)
		if !ok {
			continue
		}
		busy = append(busy, clipped)
	}

	busy = interval.Merge(busy)

	var free []interval.TimeRange
	cursor := window.Start
	for _, b := range busy {
		if cursor.Before(b.Start) {
			free = append(free, interval.TimeRange{Start: cursor, End: b.Start})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(window.End) {
		free = append(free, interval.TimeRange{Start: cursor, End: window.End})
	}

	slots := free[:0]
	for _, f := range free {
		if f.Duration() >= minDuration {
			slots = append(slots, f)
		}
	}
	if len(slots) == 0 {
		return nil
	}
	return slots
}
