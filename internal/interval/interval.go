// Package interval provides the immutable time-range value type shared by
// the booking engine and its collaborators, together with the busy-range
// merge algorithm used during free-slot computation.
package interval

import (
	"fmt"
	"sort"
	"time"
)

// TimeRange is a half-open range of instants [Start, End).
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange constructs a range and validates its ordering invariant.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, fmt.Errorf("interval: end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeRange{Start: start, End: end}, nil
}

// Duration returns the length of the range.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// IsZero reports whether both bounds are unset.
func (r TimeRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Overlaps reports whether the two half-open ranges share any instant.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Clip returns the intersection of the range with the window. The second
// return value is false when the range lies entirely outside the window.
func (r TimeRange) Clip(window TimeRange) (TimeRange, bool) {
	start := r.Start
	if start.Before(window.Start) {
		start = window.Start
	}
	end := r.End
	if end.After(window.End) {
		end = window.End
	}
	if !end.After(start) {
		return TimeRange{}, false
	}
	return TimeRange{Start: start, End: end}, true
}

// Merge folds an arbitrary set of ranges into a sorted list of disjoint
// ranges. Ranges that touch (next.Start == current.End) are merged as if
// they overlapped. The input slice is not modified. Merge is idempotent:
// applying it to its own output returns the same ranges.
func Merge(ranges []TimeRange) []TimeRange {
	if len(ranges) == 0 {
		return nil
	}

	sorted := make([]TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []TimeRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !r.Start.After(last.End) {
			if r.End.After(last.End) {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
