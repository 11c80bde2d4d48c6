package booking

import "testing"

func TestHasConflict(t *testing.T) {
	active := event(t, "busy", jst(t, 2, 10, 0), jst(t, 2, 11, 0))
	cancelled := event(t, "gone", jst(t, 2, 10, 0), jst(t, 2, 11, 0))
	cancelled.Status = StatusCancelled

	tests := []struct {
		name      string
		events    []ExistingEvent
		excludeID string
		want      bool
	}{
		{"empty snapshot", nil, "", false},
		{"only cancelled", []ExistingEvent{cancelled}, "", false},
		{"active event", []ExistingEvent{active}, "", true},
		{"excluded event", []ExistingEvent{active}, "busy", false},
		{"excluded plus another", []ExistingEvent{active, event(t, "other", jst(t, 2, 10, 30), jst(t, 2, 11, 30))}, "busy", true},
		{"exclusion ignores cancelled", []ExistingEvent{cancelled, active}, "busy", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasConflict(tt.events, tt.excludeID); got != tt.want {
				t.Fatalf("HasConflict = %v, want %v", got, tt.want)
			}
		})
	}
}
