package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/booking-mediator/internal/interval"
)

// eventSourceStub returns canned events per fetch window and records the
// windows it was asked for.
type eventSourceStub struct {
	events  []ExistingEvent
	err     error
	fetches []interval.TimeRange
}

func (s *eventSourceStub) Events(ctx context.Context, from, to time.Time) ([]ExistingEvent, error) {
	s.fetches = append(s.fetches, interval.TimeRange{Start: from, End: to})
	if s.err != nil {
		return nil, s.err
	}
	var out []ExistingEvent
	window := interval.TimeRange{Start: from, End: to}
	for _, ev := range s.events {
		if ev.Range.Overlaps(window) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func newTestEngine(source EventSource, now time.Time) *Engine {
	return NewEngine(source, testConfig(), func() time.Time { return now })
}

func TestDecideNewWithoutConflict(t *testing.T) {
	source := &eventSourceStub{}
	engine := newTestEngine(source, jst(t, 1, 12, 0))

	decision, err := engine.Decide(context.Background(), Request{
		OwnerTag: "user-1",
		Intent: Intent{
			Kind:  IntentNew,
			Start: jst(t, 2, 10, 0),
			End:   jst(t, 2, 11, 0),
		},
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %q, want created", decision.Outcome)
	}
	if !decision.Range.Start.Equal(jst(t, 2, 10, 0)) || !decision.Range.End.Equal(jst(t, 2, 11, 0)) {
		t.Fatalf("unexpected range %v", decision.Range)
	}
}

func TestDecideNewRefusedWithAlternatives(t *testing.T) {
	blocker := tagged(t, "busy", "user-2", jst(t, 2, 10, 30), jst(t, 2, 11, 30))
	source := &eventSourceStub{events: []ExistingEvent{blocker}}
	engine := newTestEngine(source, jst(t, 1, 12, 0))

	decision, err := engine.Decide(context.Background(), Request{
		OwnerTag: "user-1",
		Intent: Intent{
			Kind:  IntentNew,
			Start: jst(t, 2, 10, 0),
			End:   jst(t, 2, 11, 0),
		},
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision.Outcome != OutcomeRefused {
		t.Fatalf("outcome = %q, want refused", decision.Outcome)
	}
	if len(decision.Alternatives) == 0 {
		t.Fatal("expected alternative slots")
	}
	for _, slot := range decision.Alternatives {
		if slot.Overlaps(blocker.Range) {
			t.Fatalf("alternative %v overlaps the blocking event", slot)
		}
		if slot.Duration() < time.Hour {
			t.Fatalf("alternative %v shorter than requested duration", slot)
		}
	}
}

func TestDecideNewMissingBounds(t *testing.T) {
	engine := newTestEngine(&eventSourceStub{}, jst(t, 1, 12, 0))

	_, err := engine.Decide(context.Background(), Request{
		Intent: Intent{Kind: IntentNew, Start: jst(t, 2, 10, 0)},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["end"]; !ok {
		t.Fatalf("expected end field error, got %v", vErr.FieldErrors)
	}
}

func TestDecideCancel(t *testing.T) {
	mine := tagged(t, "mine", "user-1", jst(t, 3, 10, 0), jst(t, 3, 11, 0))
	source := &eventSourceStub{events: []ExistingEvent{mine}}
	engine := newTestEngine(source, jst(t, 1, 12, 0))

	decision, err := engine.Decide(context.Background(), Request{
		OwnerTag: "user-1",
		Intent:   Intent{Kind: IntentCancel},
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision.Outcome != OutcomeDeleted || decision.EventID != "mine" {
		t.Fatalf("decision = %+v, want deleted mine", decision)
	}

	// The open-ended cancel searches the 30-day lookahead.
	if len(source.fetches) != 1 {
		t.Fatalf("expected one snapshot fetch, got %d", len(source.fetches))
	}
	window := source.fetches[0]
	if !window.Start.Equal(jst(t, 1, 12, 0)) || window.Duration() != 30*24*time.Hour {
		t.Fatalf("unexpected search window %v", window)
	}
}

func TestDecideCancelNotFound(t *testing.T) {
	theirs := tagged(t, "theirs", "user-2", jst(t, 3, 10, 0), jst(t, 3, 11, 0))
	source := &eventSourceStub{events: []ExistingEvent{theirs}}
	engine := newTestEngine(source, jst(t, 1, 12, 0))

	decision, err := engine.Decide(context.Background(), Request{
		OwnerTag: "user-1",
		Intent:   Intent{Kind: IntentCancel},
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision.Outcome != OutcomeNotFound {
		t.Fatalf("outcome = %q, want not_found", decision.Outcome)
	}
}

func TestDecideChangeExcludesOwnEvent(t *testing.T) {
	// The only event overlapping the proposed range is the one being moved,
	// so the change must not conflict with itself.
	mine := tagged(t, "mine", "user-1", jst(t, 2, 10, 0), jst(t, 2, 11, 0))
	source := &eventSourceStub{events: []ExistingEvent{mine}}
	engine := newTestEngine(source, jst(t, 1, 12, 0))

	decision, err := engine.Decide(context.Background(), Request{
		OwnerTag: "user-1",
		Intent: Intent{
			Kind:        IntentChange,
			Start:       jst(t, 2, 10, 30),
			End:         jst(t, 2, 11, 30),
			TargetStart: jst(t, 2, 10, 0),
		},
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision.Outcome != OutcomeUpdated || decision.EventID != "mine" {
		t.Fatalf("decision = %+v, want updated mine", decision)
	}
	if !decision.Range.Start.Equal(jst(t, 2, 10, 30)) {
		t.Fatalf("unexpected new range %v", decision.Range)
	}
}

func TestDecideChangeConflict(t *testing.T) {
	mine := tagged(t, "mine", "user-1", jst(t, 2, 10, 0), jst(t, 2, 11, 0))
	other := tagged(t, "other", "user-2", jst(t, 2, 14, 0), jst(t, 2, 15, 0))
	source := &eventSourceStub{events: []ExistingEvent{mine, other}}
	engine := newTestEngine(source, jst(t, 1, 12, 0))

	decision, err := engine.Decide(context.Background(), Request{
		OwnerTag: "user-1",
		Intent: Intent{
			Kind:        IntentChange,
			Start:       jst(t, 2, 14, 0),
			End:         jst(t, 2, 15, 0),
			TargetStart: jst(t, 2, 10, 0),
		},
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision.Outcome != OutcomeRefused {
		t.Fatalf("outcome = %q, want refused", decision.Outcome)
	}
}

func TestDecideChangeTargetMissing(t *testing.T) {
	source := &eventSourceStub{}
	engine := newTestEngine(source, jst(t, 1, 12, 0))

	decision, err := engine.Decide(context.Background(), Request{
		OwnerTag: "user-1",
		Intent: Intent{
			Kind:  IntentChange,
			Start: jst(t, 2, 10, 0),
			End:   jst(t, 2, 11, 0),
		},
	})
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decision.Outcome != OutcomeNotFound {
		t.Fatalf("outcome = %q, want not_found", decision.Outcome)
	}
}

func TestDecidePropagatesSourceFailure(t *testing.T) {
	upstream := errors.New("calendar unavailable")
	engine := newTestEngine(&eventSourceStub{err: upstream}, jst(t, 1, 12, 0))

	_, err := engine.Decide(context.Background(), Request{
		Intent: Intent{Kind: IntentNew, Start: jst(t, 2, 10, 0), End: jst(t, 2, 11, 0)},
	})
	if !errors.Is(err, upstream) {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}

func TestDecideUnknownIntent(t *testing.T) {
	engine := newTestEngine(&eventSourceStub{}, jst(t, 1, 12, 0))

	_, err := engine.Decide(context.Background(), Request{Intent: Intent{Kind: "remind"}})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
