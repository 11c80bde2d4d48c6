package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/example/booking-mediator/internal/interval"
)

// EventSource supplies snapshots of existing events overlapping a range.
// Implementations fetch from the real calendar store; tests inject stubs.
type EventSource interface {
	Events(ctx context.Context, from, to time.Time) ([]ExistingEvent, error)
}

// Request wraps one intent together with the requester's owner tag.
type Request struct {
	OwnerTag string
	Intent   Intent
}

// Engine runs the booking decision state machine. It holds no state across
// invocations; Decide may be called concurrently.
type Engine struct {
	source EventSource
	cfg    Config
	now    func() time.Time
}

// NewEngine wires the engine's collaborators. A nil now falls back to
// time.Now.
func NewEngine(source EventSource, cfg Config, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{source: source, cfg: cfg, now: now}
}

// Decide produces exactly one decision for the request. Validation failures
// surface as *ValidationError; snapshot failures are wrapped and propagated
// unmodified in meaning. NotFound and Refused are decisions, not errors.
//
// The engine assumes the snapshot and the caller's subsequent mutation are
// temporally close but does not guarantee atomicity; the read-then-act race
// belongs to the caller's store.
func (e *Engine) Decide(ctx context.Context, req Request) (Decision, error) {
	if e == nil || e.source == nil {
		return Decision{}, fmt.Errorf("booking: engine is not initialised")
	}

	intent := req.Intent
	switch intent.Kind {
	case IntentCancel:
		target, found, err := e.resolveTarget(ctx, req)
		if err != nil {
			return Decision{}, err
		}
		if !found {
			return Decision{Outcome: OutcomeNotFound}, nil
		}
		return Decision{Outcome: OutcomeDeleted, EventID: target.ID}, nil

	case IntentChange, IntentNew:
		if err := validateProposedRange(intent); err != nil {
			return Decision{}, err
		}

		excludeID := ""
		if intent.Kind == IntentChange {
			target, found, err := e.resolveTarget(ctx, req)
			if err != nil {
				return Decision{}, err
			}
			if !found {
				return Decision{Outcome: OutcomeNotFound}, nil
			}
			excludeID = target.ID
		}

		events, err := e.source.Events(ctx, intent.Start, intent.End)
		if err != nil {
			return Decision{}, fmt.Errorf("booking: list events: %w", err)
		}
		if HasConflict(events, excludeID) {
			alternatives, err := e.alternativesFor(ctx, intent)
			if err != nil {
				return Decision{}, err
			}
			return Decision{Outcome: OutcomeRefused, Alternatives: alternatives}, nil
		}

		proposed := intentRange(intent)
		if intent.Kind == IntentChange {
			return Decision{Outcome: OutcomeUpdated, EventID: excludeID, Range: proposed}, nil
		}
		return Decision{Outcome: OutcomeCreated, Range: proposed}, nil

	default:
		vErr := &ValidationError{}
		vErr.add("intent", fmt.Sprintf("unknown intent kind %q", intent.Kind))
		return Decision{}, vErr
	}
}

// resolveTarget fetches the search window and locates the referenced event.
func (e *Engine) resolveTarget(ctx context.Context, req Request) (ExistingEvent, bool, error) {
	window := TargetWindow(req.Intent.TargetStart, e.now())
	events, err := e.source.Events(ctx, window.Start, window.End)
	if err != nil {
		return ExistingEvent{}, false, fmt.Errorf("booking: list events: %w", err)
	}
	target, found := FindTargetEvent(events, req.OwnerTag, req.Intent.TargetStart)
	return target, found, nil
}

// alternativesFor computes the free slots on the proposed start's civil day,
// sized to the requested duration. The snapshot spans the whole day so that
// events straddling the working window still count as busy.
func (e *Engine) alternativesFor(ctx context.Context, intent Intent) ([]interval.TimeRange, error) {
	day := intent.Start.In(e.cfg.Location)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, e.cfg.Location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	events, err := e.source.Events(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("booking: list events: %w", err)
	}

	window := e.cfg.WorkingWindow(intent.Start)
	return ComputeFreeSlots(events, window, intent.End.Sub(intent.Start)), nil
}

func intentRange(intent Intent) interval.TimeRange {
	return interval.TimeRange{Start: intent.Start, End: intent.End}
}

// validateProposedRange enforces the precondition for new/change: both
// bounds present and ordered. Defaulting (missing end, inverted bounds) is
// the intent normalizer's job upstream of the engine.
func validateProposedRange(intent Intent) error {
	vErr := &ValidationError{}
	if intent.Start.IsZero() {
		vErr.add("start", "開始日時を特定できませんでした")
	}
	if intent.End.IsZero() {
		vErr.add("end", "終了日時を特定できませんでした")
	}
	if !intent.Start.IsZero() && !intent.End.IsZero() && !intent.End.After(intent.Start) {
		vErr.add("end", "終了日時は開始日時より後である必要があります")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}
