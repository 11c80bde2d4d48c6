// Package application orchestrates one webhook message end to end: intent
// extraction, the booking decision, the calendar mutation that applies it,
// reply composition and the audit trail.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/booking-mediator/internal/audit"
	"github.com/example/booking-mediator/internal/booking"
	"github.com/example/booking-mediator/internal/intent"
	"github.com/example/booking-mediator/internal/interval"
)

// maxAlternatives caps the free slots offered back on a refusal.
const maxAlternatives = 3

// Appointment is the application's write model for calendar mutations.
type Appointment struct {
	Summary  string
	OwnerTag string
	Mode     string
	Notes    string
	Range    interval.TimeRange
	Timezone string
}

// CalendarStore applies decisions to the real calendar.
type CalendarStore interface {
	Insert(ctx context.Context, appt Appointment) (string, error)
	Update(ctx context.Context, eventID string, appt Appointment) error
	Delete(ctx context.Context, eventID string) error
}

// IntentExtractor turns free text into a structured, normalized intent.
type IntentExtractor interface {
	ExtractIntent(ctx context.Context, text string, mode intent.Mode) (booking.Intent, error)
}

// RefusalComposer writes the decline reply offering alternative slots.
type RefusalComposer interface {
	ComposeRefusal(ctx context.Context, mode intent.Mode, text string, slots []string) (string, error)
}

// Decider runs the booking decision state machine.
type Decider interface {
	Decide(ctx context.Context, req booking.Request) (booking.Decision, error)
}

// Audit row statuses.
const (
	statusCreated    = "created"
	statusUpdated    = "updated"
	statusCancelled  = "cancelled"
	statusConflict   = "conflict"
	statusNotFound   = "not_found"
	statusValidation = "validation"
	statusError      = "error"
)

// MediationService handles one scheduling message per call. It holds no
// per-request state and is safe for concurrent use.
type MediationService struct {
	decider     Decider
	store       CalendarStore
	extractor   IntentExtractor
	composer    RefusalComposer
	trail       audit.Sink
	cfg         booking.Config
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewMediationService wires dependencies for message handling.
func NewMediationService(decider Decider, store CalendarStore, extractor IntentExtractor, composer RefusalComposer, trail audit.Sink, cfg booking.Config, idGenerator func() string, now func() time.Time, logger *slog.Logger) *MediationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MediationService{
		decider:     decider,
		store:       store,
		extractor:   extractor,
		composer:    composer,
		trail:       trail,
		cfg:         cfg,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// HandleMessage mediates one user message and returns the reply text. It
// never returns an error: every failure path yields a polite reply and an
// audit row, so the webhook can always answer the user.
func (s *MediationService) HandleMessage(ctx context.Context, text, userID string) string {
	mode := intent.DetectMode(text)
	logger := serviceLogger(ctx, s.logger, "mediation", "handle_message", "mode", string(mode))

	rec := audit.Record{
		ID:        s.idGenerator(),
		Timestamp: s.now().UTC(),
		UserID:    userID,
		Mode:      string(mode),
		Status:    statusError,
		Message:   msgInternalError,
	}
	// The audit row is written even when mediation fails part way through.
	defer s.appendAudit(ctx, logger, &rec)

	extracted, err := s.extractor.ExtractIntent(ctx, text, mode)
	if err != nil {
		logger.ErrorContext(ctx, "intent extraction failed", "error", err, "error_kind", ErrorKind(err))
		rec.Error = err.Error()
		return rec.Message
	}
	rec.Intent = string(extracted.Kind)
	rec.Start = extracted.Start
	rec.End = extracted.End

	decision, err := s.decider.Decide(ctx, booking.Request{OwnerTag: userID, Intent: extracted})
	if err != nil {
		rec.Error = err.Error()
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			logger.InfoContext(ctx, "intent rejected by validation", "fields", vErr.FieldErrors)
			rec.Status = statusValidation
			rec.Message = msgMissingBounds
			return rec.Message
		}
		logger.ErrorContext(ctx, "decision failed", "error", err, "error_kind", ErrorKind(err))
		return rec.Message
	}

	reply, status, err := s.applyDecision(ctx, decision, extracted, text, mode, userID)
	if err != nil {
		logger.ErrorContext(ctx, "applying decision failed", "outcome", string(decision.Outcome), "error", err)
		rec.Error = err.Error()
		return rec.Message
	}

	logger.InfoContext(ctx, "request mediated", "outcome", string(decision.Outcome), "status", status)
	rec.Status = status
	rec.Message = reply
	rec.Error = ""
	return reply
}

// applyDecision performs the calendar mutation a decision calls for and
// selects the reply.
func (s *MediationService) applyDecision(ctx context.Context, decision booking.Decision, extracted booking.Intent, text string, mode intent.Mode, userID string) (string, string, error) {
	switch decision.Outcome {
	case booking.OutcomeNotFound:
		if extracted.Kind == booking.IntentChange {
			return msgChangeNotFound, statusNotFound, nil
		}
		return msgCancelNotFound, statusNotFound, nil

	case booking.OutcomeDeleted:
		if err := s.store.Delete(ctx, decision.EventID); err != nil {
			return "", "", err
		}
		return msgCancelled, statusCancelled, nil

	case booking.OutcomeRefused:
		slots := FormatSlots(decision.Alternatives, s.cfg.Location, maxAlternatives)
		reply := s.composeRefusal(ctx, mode, text, slots)
		return reply, statusConflict, nil

	case booking.OutcomeUpdated:
		if err := s.store.Update(ctx, decision.EventID, s.appointment(extracted, mode, userID)); err != nil {
			return "", "", err
		}
		return msgUpdated(decision.Range.Start, s.cfg.Location), statusUpdated, nil

	case booking.OutcomeCreated:
		if _, err := s.store.Insert(ctx, s.appointment(extracted, mode, userID)); err != nil {
			return "", "", err
		}
		return msgCreated(decision.Range.Start, s.cfg.Location), statusCreated, nil

	default:
		return "", "", fmt.Errorf("application: unknown outcome %q", decision.Outcome)
	}
}

// composeRefusal prefers the model-written reply and falls back to the
// static template when the composer is unavailable.
func (s *MediationService) composeRefusal(ctx context.Context, mode intent.Mode, text string, slots []string) string {
	if s.composer == nil {
		return fallbackRefusal(slots)
	}
	reply, err := s.composer.ComposeRefusal(ctx, mode, text, slots)
	if err != nil || reply == "" {
		serviceLogger(ctx, s.logger, "mediation", "compose_refusal").
			WarnContext(ctx, "refusal composition failed, using template", "error", err)
		return fallbackRefusal(slots)
	}
	return reply
}

func (s *MediationService) appointment(extracted booking.Intent, mode intent.Mode, userID string) Appointment {
	return Appointment{
		Summary:  extracted.Summary,
		OwnerTag: userID,
		Mode:     string(mode),
		Notes:    extracted.Notes,
		Range:    interval.TimeRange{Start: extracted.Start, End: extracted.End},
		Timezone: extracted.Timezone,
	}
}

func (s *MediationService) appendAudit(ctx context.Context, logger *slog.Logger, rec *audit.Record) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Append(ctx, *rec); err != nil {
		logger.ErrorContext(ctx, "audit append failed", "error", err, "record_id", rec.ID)
	}
}
