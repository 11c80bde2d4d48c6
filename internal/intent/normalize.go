package intent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/example/booking-mediator/internal/booking"
)

// RawIntent is the wire shape the extraction model is asked to emit.
type RawIntent struct {
	Intent     string  `json:"intent"`
	StartISO   string  `json:"start_iso"`
	EndISO     string  `json:"end_iso"`
	TargetISO  string  `json:"target_start_iso"`
	Summary    string  `json:"summary"`
	Notes      string  `json:"notes"`
	Timezone   string  `json:"timezone"`
	Confidence float64 `json:"confidence"`
}

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// ParsePayload recovers a RawIntent from model output. Models wrap JSON in
// prose or code fences often enough that a direct unmarshal failure falls
// back to the first braced block in the text.
func ParsePayload(text string) (RawIntent, error) {
	var raw RawIntent
	if err := json.Unmarshal([]byte(text), &raw); err == nil {
		return raw, nil
	}
	block := jsonBlock.FindString(text)
	if block == "" {
		return RawIntent{}, fmt.Errorf("intent: response did not contain JSON")
	}
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return RawIntent{}, fmt.Errorf("intent: parse response JSON: %w", err)
	}
	return raw, nil
}

// Normalize converts a raw extraction into a booking.Intent, applying the
// configured defaults: missing kind becomes new, missing timezone falls back
// to the configured zone, a missing or inverted end becomes start plus the
// default duration. Presence of start/end for new/change is the engine's
// validation concern, not ours.
func Normalize(raw RawIntent, cfg booking.Config) (booking.Intent, error) {
	kind := booking.IntentKind(strings.TrimSpace(raw.Intent))
	if kind == "" {
		kind = booking.IntentNew
	}

	summary := strings.TrimSpace(raw.Summary)
	if summary == "" {
		summary = "予約"
	}

	tz := strings.TrimSpace(raw.Timezone)
	loc := cfg.Location
	if tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		} else {
			tz = ""
		}
	}
	if tz == "" {
		tz = loc.String()
	}

	start, err := parseInstant(raw.StartISO, loc)
	if err != nil {
		return booking.Intent{}, err
	}
	end, err := parseInstant(raw.EndISO, loc)
	if err != nil {
		return booking.Intent{}, err
	}
	target, err := parseInstant(raw.TargetISO, loc)
	if err != nil {
		return booking.Intent{}, err
	}

	if !start.IsZero() && end.IsZero() {
		end = start.Add(cfg.DefaultDuration)
	}
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		end = start.Add(cfg.DefaultDuration)
	}

	return booking.Intent{
		Kind:        kind,
		Start:       start,
		End:         end,
		TargetStart: target,
		Summary:     summary,
		Notes:       strings.TrimSpace(raw.Notes),
		Timezone:    tz,
		Confidence:  raw.Confidence,
	}, nil
}

// parseInstant accepts RFC3339 and, for models that omit the offset, a bare
// local timestamp interpreted in loc. Empty input is not an error; it maps
// to the zero time.
func parseInstant(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "null") {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("intent: parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}
