// Package config loads the mediator's process configuration from the
// environment once at startup. Core packages never read the environment
// themselves; they receive the values through explicit configuration
// structs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/booking-mediator/internal/booking"
)

// Config captures environment driven configuration values for the mediator.
type Config struct {
	HTTPPort int

	TimezoneName    string
	Location        *time.Location
	WorkStart       booking.DayTime
	WorkEnd         booking.DayTime
	DefaultDuration time.Duration

	CalendarID         string
	ServiceAccountFile string

	LINEChannelSecret string
	LINEChannelToken  string

	GeminiAPIKey string
	GeminiModel  string

	AuditSQLiteDSN     string
	AuditSpreadsheetID string
	AuditSheetName     string
}

// Booking derives the engine configuration.
func (c Config) Booking() booking.Config {
	return booking.Config{
		WorkStart:       c.WorkStart,
		WorkEnd:         c.WorkEnd,
		DefaultDuration: c.DefaultDuration,
		Location:        c.Location,
	}
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults; required values and
// malformed entries are accumulated and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		TimezoneName:    "Asia/Tokyo",
		WorkStart:       booking.DayTime{Hour: 9},
		WorkEnd:         booking.DayTime{Hour: 18},
		DefaultDuration: 60 * time.Minute,
		GeminiModel:     "gemini-1.5-flash",
		AuditSQLiteDSN:  "file:audit.db",
		AuditSheetName:  "Logs",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("MEDIATOR_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "MEDIATOR_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if tz := strings.TrimSpace(os.Getenv("TIMEZONE")); tz != "" {
		cfg.TimezoneName = tz
	}
	loc, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		invalid = append(invalid, "TIMEZONE")
	} else {
		cfg.Location = loc
	}

	if value := strings.TrimSpace(os.Getenv("WORK_START")); value != "" {
		if parsed, err := booking.ParseDayTime(value); err != nil {
			invalid = append(invalid, "WORK_START")
		} else {
			cfg.WorkStart = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("WORK_END")); value != "" {
		if parsed, err := booking.ParseDayTime(value); err != nil {
			invalid = append(invalid, "WORK_END")
		} else {
			cfg.WorkEnd = parsed
		}
	}
	if cfg.WorkEnd.Hour*60+cfg.WorkEnd.Minute <= cfg.WorkStart.Hour*60+cfg.WorkStart.Minute {
		invalid = append(invalid, "WORK_END")
	}

	for _, required := range []struct {
		key    string
		target *string
	}{
		{"CALENDAR_ID", &cfg.CalendarID},
		{"GOOGLE_SERVICE_ACCOUNT_FILE", &cfg.ServiceAccountFile},
		{"LINE_CHANNEL_SECRET", &cfg.LINEChannelSecret},
		{"LINE_CHANNEL_ACCESS_TOKEN", &cfg.LINEChannelToken},
		{"GEMINI_API_KEY", &cfg.GeminiAPIKey},
	} {
		if value := strings.TrimSpace(os.Getenv(required.key)); value == "" {
			missing = append(missing, required.key)
		} else {
			*required.target = value
		}
	}

	if value := strings.TrimSpace(os.Getenv("DEFAULT_DURATION_MINUTES")); value != "" {
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 {
			invalid = append(invalid, "DEFAULT_DURATION_MINUTES")
		} else {
			cfg.DefaultDuration = time.Duration(minutes) * time.Minute
		}
	}

	if model := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); model != "" {
		cfg.GeminiModel = model
	}
	if dsn := strings.TrimSpace(os.Getenv("AUDIT_SQLITE_DSN")); dsn != "" {
		cfg.AuditSQLiteDSN = dsn
	}
	cfg.AuditSpreadsheetID = strings.TrimSpace(os.Getenv("AUDIT_SPREADSHEET_ID"))
	if name := strings.TrimSpace(os.Getenv("AUDIT_SHEET_NAME")); name != "" {
		cfg.AuditSheetName = name
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("必須の環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
