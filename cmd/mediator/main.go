package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/booking-mediator/internal/application"
	"github.com/example/booking-mediator/internal/audit"
	"github.com/example/booking-mediator/internal/booking"
	"github.com/example/booking-mediator/internal/calendar"
	"github.com/example/booking-mediator/internal/config"
	httptransport "github.com/example/booking-mediator/internal/http"
	"github.com/example/booking-mediator/internal/intent"
	"github.com/example/booking-mediator/internal/line"
	"github.com/example/booking-mediator/internal/logging"
)

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	trail, err := audit.Open(cfg.AuditSQLiteDSN)
	if err != nil {
		logger.Error("failed to open audit store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := trail.Close(); cerr != nil {
			logger.Error("failed to close audit store", "error", cerr)
		}
	}()

	if err := trail.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply audit migrations", "error", err)
		os.Exit(1)
	}

	credentials, err := os.ReadFile(cfg.ServiceAccountFile)
	if err != nil {
		logger.Error("failed to read service account credentials", "error", err)
		os.Exit(1)
	}

	var sink audit.Sink = trail
	if cfg.AuditSpreadsheetID != "" {
		sheetsSink, serr := audit.NewSheetsSink(ctx, credentials, cfg.AuditSpreadsheetID, cfg.AuditSheetName)
		if serr != nil {
			logger.Error("failed to initialise sheets audit sink", "error", serr)
			os.Exit(1)
		}
		sink = audit.MultiSink{trail, sheetsSink}
	}

	store, err := calendar.NewStore(ctx, credentials, cfg.CalendarID, cfg.Location)
	if err != nil {
		logger.Error("failed to initialise calendar store", "error", err)
		os.Exit(1)
	}

	extractor, err := intent.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Booking())
	if err != nil {
		logger.Error("failed to initialise intent extractor", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := extractor.Close(); cerr != nil {
			logger.Error("failed to close intent extractor", "error", cerr)
		}
	}()

	lineClient, err := line.NewClient(cfg.LINEChannelSecret, cfg.LINEChannelToken)
	if err != nil {
		logger.Error("failed to initialise LINE client", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	engine := booking.NewEngine(store, cfg.Booking(), now)
	mediator := application.NewMediationService(
		engine,
		newCalendarStoreAdapter(store),
		extractor,
		extractor,
		sink,
		cfg.Booking(),
		idGenerator,
		now,
		logger,
	)

	webhook := httptransport.NewWebhookHandler(mediator, lineClient, lineClient, logger)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Webhook: webhook,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking mediator listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type calendarStoreAdapter struct {
	store *calendar.Store
}

func newCalendarStoreAdapter(store *calendar.Store) *calendarStoreAdapter {
	return &calendarStoreAdapter{store: store}
}

func (a *calendarStoreAdapter) Insert(ctx context.Context, appt application.Appointment) (string, error) {
	return a.store.Insert(ctx, toCalendarAppointment(appt))
}

func (a *calendarStoreAdapter) Update(ctx context.Context, eventID string, appt application.Appointment) error {
	return a.store.Update(ctx, eventID, toCalendarAppointment(appt))
}

func (a *calendarStoreAdapter) Delete(ctx context.Context, eventID string) error {
	return a.store.Delete(ctx, eventID)
}

func toCalendarAppointment(appt application.Appointment) calendar.Appointment {
	return calendar.Appointment{
		Summary:  appt.Summary,
		OwnerTag: appt.OwnerTag,
		Mode:     appt.Mode,
		Notes:    appt.Notes,
		Range:    appt.Range,
		Timezone: appt.Timezone,
	}
}
