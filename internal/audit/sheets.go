package audit

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSink appends audit rows to a Google Sheets spreadsheet, mirroring
// the columns of the SQLite store minus the generated id.
type SheetsSink struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsSink authenticates with service-account credentials and binds the
// sink to one sheet of the spreadsheet.
func NewSheetsSink(ctx context.Context, credentials []byte, spreadsheetID, sheetName string) (*SheetsSink, error) {
	jwt, err := google.JWTConfigFromJSON(credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("audit: parse service account credentials: %w", err)
	}
	service, err := sheets.NewService(ctx, option.WithTokenSource(jwt.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("audit: create sheets service: %w", err)
	}
	return &SheetsSink{service: service, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// Append writes the record as one spreadsheet row.
func (s *SheetsSink) Append(ctx context.Context, rec Record) error {
	body := &sheets.ValueRange{Values: [][]interface{}{rowValues(rec)}}
	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, fmt.Sprintf("%s!A1", s.sheetName), body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("audit: append sheet row: %w", err)
	}
	return nil
}

func rowValues(rec Record) []interface{} {
	return []interface{}{
		rec.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		rec.UserID,
		rec.Mode,
		rec.Intent,
		formatInstant(rec.Start),
		formatInstant(rec.End),
		rec.Status,
		rec.Message,
		rec.Error,
	}
}
