// Package export writes monthly budget summaries to a Google Sheets
// spreadsheet, one row per month of the current year.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budgets/internal/budget"
	"budgets/internal/log"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	summarySheet  string
	logger        *log.Logger
}

var _ SummaryWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Budget"), year-prefixed per sheet.
func NewFromEnv(ctx context.Context, logger *log.Logger) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetBase := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetBase == "" {
		sheetBase = "Budget"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		summarySheet:  fmt.Sprintf("%d %s", time.Now().Year(), sheetBase),
		logger:        logger.WithComponent(log.ComponentExport),
	}, nil
}

// newSheetsService initializes a Sheets service from service-account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteMonthSummary upserts the row for the summary's month. Row layout:
// month | money in | money out | sign | net. Rows 2..13 map to months
// 1..12; row 1 is the header.
func (c *Client) WriteMonthSummary(ctx context.Context, s budget.Summary) (string, error) {
	row := s.Month + 1
	writeRange := fmt.Sprintf("%s!A%d:E%d", c.summarySheet, row, row)

	values := &gsheet.ValueRange{
		Range: writeRange,
		Values: [][]any{{
			time.Month(s.Month).String(),
			s.MoneyIn.Format(),
			s.MoneyOut.Format(),
			s.Net.Sign,
			s.Net.Amount.Format(),
		}},
	}

	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, writeRange, values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("update summary range %s: %w", writeRange, err)
	}

	c.logger.InfoContext(ctx, "Wrote month summary",
		log.FieldYear, s.Year,
		log.FieldMonth, s.Month,
		log.FieldSheetsRef, writeRange)

	return writeRange, nil
}
