package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// NewOAuthClient builds an authenticated HTTP client from a Google
// Cloud credentials file and a previously cached token file (see
// cmd/sheets-auth-helper for the one-shot token bootstrap)
func NewOAuthClient(ctx context.Context, credentialsPath, tokenPath string) (*http.Client, error) {
	credentials, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(credentials, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	tokenData, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return config.Client(ctx, &token), nil
}

// SheetsConfig holds configuration for the Google Sheets writer
type SheetsConfig struct {
	// SpreadsheetID identifies the spreadsheet backing the view
	SpreadsheetID string

	// HTTPClient is an OAuth2-authenticated client
	HTTPClient *http.Client

	// Ranges is every mapped cell range; ClearAll blanks exactly these
	Ranges []string
}

// SheetsWriter pushes cell values into a Google spreadsheet
type SheetsWriter struct {
	service       *sheets.Service
	spreadsheetID string
	ranges        []string
}

// NewSheetsWriter creates a writer against the Sheets API
func NewSheetsWriter(ctx context.Context, cfg *SheetsConfig) (*SheetsWriter, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet ID cannot be empty")
	}

	if cfg.HTTPClient == nil {
		return nil, errors.New("HTTP client cannot be nil")
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.HTTPClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	return &SheetsWriter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		ranges:        cfg.Ranges,
	}, nil
}

// WriteCell sets one cell to the given value
func (w *SheetsWriter) WriteCell(ctx context.Context, cellRange, value string) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}

	_, err := w.service.Spreadsheets.Values.
		Update(w.spreadsheetID, cellRange, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s: %w", cellRange, err)
	}

	return nil
}

// ClearAll blanks every mapped cell in one batch request
func (w *SheetsWriter) ClearAll(ctx context.Context) error {
	if len(w.ranges) == 0 {
		return nil
	}

	_, err := w.service.Spreadsheets.Values.
		BatchClear(w.spreadsheetID, &sheets.BatchClearValuesRequest{
			Ranges: w.ranges,
		}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear cells: %w", err)
	}

	return nil
}
