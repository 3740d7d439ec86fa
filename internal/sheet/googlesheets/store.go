package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/socs4ai/standards-tracker/internal/sheet"
)

// Store is a sheet.TabularStore backed by the Google Sheets API v4, bound
// to one spreadsheet and one tab.
type Store struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	tab           string
	logger        *slog.Logger
}

// Config for the Sheets store.
type Config struct {
	SpreadsheetID   string
	TabName         string // defaults to "Sheet1"
	CredentialsPath string // service account JSON
}

// NewStore builds the Sheets service from service-account credentials.
func NewStore(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if cfg.TabName == "" {
		cfg.TabName = "Sheet1"
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Store{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		tab:           cfg.TabName,
		logger:        logger,
	}, nil
}

// ReadColumn fetches the whole column, e.g. range "'Tracker'!A:A". Rows the
// API omits trailing values for come back blank, preserving positions.
func (s *Store) ReadColumn(ctx context.Context, column string) (sheet.KeyColumnSnapshot, error) {
	start := time.Now()
	rng := s.rangeFor(fmt.Sprintf("%s:%s", column, column))

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, classify(err, "read column "+rng)
	}

	snapshot := make(sheet.KeyColumnSnapshot, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			snapshot = append(snapshot, "")
			continue
		}
		snapshot = append(snapshot, fmt.Sprint(row[0]))
	}

	s.logger.Debug("sheets.read_column.ok",
		"range", rng,
		"rows", len(snapshot),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return snapshot, nil
}

// WriteCell overwrites one cell with ValueInputOption RAW, so values are
// stored verbatim rather than parsed.
func (s *Store) WriteCell(ctx context.Context, address string, value string) error {
	rng := s.rangeFor(address)
	body := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return classify(err, "write cell "+rng)
	}
	return nil
}

// rangeFor quotes the tab name in case it contains spaces.
func (s *Store) rangeFor(ref string) string {
	return fmt.Sprintf("'%s'!%s", s.tab, ref)
}

// classify maps Google API errors onto the store error taxonomy.
func classify(err error, op string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch {
		case gerr.Code == 401:
			return sheet.NewStoreError(sheet.KindAuth, op, err)
		case gerr.Code == 403:
			return sheet.NewStoreError(sheet.KindPermission, op, err)
		case gerr.Code == 404:
			return sheet.NewStoreError(sheet.KindNotFound, op, err)
		case gerr.Code == 429:
			return sheet.NewStoreError(sheet.KindRateLimit, op, err)
		case gerr.Code == 400:
			return sheet.NewStoreError(sheet.KindInvalidAddress, op, err)
		case gerr.Code >= 500:
			return sheet.NewStoreError(sheet.KindTransport, op, err)
		}
	}
	// Timeouts, connection resets and anything else unclassified are
	// treated as transient transport failures.
	return sheet.NewStoreError(sheet.KindTransport, op, err)
}
