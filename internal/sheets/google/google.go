// Package google mirrors the ledger into a Google Sheets spreadsheet using
// a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"ledgerly/internal/codec"
	"ledgerly/internal/core"
	ports "ledgerly/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Ensure interface conformance
var (
	_ ports.TransactionMirror = (*Client)(nil)
	_ ports.CategoryMirror    = (*Client)(nil)
)

// Config names the spreadsheet and how to authenticate against it.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CategorySheet   string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	categorySheet string
	logger        *slog.Logger

	mu      sync.Mutex
	ensured map[string]bool
}

// New creates a Sheets client authenticated with service account
// credentials, inline or from a file.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg, logger)
}

// NewWithService wraps an existing service, e.g. one pointed at a test
// endpoint.
func NewWithService(svc *gsheet.Service, cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Transactions"
	}
	if cfg.CategorySheet == "" {
		cfg.CategorySheet = "Categories"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		categorySheet: cfg.CategorySheet,
		logger:        logger,
		ensured:       make(map[string]bool),
	}, nil
}

func credentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// ReplaceTransactions clears the transactions sheet and writes the same
// header and rows as the delimited export.
func (c *Client) ReplaceTransactions(ctx context.Context, txs []core.Transaction) error {
	if err := c.replace(ctx, c.sheetName, codec.Rows(txs)); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Mirrored transactions to Google Sheets",
		"sheet", c.sheetName, "count", len(txs))
	return nil
}

func (c *Client) ReplaceCategories(ctx context.Context, cats []core.Category) error {
	if err := c.replace(ctx, c.categorySheet, ports.CategoryRows(cats)); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Mirrored categories to Google Sheets",
		"sheet", c.categorySheet, "count", len(cats))
	return nil
}

func (c *Client) replace(ctx context.Context, sheet string, rows [][]string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if err := c.ensureSheet(ctx, sheet); err != nil {
		return err
	}

	rng := quoteSheet(sheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", sheet, err)
	}

	vr := &gsheet.ValueRange{Values: toValues(rows)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng+"!A1", vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", sheet, err)
	}
	return nil
}

// ensureSheet adds the tab when the spreadsheet does not have it yet.
func (c *Client) ensureSheet(ctx context.Context, sheet string) error {
	c.mu.Lock()
	done := c.ensured[sheet]
	c.mu.Unlock()
	if done {
		return nil
	}

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	exists := false
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			exists = true
			break
		}
	}
	if !exists {
		req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: sheet}},
		}}}
		if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("add sheet %s: %w", sheet, err)
		}
		c.logger.InfoContext(ctx, "Created sheet", "sheet", sheet)
	}

	c.mu.Lock()
	c.ensured[sheet] = true
	c.mu.Unlock()
	return nil
}

// quoteSheet wraps a sheet title in A1 notation quotes.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		row := make([]interface{}, len(r))
		for j, v := range r {
			row[j] = v
		}
		out[i] = row
	}
	return out
}
