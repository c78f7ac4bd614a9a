// Package google mirrors saved weeks into a Google Sheets spreadsheet, one
// tab per week.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"worklog/internal/core"
	ports "worklog/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultSheetPrefix names week tabs "Week 2025_M10_W42".
const DefaultSheetPrefix = "Week"

var _ ports.WeekMirror = (*Client)(nil)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetPrefix   string
}

// Options selects the spreadsheet and service account credentials. Inline
// JSON wins over the file.
type Options struct {
	SpreadsheetID   string
	SheetPrefix     string
	CredentialsJSON string
	CredentialsFile string
}

// New creates a Sheets client authenticated as a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	creds, err := credentials(opts)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	prefix := strings.TrimSpace(opts.SheetPrefix)
	if prefix == "" {
		prefix = DefaultSheetPrefix
	}
	slog.InfoContext(ctx, "Google Sheets client created", "spreadsheet_id", spreadsheetID, "sheet_prefix", prefix)
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetPrefix: prefix}, nil
}

func credentials(opts Options) ([]byte, error) {
	if j := strings.TrimSpace(opts.CredentialsJSON); j != "" {
		return []byte(j), nil
	}
	if f := strings.TrimSpace(opts.CredentialsFile); f != "" {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// SheetName returns the tab that holds key.
func (c *Client) SheetName(key core.WeekKey) string {
	return sheetName(c.sheetPrefix, key)
}

// MirrorWeek replaces the week's tab with a header row and rows, creating
// the tab on first use.
func (c *Client) MirrorWeek(ctx context.Context, key core.WeekKey, rows []core.WorkLogRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	tab := c.SheetName(key)
	if err := c.ensureSheet(ctx, tab); err != nil {
		return err
	}

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, a1Range(tab, "A:G"), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", tab, err)
	}

	vr := &gsheet.ValueRange{Values: weekValues(rows)}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, a1Range(tab, "A1"), vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", tab, err)
	}

	slog.InfoContext(ctx, "Week mirrored to Google Sheets", "sheet_tab", tab, "rows", len(rows))
	return nil
}

// ReadWeek returns the rows currently mirrored for key. A missing tab
// yields no rows.
func (c *Client) ReadWeek(ctx context.Context, key core.WeekKey) ([]core.WorkLogRow, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	tab := c.SheetName(key)
	exists, err := c.hasSheet(ctx, tab)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []core.WorkLogRow{}, nil
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1Range(tab, "A:G")).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tab, err)
	}
	return parseWeekValues(resp.Values)
}

func (c *Client) hasSheet(ctx context.Context, tab string) (bool, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) ensureSheet(ctx context.Context, tab string) error {
	exists, err := c.hasSheet(ctx, tab)
	if err != nil || exists {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: tab}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", tab, err)
	}
	slog.InfoContext(ctx, "Created week sheet", "sheet_tab", tab)
	return nil
}

func sheetName(prefix string, key core.WeekKey) string {
	return prefix + " " + key.String()
}

// a1Range quotes tab for A1 notation; embedded quotes are doubled.
func a1Range(tab, cells string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!" + cells
}
