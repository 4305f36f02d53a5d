package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"app/internal/config"
)

// RangeAPI is the surface the repositories use to talk to the spreadsheet
// document. A1 ranges follow the usual "Hoja!A:E" notation. Implementations
// must treat a fetch of a missing sheet as an error so callers can lazily
// create it.
type RangeAPI interface {
	GetRange(ctx context.Context, rangeA1 string) ([][]interface{}, error)
	UpdateRange(ctx context.Context, rangeA1 string, values [][]interface{}) error
	AppendRange(ctx context.Context, rangeA1 string, values [][]interface{}) error
	// SheetID resolves a sheet title to the document-internal sheet id.
	// The second return reports whether the sheet exists.
	SheetID(ctx context.Context, title string) (int64, bool, error)
	AddSheet(ctx context.Context, title string) error
	// DeleteRow removes one row by zero-based index (header row included).
	DeleteRow(ctx context.Context, sheetID int64, rowIndex int64) error
}

// Client wraps the Sheets v4 service for a single spreadsheet document.
type Client struct {
	svc           *sheetsv4.Service
	spreadsheetID string
}

var _ RangeAPI = (*Client)(nil)

// NewClient builds an authenticated client from service-account credentials.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.SheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is not set")
	}

	conf := &jwt.Config{
		Email:      cfg.GoogleClientEmail,
		PrivateKey: []byte(NormalizePrivateKey(cfg.GooglePrivateKey)),
		Scopes:     []string{sheetsv4.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsv4.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets client: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: cfg.SheetID}, nil
}

// NormalizePrivateKey undoes the escaping variants a PEM key picks up on its
// way through env files: literal "\n" sequences, CRLF line endings, and
// surrounding quotes. The result always ends in a newline so every input
// variant normalizes to the same bytes.
func NormalizePrivateKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.Trim(key, `"`)
	key = strings.ReplaceAll(key, `\n`, "\n")
	key = strings.ReplaceAll(key, "\r\n", "\n")
	key = strings.ReplaceAll(key, "\r", "\n")
	if key != "" && !strings.HasSuffix(key, "\n") {
		key += "\n"
	}
	return key
}

func (c *Client) GetRange(ctx context.Context, rangeA1 string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %s: %w", rangeA1, err)
	}
	return resp.Values, nil
}

func (c *Client) UpdateRange(ctx context.Context, rangeA1 string, values [][]interface{}) error {
	vr := &sheetsv4.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rangeA1, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating range %s: %w", rangeA1, err)
	}
	return nil
}

func (c *Client) AppendRange(ctx context.Context, rangeA1 string, values [][]interface{}) error {
	vr := &sheetsv4.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rangeA1, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending to range %s: %w", rangeA1, err)
	}
	return nil
}

func (c *Client) SheetID(ctx context.Context, title string) (int64, bool, error) {
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, false, fmt.Errorf("listing sheets: %w", err)
	}
	for _, s := range doc.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

func (c *Client) AddSheet(ctx context.Context, title string) error {
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			AddSheet: &sheetsv4.AddSheetRequest{
				Properties: &sheetsv4.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("adding sheet %s: %w", title, err)
	}
	return nil
}

func (c *Client) DeleteRow(ctx context.Context, sheetID int64, rowIndex int64) error {
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			DeleteDimension: &sheetsv4.DeleteDimensionRequest{
				Range: &sheetsv4.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: rowIndex,
					EndIndex:   rowIndex + 1,
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("deleting row %d from sheet %d: %w", rowIndex, sheetID, err)
	}
	return nil
}
