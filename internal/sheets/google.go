package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Client wraps the Google Sheets API service.
type Client struct {
	svc *sheetsapi.Service
}

// NewClient creates a Sheets client. credentialsFile is a service account
// JSON key; empty falls back to application default credentials.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Open returns a handle on the spreadsheet identified by a bare ID or a
// full Sheets URL. The document is fetched once to validate access.
func (c *Client) Open(ctx context.Context, idOrURL string) (Spreadsheet, error) {
	id, err := ParseSpreadsheetID(idOrURL)
	if err != nil {
		return nil, err
	}

	if _, err := c.svc.Spreadsheets.Get(id).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("opening spreadsheet %s: %w", id, err)
	}
	return &googleSpreadsheet{svc: c.svc, id: id}, nil
}

// googleSpreadsheet implements Spreadsheet over the Sheets API.
type googleSpreadsheet struct {
	svc *sheetsapi.Service
	id  string
}

func (g *googleSpreadsheet) WorksheetTitles(ctx context.Context) ([]string, error) {
	doc, err := g.svc.Spreadsheets.Get(g.id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet %s: %w", g.id, err)
	}

	titles := make([]string, 0, len(doc.Sheets))
	for _, sheet := range doc.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

func (g *googleSpreadsheet) Worksheet(ctx context.Context, title string) (Worksheet, error) {
	doc, err := g.svc.Spreadsheets.Get(g.id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetching spreadsheet %s: %w", g.id, err)
	}

	for _, sheet := range doc.Sheets {
		props := sheet.Properties
		if props == nil || props.Title != title {
			continue
		}
		ws := &googleWorksheet{svc: g.svc, spreadsheetID: g.id, sheetID: props.SheetId, title: title}
		if props.GridProperties != nil {
			ws.rows = int(props.GridProperties.RowCount)
			ws.cols = int(props.GridProperties.ColumnCount)
		}
		return ws, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, title)
}

func (g *googleSpreadsheet) AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error) {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: title,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}

	resp, err := g.svc.Spreadsheets.BatchUpdate(g.id, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("adding worksheet %q: %w", title, err)
	}

	ws := &googleWorksheet{svc: g.svc, spreadsheetID: g.id, title: title, rows: rows, cols: cols}
	if len(resp.Replies) > 0 && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		ws.sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}
	return ws, nil
}

// googleWorksheet implements Worksheet over the Sheets API. Grid extents are
// cached at open time and maintained across Resize so the sync controller
// can consult them without extra round trips.
type googleWorksheet struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetID       int64
	title         string
	rows          int
	cols          int
}

func (w *googleWorksheet) Title() string { return w.title }
func (w *googleWorksheet) Rows() int     { return w.rows }
func (w *googleWorksheet) Cols() int     { return w.cols }

func (w *googleWorksheet) Resize(ctx context.Context, rows, cols int) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
				Properties: &sheetsapi.SheetProperties{
					SheetId: w.sheetID,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
				Fields: "gridProperties(rowCount,columnCount)",
			},
		}},
	}

	if _, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("resizing to %dx%d: %w", rows, cols, err)
	}
	w.rows = rows
	w.cols = cols
	return nil
}

func (w *googleWorksheet) Clear(ctx context.Context) error {
	_, err := w.svc.Spreadsheets.Values.
		Clear(w.spreadsheetID, w.quotedTitle(), &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing values: %w", err)
	}
	return nil
}

func (w *googleWorksheet) Update(ctx context.Context, startCell string, values [][]string) error {
	return w.update(ctx, fmt.Sprintf("%s!%s", w.quotedTitle(), startCell), values)
}

func (w *googleWorksheet) UpdateRange(ctx context.Context, rangeLabel string, values [][]string) error {
	return w.update(ctx, fmt.Sprintf("%s!%s", w.quotedTitle(), rangeLabel), values)
}

func (w *googleWorksheet) update(ctx context.Context, fullRange string, values [][]string) error {
	vr := &sheetsapi.ValueRange{Values: toValueRows(values)}
	_, err := w.svc.Spreadsheets.Values.
		Update(w.spreadsheetID, fullRange, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("updating %s: %w", fullRange, err)
	}
	return nil
}

func (w *googleWorksheet) Values(ctx context.Context) ([][]string, error) {
	resp, err := w.svc.Spreadsheets.Values.
		Get(w.spreadsheetID, w.quotedTitle()).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting values: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%v", cell)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// quotedTitle quotes the tab name for use in A1 notation, where titles with
// spaces or punctuation need single quotes.
func (w *googleWorksheet) quotedTitle() string {
	return "'" + w.title + "'"
}

// toValueRows converts string cells to the API's interface{} rows.
func toValueRows(values [][]string) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return out
}
