package sheets

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInput = "RAW"

type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	PendingTab      string
	CompletedTab    string
}

// NewTable connects to the spreadsheet with a service-account credentials file.
func NewTable(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Table, error) {
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, append(opts, option.WithScopes(sheets.SpreadsheetsScope))...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return newTable(&serviceAPI{svc: svc, spreadsheetID: cfg.SpreadsheetID}, cfg.PendingTab, cfg.CompletedTab), nil
}

type serviceAPI struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

func (a *serviceAPI) get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (a *serviceAPI) append(ctx context.Context, rng string, rows [][]any) error {
	_, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption(valueInput).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (a *serviceAPI) update(ctx context.Context, rng string, rows [][]any) error {
	_, err := a.svc.Spreadsheets.Values.Update(a.spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption(valueInput).
		Context(ctx).
		Do()
	return err
}

func (a *serviceAPI) clear(ctx context.Context, rng string) error {
	_, err := a.svc.Spreadsheets.Values.Clear(a.spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (a *serviceAPI) deleteRow(ctx context.Context, tab string, index int64) error {
	sheetID, err := a.sheetID(ctx, tab)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: index,
					EndIndex:   index + 1,
					// the first tab has id 0, which omitempty would drop
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	_, err = a.svc.Spreadsheets.BatchUpdate(a.spreadsheetID, req).Context(ctx).Do()
	return err
}

// sheetID resolves a tab title to its numeric id once.
func (a *serviceAPI) sheetID(ctx context.Context, tab string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if id, ok := a.sheetIDs[tab]; ok {
		return id, nil
	}

	ss, err := a.svc.Spreadsheets.Get(a.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	a.sheetIDs = make(map[string]int64, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			a.sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}
	id, ok := a.sheetIDs[tab]
	if !ok {
		return 0, fmt.Errorf("tab %q not found in spreadsheet", tab)
	}
	return id, nil
}
