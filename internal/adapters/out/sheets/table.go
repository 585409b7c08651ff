// Package sheets stores the ledger mirror in a Google spreadsheet with one tab per view. Row 1 of
// each tab is the header; data starts on row 2.
package sheets

import (
	"context"
	"fmt"
	"sync"

	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/pkg/errs"
)

const lastColumn = "L"

// valuesAPI is the slice of the Sheets API the table needs.
type valuesAPI interface {
	get(ctx context.Context, rng string) ([][]any, error)
	append(ctx context.Context, rng string, rows [][]any) error
	update(ctx context.Context, rng string, rows [][]any) error
	clear(ctx context.Context, rng string) error
	// deleteRow removes the row at a zero-based index of tab.
	deleteRow(ctx context.Context, tab string, index int64) error
}

type Table struct {
	api  valuesAPI
	tabs map[ports.MirrorView]string

	// mu keeps a lookup and the write addressing its row together.
	mu sync.Mutex
}

func newTable(api valuesAPI, pendingTab, completedTab string) *Table {
	return &Table{
		api: api,
		tabs: map[ports.MirrorView]string{
			ports.ViewPending:   pendingTab,
			ports.ViewCompleted: completedTab,
		},
	}
}

func (t *Table) List(ctx context.Context, view ports.MirrorView) ([]ports.MirrorRow, error) {
	tab, err := t.tab(view)
	if err != nil {
		return nil, err
	}
	return t.list(ctx, tab)
}

func (t *Table) Append(ctx context.Context, view ports.MirrorView, rows ...ports.MirrorRow) error {
	if len(rows) == 0 {
		return nil
	}
	tab, err := t.tab(view)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.api.append(ctx, columnsRange(tab), toValues(rows))
}

func (t *Table) Update(ctx context.Context, view ports.MirrorView, row ports.MirrorRow) error {
	tab, err := t.tab(view)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.find(ctx, tab, row.SystemID)
	if err != nil {
		return err
	}
	if i < 0 {
		return errs.NewObjectNotFoundError("systemId", row.SystemID)
	}
	return t.api.update(ctx, rowRange(tab, i+2), toValues([]ports.MirrorRow{row}))
}

func (t *Table) Delete(ctx context.Context, view ports.MirrorView, systemID string) error {
	tab, err := t.tab(view)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.find(ctx, tab, systemID)
	if err != nil || i < 0 {
		return err
	}
	return t.api.deleteRow(ctx, tab, int64(i+1))
}

func (t *Table) Replace(ctx context.Context, view ports.MirrorView, rows []ports.MirrorRow) error {
	tab, err := t.tab(view)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	header := make([]any, len(ports.MirrorColumns))
	for i, c := range ports.MirrorColumns {
		header[i] = c
	}
	if err = t.api.update(ctx, rowRange(tab, 1), [][]any{header}); err != nil {
		return err
	}
	if err = t.api.clear(ctx, dataRange(tab)); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return t.api.update(ctx, fmt.Sprintf("%s!A2:%s%d", tab, lastColumn, len(rows)+1), toValues(rows))
}

func (t *Table) tab(view ports.MirrorView) (string, error) {
	tab, ok := t.tabs[view]
	if !ok || tab == "" {
		return "", errs.NewValueIsInvalidErrorWithCause("view", fmt.Errorf("no tab for %q", view))
	}
	return tab, nil
}

func (t *Table) list(ctx context.Context, tab string) ([]ports.MirrorRow, error) {
	values, err := t.api.get(ctx, dataRange(tab))
	if err != nil {
		return nil, err
	}
	rows := make([]ports.MirrorRow, 0, len(values))
	for _, v := range values {
		cells := make([]string, len(v))
		for i, c := range v {
			cells[i] = fmt.Sprint(c)
		}
		rows = append(rows, ports.MirrorRowFromValues(cells))
	}
	return rows, nil
}

// find returns the position of systemID among the data rows, or -1.
func (t *Table) find(ctx context.Context, tab, systemID string) (int, error) {
	rows, err := t.list(ctx, tab)
	if err != nil {
		return -1, err
	}
	for i, r := range rows {
		if r.SystemID == systemID {
			return i, nil
		}
	}
	return -1, nil
}

func toValues(rows []ports.MirrorRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		cells := r.Values()
		row := make([]any, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		out[i] = row
	}
	return out
}

func columnsRange(tab string) string {
	return fmt.Sprintf("%s!A:%s", tab, lastColumn)
}

func dataRange(tab string) string {
	return fmt.Sprintf("%s!A2:%s", tab, lastColumn)
}

// rowRange addresses a one-based sheet row.
func rowRange(tab string, row int) string {
	return fmt.Sprintf("%s!A%d:%s%d", tab, row, lastColumn, row)
}
