package ports

import (
	"context"
)

// MirrorView is one tab of the external sheet.
type MirrorView string

const (
	ViewPending   MirrorView = "pending"
	ViewCompleted MirrorView = "completed"
)

// MirrorColumns is the fixed column order of both views.
var MirrorColumns = []string{
	"Date", "Order ID", "Person", "Person Type", "Phone", "Tx Type",
	"Liability", "Details", "Amount", "Status", "Reference ID", "System ID",
}

// MirrorRow is one ledger entry as finance staff see it. SystemID is the timeline id.
type MirrorRow struct {
	Date        string
	OrderID     string
	Person      string
	PersonType  string
	Phone       string
	TxType      string
	Liability   string
	Details     string
	Amount      string
	Status      string
	ReferenceID string
	SystemID    string
}

// Values returns the row in MirrorColumns order.
func (r MirrorRow) Values() []string {
	return []string{
		r.Date, r.OrderID, r.Person, r.PersonType, r.Phone, r.TxType,
		r.Liability, r.Details, r.Amount, r.Status, r.ReferenceID, r.SystemID,
	}
}

// MirrorRowFromValues is the inverse of Values; missing trailing cells are empty.
func MirrorRowFromValues(values []string) MirrorRow {
	cell := func(i int) string {
		if i < len(values) {
			return values[i]
		}
		return ""
	}
	return MirrorRow{
		Date: cell(0), OrderID: cell(1), Person: cell(2), PersonType: cell(3), Phone: cell(4), TxType: cell(5),
		Liability: cell(6), Details: cell(7), Amount: cell(8), Status: cell(9), ReferenceID: cell(10), SystemID: cell(11),
	}
}

// MirrorTable is the human-editable spreadsheet.
type MirrorTable interface {
	List(ctx context.Context, view MirrorView) ([]MirrorRow, error)
	Append(ctx context.Context, view MirrorView, rows ...MirrorRow) error
	// Update rewrites the row with the same SystemID in place.
	Update(ctx context.Context, view MirrorView, row MirrorRow) error
	// Delete removes the row with systemID; a missing row is not an error.
	Delete(ctx context.Context, view MirrorView, systemID string) error
	// Replace clears the view and writes rows.
	Replace(ctx context.Context, view MirrorView, rows []MirrorRow) error
}
