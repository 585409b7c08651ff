// Package mirror keeps the finance spreadsheet in step with the payment timelines.
//
// The ledger is the source of truth for amounts, types and causes. The only things that flow back
// from the sheet are a row's status and reference id, and only from pending to completed. Every
// write is keyed by the timeline id held in the System ID column, so pushing the same order twice
// leaves the sheet unchanged.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/pkg/errs"
)

// ErrSyncFailure wraps every failure talking to the sheet. It is logged, never returned to buyers
// or sellers, and the next heartbeat retries.
var ErrSyncFailure = errors.New("mirror sync failure")

// ProcessedBy is recorded on entries cleared from the sheet.
const ProcessedBy = "sheet-sync"

const dateLayout = "2006-01-02 15:04"

// OrderSource is the read side of the order store the mirror needs.
type OrderSource interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	GetAll(ctx context.Context, fn func(*order.Order) error) error
}

// PaymentClearer settles a pending timeline entry in the ledger.
type PaymentClearer interface {
	ClearPayment(ctx context.Context, timelineID kernel.UUID, referenceID, notes, processedBy string) error
}

// PaymentClearerFunc adapts a function to PaymentClearer.
type PaymentClearerFunc func(ctx context.Context, timelineID kernel.UUID, referenceID, notes, processedBy string) error

func (f PaymentClearerFunc) ClearPayment(ctx context.Context, timelineID kernel.UUID, referenceID, notes, processedBy string) error {
	return f(ctx, timelineID, referenceID, notes, processedBy)
}

// RemoteState is what the sheet says about one entry.
type RemoteState struct {
	Status      ledger.EntryStatus
	ReferenceID string
}

// ReconcileResult counts what one pull did.
type ReconcileResult struct {
	Seen    int
	Cleared int
	Skipped int
	Failed  int
}

type Service struct {
	// mu serializes sheet writes from the async pusher and the heartbeat within one process.
	mu sync.Mutex

	table   ports.MirrorTable
	people  ports.PersonDirectory
	orders  OrderSource
	clearer PaymentClearer
	logger  *slog.Logger
}

func NewService(
	table ports.MirrorTable,
	people ports.PersonDirectory,
	orders OrderSource,
	clearer PaymentClearer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		table:   table,
		people:  people,
		orders:  orders,
		clearer: clearer,
		logger:  logger.With("component", "ledger-mirror"),
	}
}

// PushOrder writes every reportable entry of ord into the view matching its status and removes
// rows that no longer belong where they are.
func (s *Service) PushOrder(ctx context.Context, ord *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.index(ctx, ports.ViewPending)
	if err != nil {
		return err
	}
	completed, err := s.index(ctx, ports.ViewCompleted)
	if err != nil {
		return err
	}

	people := s.personCache()
	for _, e := range ord.PaymentTimeline() {
		id := e.TimelineID().String()

		if !ledger.IsReportable(e, ord.OrderType()) {
			if err = s.remove(ctx, id, pending, completed); err != nil {
				return err
			}
			continue
		}

		target, stale := pending, completed
		if e.Status() == ledger.StatusCompleted {
			target, stale = completed, pending
		}
		if err = s.remove(ctx, id, stale); err != nil {
			return err
		}

		row := s.row(ctx, ord, e, people)
		existing, ok := target.rows[id]
		switch {
		case ok && existing == row:
			continue
		case ok && target.view == ports.ViewPending && parseStatus(existing.Status) == ledger.StatusCompleted:
			// marked paid in the sheet; Reconcile picks it up
			continue
		case ok:
			err = s.table.Update(ctx, target.view, row)
		default:
			err = s.table.Append(ctx, target.view, row)
		}
		if err != nil {
			return fmt.Errorf("%w: write %s row %s: %w", ErrSyncFailure, target.view, id, err)
		}
		target.rows[id] = row
	}
	return nil
}

// viewIndex is one view's rows keyed by System ID.
type viewIndex struct {
	view ports.MirrorView
	rows map[string]ports.MirrorRow
}

func (s *Service) remove(ctx context.Context, systemID string, views ...viewIndex) error {
	for _, v := range views {
		if _, ok := v.rows[systemID]; !ok {
			continue
		}
		if err := s.table.Delete(ctx, v.view, systemID); err != nil {
			return fmt.Errorf("%w: delete %s row %s: %w", ErrSyncFailure, v.view, systemID, err)
		}
		delete(v.rows, systemID)
	}
	return nil
}

// Pull reads both views. A row in the completed view, or a pending-view row whose status cell was
// changed to completed, reports completed.
func (s *Service) Pull(ctx context.Context) (map[string]RemoteState, error) {
	out := make(map[string]RemoteState)
	for _, view := range []ports.MirrorView{ports.ViewPending, ports.ViewCompleted} {
		rows, err := s.table.List(ctx, view)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %w", ErrSyncFailure, view, err)
		}
		for _, row := range rows {
			if row.SystemID == "" {
				continue
			}
			status := parseStatus(row.Status)
			if view == ports.ViewCompleted {
				status = ledger.StatusCompleted
			}
			if prev, ok := out[row.SystemID]; ok && prev.Status == ledger.StatusCompleted {
				continue
			}
			out[row.SystemID] = RemoteState{Status: status, ReferenceID: strings.TrimSpace(row.ReferenceID)}
		}
	}
	return out, nil
}

// Reconcile clears in the ledger every entry the sheet marks completed.
func (s *Service) Reconcile(ctx context.Context) (ReconcileResult, error) {
	remote, err := s.Pull(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}

	var result ReconcileResult
	for systemID, state := range remote {
		result.Seen++
		cleared, err := s.apply(ctx, systemID, state)
		switch {
		case err != nil:
			result.Failed++
			s.logger.WarnContext(ctx, "clear from sheet", "systemId", systemID, "error", err)
		case cleared:
			result.Cleared++
		default:
			result.Skipped++
		}
	}
	return result, nil
}

// ApplyUpdate reconciles a single row reported by the sheet's webhook.
func (s *Service) ApplyUpdate(ctx context.Context, systemID, status, referenceID string) (bool, error) {
	return s.apply(ctx, systemID, RemoteState{Status: parseStatus(status), ReferenceID: strings.TrimSpace(referenceID)})
}

func (s *Service) apply(ctx context.Context, systemID string, state RemoteState) (bool, error) {
	if state.Status != ledger.StatusCompleted {
		return false, nil
	}
	timelineID, err := kernel.UUIDFromString(systemID)
	if err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause("systemId", err)
	}

	err = s.clearer.ClearPayment(ctx, timelineID, state.ReferenceID, "cleared from sheet", ProcessedBy)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ledger.ErrAlreadyCleared), errors.Is(err, errs.ErrObjectNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Rebuild regenerates both views from the ledger. A pending row staff marked completed that the
// ledger has not cleared yet is written back as is, so the next Reconcile can still retry it.
func (s *Service) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.index(ctx, ports.ViewPending)
	if err != nil {
		return err
	}

	var pending, completed []ports.MirrorRow
	people := s.personCache()

	err = s.orders.GetAll(ctx, func(ord *order.Order) error {
		for _, e := range ord.ReportableTimeline() {
			if e.Status() == ledger.StatusCompleted {
				completed = append(completed, s.row(ctx, ord, e, people))
				continue
			}
			if edited, ok := current.rows[e.TimelineID().String()]; ok && parseStatus(edited.Status) == ledger.StatusCompleted {
				pending = append(pending, edited)
				continue
			}
			pending = append(pending, s.row(ctx, ord, e, people))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err = s.table.Replace(ctx, ports.ViewPending, pending); err != nil {
		return fmt.Errorf("%w: replace pending: %w", ErrSyncFailure, err)
	}
	if err = s.table.Replace(ctx, ports.ViewCompleted, completed); err != nil {
		return fmt.Errorf("%w: replace completed: %w", ErrSyncFailure, err)
	}
	s.logger.InfoContext(ctx, "mirror rebuilt", "pending", len(pending), "completed", len(completed))
	return nil
}

// PushOrderID reloads an order and pushes it.
func (s *Service) PushOrderID(ctx context.Context, id kernel.UUID) error {
	ord, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.PushOrder(ctx, ord)
}

func (s *Service) index(ctx context.Context, view ports.MirrorView) (viewIndex, error) {
	rows, err := s.table.List(ctx, view)
	if err != nil {
		return viewIndex{}, fmt.Errorf("%w: list %s: %w", ErrSyncFailure, view, err)
	}
	idx := viewIndex{view: view, rows: make(map[string]ports.MirrorRow, len(rows))}
	for _, r := range rows {
		if r.SystemID != "" {
			idx.rows[r.SystemID] = r
		}
	}
	return idx, nil
}

func (s *Service) personCache() map[kernel.UUID]ports.Person {
	return make(map[kernel.UUID]ports.Person)
}

// row renders one entry. Fees earned by a driver are shown against the driver, everything else
// against the buyer.
func (s *Service) row(ctx context.Context, ord *order.Order, e *ledger.Entry, cache map[kernel.UUID]ports.Person) ports.MirrorRow {
	personID := ord.BuyerID()
	if d := e.DriverID(); d != nil && (e.Type() == ledger.TypeDeliveryFee || e.Type() == ledger.TypePickupFee) {
		personID = *d
	}

	person, ok := cache[personID]
	if !ok {
		found, err := s.people.Find(ctx, personID)
		if err != nil {
			s.logger.DebugContext(ctx, "person lookup", "personId", personID.String(), "error", err)
			found = ports.Person{ID: personID, Name: personID.String()}
		}
		person = found
		cache[personID] = person
	}

	return ports.MirrorRow{
		Date:        e.CreatedAt().UTC().Format(dateLayout),
		OrderID:     ord.ID().String(),
		Person:      person.Name,
		PersonType:  string(person.Type),
		Phone:       person.Phone,
		TxType:      string(e.Type()),
		Liability:   string(e.Liability()),
		Details:     e.Cause(),
		Amount:      e.Amount().StringFixed(2),
		Status:      string(e.Status()),
		ReferenceID: e.ReferenceID(),
		SystemID:    e.TimelineID().String(),
	}
}

func parseStatus(cell string) ledger.EntryStatus {
	if strings.EqualFold(strings.TrimSpace(cell), string(ledger.StatusCompleted)) {
		return ledger.StatusCompleted
	}
	return ledger.StatusPending
}
