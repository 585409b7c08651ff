package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

const (
	RatingMin = 1
	RatingMax = 5
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrDriverMismatch is returned when a driver acts on an order assigned to someone else.
	ErrDriverMismatch = errors.New("order is assigned to another driver")

	// ErrCylinderCodesInvalid is returned when the accepted cylinder codes do not match the order.
	ErrCylinderCodesInvalid = errors.New("cylinder codes do not match the order")
)

// Order is the aggregate root for one cylinder order.
type Order struct {
	id              kernel.UUID
	buyerID         kernel.UUID
	sellerID        kernel.UUID
	warehouseID     kernel.UUID
	driverID        *kernel.UUID
	orderType       kernel.OrderType
	cylinderSize    kernel.CylinderSize
	quantity        int
	deliveryPoint   kernel.Location
	status          Status
	statusHistory   []HistoryEntry
	qrCode          string
	pricing         Pricing
	paymentMethod   ledger.PaymentMethod
	transactionID   string
	paymentTimeline []*ledger.Entry
	driverEarnings  []*ledger.DriverEarning
	cylinderCodes   []string
	rating          int
	review          string
	version         int
	createdAt       time.Time
	updatedAt       time.Time
	guard           guard.ConstructorGuard
}

// NewOrderParams are the inputs of a freshly placed order.
type NewOrderParams struct {
	ID            kernel.UUID
	BuyerID       kernel.UUID
	SellerID      kernel.UUID
	WarehouseID   kernel.UUID
	OrderType     kernel.OrderType
	CylinderSize  kernel.CylinderSize
	Quantity      int
	DeliveryPoint kernel.Location
	Pricing       Pricing
	PaymentMethod ledger.PaymentMethod
	TransactionID string
	Actor         kernel.Actor
	Now           time.Time
}

// NewOrder creates a pending order. Only new and supplier_change orders can be placed directly.
func NewOrder(p NewOrderParams) (*Order, error) {
	if p.OrderType != kernel.OrderTypeNew && p.OrderType != kernel.OrderTypeSupplierChange {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderType",
			fmt.Errorf("%s orders cannot be placed directly", p.OrderType))
	}

	now := p.Now.UTC()
	o := &Order{
		status:        Pending,
		pricing:       p.Pricing,
		paymentMethod: p.PaymentMethod,
		transactionID: p.TransactionID,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setParties(p.BuyerID, p.SellerID, p.WarehouseID),
		o.setOrderType(p.OrderType),
		o.setCylinderSize(p.CylinderSize),
		o.setQuantity(p.Quantity),
		o.setDeliveryPoint(p.DeliveryPoint),
	); err != nil {
		return nil, err
	}

	o.statusHistory = []HistoryEntry{{Status: Pending, At: now, Actor: p.Actor, Note: "order placed"}}
	return o, nil
}

// RestoreParams is the full persisted state of an order.
type RestoreParams struct {
	ID              kernel.UUID
	BuyerID         kernel.UUID
	SellerID        kernel.UUID
	WarehouseID     kernel.UUID
	DriverID        *kernel.UUID
	OrderType       kernel.OrderType
	CylinderSize    kernel.CylinderSize
	Quantity        int
	DeliveryPoint   kernel.Location
	Status          Status
	StatusHistory   []HistoryEntry
	QRCode          string
	Pricing         Pricing
	PaymentMethod   ledger.PaymentMethod
	TransactionID   string
	PaymentTimeline []*ledger.Entry
	DriverEarnings  []*ledger.DriverEarning
	CylinderCodes   []string
	Rating          int
	Review          string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func RestoreOrder(p RestoreParams) (*Order, error) {
	o := &Order{
		driverID:        p.DriverID,
		statusHistory:   slices.Clone(p.StatusHistory),
		qrCode:          p.QRCode,
		pricing:         p.Pricing,
		paymentMethod:   p.PaymentMethod,
		transactionID:   p.TransactionID,
		paymentTimeline: slices.Clone(p.PaymentTimeline),
		driverEarnings:  slices.Clone(p.DriverEarnings),
		cylinderCodes:   slices.Clone(p.CylinderCodes),
		rating:          p.Rating,
		review:          p.Review,
		version:         p.Version,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setParties(p.BuyerID, p.SellerID, p.WarehouseID),
		o.setOrderType(p.OrderType),
		o.setCylinderSize(p.CylinderSize),
		o.setQuantity(p.Quantity),
		o.setDeliveryPoint(p.DeliveryPoint),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = p.Status

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

func (o *Order) SellerID() kernel.UUID {
	return o.sellerID
}

func (o *Order) WarehouseID() kernel.UUID {
	return o.warehouseID
}

func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

func (o *Order) OrderType() kernel.OrderType {
	return o.orderType
}

func (o *Order) CylinderSize() kernel.CylinderSize {
	return o.cylinderSize
}

func (o *Order) Quantity() int {
	return o.quantity
}

func (o *Order) DeliveryPoint() kernel.Location {
	return o.deliveryPoint
}

func (o *Order) Status() Status {
	return o.status
}

// StatusHistory returns a copy of the audit trail, oldest first.
func (o *Order) StatusHistory() []HistoryEntry {
	return slices.Clone(o.statusHistory)
}

func (o *Order) QRCode() string {
	return o.qrCode
}

func (o *Order) Pricing() Pricing {
	return o.pricing
}

func (o *Order) PaymentMethod() ledger.PaymentMethod {
	return o.paymentMethod
}

func (o *Order) TransactionID() string {
	return o.transactionID
}

// PaymentTimeline returns the entries in creation order. The pointers are shared with the
// aggregate, so callers must go through the order to change them.
func (o *Order) PaymentTimeline() []*ledger.Entry {
	return slices.Clone(o.paymentTimeline)
}

// ReportableTimeline applies ledger.IsReportable with the order's current type.
func (o *Order) ReportableTimeline() []*ledger.Entry {
	out := make([]*ledger.Entry, 0, len(o.paymentTimeline))
	for _, e := range o.paymentTimeline {
		if ledger.IsReportable(e, o.orderType) {
			out = append(out, e)
		}
	}
	return out
}

func (o *Order) DriverEarnings() []*ledger.DriverEarning {
	return slices.Clone(o.driverEarnings)
}

func (o *Order) CylinderCodes() []string {
	return slices.Clone(o.cylinderCodes)
}

func (o *Order) Rating() int {
	return o.rating
}

func (o *Order) Review() string {
	return o.review
}

// Version is the optimistic concurrency token read from storage.
func (o *Order) Version() int {
	return o.version
}

// IncrementVersion is called by the repository after a successful compare-and-swap write.
func (o *Order) IncrementVersion() {
	o.version++
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// AppendEntry adds a ledger entry to the payment timeline.
func (o *Order) AppendEntry(e *ledger.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	for _, existing := range o.paymentTimeline {
		if existing.TimelineID().IsEqual(e.TimelineID()) {
			return errs.NewValueIsInvalidErrorWithCause("timelineId", fmt.Errorf("%s already on order", e.TimelineID()))
		}
	}
	o.paymentTimeline = append(o.paymentTimeline, e)
	return nil
}

// FindEntry looks up a timeline entry by id.
func (o *Order) FindEntry(timelineID kernel.UUID) (*ledger.Entry, error) {
	for _, e := range o.paymentTimeline {
		if e.TimelineID().IsEqual(timelineID) {
			return e, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("timelineId", timelineID)
}

// ClearPayment settles a pending timeline entry and pays the driver earning linked to it.
func (o *Order) ClearPayment(timelineID kernel.UUID, referenceID, notes, processedBy string, now time.Time) (*ledger.Entry, error) {
	entry, err := o.FindEntry(timelineID)
	if err != nil {
		return nil, err
	}

	if err = entry.Clear(referenceID, notes, processedBy, now); err != nil {
		return nil, err
	}

	for _, earning := range o.driverEarnings {
		if earning.Status() == ledger.EarningPending && earning.TimelineID().IsEqual(timelineID) {
			if err = earning.Pay(now); err != nil {
				return nil, err
			}
		}
	}

	o.updatedAt = now.UTC()
	return entry, nil
}

// Assign hands the order's next leg to a driver. A pickup leg keeps the token the buyer already
// holds; other legs get a fresh one. When the leg carries a fee entry, the driver's earning is
// seeded from it.
func (o *Order) Assign(driverID kernel.UUID, actor kernel.Actor, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	if fee := o.legFee(); fee != nil {
		earning, earningErr := ledger.NewDriverEarning(driverID, fee, now)
		if earningErr != nil {
			return earningErr
		}
		fee.AttributeTo(driverID)
		o.driverEarnings = append(o.driverEarnings, earning)
	}

	id := driverID
	o.driverID = &id
	if o.qrCode == "" {
		o.qrCode = newToken()
	}
	o.transition(newStatus, actor, now, "driver "+driverID.String()+" assigned")
	return nil
}

// legFee is the latest fee entry of the current leg that no earning is linked to yet. Delivery
// legs collect the delivery fee, refill pickups the pickup fee; return pickups carry none.
func (o *Order) legFee() *ledger.Entry {
	var feeType ledger.EntryType
	switch o.orderType {
	case kernel.OrderTypeNew, kernel.OrderTypeSupplierChange:
		feeType = ledger.TypeDeliveryFee
	case kernel.OrderTypeRefill:
		feeType = ledger.TypePickupFee
	default:
		return nil
	}

	for i := len(o.paymentTimeline) - 1; i >= 0; i-- {
		e := o.paymentTimeline[i]
		if e.Type() == feeType && !o.hasEarningFor(e.TimelineID()) {
			return e
		}
	}
	return nil
}

func (o *Order) hasEarningFor(timelineID kernel.UUID) bool {
	for _, earning := range o.driverEarnings {
		if earning.TimelineID().IsEqual(timelineID) {
			return true
		}
	}
	return false
}

// payCollectedEarnings pays the pending earnings whose fee entry was settled at checkout.
func (o *Order) payCollectedEarnings(now time.Time) error {
	for _, earning := range o.driverEarnings {
		if earning.Status() != ledger.EarningPending {
			continue
		}
		fee, err := o.FindEntry(earning.TimelineID())
		if err != nil {
			return err
		}
		if fee.IsPending() {
			continue
		}
		if err = earning.Pay(now); err != nil {
			return err
		}
	}
	return nil
}

// Accept is the assigned driver confirming pickup readiness with the cylinders' QR codes.
// Exactly Quantity distinct codes must be supplied.
func (o *Order) Accept(driverID kernel.UUID, cylinderCodes []string, actor kernel.Actor, now time.Time) error {
	newStatus, err := o.status.Accept()
	if err != nil {
		return err
	}

	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return ErrDriverMismatch
	}

	if err = o.checkCylinderCodes(cylinderCodes); err != nil {
		return err
	}

	o.cylinderCodes = slices.Clone(cylinderCodes)
	o.transition(newStatus, actor, now, fmt.Sprintf("%d cylinders verified", len(cylinderCodes)))
	return nil
}

// GenerateQR issues the pickup token and returns it.
func (o *Order) GenerateQR(actor kernel.Actor, now time.Time) (string, error) {
	newStatus, err := o.status.GenerateQR()
	if err != nil {
		return "", err
	}

	o.qrCode = newToken()
	o.transition(newStatus, actor, now, "pickup qr generated")
	return o.qrCode, nil
}

// ScanQR applies a driver's scan. expected is the status the scan was issued against: a scan that
// lost a race to a concurrent one is re-applied against the reloaded order and must fail here
// instead of advancing the order a second time.
func (o *Order) ScanQR(expected Status, scannedCode string, actor kernel.Actor, now time.Time) error {
	if o.status != expected {
		return NewTransitionIsInvalidError(o.status, "scan "+expected.String()+" qr on")
	}

	switch {
	case o.status.IsPickupScannable():
		if err := o.checkQR(scannedCode); err != nil {
			return err
		}
		o.transition(InTransit, actor, now, "picked up")
		return nil

	case o.status == InTransit:
		if err := o.checkQR(scannedCode); err != nil {
			return err
		}
		return o.completeLeg(actor, now)

	default:
		return NewTransitionIsInvalidError(o.status, "scan qr on")
	}
}

// Complete is the seller closing a delivered order.
func (o *Order) Complete(actor kernel.Actor, now time.Time) error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}
	o.transition(newStatus, actor, now, "completed by seller")
	return nil
}

// RequestRefill reopens a delivered new-cylinder order so the empties are collected for refilling.
func (o *Order) RequestRefill(actor kernel.Actor, now time.Time) error {
	newStatus, err := o.status.RequestRefill()
	if err != nil {
		return err
	}
	if o.orderType != kernel.OrderTypeNew {
		return NewTransitionIsInvalidError(o.status, "request a refill for a "+o.orderType.String()+" order in")
	}

	o.startLeg(kernel.OrderTypeRefill)
	o.transition(newStatus, actor, now, "refill requested")
	return nil
}

// RequestReturn stores the buyer's rating and reopens the order to collect the cylinders for good.
func (o *Order) RequestReturn(rating int, review string, actor kernel.Actor, now time.Time) error {
	newStatus, err := o.status.RequestReturn()
	if err != nil {
		return err
	}
	if rating < RatingMin || rating > RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}

	o.rating = rating
	o.review = review
	o.startLeg(kernel.OrderTypeReturn)
	o.transition(newStatus, actor, now, "return requested")
	return nil
}

// MarkReturned records a walk-in return handled at the shop.
func (o *Order) MarkReturned(actor kernel.Actor, now time.Time) error {
	newStatus, err := o.status.MarkReturned()
	if err != nil {
		return err
	}
	o.qrCode = ""
	o.transition(newStatus, actor, now, "returned at store")
	return nil
}

// Cancel stops an order before pickup. The payment timeline is kept as is.
func (o *Order) Cancel(reason string, actor kernel.Actor, now time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.qrCode = ""
	if reason == "" {
		reason = "cancelled"
	}
	o.transition(newStatus, actor, now, reason)
	return nil
}

func (o *Order) completeLeg(actor kernel.Actor, now time.Time) error {
	var (
		to   Status
		next = o.orderType
		note string
	)
	switch o.orderType {
	case kernel.OrderTypeNew, kernel.OrderTypeSupplierChange:
		to, note = Delivered, "delivered to buyer"
	case kernel.OrderTypeRefill:
		to, next, note = RefillInStore, kernel.OrderTypeNew, "empties received for refill"
	case kernel.OrderTypeReturn:
		to, next, note = Completed, kernel.OrderTypeRefill, "cylinders returned to seller"
	default:
		return NewTransitionIsInvalidError(o.status, "deliver a "+o.orderType.String()+" order in")
	}

	if err := o.payCollectedEarnings(now); err != nil {
		return err
	}
	o.qrCode = ""
	o.orderType = next
	o.transition(to, actor, now, note)
	return nil
}

func (o *Order) startLeg(t kernel.OrderType) {
	o.orderType = t
	o.driverID = nil
	o.qrCode = newToken()
}

func (o *Order) transition(to Status, actor kernel.Actor, now time.Time, note string) {
	at := now.UTC()
	o.status = to
	o.updatedAt = at
	o.statusHistory = append(o.statusHistory, HistoryEntry{Status: to, At: at, Actor: actor, Note: note})
}

func (o *Order) checkQR(scanned string) error {
	if o.qrCode == "" || scanned != o.qrCode {
		return ErrQRMismatch
	}
	return nil
}

func (o *Order) checkCylinderCodes(codes []string) error {
	if len(codes) != o.quantity {
		return fmt.Errorf("%w: %d codes for %d cylinders", ErrCylinderCodesInvalid, len(codes), o.quantity)
	}
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if c == "" {
			return fmt.Errorf("%w: empty code", ErrCylinderCodesInvalid)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: %s listed twice", ErrCylinderCodesInvalid, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(buyerID, sellerID, warehouseID kernel.UUID) error {
	if err := errors.Join(
		required("buyerId", buyerID),
		required("sellerId", sellerID),
		required("warehouseId", warehouseID),
	); err != nil {
		return err
	}
	o.buyerID, o.sellerID, o.warehouseID = buyerID, sellerID, warehouseID
	return nil
}

func (o *Order) setOrderType(t kernel.OrderType) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o.orderType = t
	return nil
}

func (o *Order) setCylinderSize(size kernel.CylinderSize) error {
	if err := size.Validate(); err != nil {
		return err
	}
	o.cylinderSize = size
	return nil
}

func (o *Order) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	o.quantity = quantity
	return nil
}

func (o *Order) setDeliveryPoint(point kernel.Location) error {
	if err := point.Validate(); err != nil {
		return err
	}
	o.deliveryPoint = point
	return nil
}

func required(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}

func newToken() string {
	return kernel.NewUUID().String()
}
