// Package order implements the Order aggregate root of the fulfilment core.
//
// An order tracks one batch of cylinders through its physical handoffs:
//
//	pending -> assigned -> accepted -> qrgenerated -> in_transit -> delivered -> completed
//
// Refill and return requests reopen a delivered order for another leg. Every transition appends
// exactly one history entry; a transition not allowed from the current status returns a
// TransitionIsInvalidError and leaves the order untouched. QR scans are additionally gated by
// the opaque token issued for the current leg.
//
// The order also owns its payment timeline and driver earnings (see package ledger) and carries a
// version number used by repositories for compare-and-swap updates.
package order
