// Package services holds the domain services that work across aggregates:
//
//   - OrderDispatcher picks the first dispatchable driver whose zone covers the order's point.
//   - HandoffProtocol keeps cylinder records in step with order transitions.
//   - LedgerSeeder writes the payment timeline entries each leg of an order needs.
//   - PriceCalculator quotes an order from warehouse stock prices and delivery tariffs.
package services
