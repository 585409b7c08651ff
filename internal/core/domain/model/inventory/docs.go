// Package inventory models a seller warehouse's cylinder stock.
//
// Stock is kept in a fixed struct with one slot per cylinder size, so every size always exists
// and no lookups can miss. Reserve takes cylinders out of stock for an order and Release puts
// them back when the order is cancelled or the cylinders are returned.
package inventory
