// Package kernel holds the value objects shared by every aggregate of the fulfilment core:
// identifiers, geographic points, cylinder sizes and the actor recorded in audit trails.
package kernel
