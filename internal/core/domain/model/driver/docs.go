// Package driver models delivery drivers and the geographic zones they serve.
//
// A driver is dispatchable when available, opted into automatic assignment and bound to a zone.
// A zone is either a circle (center and radius, tested with the haversine distance) or a polygon
// ring (tested with ray casting). Zones are read-only here; drivers manage them elsewhere.
package driver
