package driver

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"
)

type ZoneKind string

const (
	ZoneCircle  ZoneKind = "circle"
	ZonePolygon ZoneKind = "polygon"
)

var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewCircleZone or NewPolygonZone")

// Zone is the area a driver serves.
type Zone struct {
	kind     ZoneKind
	center   kernel.Location
	radiusKm float64
	ring     []kernel.Location
	guard    guard.ConstructorGuard
}

func NewCircleZone(center kernel.Location, radiusKm float64) (Zone, error) {
	if err := center.Validate(); err != nil {
		return Zone{}, err
	}
	if math.IsNaN(radiusKm) || radiusKm <= 0 {
		return Zone{}, errs.NewValueIsInvalidErrorWithCause("radiusKm", fmt.Errorf("%v is not greater than 0", radiusKm))
	}
	return Zone{kind: ZoneCircle, center: center, radiusKm: radiusKm, guard: guard.NewConstructorGuard()}, nil
}

// NewPolygonZone accepts an open or closed ring of at least three distinct vertices.
func NewPolygonZone(ring []kernel.Location) (Zone, error) {
	for _, p := range ring {
		if err := p.Validate(); err != nil {
			return Zone{}, err
		}
	}
	vertices := slices.Clone(ring)
	if n := len(vertices); n > 1 && vertices[0] == vertices[n-1] {
		vertices = vertices[:n-1]
	}
	if len(vertices) < 3 {
		return Zone{}, errs.NewValueIsInvalidErrorWithCause("ring", fmt.Errorf("%d vertices, need at least 3", len(vertices)))
	}
	return Zone{kind: ZonePolygon, ring: vertices, guard: guard.NewConstructorGuard()}, nil
}

func (z Zone) Validate() error {
	return z.guard.Validate(ErrZoneIsNotConstructed)
}

func (z Zone) Kind() ZoneKind {
	return z.kind
}

func (z Zone) Center() kernel.Location {
	return z.center
}

func (z Zone) RadiusKm() float64 {
	return z.radiusKm
}

func (z Zone) Ring() []kernel.Location {
	return slices.Clone(z.ring)
}

// Contains reports whether p lies inside the zone. Points on a circle's edge are inside.
func (z Zone) Contains(p kernel.Location) bool {
	if z.Validate() != nil || p.Validate() != nil {
		return false
	}

	switch z.kind {
	case ZoneCircle:
		dist, err := z.center.DistanceKm(p)
		return err == nil && dist <= z.radiusKm
	case ZonePolygon:
		return rayCast(z.ring, p)
	default:
		return false
	}
}

// rayCast counts crossings of a ray cast east from p, using lng as x and lat as y.
func rayCast(ring []kernel.Location, p kernel.Location) bool {
	x, y := p.Lng(), p.Lat()
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lng(), ring[i].Lat()
		xj, yj := ring[j].Lng(), ring[j].Lat()
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
