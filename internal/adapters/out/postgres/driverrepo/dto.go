package driverrepo

import (
	"errors"
	"fmt"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DriverDTO struct {
	ID               uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	Name             string                       `gorm:"size:128;not null"`
	Phone            string                       `gorm:"size:32"`
	Status           string                       `gorm:"size:16;index;not null"`
	AutoAssignOrders bool                         `gorm:"not null;default:true"`
	Zone             *datatypes.JSONType[ZoneDTO] `gorm:"type:jsonb"`
	CurrentOrderID   *uuid.UUID                   `gorm:"type:uuid"`
	Version          int                          `gorm:"not null;default:1"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

// ZoneDTO is the jsonb shape of a service zone: either a center and radius or a vertex ring.
type ZoneDTO struct {
	Kind     string     `json:"kind"`
	Center   *PointDTO  `json:"center,omitempty"`
	RadiusKm float64    `json:"radiusKm,omitempty"`
	Ring     []PointDTO `json:"ring,omitempty"`
}

type PointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func fromDomain(d *driver.Driver) DriverDTO {
	dto := DriverDTO{
		ID:               d.ID().Bytes(),
		Name:             d.Name(),
		Phone:            d.Phone(),
		Status:           d.Status().String(),
		AutoAssignOrders: d.AutoAssignOrders(),
		Version:          d.Version(),
	}
	if id := d.CurrentOrderID(); id != nil {
		raw := id.Bytes()
		dto.CurrentOrderID = &raw
	}
	if z := d.Zone(); z != nil {
		zone := datatypes.NewJSONType(zoneFromDomain(*z))
		dto.Zone = &zone
	}
	return dto
}

func zoneFromDomain(z driver.Zone) ZoneDTO {
	dto := ZoneDTO{Kind: string(z.Kind())}
	switch z.Kind() {
	case driver.ZoneCircle:
		dto.Center = &PointDTO{Lat: z.Center().Lat(), Lng: z.Center().Lng()}
		dto.RadiusKm = z.RadiusKm()
	case driver.ZonePolygon:
		for _, p := range z.Ring() {
			dto.Ring = append(dto.Ring, PointDTO{Lat: p.Lat(), Lng: p.Lng()})
		}
	}
	return dto
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := driver.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var currentOrderID *kernel.UUID
	if dto.CurrentOrderID != nil {
		orderID, err := kernel.UUIDFromBytes(dto.CurrentOrderID[:])
		if err != nil {
			return nil, err
		}
		currentOrderID = &orderID
	}

	var zone *driver.Zone
	if dto.Zone != nil {
		z, err := zoneToDomain(dto.Zone.Data())
		if err != nil {
			return nil, err
		}
		zone = &z
	}

	return driver.RestoreDriver(id, dto.Name, dto.Phone, status, dto.AutoAssignOrders, zone, currentOrderID, dto.Version)
}

func zoneToDomain(dto ZoneDTO) (driver.Zone, error) {
	switch driver.ZoneKind(dto.Kind) {
	case driver.ZoneCircle:
		if dto.Center == nil {
			return driver.Zone{}, errors.New("circle zone without center")
		}
		center, err := kernel.NewLocation(dto.Center.Lat, dto.Center.Lng)
		if err != nil {
			return driver.Zone{}, err
		}
		return driver.NewCircleZone(center, dto.RadiusKm)
	case driver.ZonePolygon:
		ring := make([]kernel.Location, 0, len(dto.Ring))
		for _, p := range dto.Ring {
			l, err := kernel.NewLocation(p.Lat, p.Lng)
			if err != nil {
				return driver.Zone{}, err
			}
			ring = append(ring, l)
		}
		return driver.NewPolygonZone(ring)
	default:
		return driver.Zone{}, fmt.Errorf("unknown zone kind %q", dto.Kind)
	}
}
