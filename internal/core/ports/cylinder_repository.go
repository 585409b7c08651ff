package ports

import (
	"context"

	"gasdelivery/internal/core/domain/model/cylinder"
	"gasdelivery/internal/core/domain/model/kernel"
)

type CylinderRepository interface {
	// GetByCodes returns the known cylinders among codes, keyed by QR code.
	GetByCodes(ctx context.Context, codes []string) (map[string]*cylinder.Cylinder, error)

	// GetByOrder returns the cylinders currently bound to an order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*cylinder.Cylinder, error)

	// Save upserts cylinders by QR code.
	Save(ctx context.Context, cylinders ...*cylinder.Cylinder) error
}
