package ports

import (
	"context"

	"gasdelivery/internal/core/domain/model/kernel"
)

// Person is the contact shown next to a ledger row in the mirror.
type Person struct {
	ID    kernel.UUID
	Name  string
	Phone string
	Type  kernel.Role
}

// PersonDirectory resolves users owned by the profile service.
type PersonDirectory interface {
	Find(ctx context.Context, id kernel.UUID) (Person, error)
}
