package kernel

import (
	"fmt"

	"gasdelivery/internal/pkg/errs"
)

// Role is the authenticated caller's role as asserted by the upstream gateway.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

func (r Role) Validate() error {
	switch r {
	case RoleBuyer, RoleSeller, RoleDriver, RoleAdmin, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// Actor is whoever caused a state change; it is recorded in status history.
type Actor struct {
	ID   string
	Role Role
}

// SystemActor is used by background jobs.
func SystemActor(component string) Actor {
	return Actor{ID: component, Role: RoleSystem}
}

func NewActor(id string, role Role) (Actor, error) {
	if id == "" {
		return Actor{}, errs.NewValueIsRequiredError("actorId")
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.Role, a.ID)
}
