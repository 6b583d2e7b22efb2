package shared

import (
	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
)

// Actor is the signed-in user performing an operation
type Actor struct {
	ID   uuid.UUID
	Role identity.Role
}

// Can reports whether the actor's role holds capability
func (a Actor) Can(capability identity.Capability) bool {
	return identity.HasPermission(a.Role, capability)
}
