package identity

import (
	"time"

	"github.com/teashop/backend/internal/domain/shared"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserLoggedIn    = "UserLoggedIn"
	EventTypeUserLoggedOut   = "UserLoggedOut"
	EventTypeUserRoleChanged = "UserRoleChanged"
)

// selfEvent is an event the user caused on their own account.
func selfEvent(eventType string, u *User) shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent(eventType, AggregateTypeUser, u.ID, u.ID)
}

type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	e := &UserCreatedEvent{Username: u.Username, Role: u.Role}
	e.BaseDomainEvent = shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID, u.CreatedBy)
	return e
}

type UserLoggedInEvent struct {
	shared.BaseDomainEvent
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	LoginAt  time.Time `json:"login_at"`
}

func NewUserLoggedInEvent(u *User) *UserLoggedInEvent {
	at := time.Now()
	if u.LastLoginAt != nil {
		at = *u.LastLoginAt
	}
	return &UserLoggedInEvent{
		BaseDomainEvent: selfEvent(EventTypeUserLoggedIn, u),
		Username:        u.Username,
		Role:            u.Role,
		LoginAt:         at,
	}
}

type UserLoggedOutEvent struct {
	shared.BaseDomainEvent
}

func NewUserLoggedOutEvent(u *User) *UserLoggedOutEvent {
	return &UserLoggedOutEvent{BaseDomainEvent: selfEvent(EventTypeUserLoggedOut, u)}
}

// UserRoleChangedEvent records a role change. Tokens issued under the old
// role are revoked by the user service.
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	OldRole Role `json:"old_role"`
	NewRole Role `json:"new_role"`
}

func NewUserRoleChangedEvent(u *User, oldRole Role) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: selfEvent(EventTypeUserRoleChanged, u),
		OldRole:         oldRole,
		NewRole:         u.Role,
	}
}
