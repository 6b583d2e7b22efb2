package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/identity"
)

// LoginInput contains the credentials of a login attempt
type LoginInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResult is a signed token and the user it was issued to
type LoginResult struct {
	User      UserInfo
	Token     string
	ExpiresAt time.Time
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	ExpiresAt time.Time
}

// UserInfo is the public view of a user; the password hash never leaves the service
type UserInfo struct {
	ID           uuid.UUID
	Username     string
	Name         string
	Role         identity.Role
	RoleTitle    string
	IsActive     bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	LastActiveAt *time.Time
}

// CurrentUserResult is the signed-in user with the capabilities of its role
type CurrentUserResult struct {
	User         UserInfo
	Capabilities []identity.Capability
}

// ListUsersInput filters the roster
type ListUsersInput struct {
	Keyword    string
	Role       *identity.Role
	ActiveOnly bool
}

// CreateUserInput contains the fields of a new user
type CreateUserInput struct {
	Username string        `json:"username" validate:"required,min=3,max=100"`
	Password string        `json:"password" validate:"required,min=6,max=72"`
	Name     string        `json:"name" validate:"required,max=100"`
	Role     identity.Role `json:"role" validate:"required"`
}

// UpdateUserInput changes a user; nil fields are kept
type UpdateUserInput struct {
	Name     *string        `json:"name" validate:"omitempty,max=100"`
	Password *string        `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *identity.Role `json:"role"`
	IsActive *bool          `json:"is_active"`
}

// ToUserInfo converts a domain user into its public view
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.DisplayName(),
		Role:         u.Role,
		RoleTitle:    u.Role.Title(),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
		LastActiveAt: u.LastActiveAt,
	}
}

// ToUserInfos converts a list of domain users
func ToUserInfos(users []*identity.User) []UserInfo {
	out := make([]UserInfo, len(users))
	for i, u := range users {
		out[i] = ToUserInfo(u)
	}
	return out
}
