package handler

import (
	"time"

	"github.com/google/uuid"
	identityapp "github.com/teashop/backend/internal/application/identity"
	"github.com/teashop/backend/internal/domain/identity"
)

// UserResponse is the public JSON form of a user
type UserResponse struct {
	ID           uuid.UUID     `json:"id"`
	Username     string        `json:"username"`
	Name         string        `json:"name"`
	Role         identity.Role `json:"role"`
	RoleTitle    string        `json:"role_title"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	LastLoginAt  *time.Time    `json:"last_login_at,omitempty"`
	LastActiveAt *time.Time    `json:"last_active_at,omitempty"`
}

// CurrentUserResponse is the signed-in user and what it may do
type CurrentUserResponse struct {
	User         UserResponse          `json:"user"`
	Capabilities []identity.Capability `json:"capabilities"`
}

// PermissionsResponse is the capability table of the caller's role
type PermissionsResponse struct {
	Role         identity.Role         `json:"role"`
	RoleTitle    string                `json:"role_title"`
	Capabilities []identity.Capability `json:"capabilities"`
}

func toUserResponse(u identityapp.UserInfo) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Role:         u.Role,
		RoleTitle:    u.RoleTitle,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
		LastActiveAt: u.LastActiveAt,
	}
}

func toUserResponses(users []identityapp.UserInfo) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}
