package identity

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 10

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is a staff member who can log in.
// It is the aggregate root for user-related operations.
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Name         string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	LastActiveAt *time.Time
}

// NewUser creates an active user. createdBy is uuid.Nil for seeded accounts.
func NewUser(createdBy uuid.UUID, username, password, name string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(createdBy),
		Username:          NormalizeUsername(username),
		Name:              strings.TrimSpace(name),
		PasswordHash:      passwordHash,
		Role:              role,
		IsActive:          true,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetName changes the display name
func (u *User) SetName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	u.Name = strings.TrimSpace(name)
	u.Touch()
	return nil
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.Touch()
	return nil
}

// ChangeRole assigns a new role. The actor must hold MANAGE_USERS and only a
// SUPER_ADMIN can grant SUPER_ADMIN.
func (u *User) ChangeRole(actorRole Role, newRole Role) error {
	if !HasPermission(actorRole, CapManageUsers) {
		return shared.ErrForbidden
	}
	if !newRole.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(newRole))
	}
	if newRole == RoleSuperAdmin && actorRole != RoleSuperAdmin {
		return shared.NewDomainError("FORBIDDEN", "Only a super admin can grant SUPER_ADMIN")
	}
	if u.Role == newRole {
		return nil
	}

	old := u.Role
	u.Role = newRole
	u.Touch()
	u.AddDomainEvent(NewUserRoleChangedEvent(u, old))
	return nil
}

// SetActive enables or disables login for the user
func (u *User) SetActive(active bool) {
	u.IsActive = active
	u.Touch()
}

// VerifyPassword verifies if the provided password matches.
// bcrypt compares in constant time.
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// decoyHash is a fixed hash no password is expected to match
var decoyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("teashop decoy credential"), bcryptCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// RejectPassword spends one bcrypt comparison on password without an
// account, so an unknown username takes as long as a wrong password.
func RejectPassword(password string) {
	_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(password))
}

// RecordLoginSuccess stamps the last login and activity time
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastActiveAt = &now
	u.UpdatedAt = now
	u.AddDomainEvent(NewUserLoggedInEvent(u))
}

// CanLogin returns true if user can login
func (u *User) CanLogin() bool {
	return u.IsActive && u.Role.IsValid()
}

// Capabilities returns the capabilities granted by the user's role
func (u *User) Capabilities() []Capability {
	return CapabilitiesOf(u.Role)
}

// Can reports whether the user's role holds capability
func (u *User) Can(capability Capability) bool {
	return HasPermission(u.Role, capability)
}

// DisplayName returns the name if set, otherwise the username
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Validation functions

// NormalizeUsername is the stored form of a username. Lookups are
// case-insensitive because of it.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	// bcrypt ignores input past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len([]rune(name)) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
