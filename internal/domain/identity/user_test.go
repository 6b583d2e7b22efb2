package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

func TestNewUser(t *testing.T) {
	creator := uuid.New()

	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser(creator, "  Alice ", "secret1", "愛麗絲", RoleService)
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "愛麗絲", user.Name)
		assert.Equal(t, RoleService, user.Role)
		assert.Equal(t, creator, user.CreatedBy)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "secret1", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret1"))
		assert.False(t, user.VerifyPassword("secret2"))

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserCreated, events[0].EventType())
	})

	t.Run("accepts the six digit legacy password", func(t *testing.T) {
		user, err := NewUser(uuid.Nil, "weiwei", "920321", "超級管理者", RoleSuperAdmin)
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("920321"))
	})

	tests := []struct {
		name     string
		username string
		password string
		display  string
		role     Role
		contains string
	}{
		{"empty username", "", "secret1", "A", RoleBar, "Username cannot be empty"},
		{"short username", "ab", "secret1", "A", RoleBar, "at least 3 characters"},
		{"bad characters", "a b c", "secret1", "A", RoleBar, "only contain"},
		{"short password", "alice", "123", "A", RoleBar, "at least 6 characters"},
		{"empty name", "alice", "secret1", " ", RoleBar, "Name cannot be empty"},
		{"unknown role", "alice", "secret1", "A", Role("OWNER"), "Unknown role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(creator, tt.username, tt.password, tt.display, tt.role)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestUser_ChangeRole(t *testing.T) {
	user, err := NewUser(uuid.New(), "bob", "secret1", "Bob", RoleNewBar)
	require.NoError(t, err)
	user.ClearDomainEvents()

	assert.ErrorIs(t, user.ChangeRole(RoleBarLeader, RoleBar), shared.ErrForbidden)

	err = user.ChangeRole(RoleAdmin, RoleSuperAdmin)
	require.Error(t, err)
	assert.Equal(t, RoleNewBar, user.Role)

	require.NoError(t, user.ChangeRole(RoleAdmin, RoleBar))
	assert.Equal(t, RoleBar, user.Role)
	require.Len(t, user.GetDomainEvents(), 1)
	evt := user.GetDomainEvents()[0].(*UserRoleChangedEvent)
	assert.Equal(t, RoleNewBar, evt.OldRole)
	assert.Equal(t, RoleBar, evt.NewRole)

	require.NoError(t, user.ChangeRole(RoleSuperAdmin, RoleSuperAdmin))
	assert.Equal(t, RoleSuperAdmin, user.Role)
}

func TestUser_LoginState(t *testing.T) {
	user, err := NewUser(uuid.New(), "carol", "secret1", "Carol", RoleService)
	require.NoError(t, err)
	user.ClearDomainEvents()

	assert.True(t, user.CanLogin())
	user.RecordLoginSuccess()
	require.NotNil(t, user.LastLoginAt)
	require.NotNil(t, user.LastActiveAt)
	require.Len(t, user.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeUserLoggedIn, user.GetDomainEvents()[0].EventType())

	user.SetActive(false)
	assert.False(t, user.CanLogin())
}

type stubUserRepository struct {
	UserRepository
	users []*User
	err   error
}

func (s *stubUserRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*User, error) {
	if s.err != nil {
		return nil, s.err
	}
	var found []*User
	for _, u := range s.users {
		for _, id := range ids {
			if u.ID == id {
				found = append(found, u)
			}
		}
	}
	return found, nil
}

func TestUserDirectory_Resolve(t *testing.T) {
	known, err := NewUser(uuid.Nil, "dave", "secret1", "阿德", RoleBar)
	require.NoError(t, err)
	missing := uuid.New()

	dir := NewUserDirectory(&stubUserRepository{users: []*User{known}})
	names := dir.Resolve(context.Background(), []uuid.UUID{known.ID, missing, known.ID, uuid.Nil})

	assert.Len(t, names, 2)
	assert.Equal(t, "阿德", names[known.ID])
	assert.Equal(t, Placeholder(missing), names[missing])
	assert.Contains(t, names[missing], missing.String())
	assert.Equal(t, "阿德", dir.Name(context.Background(), known.ID))
	assert.Empty(t, dir.Name(context.Background(), uuid.Nil))

	failing := NewUserDirectory(&stubUserRepository{err: errors.New("db down")})
	names = failing.Resolve(context.Background(), []uuid.UUID{known.ID})
	assert.Equal(t, Placeholder(known.ID), names[known.ID])
}

func TestDecoyHash(t *testing.T) {
	cost, err := bcrypt.Cost(decoyHash())
	require.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
	assert.NotPanics(t, func() { RejectPassword("920321") })
}
