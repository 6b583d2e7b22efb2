package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appshared "github.com/teashop/backend/internal/application/shared"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

func createUserService(repo *MockUserRepository) (*UserService, *auth.MemoryRevocations) {
	revocations := auth.NewMemoryRevocations()
	return NewUserService(repo, revocations, newTestJWT(), &recordingPublisher{}, zap.NewNop()), revocations
}

func adminActor() appshared.Actor {
	return appshared.Actor{ID: uuid.New(), Role: identity.RoleAdmin}
}

func TestUserService_Create(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := createUserService(repo)
	actor := adminActor()

	repo.On("ExistsByUsername", mock.Anything, "amy").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	info, err := svc.Create(context.Background(), actor, CreateUserInput{
		Username: "amy",
		Password: "secret1",
		Name:     "Amy",
		Role:     identity.RoleService,
	})
	require.NoError(t, err)
	assert.Equal(t, "amy", info.Username)
	assert.Equal(t, identity.RoleService, info.Role)
	assert.Equal(t, "外場人員", info.RoleTitle)
	assert.True(t, info.IsActive)

	created := repo.Calls[1].Arguments.Get(1).(*identity.User)
	assert.Equal(t, actor.ID, created.CreatedBy)
	assert.True(t, created.VerifyPassword("secret1"))
}

func TestUserService_Create_Rules(t *testing.T) {
	t.Run("duplicate username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := createUserService(repo)
		repo.On("ExistsByUsername", mock.Anything, "amy").Return(true, nil)

		_, err := svc.Create(context.Background(), adminActor(), CreateUserInput{Username: "amy", Password: "secret1", Name: "Amy", Role: identity.RoleBar})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("admin cannot grant super admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := createUserService(repo)

		_, err := svc.Create(context.Background(), adminActor(), CreateUserInput{Username: "boss", Password: "secret1", Name: "Boss", Role: identity.RoleSuperAdmin})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("actor without MANAGE_USERS", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := createUserService(repo)

		_, err := svc.Create(context.Background(), appshared.Actor{ID: uuid.New(), Role: identity.RoleManager}, CreateUserInput{Username: "amy", Password: "secret1", Name: "Amy", Role: identity.RoleBar})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("invalid input", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := createUserService(repo)

		_, err := svc.Create(context.Background(), adminActor(), CreateUserInput{Username: "a", Password: "123", Role: identity.RoleBar})
		assert.ErrorIs(t, err, shared.ErrValidation)
		repo.AssertNotCalled(t, "ExistsByUsername", mock.Anything, mock.Anything)
	})
}

func TestUserService_Update(t *testing.T) {
	repo := new(MockUserRepository)
	svc, revocations := createUserService(repo)
	user, err := identity.NewUser(uuid.Nil, "amy", "secret1", "Amy", identity.RoleNewService)
	require.NoError(t, err)
	issuedBefore := time.Now().Add(-time.Minute)

	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	name := "Amy Chen"
	role := identity.RoleService
	info, err := svc.Update(context.Background(), adminActor(), user.ID, UpdateUserInput{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Amy Chen", info.Name)
	assert.Equal(t, identity.RoleService, info.Role)

	cut, ok, err := revocations.StaffRevokedAt(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.True(t, ok, "a role change revokes earlier tokens")
	assert.True(t, cut.After(issuedBefore))
}

func TestUserService_Update_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := createUserService(repo)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.NotFound("user", id))

	name := "x"
	_, err := svc.Update(context.Background(), adminActor(), id, UpdateUserInput{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserService_Update_CannotDeactivateSelf(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := createUserService(repo)
	actor := adminActor()
	self, err := identity.NewUser(uuid.Nil, "admin", "secret1", "Admin", identity.RoleAdmin)
	require.NoError(t, err)
	self.ID = actor.ID
	repo.On("FindByID", mock.Anything, actor.ID).Return(self, nil)

	inactive := false
	_, err = svc.Update(context.Background(), actor, actor.ID, UpdateUserInput{IsActive: &inactive})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Delete(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := createUserService(repo)
	actor := adminActor()

	assert.ErrorIs(t, svc.Delete(context.Background(), actor, actor.ID), shared.ErrInvalidState)

	user, err := identity.NewUser(uuid.Nil, "amy", "secret1", "Amy", identity.RoleBar)
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Delete", mock.Anything, user.ID).Return(nil)
	require.NoError(t, svc.Delete(context.Background(), actor, user.ID))

	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), actor, missing), shared.ErrNotFound)
}

func TestUserService_List(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := createUserService(repo)
	role := identity.RoleBar
	u, err := identity.NewUser(uuid.Nil, "bob", "secret1", "Bob", role)
	require.NoError(t, err)

	want := identity.RosterFilter{Search: "bo", Role: &role, ActiveOnly: true}
	repo.On("FindAll", mock.Anything, want).Return([]*identity.User{u}, nil)

	list, err := svc.List(context.Background(), ListUsersInput{Keyword: "bo", Role: &role, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Username)
}
